package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"projects-api/internal/projects/adapter/persistence/memory"
	"projects-api/internal/projects/domain/model"
	apperrors "projects-api/internal/shared/errors"
	"projects-api/internal/shared/eventbus"
	"projects-api/internal/shared/logger"
	"projects-api/internal/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingPublisher captures published events
type recordingPublisher struct {
	events []eventbus.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type())
	}
	return out
}

func newTestUsecase() (ProjectUsecase, *memory.ProjectStore, *recordingPublisher) {
	store := memory.NewProjectStore()
	pub := &recordingPublisher{}
	return NewProjectUsecase(store, pub, nil), store, pub
}

func TestProjectUsecase_CreateAndList(t *testing.T) {
	ctx := context.Background()
	uc, _, pub := newTestUsecase()

	created := uc.CreateProject(ctx, CreateProjectRequest{Title: "React", Owner: "Alice"})
	assert.True(t, model.IsValidID(created.ID))

	list := uc.ListProjects(ctx, ListProjectsRequest{Title: "Rea"})
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])

	require.Len(t, pub.events, 1)
	change, ok := pub.events[0].Data().(model.ChangeEvent)
	require.True(t, ok)
	assert.Equal(t, model.EventTypeProjectCreated, change.Type)
	assert.Equal(t, created, *change.Project)
	assert.Equal(t, "projects.usecase", pub.events[0].Source())
	assert.Empty(t, change.RequestID)
}

func TestProjectUsecase_EventsCarryRequestID(t *testing.T) {
	uc, _, pub := newTestUsecase()
	ctx := utils.WithRequestID(context.Background(), "req-42")

	uc.CreateProject(ctx, CreateProjectRequest{Title: "React"})
	uc.DeleteAllProjects(ctx)

	require.Len(t, pub.events, 2)
	for _, e := range pub.events {
		assert.Equal(t, "req-42", e.Data().(model.ChangeEvent).RequestID)
	}
}

func TestProjectUsecase_UpdateProject(t *testing.T) {
	ctx := context.Background()
	uc, _, pub := newTestUsecase()
	created := uc.CreateProject(ctx, CreateProjectRequest{Title: "React", Owner: "Alice"})

	updated, err := uc.UpdateProject(ctx, UpdateProjectRequest{ProjectID: created.ID, Title: "Vue", Owner: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Vue", updated.Title)
	assert.Equal(t, []string{model.EventTypeProjectCreated, model.EventTypeProjectUpdated}, pub.types())
}

func TestProjectUsecase_UpdateUnknown(t *testing.T) {
	ctx := context.Background()
	uc, store, pub := newTestUsecase()

	_, err := uc.UpdateProject(ctx, UpdateProjectRequest{ProjectID: model.NewProject("", "").ID})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Equal(t, apperrors.MsgProjectNotFound, appErr.Message)
	assert.ErrorIs(t, err, model.ErrProjectNotFound)
	assert.Equal(t, 0, store.Count(ctx))
	assert.Empty(t, pub.events)
}

func TestProjectUsecase_DeleteProject(t *testing.T) {
	ctx := context.Background()
	uc, store, pub := newTestUsecase()
	a := uc.CreateProject(ctx, CreateProjectRequest{Title: "A"})
	b := uc.CreateProject(ctx, CreateProjectRequest{Title: "B"})

	require.NoError(t, uc.DeleteProject(ctx, DeleteProjectRequest{ProjectID: a.ID}))
	assert.Equal(t, []model.Project{b}, store.List(ctx, ""))

	err := uc.DeleteProject(ctx, DeleteProjectRequest{ProjectID: a.ID})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, model.EventTypeProjectDeleted, pub.types()[2])
	assert.Len(t, pub.events, 3)
}

func TestProjectUsecase_DeleteAll(t *testing.T) {
	ctx := context.Background()
	uc, _, pub := newTestUsecase()
	uc.CreateProject(ctx, CreateProjectRequest{Title: "A"})
	uc.CreateProject(ctx, CreateProjectRequest{Title: "B"})

	uc.DeleteAllProjects(ctx)
	assert.Equal(t, 0, uc.CountProjects(ctx))

	last := pub.events[len(pub.events)-1].Data().(model.ChangeEvent)
	assert.Equal(t, model.EventTypeProjectsCleared, last.Type)
	assert.Nil(t, last.Project)
}

// staleCountStore reports a count that never matches the store contents.
type staleCountStore struct {
	*memory.ProjectStore
}

func (staleCountStore) Count(context.Context) int { return -1 }

func TestProjectUsecase_DeleteAllLogsRemovedCount(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	store := staleCountStore{memory.NewProjectStore()}
	uc := NewProjectUsecase(store, nil, logger.NewZapLoggerFrom(zap.New(core)))

	uc.CreateProject(ctx, CreateProjectRequest{Title: "A"})
	uc.CreateProject(ctx, CreateProjectRequest{Title: "B"})
	uc.DeleteAllProjects(ctx)

	entries := logs.FilterMessage("All projects deleted").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["removed"])
	assert.Empty(t, store.List(ctx, ""))
}

func TestProjectUsecase_PublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProjectStore()
	pub := &recordingPublisher{err: errors.New("bus down")}
	uc := NewProjectUsecase(store, pub, nil)

	created := uc.CreateProject(ctx, CreateProjectRequest{Title: "A", Owner: "B"})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, store.Count(ctx))
}

func TestProjectUsecase_NilPublisher(t *testing.T) {
	ctx := context.Background()
	uc := NewProjectUsecase(memory.NewProjectStore(), nil, nil)
	p := uc.CreateProject(ctx, CreateProjectRequest{Title: "A"})
	_, err := uc.UpdateProject(ctx, UpdateProjectRequest{ProjectID: p.ID, Title: "B"})
	assert.NoError(t, err)
}

func TestProjectUsecase_ThroughEventBus(t *testing.T) {
	ctx := context.Background()
	bus := eventbus.NewEventBus(nil)
	var seen []string
	bus.SubscribeAll(func(ctx context.Context, event eventbus.Event) error {
		seen = append(seen, event.Type())
		return nil
	})
	uc := NewProjectUsecase(memory.NewProjectStore(), bus, nil)

	p := uc.CreateProject(ctx, CreateProjectRequest{Title: "A"})
	require.NoError(t, uc.DeleteProject(ctx, DeleteProjectRequest{ProjectID: p.ID}))
	uc.DeleteAllProjects(ctx)

	assert.Equal(t, []string{
		model.EventTypeProjectCreated,
		model.EventTypeProjectDeleted,
		model.EventTypeProjectsCleared,
	}, seen)
}
