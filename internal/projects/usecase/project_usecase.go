package usecase

import (
	"context"
	"errors"
	"time"

	"projects-api/internal/projects/domain/model"
	"projects-api/internal/projects/domain/repository"
	apperrors "projects-api/internal/shared/errors"
	"projects-api/internal/shared/eventbus"
	"projects-api/internal/shared/logger"
	"projects-api/internal/shared/utils"
)

const eventSource = "projects.usecase"

// ProjectUsecase defines the project operations exposed to adapters
type ProjectUsecase interface {
	ListProjects(ctx context.Context, req ListProjectsRequest) []model.Project
	CreateProject(ctx context.Context, req CreateProjectRequest) model.Project
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (model.Project, error)
	DeleteProject(ctx context.Context, req DeleteProjectRequest) error
	DeleteAllProjects(ctx context.Context)
	CountProjects(ctx context.Context) int
}

// projectUsecase runs operations against the repository and publishes a
// change event after every successful mutation.
type projectUsecase struct {
	repo      repository.ProjectRepository
	publisher eventbus.Publisher
	logger    logger.Logger
}

// NewProjectUsecase wires the usecase. publisher may be nil, in which case no
// change events are emitted.
func NewProjectUsecase(repo repository.ProjectRepository, publisher eventbus.Publisher, log logger.Logger) ProjectUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &projectUsecase{
		repo:      repo,
		publisher: publisher,
		logger:    log.WithComponent("projects.usecase"),
	}
}

func (uc *projectUsecase) ListProjects(ctx context.Context, req ListProjectsRequest) []model.Project {
	projects := uc.repo.List(ctx, req.Title)
	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"title_filter": req.Title,
		"count":        len(projects),
	}).Debug("Listed projects")
	return projects
}

func (uc *projectUsecase) CreateProject(ctx context.Context, req CreateProjectRequest) model.Project {
	project := uc.repo.Create(ctx, req.Title, req.Owner)

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"project_id": project.ID,
	}).Info("Project created")

	uc.publish(ctx, model.EventTypeProjectCreated, &project)
	return project
}

func (uc *projectUsecase) UpdateProject(ctx context.Context, req UpdateProjectRequest) (model.Project, error) {
	project, err := uc.repo.Replace(ctx, req.ProjectID, req.Title, req.Owner)
	if err != nil {
		return model.Project{}, uc.translate(ctx, err, req.ProjectID)
	}

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"project_id": project.ID,
	}).Info("Project updated")

	uc.publish(ctx, model.EventTypeProjectUpdated, &project)
	return project, nil
}

func (uc *projectUsecase) DeleteProject(ctx context.Context, req DeleteProjectRequest) error {
	removed, err := uc.repo.Remove(ctx, req.ProjectID)
	if err != nil {
		return uc.translate(ctx, err, req.ProjectID)
	}

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"project_id": removed.ID,
	}).Info("Project deleted")

	uc.publish(ctx, model.EventTypeProjectDeleted, &removed)
	return nil
}

func (uc *projectUsecase) DeleteAllProjects(ctx context.Context) {
	count := uc.repo.Clear(ctx)

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"removed": count,
	}).Info("All projects deleted")

	uc.publish(ctx, model.EventTypeProjectsCleared, nil)
}

func (uc *projectUsecase) CountProjects(ctx context.Context) int {
	return uc.repo.Count(ctx)
}

// translate maps repository errors onto application errors.
func (uc *projectUsecase) translate(ctx context.Context, err error, projectID string) error {
	if errors.Is(err, model.ErrProjectNotFound) {
		uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
			"project_id": projectID,
		}).Debug("Project not found")
		return apperrors.NewProjectNotFoundError(err).WithComponent("projects.usecase")
	}
	return apperrors.WrapError(err, "project operation failed")
}

// publish emits a change event. Delivery failures are logged and never fail
// the mutation that already happened.
func (uc *projectUsecase) publish(ctx context.Context, eventType string, project *model.Project) {
	if uc.publisher == nil {
		return
	}
	change := model.ChangeEvent{
		Type:      eventType,
		Project:   project,
		Timestamp: time.Now().UTC(),
	}
	if requestID, err := utils.GetRequestIDFromContext(ctx); err == nil {
		change.RequestID = requestID
	}
	if err := uc.publisher.Publish(ctx, eventbus.NewBasicEventWithSource(eventType, change, eventSource)); err != nil {
		uc.logger.WithContext(ctx).Warnf("Failed to publish %s event: %v", eventType, err)
	}
}
