package repository

import (
	"context"

	"projects-api/internal/projects/domain/model"
)

// ProjectRepository is the ordered project collection. Implementations keep
// insertion order, compare ids by exact string equality and return copies,
// never references into their own storage.
type ProjectRepository interface {
	// List returns projects whose title contains titleFilter, or all projects
	// when titleFilter is empty. The result is never nil.
	List(ctx context.Context, titleFilter string) []model.Project
	// Create appends a new project with a fresh id.
	Create(ctx context.Context, title, owner string) model.Project
	// Replace overwrites title and owner in place. Returns model.ErrProjectNotFound
	// and leaves the collection untouched when id is unknown.
	Replace(ctx context.Context, id, title, owner string) (model.Project, error)
	// Remove deletes the project with id. Returns model.ErrProjectNotFound when
	// id is unknown.
	Remove(ctx context.Context, id string) (model.Project, error)
	// Clear removes every project and returns the number removed.
	Clear(ctx context.Context) int
	// Count returns the number of stored projects.
	Count(ctx context.Context) int
}
