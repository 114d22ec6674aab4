// Package memory holds the process-lifetime project collection. Nothing is
// written to disk; a restart starts from an empty collection.
package memory

import (
	"context"
	"strings"
	"sync"

	"projects-api/internal/projects/domain/model"
	"projects-api/internal/projects/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectStore)(nil)

// ProjectStore is an insertion-ordered slice of projects guarded by a mutex.
type ProjectStore struct {
	mu       sync.RWMutex
	projects []model.Project
}

// NewProjectStore creates an empty store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: []model.Project{}}
}

// List returns the projects whose title contains titleFilter (case-sensitive),
// or every project when titleFilter is empty.
func (s *ProjectStore) List(_ context.Context, titleFilter string) []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if titleFilter == "" || strings.Contains(p.Title, titleFilter) {
			results = append(results, p)
		}
	}
	return results
}

// Create appends a new project and returns it.
func (s *ProjectStore) Create(_ context.Context, title, owner string) model.Project {
	project := model.NewProject(title, owner)

	s.mu.Lock()
	s.projects = append(s.projects, project)
	s.mu.Unlock()

	return project
}

// Replace overwrites the project with id, keeping its position.
func (s *ProjectStore) Replace(_ context.Context, id, title, owner string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Project{}, model.ErrProjectNotFound
	}

	project := s.projects[idx].Replaced(title, owner)
	s.projects[idx] = project
	return project, nil
}

// Remove deletes the project with id and shifts later entries left.
func (s *ProjectStore) Remove(_ context.Context, id string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Project{}, model.ErrProjectNotFound
	}

	removed := s.projects[idx]
	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	return removed, nil
}

// Clear drops every project and returns how many there were.
func (s *ProjectStore) Clear(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.projects)
	s.projects = []model.Project{}
	return n
}

// Count returns the number of stored projects.
func (s *ProjectStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// indexOf returns the position of the first project with id, or -1.
// Callers must hold the lock.
func (s *ProjectStore) indexOf(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
