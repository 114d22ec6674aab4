package model

import (
	"errors"

	"github.com/google/uuid"
)

// Project is the single record type managed by the service.
type Project struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Owner string `json:"owner"`
}

// ProjectInput carries the client-supplied fields for create and replace.
// Absent fields decode to empty strings and are stored as such.
type ProjectInput struct {
	Title string `json:"title"`
	Owner string `json:"owner"`
}

// NewProject assigns a fresh random id to a new project.
func NewProject(title, owner string) Project {
	return Project{
		ID:    uuid.NewString(),
		Title: title,
		Owner: owner,
	}
}

// Replaced returns a project with the same id and the given title and owner.
func (p Project) Replaced(title, owner string) Project {
	return Project{
		ID:    p.ID,
		Title: title,
		Owner: owner,
	}
}

var (
	ErrProjectNotFound = errors.New("project not found")
)
