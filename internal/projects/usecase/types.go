package usecase

// ListProjectsRequest filters the collection by a case-sensitive title substring.
type ListProjectsRequest struct {
	Title string
}

// CreateProjectRequest carries the fields of a new project.
type CreateProjectRequest struct {
	Title string
	Owner string
}

// UpdateProjectRequest replaces title and owner of an existing project.
type UpdateProjectRequest struct {
	ProjectID string
	Title     string
	Owner     string
}

// DeleteProjectRequest identifies the project to remove.
type DeleteProjectRequest struct {
	ProjectID string
}
