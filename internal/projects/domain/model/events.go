package model

import "time"

// Change event types published after each successful mutation
const (
	EventTypeProjectCreated  = "project.created"
	EventTypeProjectUpdated  = "project.updated"
	EventTypeProjectDeleted  = "project.deleted"
	EventTypeProjectsCleared = "projects.cleared"
)

// ChangeEvent is the payload carried by project change events. Project is nil
// for projects.cleared. RequestID names the HTTP request that caused the
// change, when there was one.
type ChangeEvent struct {
	Type      string    `json:"type"`
	Project   *Project  `json:"project,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
