package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of an individual pipeline task
type TaskStatus string

const (
	TaskStatusPending          TaskStatus = "pending"
	TaskStatusInProgress       TaskStatus = "in_progress"
	TaskStatusCompleted        TaskStatus = "completed"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusRevisionRequired TaskStatus = "revision_required"
)

// PipelineTask is one (document, step) work assignment. Tasks are
// bookkeeping alongside the document's own status and never gate
// transitions; rows are kept as an append-only audit trail.
type PipelineTask struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`

	Step   PipelineStep `json:"step"`
	Status TaskStatus   `json:"status"`

	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	AssignedByID *uuid.UUID `json:"assigned_by_id,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Notes      *string `json:"notes,omitempty"`
	OutputData JSONMap `json:"output_data,omitempty"`

	RevisionCount      int     `json:"revision_count"`
	LastRevisionReason *string `json:"last_revision_reason,omitempty"`

	EstimatedTimeMinutes *int `json:"estimated_time_minutes,omitempty"`
	ActualTimeMinutes    *int `json:"actual_time_minutes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MyTasks partitions a user's tasks for the dashboard view
type MyTasks struct {
	Pending          []*PipelineTask `json:"pending"`
	InProgress       []*PipelineTask `json:"in_progress"`
	CompletedToday   []*PipelineTask `json:"completed_today"`
	RevisionRequired []*PipelineTask `json:"revision_required"`
}
