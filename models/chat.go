package models

import "time"

// ChatMessage is a single turn in a chat conversation
type ChatMessage struct {
	// "user" or "assistant"
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// PipelineStats holds the dashboard aggregates derived from the document
// registry and task tracker
type PipelineStats struct {
	TotalDocuments int                    `json:"total_documents"`
	ByStatus       map[DocumentStatus]int `json:"by_status"`
	ByStep         map[PipelineStep]int   `json:"by_step"`

	PendingTasks    int `json:"pending_tasks"`
	InProgressTasks int `json:"in_progress_tasks"`
	CompletedToday  int `json:"completed_today"`

	PublishedThisWeek int `json:"published_this_week"`
}
