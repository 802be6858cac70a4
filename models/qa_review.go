package models

import (
	"time"

	"github.com/google/uuid"
)

// QAReview is an append-only record of one QA pass over a document.
// Reviews are never mutated after creation; a document accumulates one per
// revision cycle.
type QAReview struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`

	// initial, revision, final
	ReviewType string `json:"review_type"`

	// 1-5 scale
	AccuracyScore     *int `json:"accuracy_score,omitempty"`
	CompletenessScore *int `json:"completeness_score,omitempty"`
	FormattingScore   *int `json:"formatting_score,omitempty"`
	OverallScore      *int `json:"overall_score,omitempty"`

	IsApproved      bool    `json:"is_approved"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	Comments        *string `json:"comments,omitempty"`

	// Feedback keyed by upstream step name
	StepFeedback StringMap `json:"step_feedback,omitempty"`
	Checklist    BoolMap   `json:"checklist,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
