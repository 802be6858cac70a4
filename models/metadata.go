package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentMetadata carries legal-specific metadata for a document, one row
// per document. The metadata step writes the case fields; the summarization
// step later writes Summary and KeyPoints onto the same row.
type DocumentMetadata struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`

	// Case identification
	CaseNumber *string `json:"case_number,omitempty"`
	CourtName  *string `json:"court_name,omitempty"`
	Bench      *string `json:"bench,omitempty"`
	Parties    *string `json:"parties,omitempty"`

	// Citations
	Citation          *string `json:"citation,omitempty"`
	ParallelCitations *string `json:"parallel_citations,omitempty"`

	// Classification
	LegalTopics      StringList `json:"legal_topics,omitempty"`
	ActsReferred     StringList `json:"acts_referred,omitempty"`
	SectionsReferred StringList `json:"sections_referred,omitempty"`

	// Key legal content
	Headnotes      *string `json:"headnotes,omitempty"`
	RatioDecidendi *string `json:"ratio_decidendi,omitempty"`
	ObiterDicta    *string `json:"obiter_dicta,omitempty"`

	// Written by the summarization step
	Summary   *string    `json:"summary,omitempty"`
	KeyPoints StringList `json:"key_points,omitempty"`

	ProcessedByID *uuid.UUID `json:"processed_by_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
