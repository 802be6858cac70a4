package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtractedText holds the text pulled out of a document, one row per document
type ExtractedText struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`

	RawText     string  `json:"raw_text"`
	CleanedText *string `json:"cleaned_text,omitempty"`

	// ocr, direct, hybrid
	ExtractionMethod *string  `json:"extraction_method,omitempty"`
	ConfidenceScore  *float64 `json:"confidence_score,omitempty"`

	ProcessedByID *uuid.UUID `json:"processed_by_id,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
