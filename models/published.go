package models

import (
	"time"

	"github.com/google/uuid"
)

// PublishedDocument is the publication record for a document, one row per
// document. Re-publishing bumps the version counter.
type PublishedDocument struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`

	Version  int  `json:"version"`
	IsActive bool `json:"is_active"`

	PublishedByID uuid.UUID `json:"published_by_id"`
	PublishedAt   time.Time `json:"published_at"`

	// Search optimization
	SearchKeywords StringList `json:"search_keywords,omitempty"`
	SearchWeight   float64    `json:"search_weight"`

	ViewCount     int `json:"view_count"`
	DownloadCount int `json:"download_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
