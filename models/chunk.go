package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one ordered slice of a document's extracted text.
// Chunk indexes are contiguous and zero-based per document; the chunking
// step replaces a document's chunk set wholesale.
type DocumentChunk struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`

	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`

	StartPage  *int `json:"start_page,omitempty"`
	EndPage    *int `json:"end_page,omitempty"`
	TokenCount *int `json:"token_count,omitempty"`

	Heading     *string `json:"heading,omitempty"`
	SectionType *string `json:"section_type,omitempty"`

	ChunkMetadata JSONMap `json:"chunk_metadata,omitempty"`

	Summary *string `json:"summary,omitempty"`

	ProcessedByID *uuid.UUID `json:"processed_by_id,omitempty"`

	// Reserved for future search indexing
	IsEmbedded     bool    `json:"is_embedded"`
	EmbeddingModel *string `json:"embedding_model,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
