package service

import (
	"context"
	"time"

	"legaldocs-backend/models"
	"legaldocs-backend/repository"

	"github.com/google/uuid"
)

// Persistence interfaces consumed by the services. The concrete pgx
// repositories satisfy them; tests substitute in-memory fakes.

// DocumentStore persists documents
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	List(ctx context.Context, filter repository.DocumentFilter) ([]*models.Document, int, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[models.DocumentStatus]int, error)
	CountByStep(ctx context.Context) (map[models.PipelineStep]int, error)
}

// ExtractedTextStore persists extraction results
type ExtractedTextStore interface {
	Upsert(ctx context.Context, et *models.ExtractedText) error
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.ExtractedText, error)
}

// ChunkStore persists document chunks
type ChunkStore interface {
	Replace(ctx context.Context, documentID uuid.UUID, chunks []*models.DocumentChunk) error
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.DocumentChunk, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentChunk, error)
	Update(ctx context.Context, chunk *models.DocumentChunk) error
}

// MetadataStore persists structured legal metadata
type MetadataStore interface {
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.DocumentMetadata, error)
	Upsert(ctx context.Context, md *models.DocumentMetadata) error
	SaveSummary(ctx context.Context, md *models.DocumentMetadata) error
}

// TaskStore persists pipeline tasks
type TaskStore interface {
	Create(ctx context.Context, task *models.PipelineTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PipelineTask, error)
	GetByDocumentAndStep(ctx context.Context, documentID uuid.UUID, step models.PipelineStep) (*models.PipelineTask, error)
	Update(ctx context.Context, task *models.PipelineTask) error
	ListByAssigneeAndStatus(ctx context.Context, userID uuid.UUID, status models.TaskStatus) ([]*models.PipelineTask, error)
	ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.PipelineTask, error)
	ListAvailable(ctx context.Context, step *models.PipelineStep) ([]*models.PipelineTask, error)
	CountByStatus(ctx context.Context, status models.TaskStatus) (int, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int, error)
}

// QAReviewStore persists quality assurance reviews
type QAReviewStore interface {
	Create(ctx context.Context, review *models.QAReview) error
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.QAReview, error)
}

// PublishedStore persists publication records
type PublishedStore interface {
	Upsert(ctx context.Context, pub *models.PublishedDocument) error
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*models.PublishedDocument, error)
	CountPublishedSince(ctx context.Context, since time.Time) (int, error)
}

// UserStore persists users and their role profiles
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	CreateLawyerProfile(ctx context.Context, profile *models.LawyerProfile) error
	CreateFirmProfile(ctx context.Context, profile *models.FirmProfile) error
}
