package repository

import (
	"context"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QAReviewRepository handles database operations for QA reviews
type QAReviewRepository struct {
	db *pgxpool.Pool
}

// NewQAReviewRepository creates a new QA review repository
func NewQAReviewRepository(db *pgxpool.Pool) *QAReviewRepository {
	return &QAReviewRepository{db: db}
}

// Create appends a QA review. Reviews are never updated or deleted.
func (r *QAReviewRepository) Create(ctx context.Context, review *models.QAReview) error {
	query := `
		INSERT INTO qa_reviews (
			document_id, reviewer_id, review_type, accuracy_score,
			completeness_score, formatting_score, overall_score, is_approved,
			rejection_reason, comments, step_feedback, checklist
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		review.DocumentID,
		review.ReviewerID,
		review.ReviewType,
		review.AccuracyScore,
		review.CompletenessScore,
		review.FormattingScore,
		review.OverallScore,
		review.IsApproved,
		review.RejectionReason,
		review.Comments,
		review.StepFeedback,
		review.Checklist,
	).Scan(&review.ID, &review.CreatedAt)
}

// ListByDocumentID retrieves a document's QA reviews, newest first
func (r *QAReviewRepository) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.QAReview, error) {
	query := `
		SELECT id, document_id, reviewer_id, review_type, accuracy_score,
			completeness_score, formatting_score, overall_score, is_approved,
			rejection_reason, comments, step_feedback, checklist, created_at
		FROM qa_reviews
		WHERE document_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.QAReview
	for rows.Next() {
		review := &models.QAReview{}
		err := rows.Scan(
			&review.ID,
			&review.DocumentID,
			&review.ReviewerID,
			&review.ReviewType,
			&review.AccuracyScore,
			&review.CompletenessScore,
			&review.FormattingScore,
			&review.OverallScore,
			&review.IsApproved,
			&review.RejectionReason,
			&review.Comments,
			&review.StepFeedback,
			&review.Checklist,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
