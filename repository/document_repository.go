package repository

import (
	"context"
	"fmt"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, original_filename, storage_path, file_type, file_size, file_hash,
	current_step, status, title, description, category, subcategory, jurisdiction,
	year, language, page_count, word_count, chunk_count, priority,
	created_at, updated_at, published_at, uploaded_by_id`

func scanDocument(row interface{ Scan(...interface{}) error }) (*models.Document, error) {
	doc := &models.Document{}
	err := row.Scan(
		&doc.ID,
		&doc.OriginalFilename,
		&doc.StoragePath,
		&doc.FileType,
		&doc.FileSize,
		&doc.FileHash,
		&doc.CurrentStep,
		&doc.Status,
		&doc.Title,
		&doc.Description,
		&doc.Category,
		&doc.Subcategory,
		&doc.Jurisdiction,
		&doc.Year,
		&doc.Language,
		&doc.PageCount,
		&doc.WordCount,
		&doc.ChunkCount,
		&doc.Priority,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.PublishedAt,
		&doc.UploadedByID,
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Create creates a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			original_filename, storage_path, file_type, file_size, file_hash,
			current_step, status, title, description, category, subcategory,
			jurisdiction, year, language, page_count, word_count, chunk_count,
			priority, uploaded_by_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.OriginalFilename,
		doc.StoragePath,
		doc.FileType,
		doc.FileSize,
		doc.FileHash,
		doc.CurrentStep,
		doc.Status,
		doc.Title,
		doc.Description,
		doc.Category,
		doc.Subcategory,
		doc.Jurisdiction,
		doc.Year,
		doc.Language,
		doc.PageCount,
		doc.WordCount,
		doc.ChunkCount,
		doc.Priority,
		doc.UploadedByID,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	return err
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRow(ctx, query, id))
}

// DocumentFilter narrows a document listing to a step queue or category
type DocumentFilter struct {
	Status   *models.DocumentStatus
	Step     *models.PipelineStep
	Category *string
	Page     int
	PageSize int
}

// List retrieves documents matching the filter, ordered by priority then
// recency, with the total count for pagination
func (r *DocumentRepository) List(ctx context.Context, filter DocumentFilter) ([]*models.Document, int, error) {
	where := ""
	args := []interface{}{}
	argIndex := 1

	addClause := func(clause string, value interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.Status != nil {
		addClause("status = $%d", *filter.Status)
	}
	if filter.Step != nil {
		addClause("current_step = $%d", *filter.Step)
	}
	if filter.Category != nil {
		addClause("category = $%d", *filter.Category)
	}

	var total int
	countQuery := "SELECT COUNT(id) FROM documents" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + documentColumns + ` FROM documents` + where +
		` ORDER BY priority DESC, created_at DESC`

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		documents = append(documents, doc)
	}

	return documents, total, rows.Err()
}

// Update updates a document
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents SET
			current_step = $2,
			status = $3,
			title = $4,
			description = $5,
			category = $6,
			subcategory = $7,
			jurisdiction = $8,
			year = $9,
			language = $10,
			page_count = $11,
			word_count = $12,
			chunk_count = $13,
			priority = $14,
			published_at = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.ID,
		doc.CurrentStep,
		doc.Status,
		doc.Title,
		doc.Description,
		doc.Category,
		doc.Subcategory,
		doc.Jurisdiction,
		doc.Year,
		doc.Language,
		doc.PageCount,
		doc.WordCount,
		doc.ChunkCount,
		doc.Priority,
		doc.PublishedAt,
	).Scan(&doc.UpdatedAt)

	return err
}

// Delete deletes a document; dependent rows cascade via foreign keys
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// Count returns the total number of documents
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(id) FROM documents`).Scan(&total)
	return total, err
}

// CountByStatus returns document counts bucketed by status
func (r *DocumentRepository) CountByStatus(ctx context.Context) (map[models.DocumentStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(id) FROM documents GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.DocumentStatus]int)
	for rows.Next() {
		var status models.DocumentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// CountByStep returns document counts bucketed by current step
func (r *DocumentRepository) CountByStep(ctx context.Context) (map[models.PipelineStep]int, error) {
	rows, err := r.db.Query(ctx, `SELECT current_step, COUNT(id) FROM documents GROUP BY current_step`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.PipelineStep]int)
	for rows.Next() {
		var step models.PipelineStep
		var count int
		if err := rows.Scan(&step, &count); err != nil {
			return nil, err
		}
		counts[step] = count
	}

	return counts, rows.Err()
}
