package repository

import (
	"context"
	"time"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepository handles database operations for pipeline tasks
type TaskRepository struct {
	db *pgxpool.Pool
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, document_id, step, status, assigned_to_id, assigned_at,
	assigned_by_id, started_at, completed_at, notes, output_data,
	revision_count, last_revision_reason, estimated_time_minutes,
	actual_time_minutes, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.PipelineTask, error) {
	task := &models.PipelineTask{}
	err := row.Scan(
		&task.ID,
		&task.DocumentID,
		&task.Step,
		&task.Status,
		&task.AssignedToID,
		&task.AssignedAt,
		&task.AssignedByID,
		&task.StartedAt,
		&task.CompletedAt,
		&task.Notes,
		&task.OutputData,
		&task.RevisionCount,
		&task.LastRevisionReason,
		&task.EstimatedTimeMinutes,
		&task.ActualTimeMinutes,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*models.PipelineTask, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.PipelineTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// Create creates a new pipeline task
func (r *TaskRepository) Create(ctx context.Context, task *models.PipelineTask) error {
	query := `
		INSERT INTO pipeline_tasks (
			document_id, step, status, assigned_to_id, assigned_at, assigned_by_id,
			started_at, completed_at, notes, output_data, estimated_time_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		task.DocumentID,
		task.Step,
		task.Status,
		task.AssignedToID,
		task.AssignedAt,
		task.AssignedByID,
		task.StartedAt,
		task.CompletedAt,
		task.Notes,
		task.OutputData,
		task.EstimatedTimeMinutes,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PipelineTask, error) {
	query := `SELECT ` + taskColumns + ` FROM pipeline_tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

// GetByDocumentAndStep retrieves the task for a (document, step) pair
func (r *TaskRepository) GetByDocumentAndStep(ctx context.Context, documentID uuid.UUID, step models.PipelineStep) (*models.PipelineTask, error) {
	query := `SELECT ` + taskColumns + ` FROM pipeline_tasks
		WHERE document_id = $1 AND step = $2
		ORDER BY created_at DESC
		LIMIT 1`
	return scanTask(r.db.QueryRow(ctx, query, documentID, step))
}

// Update updates a task. Assignment writes are last-write-wins; task
// assignment is advisory, not a lock.
func (r *TaskRepository) Update(ctx context.Context, task *models.PipelineTask) error {
	query := `
		UPDATE pipeline_tasks SET
			status = $2,
			assigned_to_id = $3,
			assigned_at = $4,
			assigned_by_id = $5,
			started_at = $6,
			completed_at = $7,
			notes = $8,
			output_data = $9,
			revision_count = $10,
			last_revision_reason = $11,
			estimated_time_minutes = $12,
			actual_time_minutes = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRow(
		ctx, query,
		task.ID,
		task.Status,
		task.AssignedToID,
		task.AssignedAt,
		task.AssignedByID,
		task.StartedAt,
		task.CompletedAt,
		task.Notes,
		task.OutputData,
		task.RevisionCount,
		task.LastRevisionReason,
		task.EstimatedTimeMinutes,
		task.ActualTimeMinutes,
	).Scan(&task.UpdatedAt)
}

// ListByAssigneeAndStatus retrieves a user's tasks with the given status
func (r *TaskRepository) ListByAssigneeAndStatus(ctx context.Context, userID uuid.UUID, status models.TaskStatus) ([]*models.PipelineTask, error) {
	query := `SELECT ` + taskColumns + ` FROM pipeline_tasks
		WHERE assigned_to_id = $1 AND status = $2
		ORDER BY created_at`
	return r.queryTasks(ctx, query, userID, status)
}

// ListCompletedSince retrieves a user's tasks completed at or after since
func (r *TaskRepository) ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.PipelineTask, error) {
	query := `SELECT ` + taskColumns + ` FROM pipeline_tasks
		WHERE assigned_to_id = $1 AND status = $2 AND completed_at >= $3
		ORDER BY completed_at DESC`
	return r.queryTasks(ctx, query, userID, models.TaskStatusCompleted, since)
}

// ListAvailable retrieves unassigned pending tasks, optionally filtered by step
func (r *TaskRepository) ListAvailable(ctx context.Context, step *models.PipelineStep) ([]*models.PipelineTask, error) {
	if step != nil {
		query := `SELECT ` + taskColumns + ` FROM pipeline_tasks
			WHERE status = $1 AND assigned_to_id IS NULL AND step = $2
			ORDER BY created_at`
		return r.queryTasks(ctx, query, models.TaskStatusPending, *step)
	}

	query := `SELECT ` + taskColumns + ` FROM pipeline_tasks
		WHERE status = $1 AND assigned_to_id IS NULL
		ORDER BY created_at`
	return r.queryTasks(ctx, query, models.TaskStatusPending)
}

// CountByStatus returns the number of tasks with the given status
func (r *TaskRepository) CountByStatus(ctx context.Context, status models.TaskStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(id) FROM pipeline_tasks WHERE status = $1`, status,
	).Scan(&count)
	return count, err
}

// CountCompletedSince returns the number of tasks completed at or after since
func (r *TaskRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(id) FROM pipeline_tasks WHERE status = $1 AND completed_at >= $2`,
		models.TaskStatusCompleted, since,
	).Scan(&count)
	return count, err
}
