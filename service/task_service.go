package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrTaskNotFound is returned when a task does not exist
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskAlreadyAssigned is returned when picking up a claimed task
	ErrTaskAlreadyAssigned = errors.New("task is already assigned")
	// ErrInvalidTaskStatus is returned when an action does not fit the
	// task's lifecycle position
	ErrInvalidTaskStatus = errors.New("invalid task status for this action")
)

// TaskService handles business logic for pipeline task tracking
type TaskService struct {
	tasks  TaskStore
	logger *zap.Logger
}

// TaskServiceOption is a functional option for TaskService
type TaskServiceOption func(*TaskService)

// WithTaskServiceStore sets the task store
func WithTaskServiceStore(s TaskStore) TaskServiceOption {
	return func(t *TaskService) { t.tasks = s }
}

// WithTaskLogger sets the logger
func WithTaskLogger(l *zap.Logger) TaskServiceOption {
	return func(t *TaskService) { t.logger = l }
}

// NewTaskService creates a new task service
func NewTaskService(opts ...TaskServiceOption) *TaskService {
	t := &TaskService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MyTasks partitions the user's tasks for the dashboard. The completed
// bucket covers the caller's current day, from local midnight.
func (t *TaskService) MyTasks(ctx context.Context, userID uuid.UUID) (*models.MyTasks, error) {
	pending, err := t.tasks.ListByAssigneeAndStatus(ctx, userID, models.TaskStatusPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := t.tasks.ListByAssigneeAndStatus(ctx, userID, models.TaskStatusInProgress)
	if err != nil {
		return nil, err
	}
	revision, err := t.tasks.ListByAssigneeAndStatus(ctx, userID, models.TaskStatusRevisionRequired)
	if err != nil {
		return nil, err
	}
	completedToday, err := t.tasks.ListCompletedSince(ctx, userID, startOfDay(time.Now()))
	if err != nil {
		return nil, err
	}

	return &models.MyTasks{
		Pending:          pending,
		InProgress:       inProgress,
		CompletedToday:   completedToday,
		RevisionRequired: revision,
	}, nil
}

func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// AvailableTasks lists unclaimed pending tasks, optionally filtered by step
func (t *TaskService) AvailableTasks(ctx context.Context, step *models.PipelineStep) ([]*models.PipelineTask, error) {
	return t.tasks.ListAvailable(ctx, step)
}

// GetTask retrieves a task by ID
func (t *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*models.PipelineTask, error) {
	task, err := t.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return task, nil
}

// Pickup claims a pending or revision_required task for the caller. A task
// that is in progress or finished cannot be claimed. A task already claimed by someone
// else is rejected here; below this check assignment stays advisory and the
// last write wins.
func (t *TaskService) Pickup(ctx context.Context, taskID, userID uuid.UUID) (*models.PipelineTask, error) {
	task, err := t.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	if task.Status != models.TaskStatusPending && task.Status != models.TaskStatusRevisionRequired {
		return nil, fmt.Errorf("%w: cannot pick up a %s task", ErrInvalidTaskStatus, task.Status)
	}
	if task.AssignedToID != nil && *task.AssignedToID != userID {
		return nil, ErrTaskAlreadyAssigned
	}

	now := time.Now().UTC()
	task.AssignedToID = &userID
	task.AssignedAt = &now
	if err := t.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	t.logger.Info("task picked up",
		zap.String("task_id", task.ID.String()),
		zap.String("user_id", userID.String()))
	return task, nil
}

// Assign hands the task to another user regardless of current assignment
func (t *TaskService) Assign(ctx context.Context, taskID, assigneeID, assignedByID uuid.UUID) (*models.PipelineTask, error) {
	task, err := t.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	now := time.Now().UTC()
	task.AssignedToID = &assigneeID
	task.AssignedAt = &now
	task.AssignedByID = &assignedByID
	if err := t.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Start moves a pending or revision_required task to in_progress
func (t *TaskService) Start(ctx context.Context, taskID, userID uuid.UUID) (*models.PipelineTask, error) {
	task, err := t.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	if task.Status != models.TaskStatusPending && task.Status != models.TaskStatusRevisionRequired {
		return nil, fmt.Errorf("%w: cannot start a %s task", ErrInvalidTaskStatus, task.Status)
	}

	now := time.Now().UTC()
	task.Status = models.TaskStatusInProgress
	task.StartedAt = &now
	if task.AssignedToID == nil {
		task.AssignedToID = &userID
		task.AssignedAt = &now
	}
	if err := t.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTaskRequest represents a request to finish a task
type CompleteTaskRequest struct {
	TaskID     uuid.UUID
	Notes      *string
	OutputData models.JSONMap
	UserID     uuid.UUID
}

// Complete finishes an in_progress task and queues the next step's pending
// task for the same document, unless one already exists.
func (t *TaskService) Complete(ctx context.Context, req CompleteTaskRequest) (*models.PipelineTask, error) {
	task, err := t.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	if task.Status != models.TaskStatusInProgress {
		return nil, fmt.Errorf("%w: cannot complete a %s task", ErrInvalidTaskStatus, task.Status)
	}

	now := time.Now().UTC()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now
	if req.Notes != nil {
		task.Notes = req.Notes
	}
	if req.OutputData != nil {
		task.OutputData = req.OutputData
	}
	if task.StartedAt != nil {
		minutes := int(now.Sub(*task.StartedAt).Minutes())
		task.ActualTimeMinutes = &minutes
	}
	if err := t.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	t.queueNextStep(ctx, task)

	return task, nil
}

// queueNextStep creates the pending task for the document's next pipeline
// step. Tasks are bookkeeping, so a failure here is logged, not surfaced.
func (t *TaskService) queueNextStep(ctx context.Context, task *models.PipelineTask) {
	next, ok := models.NextStep(task.Step)
	if !ok {
		return
	}
	if existing, err := t.tasks.GetByDocumentAndStep(ctx, task.DocumentID, next); err == nil && existing != nil {
		return
	}

	nextTask := &models.PipelineTask{
		DocumentID: task.DocumentID,
		Step:       next,
		Status:     models.TaskStatusPending,
	}
	if err := t.tasks.Create(ctx, nextTask); err != nil {
		t.logger.Warn("queueing next step task",
			zap.String("document_id", task.DocumentID.String()),
			zap.String("step", string(next)),
			zap.Error(err))
	}
}

// RequestRevision sends a completed or in_progress task back for rework
func (t *TaskService) RequestRevision(ctx context.Context, taskID uuid.UUID, reason string) (*models.PipelineTask, error) {
	task, err := t.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	task.Status = models.TaskStatusRevisionRequired
	task.RevisionCount++
	task.LastRevisionReason = &reason
	if err := t.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
