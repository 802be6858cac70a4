package service

import (
	"context"
	"testing"
	"time"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskFixture() (*TaskService, *fakeTaskStore) {
	store := newFakeTaskStore()
	svc := NewTaskService(WithTaskServiceStore(store))
	return svc, store
}

func seedTask(t *testing.T, store *fakeTaskStore, step models.PipelineStep, status models.TaskStatus) *models.PipelineTask {
	t.Helper()
	task := &models.PipelineTask{
		DocumentID: uuid.New(),
		Step:       step,
		Status:     status,
	}
	require.NoError(t, store.Create(context.Background(), task))
	return task
}

func TestPickupClaimsUnassignedTask(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepChunking, models.TaskStatusPending)
	userID := uuid.New()

	claimed, err := svc.Pickup(context.Background(), task.ID, userID)
	require.NoError(t, err)

	require.NotNil(t, claimed.AssignedToID)
	assert.Equal(t, userID, *claimed.AssignedToID)
	assert.NotNil(t, claimed.AssignedAt)
	assert.Equal(t, models.TaskStatusPending, claimed.Status)
}

func TestPickupRejectsClaimedTask(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepChunking, models.TaskStatusPending)

	_, err := svc.Pickup(context.Background(), task.ID, uuid.New())
	require.NoError(t, err)

	_, err = svc.Pickup(context.Background(), task.ID, uuid.New())
	assert.ErrorIs(t, err, ErrTaskAlreadyAssigned)
}

func TestPickupIsIdempotentForOwner(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepChunking, models.TaskStatusPending)
	userID := uuid.New()

	_, err := svc.Pickup(context.Background(), task.ID, userID)
	require.NoError(t, err)

	again, err := svc.Pickup(context.Background(), task.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, *again.AssignedToID)
}

func TestPickupRejectsFinishedTask(t *testing.T) {
	svc, store := newTaskFixture()
	completed := seedTask(t, store, models.StepChunking, models.TaskStatusCompleted)
	inProgress := seedTask(t, store, models.StepChunking, models.TaskStatusInProgress)

	_, err := svc.Pickup(context.Background(), completed.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	_, err = svc.Pickup(context.Background(), inProgress.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)

	// Neither task was re-stamped.
	got, err := store.GetByID(context.Background(), completed.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedAt)
}

func TestPickupAllowsRevisionRequiredTask(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepChunking, models.TaskStatusRevisionRequired)
	userID := uuid.New()

	claimed, err := svc.Pickup(context.Background(), task.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, *claimed.AssignedToID)
	assert.Equal(t, models.TaskStatusRevisionRequired, claimed.Status)
}

func TestAssignOverridesExistingAssignee(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepMetadata, models.TaskStatusPending)
	adminID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	_, err := svc.Assign(context.Background(), task.ID, firstID, adminID)
	require.NoError(t, err)

	reassigned, err := svc.Assign(context.Background(), task.ID, secondID, adminID)
	require.NoError(t, err)

	assert.Equal(t, secondID, *reassigned.AssignedToID)
	assert.Equal(t, adminID, *reassigned.AssignedByID)
}

func TestStartLifecycle(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepSummarization, models.TaskStatusPending)
	userID := uuid.New()

	started, err := svc.Start(context.Background(), task.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusInProgress, started.Status)
	assert.NotNil(t, started.StartedAt)
	// Starting an unassigned task self-assigns
	require.NotNil(t, started.AssignedToID)
	assert.Equal(t, userID, *started.AssignedToID)

	// A running task cannot be started again
	_, err = svc.Start(context.Background(), task.ID, userID)
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestCompleteRequiresInProgress(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepChunking, models.TaskStatusPending)

	_, err := svc.Complete(context.Background(), CompleteTaskRequest{
		TaskID: task.ID,
		UserID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestCompleteQueuesNextStepTask(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepChunking, models.TaskStatusPending)
	userID := uuid.New()

	_, err := svc.Start(context.Background(), task.ID, userID)
	require.NoError(t, err)

	notes := "done"
	completed, err := svc.Complete(context.Background(), CompleteTaskRequest{
		TaskID:     task.ID,
		Notes:      &notes,
		OutputData: models.JSONMap{"chunk_count": 4},
		UserID:     userID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.NotNil(t, completed.ActualTimeMinutes)

	next, err := store.GetByDocumentAndStep(context.Background(), task.DocumentID, models.StepMetadata)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, next.Status)
	assert.Nil(t, next.AssignedToID)
}

func TestCompleteSkipsExistingNextTask(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepChunking, models.TaskStatusPending)
	userID := uuid.New()

	existing := &models.PipelineTask{
		DocumentID: task.DocumentID,
		Step:       models.StepMetadata,
		Status:     models.TaskStatusInProgress,
	}
	require.NoError(t, store.Create(context.Background(), existing))

	_, err := svc.Start(context.Background(), task.ID, userID)
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), CompleteTaskRequest{TaskID: task.ID, UserID: userID})
	require.NoError(t, err)

	// The in-flight metadata task is untouched
	next, err := store.GetByDocumentAndStep(context.Background(), task.DocumentID, models.StepMetadata)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, next.ID)
	assert.Equal(t, models.TaskStatusInProgress, next.Status)
}

func TestCompleteFinalStepQueuesNothing(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepPublish, models.TaskStatusPending)
	userID := uuid.New()

	_, err := svc.Start(context.Background(), task.ID, userID)
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), CompleteTaskRequest{TaskID: task.ID, UserID: userID})
	require.NoError(t, err)

	count := 0
	for range store.tasks {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestRequestRevisionRestartsTask(t *testing.T) {
	svc, store := newTaskFixture()
	task := seedTask(t, store, models.StepMetadata, models.TaskStatusPending)
	userID := uuid.New()

	_, err := svc.Start(context.Background(), task.ID, userID)
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), CompleteTaskRequest{TaskID: task.ID, UserID: userID})
	require.NoError(t, err)

	revised, err := svc.RequestRevision(context.Background(), task.ID, "missing parties")
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusRevisionRequired, revised.Status)
	assert.Equal(t, 1, revised.RevisionCount)
	require.NotNil(t, revised.LastRevisionReason)
	assert.Equal(t, "missing parties", *revised.LastRevisionReason)

	// A revision_required task can be started again
	restarted, err := svc.Start(context.Background(), task.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, restarted.Status)
}

func TestMyTasksGroupsByStatus(t *testing.T) {
	svc, store := newTaskFixture()
	userID := uuid.New()
	ctx := context.Background()

	pending := seedTask(t, store, models.StepChunking, models.TaskStatusPending)
	pending.AssignedToID = &userID
	require.NoError(t, store.Update(ctx, pending))

	running := seedTask(t, store, models.StepMetadata, models.TaskStatusInProgress)
	running.AssignedToID = &userID
	require.NoError(t, store.Update(ctx, running))

	now := time.Now()
	done := seedTask(t, store, models.StepTextExtraction, models.TaskStatusCompleted)
	done.AssignedToID = &userID
	done.CompletedAt = &now
	require.NoError(t, store.Update(ctx, done))

	// Another user's task stays out of the list
	seedTask(t, store, models.StepChunking, models.TaskStatusPending)

	my, err := svc.MyTasks(ctx, userID)
	require.NoError(t, err)

	assert.Len(t, my.Pending, 1)
	assert.Len(t, my.InProgress, 1)
	assert.Len(t, my.CompletedToday, 1)
}

func TestAvailableTasksFiltersByStep(t *testing.T) {
	svc, store := newTaskFixture()

	seedTask(t, store, models.StepChunking, models.TaskStatusPending)
	seedTask(t, store, models.StepMetadata, models.TaskStatusPending)

	claimed := seedTask(t, store, models.StepChunking, models.TaskStatusPending)
	claimedBy := uuid.New()
	claimed.AssignedToID = &claimedBy
	require.NoError(t, store.Update(context.Background(), claimed))

	all, err := svc.AvailableTasks(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	step := models.StepChunking
	chunking, err := svc.AvailableTasks(context.Background(), &step)
	require.NoError(t, err)
	require.Len(t, chunking, 1)
	assert.Equal(t, models.StepChunking, chunking[0].Step)
}
