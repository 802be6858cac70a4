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

func TestComputeStats(t *testing.T) {
	documents := newFakeDocumentStore()
	tasks := newFakeTaskStore()
	published := newFakePublishedStore()
	svc := NewStatsService(
		WithStatsDocumentStore(documents),
		WithStatsTaskStore(tasks),
		WithStatsPublishedStore(published),
	)

	ctx := context.Background()

	seed := []struct {
		status models.DocumentStatus
		step   models.PipelineStep
	}{
		{models.StatusUploaded, models.StepTextExtraction},
		{models.StatusUploaded, models.StepTextExtraction},
		{models.StatusChunked, models.StepMetadata},
		{models.StatusPublished, models.StepPublish},
	}
	for _, s := range seed {
		require.NoError(t, documents.Create(ctx, &models.Document{
			CurrentStep: s.step,
			Status:      s.status,
		}))
	}

	require.NoError(t, tasks.Create(ctx, &models.PipelineTask{
		DocumentID: uuid.New(),
		Step:       models.StepTextExtraction,
		Status:     models.TaskStatusPending,
	}))
	require.NoError(t, tasks.Create(ctx, &models.PipelineTask{
		DocumentID: uuid.New(),
		Step:       models.StepChunking,
		Status:     models.TaskStatusInProgress,
	}))

	now := time.Now()
	require.NoError(t, tasks.Create(ctx, &models.PipelineTask{
		DocumentID:  uuid.New(),
		Step:        models.StepMetadata,
		Status:      models.TaskStatusCompleted,
		CompletedAt: &now,
	}))

	require.NoError(t, published.Upsert(ctx, &models.PublishedDocument{
		DocumentID: uuid.New(),
	}))

	stats, err := svc.ComputeStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalDocuments)
	assert.Equal(t, 2, stats.ByStatus[models.StatusUploaded])
	assert.Equal(t, 1, stats.ByStatus[models.StatusChunked])
	assert.Equal(t, 2, stats.ByStep[models.StepTextExtraction])
	assert.Equal(t, 1, stats.ByStep[models.StepPublish])

	assert.Equal(t, 1, stats.PendingTasks)
	assert.Equal(t, 1, stats.InProgressTasks)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 1, stats.PublishedThisWeek)
}

func TestComputeStatsEmpty(t *testing.T) {
	svc := NewStatsService(
		WithStatsDocumentStore(newFakeDocumentStore()),
		WithStatsTaskStore(newFakeTaskStore()),
		WithStatsPublishedStore(newFakePublishedStore()),
	)

	stats, err := svc.ComputeStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalDocuments)
	assert.Zero(t, stats.PendingTasks)
	assert.Zero(t, stats.PublishedThisWeek)
	assert.Empty(t, stats.ByStatus)
}
