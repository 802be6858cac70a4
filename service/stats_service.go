package service

import (
	"context"
	"time"

	"legaldocs-backend/models"
)

// StatsService derives dashboard aggregates. Pure reads, no mutation.
type StatsService struct {
	documents DocumentStore
	tasks     TaskStore
	published PublishedStore
}

// StatsServiceOption is a functional option for StatsService
type StatsServiceOption func(*StatsService)

// WithStatsDocumentStore sets the document store
func WithStatsDocumentStore(s DocumentStore) StatsServiceOption {
	return func(st *StatsService) { st.documents = s }
}

// WithStatsTaskStore sets the task store
func WithStatsTaskStore(s TaskStore) StatsServiceOption {
	return func(st *StatsService) { st.tasks = s }
}

// WithStatsPublishedStore sets the published document store
func WithStatsPublishedStore(s PublishedStore) StatsServiceOption {
	return func(st *StatsService) { st.published = s }
}

// NewStatsService creates a new stats service
func NewStatsService(opts ...StatsServiceOption) *StatsService {
	st := &StatsService{}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// ComputeStats aggregates the pipeline dashboard numbers. "Today" starts at
// local midnight; "this week" is the trailing seven days.
func (st *StatsService) ComputeStats(ctx context.Context) (*models.PipelineStats, error) {
	stats := &models.PipelineStats{}

	total, err := st.documents.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalDocuments = total

	stats.ByStatus, err = st.documents.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats.ByStep, err = st.documents.CountByStep(ctx)
	if err != nil {
		return nil, err
	}

	stats.PendingTasks, err = st.tasks.CountByStatus(ctx, models.TaskStatusPending)
	if err != nil {
		return nil, err
	}
	stats.InProgressTasks, err = st.tasks.CountByStatus(ctx, models.TaskStatusInProgress)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats.CompletedToday, err = st.tasks.CountCompletedSince(ctx, startOfDay(now))
	if err != nil {
		return nil, err
	}
	stats.PublishedThisWeek, err = st.published.CountPublishedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return stats, nil
}
