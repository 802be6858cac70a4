package service

import (
	"testing"

	"legaldocs-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceWalksFullPipeline(t *testing.T) {
	doc := &models.Document{
		CurrentStep: models.StepUpload,
		Status:      "",
	}

	expected := []struct {
		step   models.PipelineStep
		status models.DocumentStatus
		next   models.PipelineStep
	}{
		{models.StepUpload, models.StatusUploaded, models.StepTextExtraction},
		{models.StepTextExtraction, models.StatusTextExtracted, models.StepChunking},
		{models.StepChunking, models.StatusChunked, models.StepMetadata},
		{models.StepMetadata, models.StatusMetadataAdded, models.StepSummarization},
		{models.StepSummarization, models.StatusSummarized, models.StepQualityAssurance},
		{models.StepQualityAssurance, models.StatusQAApproved, models.StepPublish},
		{models.StepPublish, models.StatusPublished, models.StepPublish},
	}

	for _, e := range expected {
		require.NoError(t, Advance(doc, e.step), "advance %s", e.step)
		assert.Equal(t, e.status, doc.Status)
		assert.Equal(t, e.next, doc.CurrentStep)
	}
}

func TestAdvanceRejectsOutOfOrderStep(t *testing.T) {
	doc := &models.Document{
		CurrentStep: models.StepTextExtraction,
		Status:      models.StatusUploaded,
	}

	err := Advance(doc, models.StepMetadata)
	require.Error(t, err)

	var invalid *ErrInvalidTransition
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StepMetadata, invalid.Step)

	// Document untouched on failure
	assert.Equal(t, models.StatusUploaded, doc.Status)
	assert.Equal(t, models.StepTextExtraction, doc.CurrentStep)
}

func TestAdvanceRejectsRejectedDocument(t *testing.T) {
	doc := &models.Document{
		CurrentStep: models.StepChunking,
		Status:      models.StatusRejected,
	}

	err := Advance(doc, models.StepChunking)
	require.Error(t, err)
	assert.Equal(t, models.StatusRejected, doc.Status)
}

func TestAdvancePublishSetsPublishedAt(t *testing.T) {
	doc := &models.Document{
		CurrentStep: models.StepPublish,
		Status:      models.StatusQAApproved,
	}

	require.NoError(t, Advance(doc, models.StepPublish))
	assert.Equal(t, models.StatusPublished, doc.Status)
	require.NotNil(t, doc.PublishedAt)
	assert.False(t, doc.PublishedAt.IsZero())
}

func TestRejectKeepsCurrentStep(t *testing.T) {
	doc := &models.Document{
		CurrentStep: models.StepQualityAssurance,
		Status:      models.StatusSummarized,
	}

	Reject(doc)
	assert.Equal(t, models.StatusRejected, doc.Status)
	assert.Equal(t, models.StepQualityAssurance, doc.CurrentStep)
}

func TestStepCompleted(t *testing.T) {
	tests := []struct {
		name   string
		status models.DocumentStatus
		step   models.PipelineStep
		want   bool
	}{
		{"at step", models.StatusChunked, models.StepChunking, true},
		{"past step", models.StatusSummarized, models.StepChunking, true},
		{"before step", models.StatusUploaded, models.StepChunking, false},
		{"published covers everything", models.StatusPublished, models.StepQualityAssurance, true},
		{"rejected counts nothing", models.StatusRejected, models.StepUpload, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StepCompleted(tt.status, tt.step))
		})
	}
}
