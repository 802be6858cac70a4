package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus represents how far a document has progressed through the pipeline
type DocumentStatus string

const (
	StatusUploaded      DocumentStatus = "uploaded"
	StatusTextExtracted DocumentStatus = "text_extracted"
	StatusChunked       DocumentStatus = "chunked"
	StatusMetadataAdded DocumentStatus = "metadata_added"
	StatusSummarized    DocumentStatus = "summarized"
	StatusQAApproved    DocumentStatus = "qa_approved"
	StatusPublished     DocumentStatus = "published"
	StatusRejected      DocumentStatus = "rejected"
)

// PipelineStep represents one stage of document processing
type PipelineStep string

const (
	StepUpload           PipelineStep = "upload"
	StepTextExtraction   PipelineStep = "text_extraction"
	StepChunking         PipelineStep = "chunking"
	StepMetadata         PipelineStep = "metadata"
	StepSummarization    PipelineStep = "summarization"
	StepQualityAssurance PipelineStep = "quality_assurance"
	StepPublish          PipelineStep = "publish"
)

// StepOrder is the canonical pipeline order. Status transitions and
// next-task creation both derive from this slice.
var StepOrder = []PipelineStep{
	StepUpload,
	StepTextExtraction,
	StepChunking,
	StepMetadata,
	StepSummarization,
	StepQualityAssurance,
	StepPublish,
}

// stepExitStatus maps each step to the status a document holds after the
// step's save action completes.
var stepExitStatus = map[PipelineStep]DocumentStatus{
	StepUpload:           StatusUploaded,
	StepTextExtraction:   StatusTextExtracted,
	StepChunking:         StatusChunked,
	StepMetadata:         StatusMetadataAdded,
	StepSummarization:    StatusSummarized,
	StepQualityAssurance: StatusQAApproved,
	StepPublish:          StatusPublished,
}

// stepEntryStatus maps each step after upload to the status a document must
// hold for the step's queue to pick it up.
var stepEntryStatus = map[PipelineStep]DocumentStatus{
	StepTextExtraction:   StatusUploaded,
	StepChunking:         StatusTextExtracted,
	StepMetadata:         StatusChunked,
	StepSummarization:    StatusMetadataAdded,
	StepQualityAssurance: StatusSummarized,
	StepPublish:          StatusQAApproved,
}

// ExitStatus returns the status a document holds after completing the step.
func (s PipelineStep) ExitStatus() (DocumentStatus, bool) {
	status, ok := stepExitStatus[s]
	return status, ok
}

// EntryStatus returns the status required to enter the step's queue.
// Upload has no entry status.
func (s PipelineStep) EntryStatus() (DocumentStatus, bool) {
	status, ok := stepEntryStatus[s]
	return status, ok
}

// NextStep returns the step after s in pipeline order, or false when s is
// the final step or unknown.
func NextStep(s PipelineStep) (PipelineStep, bool) {
	for i, step := range StepOrder {
		if step == s && i < len(StepOrder)-1 {
			return StepOrder[i+1], true
		}
	}
	return "", false
}

// ValidStep reports whether s is one of the pipeline steps.
func ValidStep(s PipelineStep) bool {
	_, ok := stepExitStatus[s]
	return ok
}

// ValidStatus reports whether st is a known document status.
func ValidStatus(st DocumentStatus) bool {
	switch st {
	case StatusUploaded, StatusTextExtracted, StatusChunked, StatusMetadataAdded,
		StatusSummarized, StatusQAApproved, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Document represents one legal file moving through the processing pipeline
type Document struct {
	ID uuid.UUID `json:"id"`

	// File information
	OriginalFilename string  `json:"original_filename"`
	StoragePath      string  `json:"storage_path"`
	FileType         string  `json:"file_type"`
	FileSize         int64   `json:"file_size"`
	FileHash         *string `json:"file_hash,omitempty"`

	// Processing status; kept in lockstep via service.Advance
	CurrentStep PipelineStep   `json:"current_step"`
	Status      DocumentStatus `json:"status"`

	// Descriptive metadata
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Category     *string `json:"category,omitempty"`
	Subcategory  *string `json:"subcategory,omitempty"`
	Jurisdiction *string `json:"jurisdiction,omitempty"`
	Year         *int    `json:"year,omitempty"`
	Language     string  `json:"language"`

	// Derived counts
	PageCount  *int `json:"page_count,omitempty"`
	WordCount  *int `json:"word_count,omitempty"`
	ChunkCount *int `json:"chunk_count,omitempty"`

	// Processing queue priority, 1-10
	Priority int `json:"priority"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	UploadedByID uuid.UUID `json:"uploaded_by_id"`
}
