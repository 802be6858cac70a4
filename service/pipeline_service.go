package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"legaldocs-backend/models"
	"legaldocs-backend/repository"
	"legaldocs-backend/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	// ErrDocumentNotFound is returned when a document does not exist
	ErrDocumentNotFound = errors.New("document not found")
	// ErrExtractedTextNotFound is returned when a document has no extraction yet
	ErrExtractedTextNotFound = errors.New("extracted text not found")
	// ErrChunkNotFound is returned when a chunk does not exist
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrMetadataNotFound is returned when a document has no metadata yet
	ErrMetadataNotFound = errors.New("document metadata not found")
	// ErrApprovalRequired is returned when a QA review omits the approval verdict
	ErrApprovalRequired = errors.New("qa review requires an approval verdict")
	// ErrRejectionReasonRequired is returned when a QA rejection has no reason
	ErrRejectionReasonRequired = errors.New("qa rejection requires a non-empty reason")
)

// notFound converts a no-rows error into the service sentinel
func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}

// PipelineService handles business logic for the document processing pipeline
type PipelineService struct {
	documents DocumentStore
	texts     ExtractedTextStore
	chunks    ChunkStore
	metadata  MetadataStore
	tasks     TaskStore
	reviews   QAReviewStore
	published PublishedStore
	files     storage.Storage
	logger    *zap.Logger
}

// PipelineServiceOption is a functional option for PipelineService
type PipelineServiceOption func(*PipelineService)

// WithDocumentStore sets the document store
func WithDocumentStore(s DocumentStore) PipelineServiceOption {
	return func(p *PipelineService) { p.documents = s }
}

// WithExtractedTextStore sets the extracted text store
func WithExtractedTextStore(s ExtractedTextStore) PipelineServiceOption {
	return func(p *PipelineService) { p.texts = s }
}

// WithChunkStore sets the chunk store
func WithChunkStore(s ChunkStore) PipelineServiceOption {
	return func(p *PipelineService) { p.chunks = s }
}

// WithMetadataStore sets the metadata store
func WithMetadataStore(s MetadataStore) PipelineServiceOption {
	return func(p *PipelineService) { p.metadata = s }
}

// WithTaskStore sets the task store
func WithTaskStore(s TaskStore) PipelineServiceOption {
	return func(p *PipelineService) { p.tasks = s }
}

// WithQAReviewStore sets the QA review store
func WithQAReviewStore(s QAReviewStore) PipelineServiceOption {
	return func(p *PipelineService) { p.reviews = s }
}

// WithPublishedStore sets the published document store
func WithPublishedStore(s PublishedStore) PipelineServiceOption {
	return func(p *PipelineService) { p.published = s }
}

// WithFileStorage sets the file storage backend
func WithFileStorage(s storage.Storage) PipelineServiceOption {
	return func(p *PipelineService) { p.files = s }
}

// WithPipelineLogger sets the logger
func WithPipelineLogger(l *zap.Logger) PipelineServiceOption {
	return func(p *PipelineService) { p.logger = l }
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(opts ...PipelineServiceOption) *PipelineService {
	p := &PipelineService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateDocumentRequest represents a request to register an uploaded file
type CreateDocumentRequest struct {
	File             io.Reader
	OriginalFilename string
	FileType         string
	FileSize         int64
	FileHash         *string

	Title        *string
	Description  *string
	Category     *string
	Subcategory  *string
	Jurisdiction *string
	Year         *int
	Language     string
	Priority     int

	UploadedByID uuid.UUID
}

// CreateDocumentResult represents the result of registering a document
type CreateDocumentResult struct {
	Document *models.Document
}

// CreateDocument stores the file, creates the document row at status
// uploaded, and seeds the task tracker with a completed upload task plus a
// pending text extraction task.
func (p *PipelineService) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*CreateDocumentResult, error) {
	if p.documents == nil || p.files == nil {
		return nil, errors.New("document store or file storage not set")
	}

	doc := &models.Document{
		ID:               uuid.New(),
		OriginalFilename: req.OriginalFilename,
		FileType:         req.FileType,
		FileSize:         req.FileSize,
		FileHash:         req.FileHash,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Subcategory:      req.Subcategory,
		Jurisdiction:     req.Jurisdiction,
		Year:             req.Year,
		Language:         req.Language,
		Priority:         req.Priority,
		UploadedByID:     req.UploadedByID,
	}
	if doc.Language == "" {
		doc.Language = "en"
	}
	if doc.Priority == 0 {
		doc.Priority = 5
	}

	storagePath, err := p.files.Upload(ctx, doc.ID, req.OriginalFilename, req.File)
	if err != nil {
		return nil, fmt.Errorf("storing uploaded file: %w", err)
	}
	doc.StoragePath = storagePath

	if err := Advance(doc, models.StepUpload); err != nil {
		return nil, err
	}

	if err := p.documents.Create(ctx, doc); err != nil {
		// best effort cleanup of the orphaned file
		if delErr := p.files.Delete(ctx, storagePath); delErr != nil {
			p.logger.Warn("orphaned upload left in storage",
				zap.String("storage_path", storagePath), zap.Error(delErr))
		}
		return nil, err
	}

	p.seedInitialTasks(ctx, doc)

	p.logger.Info("document registered",
		zap.String("document_id", doc.ID.String()),
		zap.String("filename", doc.OriginalFilename))

	return &CreateDocumentResult{Document: doc}, nil
}

// seedInitialTasks records the finished upload and queues extraction. Task
// rows are bookkeeping, so failures are logged rather than surfaced.
func (p *PipelineService) seedInitialTasks(ctx context.Context, doc *models.Document) {
	if p.tasks == nil {
		return
	}

	now := doc.CreatedAt
	uploadTask := &models.PipelineTask{
		DocumentID:   doc.ID,
		Step:         models.StepUpload,
		Status:       models.TaskStatusCompleted,
		AssignedToID: &doc.UploadedByID,
		AssignedAt:   &now,
		StartedAt:    &now,
		CompletedAt:  &now,
	}
	if err := p.tasks.Create(ctx, uploadTask); err != nil {
		p.logger.Warn("creating upload task", zap.Error(err))
	}

	extractionTask := &models.PipelineTask{
		DocumentID: doc.ID,
		Step:       models.StepTextExtraction,
		Status:     models.TaskStatusPending,
	}
	if err := p.tasks.Create(ctx, extractionTask); err != nil {
		p.logger.Warn("creating extraction task", zap.Error(err))
	}
}

// GetDocument retrieves a document by ID
func (p *PipelineService) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := p.documents.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}
	return doc, nil
}

// ListDocumentsResult represents one page of documents
type ListDocumentsResult struct {
	Documents []*models.Document
	Total     int
}

// ListDocuments lists documents matching the filter
func (p *PipelineService) ListDocuments(ctx context.Context, filter repository.DocumentFilter) (*ListDocumentsResult, error) {
	docs, total, err := p.documents.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListDocumentsResult{Documents: docs, Total: total}, nil
}

// UpdateDocument persists edits to a document's descriptive fields
func (p *PipelineService) UpdateDocument(ctx context.Context, doc *models.Document) error {
	return notFound(p.documents.Update(ctx, doc), ErrDocumentNotFound)
}

// DeleteDocument removes a document, its dependent rows, and its stored file
func (p *PipelineService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	doc, err := p.documents.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrDocumentNotFound)
	}

	if err := p.documents.Delete(ctx, id); err != nil {
		return err
	}

	if p.files != nil {
		if err := p.files.Delete(ctx, doc.StoragePath); err != nil {
			p.logger.Warn("deleting stored file",
				zap.String("storage_path", doc.StoragePath), zap.Error(err))
		}
	}
	return nil
}

// OpenFile returns a reader over the document's stored file
func (p *PipelineService) OpenFile(ctx context.Context, id uuid.UUID) (*models.Document, io.ReadCloser, error) {
	doc, err := p.documents.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, ErrDocumentNotFound)
	}
	rc, err := p.files.Download(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, rc, nil
}

// GetExtractedText retrieves extraction results for a document
func (p *PipelineService) GetExtractedText(ctx context.Context, documentID uuid.UUID) (*models.ExtractedText, error) {
	et, err := p.texts.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, notFound(err, ErrExtractedTextNotFound)
	}
	return et, nil
}

// SaveExtractedTextRequest represents a request to save extraction results
type SaveExtractedTextRequest struct {
	DocumentID       uuid.UUID
	RawText          string
	CleanedText      *string
	ExtractionMethod *string
	ConfidenceScore  *float64
	PageCount        *int
	ProcessedByID    uuid.UUID
}

// SaveExtractedTextResult represents the result of saving extraction results
type SaveExtractedTextResult struct {
	ExtractedText *models.ExtractedText
	Document      *models.Document
}

// SaveExtractedText stores the extraction output and advances the document
// out of the text extraction queue.
func (p *PipelineService) SaveExtractedText(ctx context.Context, req SaveExtractedTextRequest) (*SaveExtractedTextResult, error) {
	doc, err := p.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	et := &models.ExtractedText{
		DocumentID:       req.DocumentID,
		RawText:          req.RawText,
		CleanedText:      req.CleanedText,
		ExtractionMethod: req.ExtractionMethod,
		ConfidenceScore:  req.ConfidenceScore,
		ProcessedByID:    &req.ProcessedByID,
	}
	if err := p.texts.Upsert(ctx, et); err != nil {
		return nil, err
	}

	words := len(strings.Fields(req.RawText))
	doc.WordCount = &words
	if req.PageCount != nil {
		doc.PageCount = req.PageCount
	}

	if err := p.advanceAndSave(ctx, doc, models.StepTextExtraction); err != nil {
		return nil, err
	}

	return &SaveExtractedTextResult{ExtractedText: et, Document: doc}, nil
}

// advanceAndSave moves doc through step unless the step was already
// completed, then persists the document. Re-saving a finished step keeps the
// document where it is.
func (p *PipelineService) advanceAndSave(ctx context.Context, doc *models.Document, step models.PipelineStep) error {
	if !StepCompleted(doc.Status, step) {
		if err := Advance(doc, step); err != nil {
			return err
		}
		p.logger.Info("document advanced",
			zap.String("document_id", doc.ID.String()),
			zap.String("step", string(step)),
			zap.String("status", string(doc.Status)))
	}
	return notFound(p.documents.Update(ctx, doc), ErrDocumentNotFound)
}

// ListChunks returns a document's chunks in index order
func (p *PipelineService) ListChunks(ctx context.Context, documentID uuid.UUID) ([]*models.DocumentChunk, error) {
	return p.chunks.ListByDocumentID(ctx, documentID)
}

// AutoChunk derives a chunk set from the document's extracted text without
// persisting anything. Cleaned text is preferred over raw.
func (p *PipelineService) AutoChunk(ctx context.Context, documentID uuid.UUID, chunkSize int) ([]*models.DocumentChunk, error) {
	et, err := p.texts.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, notFound(err, ErrExtractedTextNotFound)
	}

	text := et.RawText
	if et.CleanedText != nil && *et.CleanedText != "" {
		text = *et.CleanedText
	}

	chunks := SplitIntoChunks(text, chunkSize)
	for _, c := range chunks {
		c.DocumentID = documentID
	}
	return chunks, nil
}

// SaveChunksRequest represents a request to replace a document's chunk set
type SaveChunksRequest struct {
	DocumentID    uuid.UUID
	Chunks        []*models.DocumentChunk
	ProcessedByID uuid.UUID
}

// SaveChunksResult represents the result of replacing a chunk set
type SaveChunksResult struct {
	Chunks   []*models.DocumentChunk
	Document *models.Document
}

// SaveChunks replaces the document's chunk set wholesale, re-indexed from
// zero, and advances the document out of the chunking queue.
func (p *PipelineService) SaveChunks(ctx context.Context, req SaveChunksRequest) (*SaveChunksResult, error) {
	doc, err := p.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	for i, c := range req.Chunks {
		c.DocumentID = req.DocumentID
		c.ChunkIndex = i
		c.ProcessedByID = &req.ProcessedByID
	}

	if err := p.chunks.Replace(ctx, req.DocumentID, req.Chunks); err != nil {
		return nil, err
	}

	count := len(req.Chunks)
	doc.ChunkCount = &count

	if err := p.advanceAndSave(ctx, doc, models.StepChunking); err != nil {
		return nil, err
	}

	return &SaveChunksResult{Chunks: req.Chunks, Document: doc}, nil
}

// UpdateChunk persists edits to a single chunk
func (p *PipelineService) UpdateChunk(ctx context.Context, chunk *models.DocumentChunk) error {
	return notFound(p.chunks.Update(ctx, chunk), ErrChunkNotFound)
}

// GetChunk retrieves a chunk by ID
func (p *PipelineService) GetChunk(ctx context.Context, id uuid.UUID) (*models.DocumentChunk, error) {
	chunk, err := p.chunks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrChunkNotFound)
	}
	return chunk, nil
}

// GetMetadata retrieves a document's legal metadata
func (p *PipelineService) GetMetadata(ctx context.Context, documentID uuid.UUID) (*models.DocumentMetadata, error) {
	md, err := p.metadata.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, notFound(err, ErrMetadataNotFound)
	}
	return md, nil
}

// SaveMetadataRequest represents a request to save legal metadata
type SaveMetadataRequest struct {
	DocumentID uuid.UUID
	Metadata   *models.DocumentMetadata

	ProcessedByID uuid.UUID
}

// SaveMetadataResult represents the result of saving legal metadata
type SaveMetadataResult struct {
	Metadata *models.DocumentMetadata
	Document *models.Document
}

// SaveMetadata stores the case fields and advances the document out of the
// metadata queue. Summary fields written later by summarization are left
// untouched.
func (p *PipelineService) SaveMetadata(ctx context.Context, req SaveMetadataRequest) (*SaveMetadataResult, error) {
	doc, err := p.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	md := req.Metadata
	md.DocumentID = req.DocumentID
	md.ProcessedByID = &req.ProcessedByID
	if err := p.metadata.Upsert(ctx, md); err != nil {
		return nil, err
	}

	if err := p.advanceAndSave(ctx, doc, models.StepMetadata); err != nil {
		return nil, err
	}

	return &SaveMetadataResult{Metadata: md, Document: doc}, nil
}

// SaveSummaryRequest represents a request to save summarization output
type SaveSummaryRequest struct {
	DocumentID    uuid.UUID
	Summary       *string
	KeyPoints     models.StringList
	ProcessedByID uuid.UUID
}

// SaveSummaryResult represents the result of saving summarization output
type SaveSummaryResult struct {
	Metadata *models.DocumentMetadata
	Document *models.Document
}

// SaveSummary writes the summary fields onto the document's metadata record
// and advances the document out of the summarization queue. An empty summary
// still advances; completeness is the reviewer's call at QA.
func (p *PipelineService) SaveSummary(ctx context.Context, req SaveSummaryRequest) (*SaveSummaryResult, error) {
	doc, err := p.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	md := &models.DocumentMetadata{
		DocumentID:    req.DocumentID,
		Summary:       req.Summary,
		KeyPoints:     req.KeyPoints,
		ProcessedByID: &req.ProcessedByID,
	}
	if err := p.metadata.SaveSummary(ctx, md); err != nil {
		return nil, err
	}

	if err := p.advanceAndSave(ctx, doc, models.StepSummarization); err != nil {
		return nil, err
	}

	return &SaveSummaryResult{Metadata: md, Document: doc}, nil
}

// CreateQAReviewRequest represents a request to record a QA pass
type CreateQAReviewRequest struct {
	DocumentID uuid.UUID

	ReviewType        string
	AccuracyScore     *int
	CompletenessScore *int
	FormattingScore   *int
	OverallScore      *int

	IsApproved      *bool
	RejectionReason *string
	Comments        *string

	StepFeedback models.StringMap
	Checklist    models.BoolMap

	ReviewerID uuid.UUID
}

// CreateQAReviewResult represents the result of recording a QA pass
type CreateQAReviewResult struct {
	Review   *models.QAReview
	Document *models.Document
}

// CreateQAReview records an append-only review. Approval advances the
// document to qa_approved; rejection marks it rejected and flags the tasks
// named in the step feedback for revision.
func (p *PipelineService) CreateQAReview(ctx context.Context, req CreateQAReviewRequest) (*CreateQAReviewResult, error) {
	if req.IsApproved == nil {
		return nil, ErrApprovalRequired
	}
	if !*req.IsApproved && (req.RejectionReason == nil || strings.TrimSpace(*req.RejectionReason) == "") {
		return nil, ErrRejectionReasonRequired
	}

	doc, err := p.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	review := &models.QAReview{
		DocumentID:        req.DocumentID,
		ReviewType:        req.ReviewType,
		AccuracyScore:     req.AccuracyScore,
		CompletenessScore: req.CompletenessScore,
		FormattingScore:   req.FormattingScore,
		OverallScore:      req.OverallScore,
		IsApproved:        *req.IsApproved,
		RejectionReason:   req.RejectionReason,
		Comments:          req.Comments,
		StepFeedback:      req.StepFeedback,
		Checklist:         req.Checklist,
		ReviewerID:        req.ReviewerID,
	}
	if review.ReviewType == "" {
		review.ReviewType = "standard"
	}
	if err := p.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if *req.IsApproved {
		if err := p.advanceAndSave(ctx, doc, models.StepQualityAssurance); err != nil {
			return nil, err
		}
	} else {
		Reject(doc)
		if err := p.documents.Update(ctx, doc); err != nil {
			return nil, notFound(err, ErrDocumentNotFound)
		}
		p.flagRevisions(ctx, review)
		p.logger.Info("document rejected at qa",
			zap.String("document_id", doc.ID.String()),
			zap.Stringp("reason", req.RejectionReason))
	}

	return &CreateQAReviewResult{Review: review, Document: doc}, nil
}

// flagRevisions marks the tasks named in the review's step feedback as
// revision_required so the work resurfaces on the assignee's dashboard.
func (p *PipelineService) flagRevisions(ctx context.Context, review *models.QAReview) {
	if p.tasks == nil {
		return
	}
	for stepName, feedback := range review.StepFeedback {
		step := models.PipelineStep(stepName)
		if !models.ValidStep(step) {
			continue
		}
		task, err := p.tasks.GetByDocumentAndStep(ctx, review.DocumentID, step)
		if err != nil {
			continue
		}
		task.Status = models.TaskStatusRevisionRequired
		task.RevisionCount++
		reason := feedback
		task.LastRevisionReason = &reason
		if err := p.tasks.Update(ctx, task); err != nil {
			p.logger.Warn("flagging task for revision",
				zap.String("task_id", task.ID.String()), zap.Error(err))
		}
	}
}

// ListQAReviews returns a document's review history, newest first
func (p *PipelineService) ListQAReviews(ctx context.Context, documentID uuid.UUID) ([]*models.QAReview, error) {
	return p.reviews.ListByDocumentID(ctx, documentID)
}

// PublishDocumentRequest represents a request to publish a document
type PublishDocumentRequest struct {
	DocumentID     uuid.UUID
	SearchKeywords models.StringList
	SearchWeight   float64
	PublishedByID  uuid.UUID
}

// PublishDocumentResult represents the result of publishing a document
type PublishDocumentResult struct {
	Document  *models.Document
	Published *models.PublishedDocument
}

// PublishDocument writes the publication record and moves the document to
// published. Only qa_approved documents can be published; re-publishing an
// already published document bumps the record version.
func (p *PipelineService) PublishDocument(ctx context.Context, req PublishDocumentRequest) (*PublishDocumentResult, error) {
	doc, err := p.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	if doc.Status != models.StatusQAApproved && doc.Status != models.StatusPublished {
		return nil, &ErrInvalidTransition{Step: models.StepPublish, Status: doc.Status}
	}

	weight := req.SearchWeight
	if weight == 0 {
		weight = 1.0
	}
	pub := &models.PublishedDocument{
		DocumentID:     req.DocumentID,
		PublishedByID:  req.PublishedByID,
		SearchKeywords: req.SearchKeywords,
		SearchWeight:   weight,
	}
	if err := p.published.Upsert(ctx, pub); err != nil {
		return nil, err
	}

	if doc.Status == models.StatusQAApproved {
		if err := Advance(doc, models.StepPublish); err != nil {
			return nil, err
		}
	}
	if err := p.documents.Update(ctx, doc); err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	p.logger.Info("document published",
		zap.String("document_id", doc.ID.String()),
		zap.Int("version", pub.Version))

	return &PublishDocumentResult{Document: doc, Published: pub}, nil
}

// AdvanceStep performs the explicit forward transition for a document's
// current step without touching step data.
func (p *PipelineService) AdvanceStep(ctx context.Context, documentID uuid.UUID) (*models.Document, error) {
	doc, err := p.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}

	if err := Advance(doc, doc.CurrentStep); err != nil {
		return nil, err
	}
	if err := p.documents.Update(ctx, doc); err != nil {
		return nil, notFound(err, ErrDocumentNotFound)
	}
	return doc, nil
}
