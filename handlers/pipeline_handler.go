package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"legaldocs-backend/metrics"
	"legaldocs-backend/middleware"
	"legaldocs-backend/models"
	"legaldocs-backend/repository"
	"legaldocs-backend/service"
	"legaldocs-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PipelineHandler handles HTTP requests for the document pipeline
type PipelineHandler struct {
	pipelineService   *service.PipelineService
	extractionService *service.ExtractionService
	statsService      *service.StatsService
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(
	pipelineService *service.PipelineService,
	extractionService *service.ExtractionService,
	statsService *service.StatsService,
) *PipelineHandler {
	return &PipelineHandler{
		pipelineService:   pipelineService,
		extractionService: extractionService,
		statsService:      statsService,
	}
}

// parseDocumentID reads the :id path parameter as a UUID
func parseDocumentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid document ID format",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

// documentError maps pipeline service errors to the response envelope
func documentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrExtractedTextNotFound),
		errors.Is(err, service.ErrChunkNotFound),
		errors.Is(err, service.ErrMetadataNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": err.Error(),
			},
		})
	case errors.Is(err, service.ErrApprovalRequired),
		errors.Is(err, service.ErrRejectionReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REVIEW",
				"message": err.Error(),
			},
		})
	default:
		var transition *service.ErrInvalidTransition
		if errors.As(err, &transition) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": err.Error(),
			},
		})
	}
}

// UploadDocument handles POST /api/pipeline/upload
func (h *PipelineHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A file is required",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	// Hash the file for duplicate detection, then rewind for storage
	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	fileHash := hex.EncodeToString(hasher.Sum(nil))
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	req := service.CreateDocumentRequest{
		File:             file,
		OriginalFilename: fileHeader.Filename,
		FileType:         storage.ContentTypeFor(fileHeader.Filename),
		FileSize:         fileHeader.Size,
		FileHash:         &fileHash,
		Title:            formValue(c, "title"),
		Description:      formValue(c, "description"),
		Category:         formValue(c, "category"),
		Subcategory:      formValue(c, "subcategory"),
		Jurisdiction:     formValue(c, "jurisdiction"),
		Language:         c.PostForm("language"),
		UploadedByID:     middleware.UserID(c),
	}
	if year := c.PostForm("year"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			req.Year = &y
		}
	}
	if priority := c.PostForm("priority"); priority != "" {
		if p, err := strconv.Atoi(priority); err == nil {
			req.Priority = p
		}
	}

	result, err := h.pipelineService.CreateDocument(c.Request.Context(), req)
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(models.StepUpload))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Document,
	})
}

func formValue(c *gin.Context, key string) *string {
	if v := c.PostForm(key); v != "" {
		return &v
	}
	return nil
}

// ListDocuments handles GET /api/pipeline/documents
func (h *PipelineHandler) ListDocuments(c *gin.Context) {
	filter := repository.DocumentFilter{
		Page:     1,
		PageSize: 50,
	}
	if s := c.Query("status"); s != "" {
		status := models.DocumentStatus(s)
		if !models.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown status: " + s,
				},
			})
			return
		}
		filter.Status = &status
	}
	if s := c.Query("step"); s != "" {
		step := models.PipelineStep(s)
		if !models.ValidStep(step) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STEP",
					"message": "Unknown step: " + s,
				},
			})
			return
		}
		filter.Step = &step
	}
	if s := c.Query("category"); s != "" {
		filter.Category = &s
	}
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if ps, err := strconv.Atoi(c.Query("page_size")); err == nil && ps > 0 && ps <= 200 {
		filter.PageSize = ps
	}

	result, err := h.pipelineService.ListDocuments(c.Request.Context(), filter)
	if err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"documents": result.Documents,
			"total":     result.Total,
			"page":      filter.Page,
			"page_size": filter.PageSize,
		},
	})
}

// GetDocument handles GET /api/pipeline/documents/:id
func (h *PipelineHandler) GetDocument(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.pipelineService.GetDocument(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doc,
	})
}

// GetDocumentFile handles GET /api/pipeline/documents/:id/file. The file is
// served inline so the UI can embed it in a viewer.
func (h *PipelineHandler) GetDocumentFile(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, rc, err := h.pipelineService.OpenFile(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(
		http.StatusOK,
		doc.FileSize,
		storage.ContentTypeFor(doc.OriginalFilename),
		rc,
		map[string]string{
			"Content-Disposition": inlineDisposition(doc.OriginalFilename),
		},
	)
}

// inlineDisposition builds a Content-Disposition header, escaping the
// filename so quotes and control characters cannot malform the header.
func inlineDisposition(filename string) string {
	return mime.FormatMediaType("inline", map[string]string{"filename": filename})
}

// UpdateDocumentRequest represents the request body for PATCHing a document
type UpdateDocumentRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Subcategory  *string `json:"subcategory"`
	Jurisdiction *string `json:"jurisdiction"`
	Year         *int    `json:"year"`
	Language     *string `json:"language"`
	Priority     *int    `json:"priority"`
}

// UpdateDocument handles PATCH /api/pipeline/documents/:id
func (h *PipelineHandler) UpdateDocument(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	doc, err := h.pipelineService.GetDocument(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	if req.Title != nil {
		doc.Title = req.Title
	}
	if req.Description != nil {
		doc.Description = req.Description
	}
	if req.Category != nil {
		doc.Category = req.Category
	}
	if req.Subcategory != nil {
		doc.Subcategory = req.Subcategory
	}
	if req.Jurisdiction != nil {
		doc.Jurisdiction = req.Jurisdiction
	}
	if req.Year != nil {
		doc.Year = req.Year
	}
	if req.Language != nil {
		doc.Language = *req.Language
	}
	if req.Priority != nil {
		if *req.Priority < 1 || *req.Priority > 10 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PRIORITY",
					"message": "Priority must be between 1 and 10",
				},
			})
			return
		}
		doc.Priority = *req.Priority
	}

	if err := h.pipelineService.UpdateDocument(c.Request.Context(), doc); err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doc,
	})
}

// DeleteDocument handles DELETE /api/pipeline/documents/:id
func (h *PipelineHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := h.pipelineService.DeleteDocument(c.Request.Context(), id); err != nil {
		documentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetExtractedText handles GET /api/pipeline/documents/:id/extract
func (h *PipelineHandler) GetExtractedText(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	et, err := h.pipelineService.GetExtractedText(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    et,
	})
}

// SaveExtractedTextRequest represents the request body for saving extraction
type SaveExtractedTextRequest struct {
	RawText          string   `json:"raw_text" binding:"required"`
	CleanedText      *string  `json:"cleaned_text"`
	ExtractionMethod *string  `json:"extraction_method"`
	ConfidenceScore  *float64 `json:"confidence_score"`
	PageCount        *int     `json:"page_count"`
}

// SaveExtractedText handles POST /api/pipeline/documents/:id/extract
func (h *PipelineHandler) SaveExtractedText(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req SaveExtractedTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.pipelineService.SaveExtractedText(c.Request.Context(), service.SaveExtractedTextRequest{
		DocumentID:       id,
		RawText:          req.RawText,
		CleanedText:      req.CleanedText,
		ExtractionMethod: req.ExtractionMethod,
		ConfidenceScore:  req.ConfidenceScore,
		PageCount:        req.PageCount,
		ProcessedByID:    middleware.UserID(c),
	})
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(models.StepTextExtraction))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"extracted_text": result.ExtractedText,
			"document":       result.Document,
		},
	})
}

// ExtractText handles POST /api/pipeline/documents/:id/extract-text. Runs
// server-side extraction and returns the derived text without persisting; the
// UI reviews it and saves via POST /extract.
func (h *PipelineHandler) ExtractText(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.pipelineService.GetDocument(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	method := c.Query("extraction_method")
	result, err := h.extractionService.ExtractText(c.Request.Context(), doc, method)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFileType) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNSUPPORTED_FILE_TYPE",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXTRACTION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"raw_text":          result.RawText,
			"page_count":        result.PageCount,
			"word_count":        result.WordCount,
			"extraction_method": result.ExtractionMethod,
			"confidence_score":  result.ConfidenceScore,
		},
	})
}

// CleanText handles POST /api/pipeline/documents/:id/clean-text
func (h *PipelineHandler) CleanText(c *gin.Context) {
	if _, ok := parseDocumentID(c); !ok {
		return
	}

	rawText := c.PostForm("raw_text")
	if rawText == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_RAW_TEXT",
				"message": "raw_text form field is required",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cleaned_text": service.CleanText(rawText),
		},
	})
}

// ListChunks handles GET /api/pipeline/documents/:id/chunks. With
// auto=true the response is a generated chunk preview derived from the
// extracted text, not the saved set.
func (h *PipelineHandler) ListChunks(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if c.Query("auto") == "true" {
		chunkSize := 0
		if v, err := strconv.Atoi(c.Query("chunk_size")); err == nil {
			chunkSize = v
		}
		chunks, err := h.pipelineService.AutoChunk(c.Request.Context(), id, chunkSize)
		if err != nil {
			documentError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    chunks,
		})
		return
	}

	chunks, err := h.pipelineService.ListChunks(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    chunks,
	})
}

// ChunkPayload is one chunk in a save request
type ChunkPayload struct {
	Content     string         `json:"content" binding:"required"`
	StartPage   *int           `json:"start_page"`
	EndPage     *int           `json:"end_page"`
	TokenCount  *int           `json:"token_count"`
	Heading     *string        `json:"heading"`
	SectionType *string        `json:"section_type"`
	Summary     *string        `json:"summary"`
	Metadata    models.JSONMap `json:"chunk_metadata"`
}

// SaveChunksRequest represents the request body for replacing a chunk set
type SaveChunksRequest struct {
	Chunks []ChunkPayload `json:"chunks" binding:"required"`
}

// SaveChunks handles POST /api/pipeline/documents/:id/chunks
func (h *PipelineHandler) SaveChunks(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req SaveChunksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	chunks := make([]*models.DocumentChunk, 0, len(req.Chunks))
	for _, p := range req.Chunks {
		chunks = append(chunks, &models.DocumentChunk{
			Content:       p.Content,
			StartPage:     p.StartPage,
			EndPage:       p.EndPage,
			TokenCount:    p.TokenCount,
			Heading:       p.Heading,
			SectionType:   p.SectionType,
			Summary:       p.Summary,
			ChunkMetadata: p.Metadata,
		})
	}

	result, err := h.pipelineService.SaveChunks(c.Request.Context(), service.SaveChunksRequest{
		DocumentID:    id,
		Chunks:        chunks,
		ProcessedByID: middleware.UserID(c),
	})
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(models.StepChunking))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"chunks":   result.Chunks,
			"document": result.Document,
		},
	})
}

// UpdateChunkRequest represents the request body for PATCHing a chunk
type UpdateChunkRequest struct {
	Content     *string        `json:"content"`
	Heading     *string        `json:"heading"`
	SectionType *string        `json:"section_type"`
	Summary     *string        `json:"summary"`
	StartPage   *int           `json:"start_page"`
	EndPage     *int           `json:"end_page"`
	Metadata    models.JSONMap `json:"chunk_metadata"`
}

// UpdateChunk handles PATCH /api/pipeline/chunks/:chunkId
func (h *PipelineHandler) UpdateChunk(c *gin.Context) {
	chunkID, err := uuid.Parse(c.Param("chunkId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid chunk ID format",
			},
		})
		return
	}

	var req UpdateChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	chunk, err := h.pipelineService.GetChunk(c.Request.Context(), chunkID)
	if err != nil {
		documentError(c, err)
		return
	}

	if req.Content != nil {
		chunk.Content = *req.Content
	}
	if req.Heading != nil {
		chunk.Heading = req.Heading
	}
	if req.SectionType != nil {
		chunk.SectionType = req.SectionType
	}
	if req.Summary != nil {
		chunk.Summary = req.Summary
	}
	if req.StartPage != nil {
		chunk.StartPage = req.StartPage
	}
	if req.EndPage != nil {
		chunk.EndPage = req.EndPage
	}
	if req.Metadata != nil {
		chunk.ChunkMetadata = req.Metadata
	}

	if err := h.pipelineService.UpdateChunk(c.Request.Context(), chunk); err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    chunk,
	})
}

// GetMetadata handles GET /api/pipeline/documents/:id/metadata
func (h *PipelineHandler) GetMetadata(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	md, err := h.pipelineService.GetMetadata(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    md,
	})
}

// SaveMetadataRequest represents the request body for saving case metadata
type SaveMetadataRequest struct {
	CaseNumber        *string           `json:"case_number"`
	CourtName         *string           `json:"court_name"`
	Bench             *string           `json:"bench"`
	Parties           *string           `json:"parties"`
	Citation          *string           `json:"citation"`
	ParallelCitations *string           `json:"parallel_citations"`
	LegalTopics       models.StringList `json:"legal_topics"`
	ActsReferred      models.StringList `json:"acts_referred"`
	SectionsReferred  models.StringList `json:"sections_referred"`
	Headnotes         *string           `json:"headnotes"`
	RatioDecidendi    *string           `json:"ratio_decidendi"`
	ObiterDicta       *string           `json:"obiter_dicta"`
}

// SaveMetadata handles POST /api/pipeline/documents/:id/metadata
func (h *PipelineHandler) SaveMetadata(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req SaveMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.pipelineService.SaveMetadata(c.Request.Context(), service.SaveMetadataRequest{
		DocumentID: id,
		Metadata: &models.DocumentMetadata{
			CaseNumber:        req.CaseNumber,
			CourtName:         req.CourtName,
			Bench:             req.Bench,
			Parties:           req.Parties,
			Citation:          req.Citation,
			ParallelCitations: req.ParallelCitations,
			LegalTopics:       req.LegalTopics,
			ActsReferred:      req.ActsReferred,
			SectionsReferred:  req.SectionsReferred,
			Headnotes:         req.Headnotes,
			RatioDecidendi:    req.RatioDecidendi,
			ObiterDicta:       req.ObiterDicta,
		},
		ProcessedByID: middleware.UserID(c),
	})
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(models.StepMetadata))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"metadata": result.Metadata,
			"document": result.Document,
		},
	})
}

// SummarizeRequest represents the request body for saving summary fields
type SummarizeRequest struct {
	Summary   *string           `json:"summary"`
	KeyPoints models.StringList `json:"key_points"`
}

// Summarize handles POST /api/pipeline/documents/:id/summarize
func (h *PipelineHandler) Summarize(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.pipelineService.SaveSummary(c.Request.Context(), service.SaveSummaryRequest{
		DocumentID:    id,
		Summary:       req.Summary,
		KeyPoints:     req.KeyPoints,
		ProcessedByID: middleware.UserID(c),
	})
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(models.StepSummarization))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"metadata": result.Metadata,
			"document": result.Document,
		},
	})
}

// QAReviewRequest represents the request body for a QA review
type QAReviewRequest struct {
	ReviewType        string           `json:"review_type"`
	AccuracyScore     *int             `json:"accuracy_score"`
	CompletenessScore *int             `json:"completeness_score"`
	FormattingScore   *int             `json:"formatting_score"`
	OverallScore      *int             `json:"overall_score"`
	IsApproved        *bool            `json:"is_approved"`
	RejectionReason   *string          `json:"rejection_reason"`
	Comments          *string          `json:"comments"`
	StepFeedback      models.StringMap `json:"step_feedback"`
	Checklist         models.BoolMap   `json:"checklist"`
}

// CreateQAReview handles POST /api/pipeline/documents/:id/qa-review
func (h *PipelineHandler) CreateQAReview(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req QAReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.pipelineService.CreateQAReview(c.Request.Context(), service.CreateQAReviewRequest{
		DocumentID:        id,
		ReviewType:        req.ReviewType,
		AccuracyScore:     req.AccuracyScore,
		CompletenessScore: req.CompletenessScore,
		FormattingScore:   req.FormattingScore,
		OverallScore:      req.OverallScore,
		IsApproved:        req.IsApproved,
		RejectionReason:   req.RejectionReason,
		Comments:          req.Comments,
		StepFeedback:      req.StepFeedback,
		Checklist:         req.Checklist,
		ReviewerID:        middleware.UserID(c),
	})
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(models.StepQualityAssurance))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"review":   result.Review,
			"document": result.Document,
		},
	})
}

// ListQAReviews handles GET /api/pipeline/documents/:id/qa-reviews
func (h *PipelineHandler) ListQAReviews(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	reviews, err := h.pipelineService.ListQAReviews(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reviews,
	})
}

// PublishRequest represents the request body for publishing
type PublishRequest struct {
	SearchKeywords models.StringList `json:"search_keywords"`
	SearchWeight   float64           `json:"search_weight"`
}

// Publish handles POST /api/pipeline/documents/:id/publish
func (h *PipelineHandler) Publish(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.pipelineService.PublishDocument(c.Request.Context(), service.PublishDocumentRequest{
		DocumentID:     id,
		SearchKeywords: req.SearchKeywords,
		SearchWeight:   req.SearchWeight,
		PublishedByID:  middleware.UserID(c),
	})
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(models.StepPublish))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"document":  result.Document,
			"published": result.Published,
		},
	})
}

// AdvanceStep handles POST /api/pipeline/documents/:id/advance-step
func (h *PipelineHandler) AdvanceStep(c *gin.Context) {
	id, ok := parseDocumentID(c)
	if !ok {
		return
	}

	doc, err := h.pipelineService.AdvanceStep(c.Request.Context(), id)
	if err != nil {
		documentError(c, err)
		return
	}

	metrics.ObserveTransition(string(doc.CurrentStep))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    doc,
	})
}

// Stats handles GET /api/pipeline/stats
func (h *PipelineHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.ComputeStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STATS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
