package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"legaldocs-backend/models"
	"legaldocs-backend/storage"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// ErrUnsupportedFileType is returned when server-side extraction cannot
// handle the document's format.
var ErrUnsupportedFileType = errors.New("unsupported file type for extraction")

// ExtractionService derives raw text from stored files
type ExtractionService struct {
	files  storage.Storage
	logger *zap.Logger
}

// ExtractionServiceOption is a functional option for ExtractionService
type ExtractionServiceOption func(*ExtractionService)

// WithExtractionStorage sets the file storage backend
func WithExtractionStorage(s storage.Storage) ExtractionServiceOption {
	return func(e *ExtractionService) { e.files = s }
}

// WithExtractionLogger sets the logger
func WithExtractionLogger(l *zap.Logger) ExtractionServiceOption {
	return func(e *ExtractionService) { e.logger = l }
}

// NewExtractionService creates a new extraction service
func NewExtractionService(opts ...ExtractionServiceOption) *ExtractionService {
	e := &ExtractionService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractTextResult represents server-side extraction output
type ExtractTextResult struct {
	RawText          string
	PageCount        *int
	WordCount        int
	ExtractionMethod string
	ConfidenceScore  float64
}

// ExtractText pulls raw text out of the document's stored file. Plain text
// files are read directly; PDFs are validated and scanned with pdfcpu. The
// requested method is recorded on the result, OCR itself is not performed.
func (e *ExtractionService) ExtractText(ctx context.Context, doc *models.Document, method string) (*ExtractTextResult, error) {
	if method == "" {
		method = "direct"
	}

	localPath, cleanup, err := e.materialize(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ext := strings.ToLower(filepath.Ext(doc.OriginalFilename))
	switch ext {
	case ".txt":
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("reading text file: %w", err)
		}
		raw := string(data)
		return &ExtractTextResult{
			RawText:          raw,
			WordCount:        len(strings.Fields(raw)),
			ExtractionMethod: method,
			ConfidenceScore:  1.0,
		}, nil

	case ".pdf":
		return e.extractPDF(localPath, method)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}

// materialize stages the stored file on local disk for the extractors,
// which work on file paths.
func (e *ExtractionService) materialize(ctx context.Context, doc *models.Document) (string, func(), error) {
	rc, err := e.files.Download(ctx, doc.StoragePath)
	if err != nil {
		return "", nil, fmt.Errorf("downloading stored file: %w", err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp("", "extract-*"+filepath.Ext(doc.OriginalFilename))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("staging file for extraction: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

func (e *ExtractionService) extractPDF(path, method string) (*ExtractTextResult, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, cfg); err != nil {
		return nil, fmt.Errorf("validating pdf: %w", err)
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("counting pdf pages: %w", err)
	}

	outDir, err := os.MkdirTemp("", "extract-content-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(outDir)

	raw := ""
	if err := api.ExtractContentFile(path, outDir, nil, cfg); err != nil {
		e.logger.Warn("pdf content extraction failed, returning empty text",
			zap.String("path", path), zap.Error(err))
	} else {
		raw = collectPDFText(outDir)
	}

	return &ExtractTextResult{
		RawText:          raw,
		PageCount:        &pageCount,
		WordCount:        len(strings.Fields(raw)),
		ExtractionMethod: method,
		ConfidenceScore:  0.6,
	}, nil
}

var (
	pdfTjRe  = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*Tj`)
	pdfTJRe  = regexp.MustCompile(`\[((?:\\.|[^\]])*)\]\s*TJ`)
	pdfStrRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// collectPDFText scans the decoded content streams pdfcpu wrote to dir and
// pulls the literal strings out of the text-show operators. Good enough for
// simple digital PDFs; scanned documents come back empty and need OCR.
func collectPDFText(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var pages []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		content := string(data)

		var parts []string
		for _, m := range pdfTjRe.FindAllStringSubmatch(content, -1) {
			parts = append(parts, unescapePDFString(m[1]))
		}
		for _, m := range pdfTJRe.FindAllStringSubmatch(content, -1) {
			for _, sm := range pdfStrRe.FindAllStringSubmatch(m[1], -1) {
				parts = append(parts, unescapePDFString(sm[1]))
			}
		}
		if len(parts) > 0 {
			pages = append(pages, strings.Join(parts, " "))
		}
	}
	return strings.Join(pages, "\n\n")
}

func unescapePDFString(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "",
		`\t`, " ",
	)
	return replacer.Replace(s)
}

var (
	htmlCommentRe  = regexp.MustCompile(`<!--\s*\w+\s*-->`)
	unknownTagRe   = regexp.MustCompile(`(?i)&lt;unknown&gt;`)
	htmlEntityRe   = regexp.MustCompile(`(?i)&[a-z]+;`)
	ncHeaderRe     = regexp.MustCompile(`\n\s*NC:\s*\d{4}:[A-Z]+:\d+\s*\n`)
	cpHeaderRe     = regexp.MustCompile(`(?i)\n\s*CP\s+No\.?\s+\d+\s+of\s+\d{4}\s*\n`)
	bareHeadingRe  = regexp.MustCompile(`\n\s*#{1,6}\s*\n`)
	mdHeadingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletDashRe   = regexp.MustCompile(`(?m)^-\s+`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)
	pageNumberRe   = regexp.MustCompile(`\n\s*[-–—]?\s*\d+\s*[-–—]?\s*\n`)
	pageLabelRe    = regexp.MustCompile(`(?i)\nPage\s+\d+\s*(of\s+\d+)?\s*\n`)
	footerNoiseRe  = regexp.MustCompile(`(?i)\n\s*(CONFIDENTIAL|DRAFT|DO NOT DISTRIBUTE)\s*\n`)
	listNoFooterRe = regexp.MustCompile(`(?i)\n\s*List\s+No\.?:\s*\d+\s*\n`)
	slNoFooterRe   = regexp.MustCompile(`(?i)\n\s*Sl\s+No\.?:\s*\d+\s*\n`)
	lineSpaceRe    = regexp.MustCompile(`[ \t]+`)
)

// CleanText strips the extraction artifacts that show up in court documents
// and normalizes whitespace: markdown noise, HTML entities, repeated
// header/footer lines, and page number lines.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := raw
	cleaned = htmlCommentRe.ReplaceAllString(cleaned, "")
	cleaned = unknownTagRe.ReplaceAllString(cleaned, "")
	cleaned = htmlEntityRe.ReplaceAllString(cleaned, "")

	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")

	cleaned = ncHeaderRe.ReplaceAllString(cleaned, "\n")
	cleaned = cpHeaderRe.ReplaceAllString(cleaned, "\n")

	cleaned = bareHeadingRe.ReplaceAllString(cleaned, "\n")
	cleaned = mdHeadingRe.ReplaceAllString(cleaned, "")
	cleaned = bulletDashRe.ReplaceAllString(cleaned, "")

	cleaned = blankRunRe.ReplaceAllString(cleaned, "\n\n")

	cleaned = pageNumberRe.ReplaceAllString(cleaned, "\n")
	cleaned = pageLabelRe.ReplaceAllString(cleaned, "\n")
	cleaned = footerNoiseRe.ReplaceAllString(cleaned, "\n")
	cleaned = listNoFooterRe.ReplaceAllString(cleaned, "\n")
	cleaned = slNoFooterRe.ReplaceAllString(cleaned, "\n")

	cleaned = lineSpaceRe.ReplaceAllString(cleaned, " ")

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
