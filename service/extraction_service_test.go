package service

import (
	"context"
	"strings"
	"testing"

	"legaldocs-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextFromTxt(t *testing.T) {
	files := newFakeStorage()
	svc := NewExtractionService(WithExtractionStorage(files))

	docID := uuid.New()
	path, err := files.Upload(context.Background(), docID, "order.txt", strings.NewReader("IN THE HIGH COURT\n\nOrder text."))
	require.NoError(t, err)

	doc := &models.Document{
		ID:               docID,
		OriginalFilename: "order.txt",
		StoragePath:      path,
	}

	result, err := svc.ExtractText(context.Background(), doc, "")
	require.NoError(t, err)

	assert.Equal(t, "IN THE HIGH COURT\n\nOrder text.", result.RawText)
	assert.Equal(t, 6, result.WordCount)
	assert.Equal(t, "direct", result.ExtractionMethod)
	assert.InDelta(t, 1.0, result.ConfidenceScore, 0.001)
}

func TestExtractTextRejectsUnsupportedType(t *testing.T) {
	files := newFakeStorage()
	svc := NewExtractionService(WithExtractionStorage(files))

	docID := uuid.New()
	path, err := files.Upload(context.Background(), docID, "scan.png", strings.NewReader("binary"))
	require.NoError(t, err)

	doc := &models.Document{
		ID:               docID,
		OriginalFilename: "scan.png",
		StoragePath:      path,
	}

	_, err = svc.ExtractText(context.Background(), doc, "")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestCleanTextStripsMarkdownNoise(t *testing.T) {
	raw := "# JUDGMENT\n\n- First point\n- Second point\n\nThe **court** held."
	got := CleanText(raw)

	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "- First")
	assert.Contains(t, got, "First point")
	assert.Contains(t, got, "Second point")
}

func TestCleanTextStripsCourtHeaders(t *testing.T) {
	raw := "Intro line\n NC: 2023:KHC:12345 \nBody continues\nCP No. 42 of 2021\nMore body"
	got := CleanText(raw)

	assert.NotContains(t, got, "NC:")
	assert.NotContains(t, got, "CP No.")
	assert.Contains(t, got, "Intro line")
	assert.Contains(t, got, "Body continues")
	assert.Contains(t, got, "More body")
}

func TestCleanTextStripsPageArtifacts(t *testing.T) {
	raw := "End of page one.\n - 2 - \nStart of page two.\nPage 3 of 10\nFinal text.\nCONFIDENTIAL\nPostscript."
	got := CleanText(raw)

	assert.NotContains(t, got, "- 2 -")
	assert.NotContains(t, got, "Page 3")
	assert.NotContains(t, got, "CONFIDENTIAL")
	assert.Contains(t, got, "End of page one.")
	assert.Contains(t, got, "Start of page two.")
	assert.Contains(t, got, "Postscript.")
}

func TestCleanTextStripsHTMLEntities(t *testing.T) {
	raw := "Plaintiff &amp; Defendant <!-- comment --> appeared"
	got := CleanText(raw)

	assert.NotContains(t, got, "&amp;")
	assert.NotContains(t, got, "<!--")
	assert.Contains(t, got, "Plaintiff")
	assert.Contains(t, got, "Defendant")
}

func TestCleanTextNormalizesWhitespace(t *testing.T) {
	raw := "Line  with\textra   spaces\r\nWindows line ending\n\n\n\n\nAfter blank run"
	got := CleanText(raw)

	assert.Contains(t, got, "Line with extra spaces")
	assert.Contains(t, got, "Windows line ending")
	assert.NotContains(t, got, "\n\n\n")
	assert.NotContains(t, got, "\r")
}

func TestCleanTextEmptyInput(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n\n  "))
}
