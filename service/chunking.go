package service

import (
	"strings"
	"unicode/utf8"

	"legaldocs-backend/models"
)

// DefaultChunkSize is the target chunk length in characters for the
// automatic splitter.
const DefaultChunkSize = 1000

// SplitIntoChunks splits cleaned text into ordered chunks of roughly
// chunkSize characters, breaking on paragraph boundaries where possible.
// Paragraphs longer than chunkSize are split at chunkSize. Chunk indexes
// are contiguous starting at zero.
func SplitIntoChunks(text string, chunkSize int) []*models.DocumentChunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var pieces []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		// Sizes are in characters, not bytes, so multibyte text
		// never gets cut mid-rune.
		runes := []rune(para)
		for len(runes) > chunkSize {
			pieces = append(pieces, string(runes[:chunkSize]))
			runes = runes[chunkSize:]
		}
		pieces = append(pieces, string(runes))
	}

	// Merge short neighbors so chunks stay near the target size.
	var merged []string
	current := ""
	for _, piece := range pieces {
		switch {
		case current == "":
			current = piece
		case utf8.RuneCountInString(current)+utf8.RuneCountInString(piece)+2 <= chunkSize:
			current = current + "\n\n" + piece
		default:
			merged = append(merged, current)
			current = piece
		}
	}
	if current != "" {
		merged = append(merged, current)
	}

	chunks := make([]*models.DocumentChunk, 0, len(merged))
	for i, content := range merged {
		tokens := len(strings.Fields(content))
		chunks = append(chunks, &models.DocumentChunk{
			ChunkIndex: i,
			Content:    content,
			TokenCount: &tokens,
		})
	}
	return chunks
}
