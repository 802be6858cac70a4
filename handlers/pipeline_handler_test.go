package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineDispositionEscapesFilename(t *testing.T) {
	assert.Equal(t, `inline; filename=judgment.pdf`, inlineDisposition("judgment.pdf"))
	assert.Equal(t, `inline; filename="order 42.pdf"`, inlineDisposition("order 42.pdf"))

	// Quotes and control characters must not break out of the header value.
	got := inlineDisposition("a\"b\r\n.pdf")
	assert.NotContains(t, got, "\r")
	assert.NotContains(t, got, "\n")
	assert.NotContains(t, got, `"a"b`)
}
