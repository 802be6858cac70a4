package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"legaldocs-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaTestServer(t *testing.T, reply string) (*httptest.Server, *[]ollamaChatRequest) {
	t.Helper()
	var seen []ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: reply},
			Done:    true,
		})
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func TestChatSendsSystemPromptAndWindow(t *testing.T) {
	server, seen := newOllamaTestServer(t, "Here is your answer.")
	svc := NewChatService(WithChatProvider(NewOllamaProvider(server.URL, "llama3.2")))

	// Ten messages of history; only the trailing window goes upstream
	history := make([]models.ChatMessage, 10)
	for i := range history {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history[i] = models.ChatMessage{Role: role, Content: "turn"}
	}

	result, err := svc.Chat(context.Background(), ChatRequest{
		Message: "What is a headnote?",
		History: history,
	})
	require.NoError(t, err)
	assert.Equal(t, "assistant", result.Reply.Role)
	assert.Equal(t, "Here is your answer.", result.Reply.Content)
	require.NotNil(t, result.Reply.Timestamp)
	assert.False(t, result.Reply.Timestamp.IsZero())

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "llama3.2", req.Model)
	assert.False(t, req.Stream)

	// system + windowed history + user message
	require.Len(t, req.Messages, historyWindow+2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "user", req.Messages[len(req.Messages)-1].Role)
	assert.Equal(t, "What is a headnote?", req.Messages[len(req.Messages)-1].Content)
}

func TestChatRejectsBlankMessage(t *testing.T) {
	server, _ := newOllamaTestServer(t, "unused")
	svc := NewChatService(WithChatProvider(NewOllamaProvider(server.URL, "llama3.2")))

	_, err := svc.Chat(context.Background(), ChatRequest{Message: "   "})
	assert.Error(t, err)
}

func TestChatWithoutProvider(t *testing.T) {
	svc := NewChatService()

	_, err := svc.Chat(context.Background(), ChatRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrChatUnavailable)
}

func TestChatDiscardsReplyOnCanceledContext(t *testing.T) {
	server, _ := newOllamaTestServer(t, "late reply")
	svc := NewChatService(WithChatProvider(NewOllamaProvider(server.URL, "llama3.2")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Chat(ctx, ChatRequest{Message: "hello"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChatSurfacesModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{Error: "model not loaded"})
	}))
	t.Cleanup(server.Close)

	svc := NewChatService(WithChatProvider(NewOllamaProvider(server.URL, "llama3.2")))
	_, err := svc.Chat(context.Background(), ChatRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrChatUnavailable)
}

func TestOllamaNoRetryOnClientError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	provider := NewOllamaProvider(server.URL, "missing")
	_, err := provider.Generate(context.Background(), "system", nil, "hello")
	require.ErrorIs(t, err, ErrChatUnavailable)
	assert.Equal(t, 1, calls)
}

func TestQuickActionRunsCannedPrompt(t *testing.T) {
	server, seen := newOllamaTestServer(t, "To find judgments, use the search page.")
	svc := NewChatService(WithChatProvider(NewOllamaProvider(server.URL, "llama3.2")))

	actions := svc.QuickActions()
	require.NotEmpty(t, actions)

	result, err := svc.QuickAction(context.Background(), actions[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Reply.Content)
	require.Len(t, *seen, 1)

	_, err = svc.QuickAction(context.Background(), "no-such-action")
	assert.Error(t, err)
}

func TestModelInfo(t *testing.T) {
	svc := NewChatService(WithChatProvider(NewOllamaProvider("http://localhost:11434", "llama3.2")))

	info := svc.ModelInfo()
	assert.Equal(t, "ollama", info.Provider)
	assert.Equal(t, "llama3.2", info.Model)
	assert.Equal(t, historyWindow, info.HistoryWindow)
}

func TestSanitizeChatReply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "This is **important** text", "This is important text"},
		{"italic", "This is *emphasized* text", "This is emphasized text"},
		{"underline", "This is __underlined__ text", "This is underlined text"},
		{"inline code", "Use the `search` endpoint", "Use the search endpoint"},
		{"heading", "# Title\nBody text", "Title\nBody text"},
		{"plain untouched", "No markup at all.", "No markup at all."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeChatReply(tt.in))
		})
	}
}

func TestSanitizeChatReplyStripsCodeFence(t *testing.T) {
	in := "Before\n```go\nfunc main() {}\n```\nAfter"
	out := SanitizeChatReply(in)
	assert.NotContains(t, out, "```")
	assert.Contains(t, out, "Before")
	assert.Contains(t, out, "After")
}
