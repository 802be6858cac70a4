package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"legaldocs-backend/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// ErrChatUnavailable is returned when the model backend cannot produce a reply
var ErrChatUnavailable = errors.New("chat model is unavailable")

const (
	// historyWindow is the number of trailing conversation turns sent to
	// the model alongside the new message.
	historyWindow = 6

	chatMaxRetries     = 3
	chatInitialBackoff = time.Second
)

const chatSystemPrompt = `You are a helpful assistant for a legal document platform. ` +
	`Answer questions about Indian case law, legal research, and how to use the ` +
	`platform. Keep answers short and factual. Reply in plain text without ` +
	`markdown formatting.`

// ChatProvider generates one assistant reply for a conversation
type ChatProvider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, system string, history []models.ChatMessage, message string) (string, error)
}

// OllamaProvider talks to a local Ollama server
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates an Ollama-backed chat provider
func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the provider name
func (o *OllamaProvider) Name() string { return "ollama" }

// Model returns the configured model tag
func (o *OllamaProvider) Model() string { return o.model }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

// Generate sends the conversation to Ollama's chat endpoint, retrying
// transient failures with exponential backoff. Cancellation of ctx aborts
// both the in-flight request and any pending backoff.
func (o *OllamaProvider) Generate(ctx context.Context, system string, history []models.ChatMessage, message string) (string, error) {
	msgs := make([]ollamaMessage, 0, len(history)+2)
	msgs = append(msgs, ollamaMessage{Role: "system", Content: system})
	for _, m := range history {
		msgs = append(msgs, ollamaMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, ollamaMessage{Role: "user", Content: message})

	jsonData, err := json.Marshal(ollamaChatRequest{
		Model:    o.model,
		Messages: msgs,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := chatInitialBackoff
	var lastErr error
	for attempt := 0; attempt < chatMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/chat", bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp ollamaChatResponse
			err := json.NewDecoder(resp.Body).Decode(&apiResp)
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("failed to decode response: %w", err)
				continue
			}
			if apiResp.Error != "" {
				return "", fmt.Errorf("%w: %s", ErrChatUnavailable, apiResp.Error)
			}
			return apiResp.Message.Content, nil
		}

		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Client errors will not get better on retry
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: status %d: %s", ErrChatUnavailable, resp.StatusCode, string(bodyBytes))
		}
		lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return "", fmt.Errorf("%w: %v", ErrChatUnavailable, lastErr)
}

// GeminiProvider uses the Google generative AI client
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed chat provider
func NewGeminiProvider(client *genai.Client, model string) *GeminiProvider {
	return &GeminiProvider{client: client, model: model}
}

// Name returns the provider name
func (g *GeminiProvider) Name() string { return "gemini" }

// Model returns the configured model name
func (g *GeminiProvider) Model() string { return g.model }

// Generate runs a single chat turn through the Gemini API
func (g *GeminiProvider) Generate(ctx context.Context, system string, history []models.ChatMessage, message string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	session := model.StartChat()
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() == 0 {
		return "", ErrChatUnavailable
	}
	return sb.String(), nil
}

// QuickAction is a canned prompt exposed to the chat widget
type QuickAction struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"-"`
}

var quickActions = []QuickAction{
	{
		ID:     "find_judgments",
		Label:  "Find judgments",
		Prompt: "How do I search for judgments on this platform?",
	},
	{
		ID:     "explain_citation",
		Label:  "Explain a citation",
		Prompt: "Explain how Indian case citations like (2020) 5 SCC 1 are structured.",
	},
	{
		ID:     "pipeline_help",
		Label:  "Pipeline help",
		Prompt: "Walk me through the document processing pipeline steps.",
	},
	{
		ID:     "contact_support",
		Label:  "Contact support",
		Prompt: "How do I contact support for this platform?",
	},
}

// ChatService proxies widget conversations to a model backend
type ChatService struct {
	provider ChatProvider
	logger   *zap.Logger
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// WithChatProvider sets the model backend
func WithChatProvider(p ChatProvider) ChatServiceOption {
	return func(c *ChatService) { c.provider = p }
}

// WithChatLogger sets the logger
func WithChatLogger(l *zap.Logger) ChatServiceOption {
	return func(c *ChatService) { c.logger = l }
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	c := &ChatService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChatRequest represents one widget message with its trailing history
type ChatRequest struct {
	Message string
	History []models.ChatMessage
}

// ChatResult represents the assistant's reply
type ChatResult struct {
	Reply models.ChatMessage
}

// Chat sends the message plus the trailing history window to the model and
// returns the sanitized reply. A canceled ctx aborts the upstream call; the
// partial or late reply is discarded, never returned.
func (c *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if c.provider == nil {
		return nil, ErrChatUnavailable
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.New("message is required")
	}

	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	raw, err := c.provider.Generate(ctx, chatSystemPrompt, history, message)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &ChatResult{Reply: models.ChatMessage{
		Role:      "assistant",
		Content:   SanitizeChatReply(raw),
		Timestamp: &now,
	}}, nil
}

// QuickAction runs one of the canned prompts
func (c *ChatService) QuickAction(ctx context.Context, id string) (*ChatResult, error) {
	for _, qa := range quickActions {
		if qa.ID == id {
			return c.Chat(ctx, ChatRequest{Message: qa.Prompt})
		}
	}
	return nil, fmt.Errorf("unknown quick action %q", id)
}

// QuickActions lists the canned prompts the widget can offer
func (c *ChatService) QuickActions() []QuickAction {
	return quickActions
}

// ModelInfo describes the active chat backend
type ModelInfo struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	HistoryWindow int    `json:"history_window"`
}

// ModelInfo reports the active backend and its settings
func (c *ChatService) ModelInfo() ModelInfo {
	info := ModelInfo{HistoryWindow: historyWindow}
	if c.provider != nil {
		info.Provider = c.provider.Name()
		info.Model = c.provider.Model()
	}
	return info
}

var (
	codeFenceRe  = regexp.MustCompile("```[a-zA-Z]*")
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.+?)\*`)
	underlineRe  = regexp.MustCompile(`__(.+?)__`)
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

// SanitizeChatReply strips the markdown markers models emit despite being
// told not to; the widget renders plain text.
func SanitizeChatReply(s string) string {
	s = codeFenceRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = underlineRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = headingRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
