package handlers

import (
	"context"
	"errors"
	"net/http"

	"legaldocs-backend/metrics"
	"legaldocs-backend/models"
	"legaldocs-backend/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles HTTP requests for the chat widget
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func chatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// Client went away mid-request; the reply was discarded
		metrics.ObserveChat("canceled")
		c.Status(499)
	case errors.Is(err, service.ErrChatUnavailable):
		metrics.ObserveChat("error")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CHAT_UNAVAILABLE",
				"message": err.Error(),
			},
		})
	default:
		metrics.ObserveChat("error")
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CHAT_FAILED",
				"message": err.Error(),
			},
		})
	}
}

// ChatRequest represents an incoming chat message with its history
type ChatRequest struct {
	Message string               `json:"message" binding:"required"`
	History []models.ChatMessage `json:"history"`
}

// Chat handles POST /api/chat/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
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

	result, err := h.chatService.Chat(c.Request.Context(), service.ChatRequest{
		Message: req.Message,
		History: req.History,
	})
	if err != nil {
		chatError(c, err)
		return
	}

	metrics.ObserveChat("ok")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply": result.Reply,
		},
	})
}

// QuickActionRequest represents a canned prompt invocation
type QuickActionRequest struct {
	ActionID string `json:"action_id" binding:"required"`
}

// QuickAction handles POST /api/chat/quick-action
func (h *ChatHandler) QuickAction(c *gin.Context) {
	var req QuickActionRequest
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

	result, err := h.chatService.QuickAction(c.Request.Context(), req.ActionID)
	if err != nil {
		chatError(c, err)
		return
	}

	metrics.ObserveChat("ok")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply": result.Reply,
		},
	})
}

// QuickActions handles GET /api/chat/quick-actions
func (h *ChatHandler) QuickActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.chatService.QuickActions(),
	})
}

// ModelInfo handles GET /api/chat/model-info
func (h *ChatHandler) ModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.chatService.ModelInfo(),
	})
}
