package handlers

import (
	"errors"
	"net/http"

	"legaldocs-backend/middleware"
	"legaldocs-backend/models"
	"legaldocs-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles HTTP requests for the pipeline task tracker
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid task ID format",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

func taskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": err.Error(),
			},
		})
	case errors.Is(err, service.ErrTaskAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TASK_ALREADY_ASSIGNED",
				"message": err.Error(),
			},
		})
	case errors.Is(err, service.ErrInvalidTaskStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TASK_STATUS",
				"message": err.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": err.Error(),
			},
		})
	}
}

// MyTasks handles GET /api/pipeline/tasks/my
func (h *TaskHandler) MyTasks(c *gin.Context) {
	tasks, err := h.taskService.MyTasks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
	})
}

// AvailableTasks handles GET /api/pipeline/tasks/available
func (h *TaskHandler) AvailableTasks(c *gin.Context) {
	var step *models.PipelineStep
	if s := c.Query("step"); s != "" {
		candidate := models.PipelineStep(s)
		if !models.ValidStep(candidate) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STEP",
					"message": "Unknown step: " + s,
				},
			})
			return
		}
		step = &candidate
	}

	tasks, err := h.taskService.AvailableTasks(c.Request.Context(), step)
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
	})
}

// GetTask handles GET /api/pipeline/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), id)
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

// Pickup handles POST /api/pipeline/tasks/:id/pickup
func (h *TaskHandler) Pickup(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Pickup(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

// AssignTaskRequest represents the request body for assigning a task
type AssignTaskRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// Assign handles POST /api/pipeline/tasks/:id/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req AssignTaskRequest
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

	task, err := h.taskService.Assign(c.Request.Context(), id, req.UserID, middleware.UserID(c))
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

// Start handles POST /api/pipeline/tasks/:id/start
func (h *TaskHandler) Start(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Start(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

// CompleteTaskRequest represents the request body for completing a task
type CompleteTaskRequest struct {
	Notes      *string        `json:"notes"`
	OutputData models.JSONMap `json:"output_data"`
}

// Complete handles POST /api/pipeline/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req CompleteTaskRequest
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

	task, err := h.taskService.Complete(c.Request.Context(), service.CompleteTaskRequest{
		TaskID:     id,
		Notes:      req.Notes,
		OutputData: req.OutputData,
		UserID:     middleware.UserID(c),
	})
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}

// RequestRevisionRequest represents the request body for flagging a revision
type RequestRevisionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestRevision handles POST /api/pipeline/tasks/:id/revision
func (h *TaskHandler) RequestRevision(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req RequestRevisionRequest
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

	task, err := h.taskService.RequestRevision(c.Request.Context(), id, req.Reason)
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
	})
}
