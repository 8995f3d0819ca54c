package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/mq"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/pkg/metrics"
)

type TaskHandler struct {
	taskRepo *repository.TaskRepository
	stats    *service.StatsService
	producer *mq.Producer
	logger   *zap.Logger
}

func NewTaskHandler(taskRepo *repository.TaskRepository, stats *service.StatsService, producer *mq.Producer, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
		stats:    stats,
		producer: producer,
		logger:   logger,
	}
}

// List returns tasks, optionally narrowed by project_id and status
// query parameters.
func (h *TaskHandler) List(c *gin.Context) {
	projectID := 0
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		projectID = id
	}

	status := c.Query("status")
	if status != "" && !model.TaskStatus(status).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	tasks, err := h.taskRepo.List(c.Request.Context(), projectID, status)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ProjectID   int        `json:"project_id" binding:"required"`
	AssigneeID  int        `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		Priority:    model.Priority(req.Priority),
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	}
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.taskRepo.Create(c.Request.Context(), task, CurrentUserID(c)); err != nil {
		h.logger.Error("Failed to create task", zap.String("title", req.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.stats.Invalidate(c.Request.Context())
	h.publish(mq.KeyTaskCreated, mq.TaskEventPayload{
		TaskID:    task.ID,
		Title:     task.Title,
		Status:    task.Status,
		ProjectID: task.ProjectID,
	})

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := patch.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskRepo.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.logger.Error("Failed to update task", zap.Int("task_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	h.stats.Invalidate(c.Request.Context())
	h.publish(mq.KeyTaskUpdated, mq.TaskEventPayload{
		TaskID:    task.ID,
		Title:     task.Title,
		Status:    task.Status,
		ProjectID: task.ProjectID,
	})

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	found, err := h.taskRepo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete task", zap.Int("task_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	h.stats.Invalidate(c.Request.Context())
	h.publish(mq.KeyTaskDeleted, mq.TaskEventPayload{TaskID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (h *TaskHandler) publish(key string, payload any) {
	if h.producer == nil {
		return
	}
	if err := h.producer.Publish(key, payload); err != nil {
		metrics.IncrementEventPublish(key, "failed")
		h.logger.Warn("Failed to publish event", zap.String("routing_key", key), zap.Error(err))
		return
	}
	metrics.IncrementEventPublish(key, "success")
}
