package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/mq"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/pkg/metrics"
)

type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	stats       *service.StatsService
	producer    *mq.Producer
	logger      *zap.Logger
}

func NewProjectHandler(projectRepo *repository.ProjectRepository, taskRepo *repository.TaskRepository, stats *service.StatsService, producer *mq.Producer, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		stats:       stats,
		producer:    producer,
		logger:      logger,
	}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.projectRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.logger.Error("Failed to load project", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	tasks, err := h.taskRepo.List(c.Request.Context(), id, "")
	if err != nil {
		h.logger.Error("Failed to load project tasks", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	project.Tasks = tasks

	c.JSON(http.StatusOK, project)
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = model.ProjectStatusActive
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		OwnerID:     CurrentUserID(c),
	}
	if err := project.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projectRepo.Create(c.Request.Context(), project); err != nil {
		h.logger.Error("Failed to create project", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.stats.Invalidate(c.Request.Context())
	h.publish(mq.KeyProjectCreated, mq.ProjectEventPayload{
		ProjectID: project.ID,
		Name:      project.Name,
		Status:    project.Status,
		OwnerID:   project.OwnerID,
	})

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	found, err := h.projectRepo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete project", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	h.stats.Invalidate(c.Request.Context())
	h.publish(mq.KeyProjectDeleted, mq.ProjectEventPayload{ProjectID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// publish sends a board event. Delivery failures are logged but never
// fail the request.
func (h *ProjectHandler) publish(key string, payload any) {
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
