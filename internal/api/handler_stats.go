package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/service"
)

type StatsHandler struct {
	stats  *service.StatsService
	seed   *service.SeedService
	logger *zap.Logger
}

func NewStatsHandler(stats *service.StatsService, seed *service.SeedService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, seed: seed, logger: logger}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Seed loads the demo data set. Admin only.
func (h *StatsHandler) Seed(c *gin.Context) {
	if err := h.seed.Seed(c.Request.Context()); err != nil {
		h.logger.Error("Failed to seed sample data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.stats.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Sample data created"})
}
