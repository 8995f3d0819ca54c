package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskboard/internal/repository"
)

type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Projects *ProjectHandler
	Tasks    *TaskHandler
	Stats    *StatsHandler
}

// NewRouter wires all routes. Everything under /api except auth
// requires a valid token; role changes and seeding are admin only.
func NewRouter(h Handlers, userRepo *repository.UserRepository, jwtSecret string, logger *zap.Logger) *gin.Engine {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	apiGroup := r.Group("/api")
	apiGroup.Use(AuthMiddleware(jwtSecret))
	{
		apiGroup.GET("/users", h.Users.List)

		apiGroup.GET("/projects", h.Projects.List)
		apiGroup.POST("/projects", h.Projects.Create)
		apiGroup.GET("/projects/:id", h.Projects.Get)
		apiGroup.DELETE("/projects/:id", h.Projects.Delete)

		apiGroup.GET("/tasks", h.Tasks.List)
		apiGroup.POST("/tasks", h.Tasks.Create)
		apiGroup.PUT("/tasks/:id", h.Tasks.Update)
		apiGroup.DELETE("/tasks/:id", h.Tasks.Delete)

		apiGroup.GET("/dashboard/stats", h.Stats.Dashboard)

		admin := apiGroup.Group("")
		admin.Use(AdminOnly(userRepo, logger))
		{
			admin.PUT("/users/:id", h.Users.UpdateRole)
			admin.POST("/seed", h.Stats.Seed)
		}
	}

	return r
}
