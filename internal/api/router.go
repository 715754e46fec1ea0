// Package api assembles the HTTP surface of the PDI backend.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentos-hr/pdi-backend/internal/api/auth"
	"github.com/talentos-hr/pdi-backend/internal/api/contents"
	"github.com/talentos-hr/pdi-backend/internal/api/evaluations"
	"github.com/talentos-hr/pdi-backend/internal/api/middleware"
	"github.com/talentos-hr/pdi-backend/internal/api/pdi"
	"github.com/talentos-hr/pdi-backend/internal/api/provisioning"
	"github.com/talentos-hr/pdi-backend/internal/api/recommendations"
	"github.com/talentos-hr/pdi-backend/internal/api/tags"
	"github.com/talentos-hr/pdi-backend/internal/api/uploads"
	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/internal/repository"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth            *auth.Handler
	Contents        *contents.Handler
	Evaluations     *evaluations.Handler
	PDI             *pdi.Handler
	Provisioning    *provisioning.Handler
	Recommendations *recommendations.Handler
	Tags            *tags.Handler
	Uploads         *uploads.Handler
}

// NewRouter builds the gin engine with all routes and middleware mounted.
func NewRouter(cfg *config.Config, db *repository.DB, verifier middleware.TokenVerifier, h Handlers) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	router.POST("/auth/login", h.Auth.Login)

	// Privileged provisioning endpoint; it runs its own gates instead of the
	// shared auth middleware because /setup must stay reachable without a
	// token while the bootstrap gate is open.
	adminGroup := router.Group("/admin")
	h.Provisioning.Register(adminGroup)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/admin/") {
			h.Provisioning.NotFound(c)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(verifier))
	{
		v1.GET("/tags", h.Tags.List)
		v1.POST("/tags", h.Tags.Create)
		v1.PUT("/tags/:id", h.Tags.Update)
		v1.DELETE("/tags/:id", h.Tags.Delete)

		v1.GET("/contents", h.Contents.List)
		v1.POST("/contents", h.Contents.Create)
		v1.GET("/contents/:id", h.Contents.Get)
		v1.PUT("/contents/:id", h.Contents.Update)
		v1.PUT("/contents/:id/active", h.Contents.SetActive)

		v1.GET("/templates", h.Evaluations.ListTemplates)
		v1.POST("/templates", h.Evaluations.CreateTemplate)
		v1.GET("/templates/:id", h.Evaluations.GetTemplate)
		v1.PUT("/templates/:id", h.Evaluations.UpdateTemplate)
		v1.DELETE("/templates/:id", h.Evaluations.DeleteTemplate)

		v1.GET("/evaluations", h.Evaluations.List)
		v1.POST("/evaluations", h.Evaluations.Create)
		v1.GET("/evaluations/:id", h.Evaluations.Get)
		v1.PUT("/evaluations/:id", h.Evaluations.Update)
		v1.POST("/evaluations/:id/finalize", h.Evaluations.Finalize)

		v1.GET("/users/:id/recommendations", h.Recommendations.GetForUser)
		v1.GET("/users/:id/pdi", h.PDI.GetPlan)
		v1.POST("/users/:id/enrollments", h.PDI.Enroll)
		v1.POST("/users/:id/enrollments/:enrollmentID/complete", h.PDI.Complete)
		v1.PUT("/users/:id/enrollments/:enrollmentID/reschedule", h.PDI.Reschedule)
		v1.DELETE("/users/:id/enrollments/:enrollmentID", h.PDI.RemoveEnrollment)
		v1.POST("/users/:id/actions", h.PDI.CreateAction)
		v1.PUT("/users/:id/actions/:actionID", h.PDI.UpdateAction)
		v1.POST("/users/:id/actions/:actionID/toggle", h.PDI.ToggleAction)
		v1.DELETE("/users/:id/actions/:actionID", h.PDI.DeleteAction)

		v1.POST("/uploads/:namespace", h.Uploads.Upload)
	}

	return router
}
