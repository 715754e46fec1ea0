// Package recommendations provides the REST handler for the content
// recommendation feed.
package recommendations

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentos-hr/pdi-backend/internal/service/recommendation"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// RecommendationService interface for recommendation operations.
type RecommendationService interface {
	Recommend(ctx context.Context, userID uint) ([]recommendation.RecommendedContent, error)
}

// Handler handles recommendation API requests.
type Handler struct {
	service RecommendationService
	log     *logger.Logger
}

// NewHandler creates a new recommendations handler.
func NewHandler(service RecommendationService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// GetForUser returns the ordered recommendation feed for a user.
// GET /api/v1/users/:id/recommendations.
func (h *Handler) GetForUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid user id")
		return
	}

	items, err := h.service.Recommend(c.Request.Context(), uint(userID))
	if err != nil {
		h.log.Error().Err(err).Uint64("user_id", userID).Msg("Failed to aggregate recommendations")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to load recommendations")
		return
	}

	h.log.Info().
		Uint64("user_id", userID).
		Int("items", len(items)).
		Msg("Served recommendations")

	c.JSON(http.StatusOK, gin.H{
		"recommendations": items,
		"total":           len(items),
		"generated_at":    time.Now().UTC(),
	})
}

// errorResponse sends a JSON error response.
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
