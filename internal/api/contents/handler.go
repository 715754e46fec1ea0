// Package contents provides REST handlers for the learning content catalog.
package contents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	contentsvc "github.com/talentos-hr/pdi-backend/internal/service/content"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Handler handles content API requests.
type Handler struct {
	service *contentsvc.Service
	log     *logger.Logger
}

// NewHandler creates a new contents handler.
func NewHandler(service *contentsvc.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

type contentRequest struct {
	Title            string `json:"title" binding:"required"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	CoverImageURL    string `json:"cover_image_url"`
	MediaTypeID      *uint  `json:"media_type_id"`
	ExternalLink     string `json:"external_link"`
	DurationMinutes  *int   `json:"duration_minutes"`
	CostCents        *int   `json:"cost_cents"`
	TagIDs           []uint `json:"tag_ids"`
	CompetencyIDs    []uint `json:"competency_ids"`
	AudienceIDs      []uint `json:"audience_ids"`
}

func (r *contentRequest) toInput() contentsvc.Input {
	return contentsvc.Input{
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		CoverImageURL:    r.CoverImageURL,
		MediaTypeID:      r.MediaTypeID,
		ExternalLink:     r.ExternalLink,
		DurationMinutes:  r.DurationMinutes,
		CostCents:        r.CostCents,
		TagIDs:           r.TagIDs,
		CompetencyIDs:    r.CompetencyIDs,
		AudienceIDs:      r.AudienceIDs,
	}
}

// Create creates a content with its associations.
// POST /api/v1/contents.
func (h *Handler) Create(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "title is required")
		return
	}

	content, err := h.service.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.writeServiceError(c, err, "Failed to create content")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"content": content})
}

// Update edits a content, fully replacing its associations.
// PUT /api/v1/contents/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "title is required")
		return
	}

	content, err := h.service.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.writeServiceError(c, err, "Failed to update content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

// Get returns one content with all associations.
// GET /api/v1/contents/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	content, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "content not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// List returns the content catalog.
// GET /api/v1/contents?active=true.
func (h *Handler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "false") == "true"

	contents, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list contents")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list contents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"contents": contents, "total": len(contents)})
}

type activeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive activates or deactivates a content.
// PUT /api/v1/contents/:id/active.
func (h *Handler) SetActive(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "active is required")
		return
	}

	if err := h.service.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		h.log.Error().Err(err).Uint("content_id", id).Msg("Failed to set content active flag")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to update content")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeServiceError(c *gin.Context, err error, genericMsg string) {
	if errors.Is(err, contentsvc.ErrTitleRequired) {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg(genericMsg)
	h.errorResponse(c, http.StatusInternalServerError, genericMsg)
}

func (h *Handler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// errorResponse sends a JSON error response.
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
