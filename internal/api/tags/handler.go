// Package tags provides REST handlers for the tag catalog.
package tags

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	contentsvc "github.com/talentos-hr/pdi-backend/internal/service/content"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Handler handles tag API requests.
type Handler struct {
	service *contentsvc.Service
	log     *logger.Logger
}

// NewHandler creates a new tags handler.
func NewHandler(service *contentsvc.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

type tagRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Create creates a tag. The slug is derived from the name unless supplied.
// POST /api/v1/tags.
func (h *Handler) Create(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		h.writeServiceError(c, err, "Failed to create tag")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// Update renames a tag, regenerating the slug unless one is supplied.
// PUT /api/v1/tags/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	tag, err := h.service.UpdateTag(c.Request.Context(), id, req.Name, req.Slug, req.Description)
	if err != nil {
		h.writeServiceError(c, err, "Failed to update tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// List returns the tag catalog.
// GET /api/v1/tags.
func (h *Handler) List(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list tags")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags, "total": len(tags)})
}

// Delete removes a tag.
// DELETE /api/v1/tags/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTag(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Uint("tag_id", id).Msg("Failed to delete tag")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeServiceError(c *gin.Context, err error, genericMsg string) {
	switch {
	case errors.Is(err, contentsvc.ErrTagNameRequired):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, contentsvc.ErrTagTaken):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg(genericMsg)
		h.errorResponse(c, http.StatusInternalServerError, genericMsg)
	}
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
