// Package evaluations provides REST handlers for competency evaluations and
// their templates.
package evaluations

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentos-hr/pdi-backend/internal/models"
	evalsvc "github.com/talentos-hr/pdi-backend/internal/service/evaluation"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// RecommendationInvalidator drops a user's cached recommendation ranking.
type RecommendationInvalidator interface {
	InvalidateUser(ctx context.Context, userID uint)
}

// Handler handles evaluation API requests.
type Handler struct {
	service *evalsvc.Service
	recs    RecommendationInvalidator
	log     *logger.Logger
}

// NewHandler creates a new evaluations handler. recs may be nil when no
// recommendation cache is in play.
func NewHandler(service *evalsvc.Service, recs RecommendationInvalidator, log *logger.Logger) *Handler {
	return &Handler{service: service, recs: recs, log: log}
}

type createRequest struct {
	CollaboratorID uint `json:"collaborator_id" binding:"required"`
	ReviewerID     uint `json:"reviewer_id" binding:"required"`
	TemplateID     uint `json:"template_id" binding:"required"`
}

// Create opens a new draft evaluation.
// POST /api/v1/evaluations.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "collaborator_id, reviewer_id and template_id are required")
		return
	}

	eval, err := h.service.Create(c.Request.Context(), req.CollaboratorID, req.ReviewerID, req.TemplateID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create evaluation")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to create evaluation")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"evaluation": eval})
}

// Get returns a fully denormalized evaluation plus its computed average
// score. The average is display-only and never persisted.
// GET /api/v1/evaluations/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	eval, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "evaluation not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluation":    eval,
		"average_score": evalsvc.AverageScore(eval),
	})
}

// List returns evaluations filtered by collaborator and/or status.
// GET /api/v1/evaluations?collaborator_id=3&status=finalized.
func (h *Handler) List(c *gin.Context) {
	var collaboratorID uint
	if raw := c.Query("collaborator_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "invalid collaborator_id")
			return
		}
		collaboratorID = uint(parsed)
	}

	evals, err := h.service.List(c.Request.Context(), collaboratorID, c.Query("status"))
	if err != nil {
		if errors.Is(err, evalsvc.ErrInvalidStatus) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to list evaluations")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list evaluations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluations": evals, "total": len(evals)})
}

type updateRequest struct {
	Status       string                    `json:"status"`
	Date         *time.Time                `json:"date"`
	Strengths    string                    `json:"strengths"`
	Improvements string                    `json:"improvements"`
	Notes        string                    `json:"notes"`
	Scores       []models.EvaluationScore  `json:"scores"`
	Answers      []models.EvaluationAnswer `json:"answers"`
	TagIDs       []uint                    `json:"tag_ids"`
}

// Update rewrites an evaluation's sections, scores, answers and tags.
// PUT /api/v1/evaluations/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	eval, err := h.service.Update(c.Request.Context(), id, evalsvc.UpdateInput{
		Status:       req.Status,
		Date:         req.Date,
		Strengths:    req.Strengths,
		Improvements: req.Improvements,
		Notes:        req.Notes,
		Scores:       req.Scores,
		Answers:      req.Answers,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		h.writeServiceError(c, err, "Failed to update evaluation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluation":    eval,
		"average_score": evalsvc.AverageScore(eval),
	})
}

// Finalize moves an evaluation to its terminal state.
// POST /api/v1/evaluations/:id/finalize.
func (h *Handler) Finalize(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	eval, err := h.service.Finalize(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err, "Failed to finalize evaluation")
		return
	}

	// The finalized tags change the collaborator's recommendation signal.
	if h.recs != nil {
		h.recs.InvalidateUser(c.Request.Context(), eval.CollaboratorID)
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": eval})
}

type templateRequest struct {
	Name          string                  `json:"name" binding:"required"`
	Description   string                  `json:"description"`
	CompetencyIDs []uint                  `json:"competency_ids"`
	Questions     []models.CustomQuestion `json:"questions"`
}

// CreateTemplate creates an evaluation template.
// POST /api/v1/templates.
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	tpl, err := h.service.CreateTemplate(c.Request.Context(), evalsvc.TemplateInput{
		Name:          req.Name,
		Description:   req.Description,
		CompetencyIDs: req.CompetencyIDs,
		Questions:     req.Questions,
	})
	if err != nil {
		h.writeServiceError(c, err, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": tpl})
}

// UpdateTemplate rewrites a template's composition.
// PUT /api/v1/templates/:id.
func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	tpl, err := h.service.UpdateTemplate(c.Request.Context(), id, evalsvc.TemplateInput{
		Name:          req.Name,
		Description:   req.Description,
		CompetencyIDs: req.CompetencyIDs,
		Questions:     req.Questions,
	})
	if err != nil {
		h.writeServiceError(c, err, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tpl})
}

// GetTemplate returns a template with its ordered composition.
// GET /api/v1/templates/:id.
func (h *Handler) GetTemplate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	tpl, err := h.service.GetTemplate(c.Request.Context(), id)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "template not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": tpl})
}

// ListTemplates returns all templates.
// GET /api/v1/templates.
func (h *Handler) ListTemplates(c *gin.Context) {
	tpls, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list templates")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to list templates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": tpls, "total": len(tpls)})
}

// DeleteTemplate removes a template.
// DELETE /api/v1/templates/:id.
func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTemplate(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Uint("template_id", id).Msg("Failed to delete template")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeServiceError(c *gin.Context, err error, genericMsg string) {
	switch {
	case errors.Is(err, evalsvc.ErrInvalidScore),
		errors.Is(err, evalsvc.ErrInvalidStatus),
		errors.Is(err, evalsvc.ErrMissingPTTitle),
		errors.Is(err, evalsvc.ErrInvalidScope):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, evalsvc.ErrAlreadyFinalized):
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
