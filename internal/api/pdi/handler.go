// Package pdi provides REST handlers for a user's development plan:
// content enrollments and personal action items.
package pdi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentos-hr/pdi-backend/internal/models"
	pdisvc "github.com/talentos-hr/pdi-backend/internal/service/pdi"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// PlanService interface for development plan operations.
type PlanService interface {
	GetUserPlan(ctx context.Context, userID uint) (*pdisvc.Plan, error)
	Enroll(ctx context.Context, userID, contentID uint, dueDate *time.Time) (*models.Enrollment, error)
	Complete(ctx context.Context, userID, enrollmentID uint, rating int, comment string) (*models.Enrollment, error)
	Reschedule(ctx context.Context, userID, enrollmentID uint, dueDate time.Time) (*models.Enrollment, error)
	RemoveEnrollment(ctx context.Context, userID, enrollmentID uint) error
	CreateAction(ctx context.Context, userID uint, description string, dueDate time.Time, costCents *int) (*models.UserAction, error)
	UpdateAction(ctx context.Context, userID, actionID uint, description string, dueDate time.Time, costCents *int) (*models.UserAction, error)
	ToggleAction(ctx context.Context, userID, actionID uint) (*models.UserAction, error)
	DeleteAction(ctx context.Context, userID, actionID uint) error
}

// Handler handles development plan API requests.
type Handler struct {
	service PlanService
	log     *logger.Logger
}

// NewHandler creates a new PDI handler.
func NewHandler(service PlanService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// GetPlan returns a user's full development plan, with enrollments also
// partitioned by status for display.
// GET /api/v1/users/:id/pdi.
func (h *Handler) GetPlan(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	plan, err := h.service.GetUserPlan(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to load development plan")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to load development plan")
		return
	}

	inProgress, completed := plan.Partition()
	c.JSON(http.StatusOK, gin.H{
		"enrollments":             plan.Enrollments,
		"enrollments_in_progress": inProgress,
		"enrollments_completed":   completed,
		"actions":                 plan.Actions,
	})
}

type enrollRequest struct {
	ContentID uint       `json:"content_id" binding:"required"`
	DueDate   *time.Time `json:"due_date"`
}

// Enroll adds a content to the user's plan.
// POST /api/v1/users/:id/enrollments.
func (h *Handler) Enroll(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "content_id is required")
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), userID, req.ContentID, req.DueDate)
	if err != nil {
		if errors.Is(err, pdisvc.ErrAlreadyEnrolled) {
			h.errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to enroll content")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to add content to plan")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"enrollment": enrollment})
}

type completeRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Complete marks an enrollment done with a star rating.
// POST /api/v1/users/:id/enrollments/:enrollmentID/complete.
func (h *Handler) Complete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	enrollmentID, ok := h.pathID(c, "enrollmentID")
	if !ok {
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	enrollment, err := h.service.Complete(c.Request.Context(), userID, enrollmentID, req.Rating, req.Comment)
	if err != nil {
		h.writeOwnedError(c, err, "Failed to complete enrollment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

type rescheduleRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// Reschedule moves an enrollment's planned due date.
// PUT /api/v1/users/:id/enrollments/:enrollmentID/reschedule.
func (h *Handler) Reschedule(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	enrollmentID, ok := h.pathID(c, "enrollmentID")
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "due_date is required")
		return
	}

	enrollment, err := h.service.Reschedule(c.Request.Context(), userID, enrollmentID, req.DueDate)
	if err != nil {
		h.writeOwnedError(c, err, "Failed to reschedule enrollment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

// RemoveEnrollment deletes an enrollment from the plan.
// DELETE /api/v1/users/:id/enrollments/:enrollmentID.
func (h *Handler) RemoveEnrollment(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	enrollmentID, ok := h.pathID(c, "enrollmentID")
	if !ok {
		return
	}

	if err := h.service.RemoveEnrollment(c.Request.Context(), userID, enrollmentID); err != nil {
		h.writeOwnedError(c, err, "Failed to remove enrollment")
		return
	}
	c.Status(http.StatusNoContent)
}

type actionRequest struct {
	Description string    `json:"description" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	CostCents   *int      `json:"cost_cents"`
}

// CreateAction adds a personal action item.
// POST /api/v1/users/:id/actions.
func (h *Handler) CreateAction(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "description and due_date are required")
		return
	}

	action, err := h.service.CreateAction(c.Request.Context(), userID, req.Description, req.DueDate, req.CostCents)
	if err != nil {
		h.writeOwnedError(c, err, "Failed to create action")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"action": action})
}

// UpdateAction edits an action item.
// PUT /api/v1/users/:id/actions/:actionID.
func (h *Handler) UpdateAction(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	actionID, ok := h.pathID(c, "actionID")
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "description and due_date are required")
		return
	}

	action, err := h.service.UpdateAction(c.Request.Context(), userID, actionID, req.Description, req.DueDate, req.CostCents)
	if err != nil {
		h.writeOwnedError(c, err, "Failed to update action")
		return
	}

	c.JSON(http.StatusOK, gin.H{"action": action})
}

// ToggleAction flips an action between in-progress and completed.
// POST /api/v1/users/:id/actions/:actionID/toggle.
func (h *Handler) ToggleAction(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	actionID, ok := h.pathID(c, "actionID")
	if !ok {
		return
	}

	action, err := h.service.ToggleAction(c.Request.Context(), userID, actionID)
	if err != nil {
		h.writeOwnedError(c, err, "Failed to toggle action")
		return
	}

	c.JSON(http.StatusOK, gin.H{"action": action})
}

// DeleteAction removes an action item.
// DELETE /api/v1/users/:id/actions/:actionID.
func (h *Handler) DeleteAction(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	actionID, ok := h.pathID(c, "actionID")
	if !ok {
		return
	}

	if err := h.service.DeleteAction(c.Request.Context(), userID, actionID); err != nil {
		h.writeOwnedError(c, err, "Failed to delete action")
		return
	}
	c.Status(http.StatusNoContent)
}

// writeOwnedError maps service errors onto HTTP statuses: validation and
// conflict errors keep their message, everything else gets a generic 500.
func (h *Handler) writeOwnedError(c *gin.Context, err error, genericMsg string) {
	switch {
	case errors.Is(err, pdisvc.ErrRatingRequired),
		errors.Is(err, pdisvc.ErrDescriptionTooShort),
		errors.Is(err, pdisvc.ErrDueDateRequired):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, pdisvc.ErrNotOwner):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, pdisvc.ErrAlreadyEnrolled):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg(genericMsg)
		h.errorResponse(c, http.StatusInternalServerError, genericMsg)
	}
}

func (h *Handler) userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// errorResponse sends a JSON error response.
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
