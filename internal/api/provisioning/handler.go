// Package provisioning exposes the privileged admin-user management
// endpoint: first-administrator bootstrap, identity creation and password
// resets. Responses follow a fixed contract: error bodies are always
// {"error": string}.
package provisioning

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentos-hr/pdi-backend/internal/api/middleware"
	provsvc "github.com/talentos-hr/pdi-backend/internal/service/provisioning"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Handler handles admin provisioning requests.
type Handler struct {
	service  *provsvc.Service
	verifier middleware.TokenVerifier
	log      *logger.Logger
}

// NewHandler creates a new provisioning handler.
func NewHandler(service *provsvc.Service, verifier middleware.TokenVerifier, log *logger.Logger) *Handler {
	return &Handler{service: service, verifier: verifier, log: log}
}

// Register wires the provisioning routes onto a router group. Every path
// answers OPTIONS with permissive CORS; unknown methods and paths get 405.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.Use(middleware.CORS())
	group.Any("/setup", h.dispatch(http.MethodPost, h.Setup))
	group.Any("/create", h.dispatch(http.MethodPost, h.Create))
	group.Any("/update-password", h.dispatch(http.MethodPut, h.UpdatePassword))
}

// NotFound answers any unknown path under the provisioning prefix. The
// endpoint contract is 405 for everything it does not serve.
func (h *Handler) NotFound(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusOK)
		return
	}
	h.errorResponse(c, http.StatusMethodNotAllowed, "method not allowed")
}

// dispatch enforces the single allowed method per route; OPTIONS is already
// answered by the CORS middleware.
func (h *Handler) dispatch(method string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != method {
			h.errorResponse(c, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		handler(c)
	}
}

type setupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Setup creates the first administrator. Open only while no administrator
// record exists; afterwards it answers 403 regardless of payload.
// POST /admin/setup.
func (h *Handler) Setup(c *gin.Context) {
	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.service.Bootstrap(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, provsvc.ErrBootstrapClosed):
			h.errorResponse(c, http.StatusForbidden, err.Error())
		case errors.Is(err, provsvc.ErrInvalidInput):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		case provsvc.IsConflict(err):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Msg("Bootstrap failed")
			h.errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": admin})
}

type createRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Create creates a new login identity. Requires a bearer token belonging to
// a flagged administrator.
// POST /admin/create.
func (h *Handler) Create(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ident, err := h.service.CreateIdentity(c.Request.Context(), req.Email, req.Password, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, provsvc.ErrInvalidInput):
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		case provsvc.IsConflict(err):
			// Provider-reported failure passes through with a client error.
			h.errorResponse(c, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Msg("Identity creation failed")
			h.errorResponse(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": ident})
}

type updatePasswordRequest struct {
	IdentityID string `json:"identity_id"`
	Password   string `json:"password"`
}

// UpdatePassword resets an identity's password. Requires an administrator
// bearer token.
// PUT /admin/update-password.
func (h *Handler) UpdatePassword(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.IdentityID, req.Password); err != nil {
		if errors.Is(err, provsvc.ErrInvalidInput) {
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Password reset failed")
		h.errorResponse(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// requireAdmin enforces the authenticated gate: 401 without a valid bearer
// token, 403 when the caller is not a flagged administrator.
func (h *Handler) requireAdmin(c *gin.Context) bool {
	token, ok := middleware.BearerToken(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "missing bearer token")
		return false
	}

	identityID, err := h.verifier.VerifyToken(token)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "invalid or expired token")
		return false
	}

	if _, err := h.service.RequireAdmin(c.Request.Context(), identityID); err != nil {
		h.errorResponse(c, http.StatusForbidden, "administrator access required")
		return false
	}
	return true
}

// errorResponse sends a JSON error response.
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
