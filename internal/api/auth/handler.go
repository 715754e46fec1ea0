// Package auth provides the login handler issuing bearer tokens.
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentos-hr/pdi-backend/internal/identity"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Handler handles authentication requests.
type Handler struct {
	identities *identity.Service
	log        *logger.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(identities *identity.Service, log *logger.Logger) *Handler {
	return &Handler{identities: identities, log: log}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies a credential pair and returns a bearer token.
// POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ident, err := h.identities.VerifyPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := h.identities.IssueToken(ident.ID, ident.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("Token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
