// Package uploads provides the REST handler for cover image uploads.
package uploads

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentos-hr/pdi-backend/internal/metrics"
	"github.com/talentos-hr/pdi-backend/internal/storage"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Handler handles upload API requests.
type Handler struct {
	store *storage.Store
	log   *logger.Logger
}

// NewHandler creates a new uploads handler.
func NewHandler(store *storage.Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Upload stores a JPEG cover image and returns its public URL.
// POST /api/v1/uploads/:namespace (multipart field "file").
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	url, err := h.store.Upload(c.Request.Context(), c.Param("namespace"), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, storage.ErrNotJPEG) || errors.Is(err, storage.ErrTooLarge) {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			h.errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("Upload failed")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to store image")
		return
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// errorResponse sends a JSON error response.
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
