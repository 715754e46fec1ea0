// Package storage stores uploaded cover images and resolves their public
// URLs. Disk-backed; the public URL base is expected to be served by a CDN
// or reverse proxy in front of the base path.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Upload constraint errors.
var (
	ErrNotJPEG  = errors.New("only JPEG images are accepted")
	ErrTooLarge = errors.New("image exceeds the maximum upload size")
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Store writes binary objects under namespaced paths.
type Store struct {
	basePath  string
	publicURL string
	maxBytes  int64
	log       *logger.Logger
}

// NewStore creates a store rooted at the configured base path.
func NewStore(cfg *config.StorageConfig, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage base path: %w", err)
	}
	return &Store{
		basePath:  cfg.BasePath,
		publicURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxBytes:  int64(cfg.MaxUploadMB) * 1024 * 1024,
		log:       log,
	}, nil
}

// Upload validates and stores a JPEG object, returning its public URL. The
// stored key is namespaced and prefixed with a UUID so uploads never collide.
func (s *Store) Upload(ctx context.Context, namespace, filename string, data []byte) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}
	if !mimetype.Detect(data).Is("image/jpeg") {
		return "", ErrNotJPEG
	}

	namespace = sanitize(namespace)
	if namespace == "" {
		namespace = "uploads"
	}
	key := fmt.Sprintf("%s-%s", uuid.NewString(), sanitize(filename))

	dir := filepath.Join(s.basePath, namespace)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create namespace dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, key), data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicURL, namespace, key)
	s.log.Info().
		Str("namespace", namespace).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("Object stored")
	return url, nil
}

func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = unsafeChars.ReplaceAllString(name, "-")
	return strings.Trim(name, "-.")
}
