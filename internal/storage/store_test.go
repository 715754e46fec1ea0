package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// jpegHeader is the SOI marker plus a JFIF APP0 segment, enough for content
// sniffing to identify image/jpeg.
var jpegHeader = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10,
	'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
}

func setupStore(t *testing.T, maxUploadMB int) *Store {
	t.Helper()

	store, err := NewStore(&config.StorageConfig{
		BasePath:      t.TempDir(),
		PublicBaseURL: "https://cdn.example.com/media/",
		MaxUploadMB:   maxUploadMB,
	}, logger.New("error", "console", "stderr"))
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	return store
}

func TestUploadStoresJPEG(t *testing.T) {
	store := setupStore(t, 3)

	url, err := store.Upload(context.Background(), "covers", "capa do curso.jpg", jpegHeader)
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}

	if !strings.HasPrefix(url, "https://cdn.example.com/media/covers/") {
		t.Errorf("Upload() url = %q, want the public base and namespace prefix", url)
	}
	if strings.Contains(url, " ") {
		t.Errorf("Upload() url = %q contains unsanitized characters", url)
	}

	// The object must actually land on disk under the namespace.
	key := url[strings.LastIndex(url, "/")+1:]
	data, err := os.ReadFile(filepath.Join(store.basePath, "covers", key))
	if err != nil {
		t.Fatalf("stored object not readable: %v", err)
	}
	if len(data) != len(jpegHeader) {
		t.Errorf("stored object has %d bytes, want %d", len(data), len(jpegHeader))
	}
}

func TestUploadRejectsNonJPEG(t *testing.T) {
	store := setupStore(t, 3)

	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	_, err := store.Upload(context.Background(), "covers", "image.png", png)
	if !errors.Is(err, ErrNotJPEG) {
		t.Errorf("Upload(png) error = %v, want ErrNotJPEG", err)
	}

	_, err = store.Upload(context.Background(), "covers", "notes.txt", []byte("plain text"))
	if !errors.Is(err, ErrNotJPEG) {
		t.Errorf("Upload(text) error = %v, want ErrNotJPEG", err)
	}
}

func TestUploadRejectsOversized(t *testing.T) {
	store := setupStore(t, 1)

	big := make([]byte, 1024*1024+1)
	copy(big, jpegHeader)
	_, err := store.Upload(context.Background(), "covers", "huge.jpg", big)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Upload(oversized) error = %v, want ErrTooLarge", err)
	}
}

func TestUploadCollisions(t *testing.T) {
	store := setupStore(t, 3)

	// Same filename twice: the UUID prefix must keep the keys distinct.
	first, err := store.Upload(context.Background(), "covers", "capa.jpg", jpegHeader)
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}
	second, err := store.Upload(context.Background(), "covers", "capa.jpg", jpegHeader)
	if err != nil {
		t.Fatalf("Upload() unexpected error: %v", err)
	}
	if first == second {
		t.Errorf("two uploads of the same filename share the URL %q", first)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"capa.jpg", "capa.jpg"},
		{"capa do curso.jpg", "capa-do-curso.jpg"},
		{"../../etc/passwd", "passwd"},
		{"..", ""},
	}
	for _, tt := range tests {
		if got := sanitize(tt.input); got != tt.expected {
			t.Errorf("sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
