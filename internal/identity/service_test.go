package identity

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

func setupService(t *testing.T, ttlHours int) *Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db := &repository.DB{DB: gdb}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenTTLHour: ttlHours}
	return NewService(db, cfg, logger.New("error", "console", "stderr"))
}

func TestCreateUserAndVerifyPassword(t *testing.T) {
	svc := setupService(t, 1)
	ctx := context.Background()

	ident, err := svc.CreateUser(ctx, "user@empresa.com", "s3cret", map[string]interface{}{"dept": "people"})
	if err != nil {
		t.Fatalf("CreateUser() unexpected error: %v", err)
	}
	if ident.ID == "" {
		t.Fatal("CreateUser() did not assign an ID")
	}
	if ident.PasswordHash == "s3cret" {
		t.Fatal("password stored in clear text")
	}

	if _, err := svc.CreateUser(ctx, "user@empresa.com", "other", nil); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("CreateUser(duplicate email) error = %v, want ErrEmailTaken", err)
	}

	got, err := svc.VerifyPassword(ctx, "user@empresa.com", "s3cret")
	if err != nil {
		t.Fatalf("VerifyPassword() unexpected error: %v", err)
	}
	if got.ID != ident.ID {
		t.Errorf("VerifyPassword() returned identity %s, want %s", got.ID, ident.ID)
	}

	if _, err := svc.VerifyPassword(ctx, "user@empresa.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("VerifyPassword(wrong) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.VerifyPassword(ctx, "nobody@empresa.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("VerifyPassword(unknown email) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := setupService(t, 1)

	token, err := svc.IssueToken("identity-123", "user@empresa.com")
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	sub, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() unexpected error: %v", err)
	}
	if sub != "identity-123" {
		t.Errorf("VerifyToken() = %q, want %q", sub, "identity-123")
	}

	if _, err := svc.VerifyToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken(garbage) error = %v, want ErrInvalidToken", err)
	}

	// A token signed with another secret must not verify.
	other := setupService(t, 1)
	other.secret = []byte("another-secret")
	foreign, err := other.IssueToken("identity-999", "x@empresa.com")
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}
	if _, err := svc.VerifyToken(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken(foreign secret) error = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := setupService(t, 1)
	svc.ttl = -1 // issue already-expired tokens

	token, err := svc.IssueToken("identity-123", "user@empresa.com")
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken(expired) error = %v, want ErrInvalidToken", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	svc := setupService(t, 1)
	ctx := context.Background()

	ident, err := svc.CreateUser(ctx, "user@empresa.com", "old-pw", nil)
	if err != nil {
		t.Fatalf("CreateUser() unexpected error: %v", err)
	}

	if err := svc.UpdatePassword(ctx, ident.ID, "new-pw"); err != nil {
		t.Fatalf("UpdatePassword() unexpected error: %v", err)
	}
	if _, err := svc.VerifyPassword(ctx, "user@empresa.com", "new-pw"); err != nil {
		t.Errorf("VerifyPassword(new) unexpected error: %v", err)
	}
	if _, err := svc.VerifyPassword(ctx, "user@empresa.com", "old-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("VerifyPassword(old) error = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.UpdatePassword(ctx, "missing-id", "pw"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePassword(unknown id) error = %v, want ErrNotFound", err)
	}
}
