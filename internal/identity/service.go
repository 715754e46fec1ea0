// Package identity manages login credentials and bearer tokens. It plays the
// role an external auth provider played before the backend was brought
// in-house; the Provider interface keeps that seam explicit.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Provider is the privileged identity management surface consumed by the
// provisioning service.
type Provider interface {
	CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*models.Identity, error)
	UpdatePassword(ctx context.Context, identityID, password string) error
	DeleteUser(ctx context.Context, identityID string) error
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.Identity, error)
}

// Service is the gorm+bcrypt implementation of Provider, and also issues and
// verifies HS256 bearer tokens.
type Service struct {
	db     *repository.DB
	secret []byte
	ttl    time.Duration
	log    *logger.Logger
}

// Sentinel errors surfaced to callers.
var (
	ErrEmailTaken         = errors.New("email address already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotFound           = errors.New("identity not found")
)

// NewService creates a new identity service.
func NewService(db *repository.DB, cfg *config.AuthConfig, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL(),
		log:    log,
	}
}

// CreateUser creates a login identity with a bcrypt-hashed password and
// arbitrary metadata.
func (s *Service) CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (*models.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var metaJSON []byte
	if metadata != nil {
		metaJSON, err = json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	identity := &models.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     metaJSON,
	}

	if err := s.db.WithContext(ctx).Create(identity).Error; err != nil {
		if repository.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	s.log.Info().Str("identity_id", identity.ID).Str("email", email).Msg("Identity created")
	return identity, nil
}

// UpdatePassword resets an identity's password.
func (s *Service) UpdatePassword(ctx context.Context, identityID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id = ?", identityID).
		Update("password_hash", string(hash))
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.log.Info().Str("identity_id", identityID).Msg("Password updated")
	return nil
}

// DeleteUser removes an identity. Used to roll back a bootstrap that failed
// halfway, so a login without an admin record is never left behind.
func (s *Service) DeleteUser(ctx context.Context, identityID string) error {
	err := s.db.WithContext(ctx).Delete(&models.Identity{}, "id = ?", identityID).Error
	if err != nil {
		return fmt.Errorf("failed to delete identity %s: %w", identityID, err)
	}
	return nil
}

// GetByEmail retrieves an identity by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var identity models.Identity
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}
	return &identity, nil
}

// VerifyPassword checks a credential pair and returns the identity on match.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) (*models.Identity, error) {
	identity, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return identity, nil
}

// IssueToken signs a bearer token for an identity.
func (s *Service) IssueToken(identityID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identityID,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses a bearer token and returns the identity ID it carries.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
