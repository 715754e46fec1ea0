// Package provisioning implements the privileged admin-user management
// operations behind the bootstrap and authenticated gates.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talentos-hr/pdi-backend/internal/identity"
	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// AdminRepository is the admin record surface the service needs.
type AdminRepository interface {
	Count() (int64, error)
	Create(admin *models.AdminUser) error
	GetByIdentityID(identityID string) (*models.AdminUser, error)
}

// Gate errors, mapped to HTTP statuses by the handler.
var (
	ErrBootstrapClosed = errors.New("an administrator already exists")
	ErrNotAdmin        = errors.New("caller is not an administrator")
	ErrInvalidInput    = errors.New("missing or malformed fields")
)

// Service implements admin provisioning.
type Service struct {
	admins   AdminRepository
	provider identity.Provider
	log      *logger.Logger
}

// NewService creates a new provisioning service.
func NewService(admins AdminRepository, provider identity.Provider, log *logger.Logger) *Service {
	return &Service{
		admins:   admins,
		provider: provider,
		log:      log,
	}
}

// BootstrapOpen reports whether the unauthenticated setup gate is still open,
// i.e. no administrator record exists yet.
func (s *Service) BootstrapOpen(ctx context.Context) (bool, error) {
	count, err := s.admins.Count()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Bootstrap creates the first administrator: a login identity plus an admin
// record as one logical transaction. If the record insert fails the
// just-created identity is deleted so no orphaned login remains.
func (s *Service) Bootstrap(ctx context.Context, email, password, fullName string) (*models.AdminUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	open, err := s.BootstrapOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrBootstrapClosed
	}

	ident, err := s.provider.CreateUser(ctx, email, password, map[string]interface{}{
		"full_name": fullName,
		"bootstrap": true,
	})
	if err != nil {
		return nil, err
	}

	admin := &models.AdminUser{
		IdentityID: ident.ID,
		Email:      email,
		FullName:   fullName,
		IsAdmin:    true,
	}
	if err := s.admins.Create(admin); err != nil {
		if delErr := s.provider.DeleteUser(ctx, ident.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("identity_id", ident.ID).
				Msg("Failed to roll back identity after admin insert failure")
		}
		return nil, fmt.Errorf("failed to create first administrator: %w", err)
	}

	s.log.Info().Str("email", email).Msg("First administrator bootstrapped")
	return admin, nil
}

// RequireAdmin verifies that the identity behind a token belongs to a flagged
// administrator, returning the admin record.
func (s *Service) RequireAdmin(ctx context.Context, identityID string) (*models.AdminUser, error) {
	admin, err := s.admins.GetByIdentityID(identityID)
	if err != nil {
		return nil, ErrNotAdmin
	}
	if !admin.IsAdmin {
		return nil, ErrNotAdmin
	}
	return admin, nil
}

// CreateIdentity creates a new login identity with arbitrary metadata. The
// caller must already have passed the authenticated gate.
func (s *Service) CreateIdentity(ctx context.Context, email, password string, metadata map[string]interface{}) (*models.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	return s.provider.CreateUser(ctx, email, password, metadata)
}

// ResetPassword resets an identity's password.
func (s *Service) ResetPassword(ctx context.Context, identityID, password string) error {
	if identityID == "" || password == "" {
		return ErrInvalidInput
	}
	return s.provider.UpdatePassword(ctx, identityID, password)
}

// IsConflict reports whether err is a provider-level duplicate, surfaced to
// clients with the provider's message.
func IsConflict(err error) bool {
	return errors.Is(err, identity.ErrEmailTaken) || errors.Is(err, repository.ErrDuplicate)
}
