package repository

import (
	"fmt"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

// AdminRepository handles admin user database operations.
type AdminRepository struct {
	db *DB
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(db *DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Count returns the number of admin user records. Zero means the bootstrap
// gate is still open.
func (r *AdminRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", err)
	}
	return count, nil
}

// Create creates a new admin user record.
func (r *AdminRepository) Create(admin *models.AdminUser) error {
	if err := r.db.Create(admin).Error; err != nil {
		if IsDuplicateError(err) {
			return fmt.Errorf("admin user %s: %w", admin.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

// GetByIdentityID retrieves an admin user by its identity reference.
func (r *AdminRepository) GetByIdentityID(identityID string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.Where("identity_id = ?", identityID).First(&admin).Error; err != nil {
		return nil, fmt.Errorf("failed to get admin user by identity %s: %w", identityID, err)
	}
	return &admin, nil
}

// List retrieves all admin user records.
func (r *AdminRepository) List() ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := r.db.Order("created_at asc").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}
	return admins, nil
}
