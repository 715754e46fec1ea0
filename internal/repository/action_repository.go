package repository

import (
	"fmt"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

// ActionRepository handles user action database operations.
type ActionRepository struct {
	db *DB
}

// NewActionRepository creates a new action repository.
func NewActionRepository(db *DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Create creates a new user action.
func (r *ActionRepository) Create(action *models.UserAction) error {
	if err := r.db.Create(action).Error; err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

// GetByID retrieves an action by ID.
func (r *ActionRepository) GetByID(id uint) (*models.UserAction, error) {
	var action models.UserAction
	if err := r.db.First(&action, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get action by id %d: %w", id, err)
	}
	return &action, nil
}

// ListByUser retrieves a user's actions ordered by planned due date ascending.
func (r *ActionRepository) ListByUser(userID uint) ([]models.UserAction, error) {
	var actions []models.UserAction
	err := r.db.
		Where("user_id = ?", userID).
		Order("due_date asc").
		Find(&actions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list actions for user %d: %w", userID, err)
	}
	return actions, nil
}

// Update updates an action.
func (r *ActionRepository) Update(action *models.UserAction) error {
	if err := r.db.Save(action).Error; err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}
	return nil
}

// Delete removes an action.
func (r *ActionRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.UserAction{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete action %d: %w", id, err)
	}
	return nil
}
