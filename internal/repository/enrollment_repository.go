package repository

import (
	"fmt"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

// EnrollmentRepository handles user content enrollment database operations.
type EnrollmentRepository struct {
	db *DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new enrollment. A second enrollment of the same user in
// the same content surfaces as ErrDuplicate.
func (r *EnrollmentRepository) Create(enrollment *models.Enrollment) error {
	if err := r.db.Create(enrollment).Error; err != nil {
		if IsDuplicateError(err) {
			return fmt.Errorf("user %d already enrolled in content %d: %w",
				enrollment.UserID, enrollment.ContentID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// GetByID retrieves an enrollment by ID with its content preloaded.
func (r *EnrollmentRepository) GetByID(id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.Preload("Content").First(&enrollment, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollment by id %d: %w", id, err)
	}
	return &enrollment, nil
}

// ListByUser retrieves a user's enrollments ordered by creation time
// descending, each with its content row preloaded.
func (r *EnrollmentRepository) ListByUser(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.
		Preload("Content").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for user %d: %w", userID, err)
	}
	return enrollments, nil
}

// ContentIDsByUser returns the content IDs a user is enrolled in.
func (r *EnrollmentRepository) ContentIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Enrollment{}).
		Where("user_id = ?", userID).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled content ids for user %d: %w", userID, err)
	}
	return ids, nil
}

// Update updates an enrollment.
func (r *EnrollmentRepository) Update(enrollment *models.Enrollment) error {
	if err := r.db.Omit("Content").Save(enrollment).Error; err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Enrollment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete enrollment %d: %w", id, err)
	}
	return nil
}

// CompletedRatings returns the non-nil ratings of completed enrollments for
// one content, used by the nightly rating aggregate recompute.
func (r *EnrollmentRepository) CompletedRatings(contentID uint) ([]int, error) {
	var ratings []int
	err := r.db.Model(&models.Enrollment{}).
		Where("content_id = ? AND status = ? AND rating IS NOT NULL",
			contentID, models.EnrollmentStatusCompleted).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for content %d: %w", contentID, err)
	}
	return ratings, nil
}

// RatedContentIDs returns the IDs of contents that have at least one
// completed, rated enrollment.
func (r *EnrollmentRepository) RatedContentIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Enrollment{}).
		Distinct("content_id").
		Where("status = ? AND rating IS NOT NULL", models.EnrollmentStatusCompleted).
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get rated content ids: %w", err)
	}
	return ids, nil
}
