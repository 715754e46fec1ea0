package repository

import (
	"fmt"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

// TagRepository handles tag-related database operations.
type TagRepository struct {
	db *DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create creates a new tag.
func (r *TagRepository) Create(tag *models.Tag) error {
	if err := r.db.Create(tag).Error; err != nil {
		if IsDuplicateError(err) {
			return fmt.Errorf("tag %q: %w", tag.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// GetByID retrieves a tag by ID.
func (r *TagRepository) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get tag by id %d: %w", id, err)
	}
	return &tag, nil
}

// GetBySlug retrieves a tag by its slug.
func (r *TagRepository) GetBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, fmt.Errorf("failed to get tag by slug %s: %w", slug, err)
	}
	return &tag, nil
}

// List retrieves all tags ordered by name.
func (r *TagRepository) List() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Update updates a tag.
func (r *TagRepository) Update(tag *models.Tag) error {
	if err := r.db.Save(tag).Error; err != nil {
		if IsDuplicateError(err) {
			return fmt.Errorf("tag %q: %w", tag.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return nil
}

// Delete deletes a tag by ID.
func (r *TagRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Tag{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	return nil
}

// GetByIDs retrieves tags for a set of IDs.
func (r *TagRepository) GetByIDs(ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by ids: %w", err)
	}
	return tags, nil
}
