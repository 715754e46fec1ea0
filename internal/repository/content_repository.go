package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

// ContentRepository handles content-related database operations.
type ContentRepository struct {
	db *DB
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Create creates a content with its tag/competency/audience associations.
func (r *ContentRepository) Create(content *models.Content) error {
	if err := r.db.Create(content).Error; err != nil {
		return fmt.Errorf("failed to create content: %w", err)
	}
	return nil
}

// GetByID retrieves a content by ID with all associations preloaded.
func (r *ContentRepository) GetByID(id uint) (*models.Content, error) {
	var content models.Content
	err := r.db.
		Preload("Tags").
		Preload("Competencies").
		Preload("Audiences").
		Preload("MediaType").
		First(&content, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get content by id %d: %w", id, err)
	}
	return &content, nil
}

// GetActiveByIDs bulk-fetches active contents matching the given IDs. The
// returned order is storage order; callers that care about a ranking must
// re-sort themselves.
func (r *ContentRepository) GetActiveByIDs(ids []uint) ([]models.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var contents []models.Content
	err := r.db.
		Where("id IN ? AND active = ?", ids, true).
		Find(&contents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get contents by ids: %w", err)
	}
	return contents, nil
}

// List retrieves contents, optionally filtered to active ones only.
func (r *ContentRepository) List(activeOnly bool) ([]models.Content, error) {
	query := r.db.Model(&models.Content{}).
		Preload("Tags").
		Preload("MediaType").
		Order("created_at desc")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var contents []models.Content
	if err := query.Find(&contents).Error; err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	return contents, nil
}

// Update updates the content row itself, not its associations.
func (r *ContentRepository) Update(content *models.Content) error {
	if err := r.db.Omit("Tags", "Competencies", "Audiences").Save(content).Error; err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}
	return nil
}

// ReplaceAssociations replaces the full tag/competency/audience sets of a
// content in one transaction. Associations are never partially patched.
func (r *ContentRepository) ReplaceAssociations(content *models.Content, tags []models.Tag, competencies []models.Competency, audiences []models.Audience) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(content).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("failed to replace tags: %w", err)
		}
		if err := tx.Model(content).Association("Competencies").Replace(competencies); err != nil {
			return fmt.Errorf("failed to replace competencies: %w", err)
		}
		if err := tx.Model(content).Association("Audiences").Replace(audiences); err != nil {
			return fmt.Errorf("failed to replace audiences: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace content associations: %w", err)
	}
	return nil
}

// SetActive flips the active flag of a content.
func (r *ContentRepository) SetActive(id uint, active bool) error {
	err := r.db.Model(&models.Content{}).Where("id = ?", id).Update("active", active).Error
	if err != nil {
		return fmt.Errorf("failed to set content %d active=%t: %w", id, active, err)
	}
	return nil
}

// GetTags fetches the tag associations of one content.
func (r *ContentRepository) GetTags(contentID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Model(&models.Content{ID: contentID}).Association("Tags").Find(&tags)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for content %d: %w", contentID, err)
	}
	return tags, nil
}

// GetCompetencies fetches the competency associations of one content.
func (r *ContentRepository) GetCompetencies(contentID uint) ([]models.Competency, error) {
	var competencies []models.Competency
	err := r.db.Model(&models.Content{ID: contentID}).Association("Competencies").Find(&competencies)
	if err != nil {
		return nil, fmt.Errorf("failed to get competencies for content %d: %w", contentID, err)
	}
	return competencies, nil
}

// GetAudiences fetches the audience associations of one content.
func (r *ContentRepository) GetAudiences(contentID uint) ([]models.Audience, error) {
	var audiences []models.Audience
	err := r.db.Model(&models.Content{ID: contentID}).Association("Audiences").Find(&audiences)
	if err != nil {
		return nil, fmt.Errorf("failed to get audiences for content %d: %w", contentID, err)
	}
	return audiences, nil
}

// GetMediaType fetches the media type of one content, or nil when unset.
func (r *ContentRepository) GetMediaType(contentID uint) (*models.MediaType, error) {
	var content models.Content
	if err := r.db.Select("media_type_id").First(&content, contentID).Error; err != nil {
		return nil, fmt.Errorf("failed to get content %d: %w", contentID, err)
	}
	if content.MediaTypeID == nil {
		return nil, nil
	}
	var mt models.MediaType
	if err := r.db.First(&mt, *content.MediaTypeID).Error; err != nil {
		return nil, fmt.Errorf("failed to get media type for content %d: %w", contentID, err)
	}
	return &mt, nil
}

// GetCompetenciesByIDs retrieves competencies for a set of IDs.
func (r *ContentRepository) GetCompetenciesByIDs(ids []uint) ([]models.Competency, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var competencies []models.Competency
	if err := r.db.Where("id IN ?", ids).Find(&competencies).Error; err != nil {
		return nil, fmt.Errorf("failed to get competencies by ids: %w", err)
	}
	return competencies, nil
}

// GetAudiencesByIDs retrieves audiences for a set of IDs.
func (r *ContentRepository) GetAudiencesByIDs(ids []uint) ([]models.Audience, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var audiences []models.Audience
	if err := r.db.Where("id IN ?", ids).Find(&audiences).Error; err != nil {
		return nil, fmt.Errorf("failed to get audiences by ids: %w", err)
	}
	return audiences, nil
}

// UpdateRatingAggregate stores a recomputed average rating and rating count.
func (r *ContentRepository) UpdateRatingAggregate(id uint, avg float64, count int) error {
	err := r.db.Model(&models.Content{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"avg_rating": avg, "rating_count": count}).Error
	if err != nil {
		return fmt.Errorf("failed to update rating aggregate for content %d: %w", id, err)
	}
	return nil
}
