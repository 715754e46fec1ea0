package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

// TemplateRepository handles evaluation template database operations.
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create creates a template with its competency composition and questions.
func (r *TemplateRepository) Create(tpl *models.EvaluationTemplate) error {
	if err := r.db.Create(tpl).Error; err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// GetByID retrieves a template with ordered competencies and questions.
func (r *TemplateRepository) GetByID(id uint) (*models.EvaluationTemplate, error) {
	var tpl models.EvaluationTemplate
	err := r.db.
		Preload("Competencies", func(db *gorm.DB) *gorm.DB {
			return db.Order("template_competencies.position asc")
		}).
		Preload("Competencies.Competency.Criteria").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("custom_questions.position asc")
		}).
		First(&tpl, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get template by id %d: %w", id, err)
	}
	return &tpl, nil
}

// List retrieves all templates, newest first.
func (r *TemplateRepository) List() ([]models.EvaluationTemplate, error) {
	var tpls []models.EvaluationTemplate
	if err := r.db.Order("created_at desc").Find(&tpls).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return tpls, nil
}

// Update updates the template row itself.
func (r *TemplateRepository) Update(tpl *models.EvaluationTemplate) error {
	err := r.db.Omit("Competencies", "Questions").Save(tpl).Error
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

// ReplaceComposition replaces the ordered competency list and the question
// list of a template in one transaction. The composition is always fully
// rewritten, matching how association edits work everywhere else.
func (r *TemplateRepository) ReplaceComposition(tplID uint, competencies []models.TemplateCompetency, questions []models.CustomQuestion) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", tplID).Delete(&models.TemplateCompetency{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", tplID).Delete(&models.CustomQuestion{}).Error; err != nil {
			return err
		}
		for i := range competencies {
			competencies[i].ID = 0
			competencies[i].TemplateID = tplID
			competencies[i].Position = i
		}
		if len(competencies) > 0 {
			if err := tx.Create(&competencies).Error; err != nil {
				return err
			}
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].TemplateID = tplID
			questions[i].Position = i
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace composition for template %d: %w", tplID, err)
	}
	return nil
}

// Delete removes a template and its composition.
func (r *TemplateRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&models.TemplateCompetency{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&models.CustomQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.EvaluationTemplate{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete template %d: %w", id, err)
	}
	return nil
}
