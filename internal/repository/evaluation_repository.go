package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

// EvaluationRepository handles evaluation database operations.
type EvaluationRepository struct {
	db *DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create creates a new evaluation with its scores and answers.
func (r *EvaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// GetByID retrieves a fully denormalized evaluation: scores, answers, tags
// and template composition.
func (r *EvaluationRepository) GetByID(id uint) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := r.db.
		Preload("Scores").
		Preload("Answers").
		Preload("Tags").
		Preload("Template.Competencies.Competency.Criteria").
		Preload("Template.Questions").
		First(&eval, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation by id %d: %w", id, err)
	}
	return &eval, nil
}

// List retrieves evaluations with optional collaborator and status filters,
// newest first.
func (r *EvaluationRepository) List(collaboratorID uint, status string) ([]models.Evaluation, error) {
	query := r.db.Model(&models.Evaluation{}).Preload("Tags").Order("created_at desc")

	if collaboratorID != 0 {
		query = query.Where("collaborator_id = ?", collaboratorID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var evals []models.Evaluation
	if err := query.Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

// Update updates the evaluation row itself.
func (r *EvaluationRepository) Update(eval *models.Evaluation) error {
	err := r.db.Omit("Scores", "Answers", "Tags", "Template").Save(eval).Error
	if err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}
	return nil
}

// ReplaceScores replaces the full score set of an evaluation in one
// transaction.
func (r *EvaluationRepository) ReplaceScores(evalID uint, scores []models.EvaluationScore) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", evalID).Delete(&models.EvaluationScore{}).Error; err != nil {
			return err
		}
		for i := range scores {
			scores[i].ID = 0
			scores[i].EvaluationID = evalID
		}
		if len(scores) == 0 {
			return nil
		}
		return tx.Create(&scores).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace scores for evaluation %d: %w", evalID, err)
	}
	return nil
}

// ReplaceAnswers replaces the full answer set of an evaluation.
func (r *EvaluationRepository) ReplaceAnswers(evalID uint, answers []models.EvaluationAnswer) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", evalID).Delete(&models.EvaluationAnswer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ID = 0
			answers[i].EvaluationID = evalID
		}
		if len(answers) == 0 {
			return nil
		}
		return tx.Create(&answers).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace answers for evaluation %d: %w", evalID, err)
	}
	return nil
}

// ReplaceTags replaces the tag set of an evaluation.
func (r *EvaluationRepository) ReplaceTags(eval *models.Evaluation, tags []models.Tag) error {
	if err := r.db.Model(eval).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to replace tags for evaluation %d: %w", eval.ID, err)
	}
	return nil
}

// LatestFinalizedTagIDs returns the tag IDs on the most recent finalized
// evaluation of a collaborator. An empty slice means the user has no
// tag-based recommendation signal.
func (r *EvaluationRepository) LatestFinalizedTagIDs(collaboratorID uint) ([]uint, error) {
	var eval models.Evaluation
	err := r.db.
		Preload("Tags").
		Where("collaborator_id = ? AND status = ?", collaboratorID, models.EvaluationStatusFinalized).
		Order("updated_at desc").
		First(&eval).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get finalized evaluation for user %d: %w", collaboratorID, err)
	}

	ids := make([]uint, 0, len(eval.Tags))
	for _, tag := range eval.Tags {
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
