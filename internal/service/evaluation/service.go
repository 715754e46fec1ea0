// Package evaluation manages competency evaluations and their templates.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talentos-hr/pdi-backend/internal/metrics"
	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// Validation errors surfaced to handlers.
var (
	ErrInvalidScore     = errors.New("criterion scores must be between 0 and 5")
	ErrInvalidStatus    = errors.New("unknown evaluation status")
	ErrAlreadyFinalized = errors.New("evaluation is already finalized")
	ErrMissingPTTitle   = errors.New("every custom question needs a pt-BR title")
	ErrInvalidScope     = errors.New("question scope must be collaborator, manager or both")
)

// Service implements evaluation CRUD, scoring and the overall average.
type Service struct {
	evals     *repository.EvaluationRepository
	templates *repository.TemplateRepository
	tags      *repository.TagRepository
	log       *logger.Logger
}

// NewService creates a new evaluation service.
func NewService(evals *repository.EvaluationRepository, templates *repository.TemplateRepository, tags *repository.TagRepository, log *logger.Logger) *Service {
	return &Service{
		evals:     evals,
		templates: templates,
		tags:      tags,
		log:       log,
	}
}

// AverageScore flattens all criterion scores of an evaluation, discards
// zero/unscored entries and returns the arithmetic mean. An evaluation with
// no positive score averages to 0. Display-only; never persisted.
func AverageScore(eval *models.Evaluation) float64 {
	var sum, count int
	for _, score := range eval.Scores {
		if score.Score > 0 {
			sum += score.Score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// Create opens a new evaluation in draft status.
func (s *Service) Create(ctx context.Context, collaboratorID, reviewerID, templateID uint) (*models.Evaluation, error) {
	if _, err := s.templates.GetByID(templateID); err != nil {
		return nil, err
	}

	eval := &models.Evaluation{
		CollaboratorID: collaboratorID,
		ReviewerID:     reviewerID,
		TemplateID:     templateID,
		Status:         models.EvaluationStatusDraft,
	}
	if err := s.evals.Create(eval); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("evaluation_id", eval.ID).
		Uint("collaborator_id", collaboratorID).
		Uint("template_id", templateID).
		Msg("Evaluation created")
	return eval, nil
}

// Get returns a fully denormalized evaluation.
func (s *Service) Get(ctx context.Context, id uint) (*models.Evaluation, error) {
	return s.evals.GetByID(id)
}

// List returns evaluations filtered by collaborator and/or status.
func (s *Service) List(ctx context.Context, collaboratorID uint, status string) ([]models.Evaluation, error) {
	if status != "" && !validStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.evals.List(collaboratorID, status)
}

// UpdateInput carries an evaluation edit: free-text sections, full score and
// answer sets, status, and the development tag annotations.
type UpdateInput struct {
	Status       string
	Date         *time.Time
	Strengths    string
	Improvements string
	Notes        string
	Scores       []models.EvaluationScore
	Answers      []models.EvaluationAnswer
	TagIDs       []uint
}

// Update rewrites an evaluation. Scores, answers and tags are replaced
// wholesale, never patched.
func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Evaluation, error) {
	for _, score := range input.Scores {
		if score.Score < 0 || score.Score > 5 {
			return nil, ErrInvalidScore
		}
	}
	if input.Status != "" && !validStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	eval, err := s.evals.GetByID(id)
	if err != nil {
		return nil, err
	}
	if eval.IsFinalized() {
		return nil, ErrAlreadyFinalized
	}

	if input.Status != "" {
		eval.Status = input.Status
	}
	eval.Date = input.Date
	eval.Strengths = input.Strengths
	eval.Improvements = input.Improvements
	eval.Notes = input.Notes

	if err := s.evals.Update(eval); err != nil {
		return nil, err
	}
	if err := s.evals.ReplaceScores(id, input.Scores); err != nil {
		return nil, err
	}
	if err := s.evals.ReplaceAnswers(id, input.Answers); err != nil {
		return nil, err
	}

	tags, err := s.tags.GetByIDs(input.TagIDs)
	if err != nil {
		return nil, err
	}
	if err := s.evals.ReplaceTags(eval, tags); err != nil {
		return nil, err
	}

	return s.evals.GetByID(id)
}

// Finalize moves an evaluation to its terminal state, stamping the date.
// Finalized evaluations feed the recommendation signal.
func (s *Service) Finalize(ctx context.Context, id uint) (*models.Evaluation, error) {
	eval, err := s.evals.GetByID(id)
	if err != nil {
		return nil, err
	}
	if eval.IsFinalized() {
		return nil, ErrAlreadyFinalized
	}

	now := time.Now()
	eval.Status = models.EvaluationStatusFinalized
	eval.Date = &now
	if err := s.evals.Update(eval); err != nil {
		return nil, err
	}

	metrics.EvaluationsFinalizedTotal.Inc()
	s.log.Info().
		Uint("evaluation_id", id).
		Uint("collaborator_id", eval.CollaboratorID).
		Msg("Evaluation finalized")
	return eval, nil
}

func validStatus(status string) bool {
	switch status {
	case models.EvaluationStatusDraft,
		models.EvaluationStatusPending,
		models.EvaluationStatusInProgress,
		models.EvaluationStatusCompleted,
		models.EvaluationStatusFinalized:
		return true
	}
	return false
}

// TemplateInput carries a template create/update: name, description, the
// ordered competency IDs and the ordered question list.
type TemplateInput struct {
	Name          string
	Description   string
	CompetencyIDs []uint
	Questions     []models.CustomQuestion
}

// validateTemplate enforces the pt-BR title rule and scope enum before any
// database write.
func validateTemplate(input TemplateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("template name is required")
	}
	for _, q := range input.Questions {
		if strings.TrimSpace(q.TitlePT) == "" {
			return ErrMissingPTTitle
		}
		switch q.Scope {
		case models.QuestionScopeCollaborator, models.QuestionScopeManager, models.QuestionScopeBoth, "":
		default:
			return ErrInvalidScope
		}
	}
	return nil
}

// CreateTemplate creates a template with its ordered composition.
func (s *Service) CreateTemplate(ctx context.Context, input TemplateInput) (*models.EvaluationTemplate, error) {
	if err := validateTemplate(input); err != nil {
		return nil, err
	}

	tpl := &models.EvaluationTemplate{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if err := s.templates.Create(tpl); err != nil {
		return nil, err
	}
	if err := s.templates.ReplaceComposition(tpl.ID, competencyRows(input.CompetencyIDs), input.Questions); err != nil {
		return nil, err
	}

	s.log.Info().Uint("template_id", tpl.ID).Str("name", tpl.Name).Msg("Template created")
	return s.templates.GetByID(tpl.ID)
}

// UpdateTemplate rewrites a template and its composition.
func (s *Service) UpdateTemplate(ctx context.Context, id uint, input TemplateInput) (*models.EvaluationTemplate, error) {
	if err := validateTemplate(input); err != nil {
		return nil, err
	}

	tpl, err := s.templates.GetByID(id)
	if err != nil {
		return nil, err
	}
	tpl.Name = strings.TrimSpace(input.Name)
	tpl.Description = input.Description
	tpl.Competencies = nil
	tpl.Questions = nil

	if err := s.templates.Update(tpl); err != nil {
		return nil, err
	}
	if err := s.templates.ReplaceComposition(id, competencyRows(input.CompetencyIDs), input.Questions); err != nil {
		return nil, err
	}
	return s.templates.GetByID(id)
}

// GetTemplate returns a template with its ordered composition.
func (s *Service) GetTemplate(ctx context.Context, id uint) (*models.EvaluationTemplate, error) {
	return s.templates.GetByID(id)
}

// ListTemplates returns all templates.
func (s *Service) ListTemplates(ctx context.Context) ([]models.EvaluationTemplate, error) {
	return s.templates.List()
}

// DeleteTemplate removes a template and its composition.
func (s *Service) DeleteTemplate(ctx context.Context, id uint) error {
	return s.templates.Delete(id)
}

func competencyRows(ids []uint) []models.TemplateCompetency {
	rows := make([]models.TemplateCompetency, 0, len(ids))
	for i, id := range ids {
		rows = append(rows, models.TemplateCompetency{CompetencyID: id, Position: i})
	}
	return rows
}
