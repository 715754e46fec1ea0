// Package pdi manages a user's individual development plan: content
// enrollments and personal action items.
package pdi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/talentos-hr/pdi-backend/internal/metrics"
	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// EnrollmentRepository is the enrollment access surface the service needs.
type EnrollmentRepository interface {
	Create(enrollment *models.Enrollment) error
	GetByID(id uint) (*models.Enrollment, error)
	ListByUser(userID uint) ([]models.Enrollment, error)
	Update(enrollment *models.Enrollment) error
	Delete(id uint) error
}

// ActionRepository is the action access surface the service needs.
type ActionRepository interface {
	Create(action *models.UserAction) error
	GetByID(id uint) (*models.UserAction, error)
	ListByUser(userID uint) ([]models.UserAction, error)
	Update(action *models.UserAction) error
	Delete(id uint) error
}

// ContentEnricher loads the per-content relations merged onto enrollments.
type ContentEnricher interface {
	GetTags(contentID uint) ([]models.Tag, error)
	GetMediaType(contentID uint) (*models.MediaType, error)
}

// Plan is a user's aggregated development plan.
type Plan struct {
	Enrollments []models.Enrollment `json:"enrollments"`
	Actions     []models.UserAction `json:"actions"`
}

// Partition splits enrollments into in-progress and completed subsets for
// display. Pure filter, no side effects.
func (p *Plan) Partition() (inProgress, completed []models.Enrollment) {
	for _, e := range p.Enrollments {
		if e.IsCompleted() {
			completed = append(completed, e)
		} else {
			inProgress = append(inProgress, e)
		}
	}
	return inProgress, completed
}

// Validation and conflict errors surfaced to handlers.
var (
	ErrAlreadyEnrolled     = errors.New("content already in your plan")
	ErrRatingRequired      = errors.New("a star rating between 1 and 5 is required to complete a content")
	ErrDescriptionTooShort = errors.New("action description must be at least 10 characters")
	ErrDueDateRequired     = errors.New("action due date is required")
	ErrNotOwner            = errors.New("resource does not belong to this user")
)

// MinActionDescription is the minimum length of an action description.
const MinActionDescription = 10

// Service implements the PDI aggregation and mutations.
type Service struct {
	enrollments EnrollmentRepository
	actions     ActionRepository
	enricher    ContentEnricher
	log         *logger.Logger
}

// NewService creates a new PDI service.
func NewService(enrollments EnrollmentRepository, actions ActionRepository, enricher ContentEnricher, log *logger.Logger) *Service {
	return &Service{
		enrollments: enrollments,
		actions:     actions,
		enricher:    enricher,
		log:         log,
	}
}

// GetUserPlan loads a user's enrollments and actions concurrently. Each
// enrollment is enriched with its content's tags and media type; both
// lookups of one enrollment must land before it is exposed. Any failure
// aborts the whole aggregation.
func (s *Service) GetUserPlan(ctx context.Context, userID uint) (*Plan, error) {
	var (
		enrollments []models.Enrollment
		actions     []models.UserAction
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		enrollments, err = s.enrollments.ListByUser(userID)
		return err
	})
	g.Go(func() error {
		var err error
		actions, err = s.actions.ListByUser(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load development plan: %w", err)
	}

	if err := s.enrich(ctx, enrollments); err != nil {
		return nil, err
	}

	s.log.Debug().
		Uint("user_id", userID).
		Int("enrollments", len(enrollments)).
		Int("actions", len(actions)).
		Msg("Loaded development plan")

	return &Plan{Enrollments: enrollments, Actions: actions}, nil
}

// enrich merges tag and media type relations onto each enrollment's content.
// Enrichment calls across enrollments run concurrently with no ordering
// guarantee; the slice order itself is never touched.
func (s *Service) enrich(ctx context.Context, enrollments []models.Enrollment) error {
	g, _ := errgroup.WithContext(ctx)

	for i := range enrollments {
		enrollment := &enrollments[i]
		g.Go(func() error {
			tags, err := s.enricher.GetTags(enrollment.ContentID)
			if err != nil {
				return err
			}
			enrollment.Content.Tags = tags
			return nil
		})
		g.Go(func() error {
			mediaType, err := s.enricher.GetMediaType(enrollment.ContentID)
			if err != nil {
				return err
			}
			enrollment.Content.MediaType = mediaType
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to enrich enrollments: %w", err)
	}
	return nil
}

// Enroll adds a content to a user's plan. A duplicate surfaces as
// ErrAlreadyEnrolled so the caller can report it distinctly.
func (s *Service) Enroll(ctx context.Context, userID, contentID uint, dueDate *time.Time) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{
		UserID:    userID,
		ContentID: contentID,
		Status:    models.EnrollmentStatusInProgress,
		DueDate:   dueDate,
	}

	if err := s.enrollments.Create(enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.EnrollmentConflictsTotal.Inc()
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	metrics.EnrollmentsCreatedTotal.Inc()
	s.log.Info().Uint("user_id", userID).Uint("content_id", contentID).Msg("Content enrolled")
	return enrollment, nil
}

// Complete marks an enrollment done. The star rating is validated before any
// database call.
func (s *Service) Complete(ctx context.Context, userID, enrollmentID uint, rating int, comment string) (*models.Enrollment, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingRequired
	}

	enrollment, err := s.ownedEnrollment(userID, enrollmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	enrollment.Status = models.EnrollmentStatusCompleted
	enrollment.CompletedAt = &now
	enrollment.Rating = &rating
	enrollment.Comment = comment

	if err := s.enrollments.Update(enrollment); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("user_id", userID).
		Uint("enrollment_id", enrollmentID).
		Int("rating", rating).
		Msg("Enrollment completed")
	return enrollment, nil
}

// Reschedule moves an enrollment's planned due date.
func (s *Service) Reschedule(ctx context.Context, userID, enrollmentID uint, dueDate time.Time) (*models.Enrollment, error) {
	enrollment, err := s.ownedEnrollment(userID, enrollmentID)
	if err != nil {
		return nil, err
	}

	enrollment.DueDate = &dueDate
	if err := s.enrollments.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// RemoveEnrollment deletes a user's enrollment.
func (s *Service) RemoveEnrollment(ctx context.Context, userID, enrollmentID uint) error {
	if _, err := s.ownedEnrollment(userID, enrollmentID); err != nil {
		return err
	}
	return s.enrollments.Delete(enrollmentID)
}

func (s *Service) ownedEnrollment(userID, enrollmentID uint) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.UserID != userID {
		return nil, ErrNotOwner
	}
	return enrollment, nil
}

// CreateAction adds a personal action item after validating the description
// length and due date, before any database call.
func (s *Service) CreateAction(ctx context.Context, userID uint, description string, dueDate time.Time, costCents *int) (*models.UserAction, error) {
	if err := validateAction(description, dueDate); err != nil {
		return nil, err
	}

	action := &models.UserAction{
		UserID:      userID,
		Description: strings.TrimSpace(description),
		DueDate:     dueDate,
		CostCents:   costCents,
		Status:      models.EnrollmentStatusInProgress,
	}
	if err := s.actions.Create(action); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", userID).Uint("action_id", action.ID).Msg("Action created")
	return action, nil
}

// UpdateAction edits an action's description, due date and cost.
func (s *Service) UpdateAction(ctx context.Context, userID, actionID uint, description string, dueDate time.Time, costCents *int) (*models.UserAction, error) {
	if err := validateAction(description, dueDate); err != nil {
		return nil, err
	}

	action, err := s.ownedAction(userID, actionID)
	if err != nil {
		return nil, err
	}

	action.Description = strings.TrimSpace(description)
	action.DueDate = dueDate
	action.CostCents = costCents
	if err := s.actions.Update(action); err != nil {
		return nil, err
	}
	return action, nil
}

// ToggleAction flips an action between in-progress and completed.
func (s *Service) ToggleAction(ctx context.Context, userID, actionID uint) (*models.UserAction, error) {
	action, err := s.ownedAction(userID, actionID)
	if err != nil {
		return nil, err
	}

	if action.Status == models.EnrollmentStatusCompleted {
		action.Status = models.EnrollmentStatusInProgress
		action.CompletedAt = nil
	} else {
		now := time.Now()
		action.Status = models.EnrollmentStatusCompleted
		action.CompletedAt = &now
	}

	if err := s.actions.Update(action); err != nil {
		return nil, err
	}
	return action, nil
}

// DeleteAction removes a user's action.
func (s *Service) DeleteAction(ctx context.Context, userID, actionID uint) error {
	if _, err := s.ownedAction(userID, actionID); err != nil {
		return err
	}
	return s.actions.Delete(actionID)
}

func (s *Service) ownedAction(userID, actionID uint) (*models.UserAction, error) {
	action, err := s.actions.GetByID(actionID)
	if err != nil {
		return nil, err
	}
	if action.UserID != userID {
		return nil, ErrNotOwner
	}
	return action, nil
}

func validateAction(description string, dueDate time.Time) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < MinActionDescription {
		return ErrDescriptionTooShort
	}
	if dueDate.IsZero() {
		return ErrDueDateRequired
	}
	return nil
}
