// Package content manages learning content items, their associations and
// the tag catalog.
package content

import (
	"context"
	"errors"
	"strings"

	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
	"github.com/talentos-hr/pdi-backend/pkg/slug"
)

// Validation errors surfaced to handlers.
var (
	ErrTitleRequired   = errors.New("content title is required")
	ErrTagNameRequired = errors.New("tag name is required")
	ErrTagTaken        = errors.New("a tag with this name or slug already exists")
)

// Service implements content and tag management.
type Service struct {
	contents    *repository.ContentRepository
	tags        *repository.TagRepository
	enrollments *repository.EnrollmentRepository
	log         *logger.Logger
}

// NewService creates a new content service.
func NewService(contents *repository.ContentRepository, tags *repository.TagRepository, enrollments *repository.EnrollmentRepository, log *logger.Logger) *Service {
	return &Service{
		contents:    contents,
		tags:        tags,
		enrollments: enrollments,
		log:         log,
	}
}

// Input carries a content create/update plus the full association ID sets.
type Input struct {
	Title            string
	ShortDescription string
	Description      string
	CoverImageURL    string
	MediaTypeID      *uint
	ExternalLink     string
	DurationMinutes  *int
	CostCents        *int
	TagIDs           []uint
	CompetencyIDs    []uint
	AudienceIDs      []uint
}

// Create creates a content and attaches its associations.
func (s *Service) Create(ctx context.Context, input Input) (*models.Content, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	content := &models.Content{
		Title:            strings.TrimSpace(input.Title),
		ShortDescription: input.ShortDescription,
		Description:      input.Description,
		CoverImageURL:    input.CoverImageURL,
		MediaTypeID:      input.MediaTypeID,
		ExternalLink:     input.ExternalLink,
		DurationMinutes:  input.DurationMinutes,
		CostCents:        input.CostCents,
		Active:           true,
	}
	if err := s.contents.Create(content); err != nil {
		return nil, err
	}
	if err := s.replaceAssociations(content, input); err != nil {
		return nil, err
	}

	s.log.Info().Uint("content_id", content.ID).Str("title", content.Title).Msg("Content created")
	return s.contents.GetByID(content.ID)
}

// Update edits a content. Associations are fully replaced, never patched.
func (s *Service) Update(ctx context.Context, id uint, input Input) (*models.Content, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	content, err := s.contents.GetByID(id)
	if err != nil {
		return nil, err
	}

	content.Title = strings.TrimSpace(input.Title)
	content.ShortDescription = input.ShortDescription
	content.Description = input.Description
	content.CoverImageURL = input.CoverImageURL
	content.MediaTypeID = input.MediaTypeID
	content.ExternalLink = input.ExternalLink
	content.DurationMinutes = input.DurationMinutes
	content.CostCents = input.CostCents

	if err := s.contents.Update(content); err != nil {
		return nil, err
	}
	if err := s.replaceAssociations(content, input); err != nil {
		return nil, err
	}
	return s.contents.GetByID(id)
}

func (s *Service) replaceAssociations(content *models.Content, input Input) error {
	tags, err := s.tags.GetByIDs(input.TagIDs)
	if err != nil {
		return err
	}

	competencies, err := s.contents.GetCompetenciesByIDs(input.CompetencyIDs)
	if err != nil {
		return err
	}
	audiences, err := s.contents.GetAudiencesByIDs(input.AudienceIDs)
	if err != nil {
		return err
	}

	return s.contents.ReplaceAssociations(content, tags, competencies, audiences)
}

// Get returns a content with all associations.
func (s *Service) Get(ctx context.Context, id uint) (*models.Content, error) {
	return s.contents.GetByID(id)
}

// List returns contents, optionally restricted to active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.Content, error) {
	return s.contents.List(activeOnly)
}

// SetActive activates or deactivates a content. Deactivated content stops
// appearing in recommendations but keeps existing enrollments intact.
func (s *Service) SetActive(ctx context.Context, id uint, active bool) error {
	return s.contents.SetActive(id, active)
}

// RecomputeRatings recalculates the running average rating and rating count
// of every content that has completed, rated enrollments. Run nightly by the
// scheduler; ratings only mutate through this path.
func (s *Service) RecomputeRatings(ctx context.Context) (int, error) {
	ids, err := s.enrollments.RatedContentIDs()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		ratings, err := s.enrollments.CompletedRatings(id)
		if err != nil {
			return updated, err
		}
		if len(ratings) == 0 {
			continue
		}
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		avg := float64(sum) / float64(len(ratings))
		if err := s.contents.UpdateRatingAggregate(id, avg, len(ratings)); err != nil {
			return updated, err
		}
		updated++
	}

	s.log.Info().Int("contents", updated).Msg("Recomputed content rating aggregates")
	return updated, nil
}

// CreateTag creates a tag, deriving the slug from the name when the caller
// does not supply one.
func (s *Service) CreateTag(ctx context.Context, name, slugOverride, description string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	tagSlug := strings.TrimSpace(slugOverride)
	if tagSlug == "" {
		tagSlug = slug.Make(name)
	}

	tag := &models.Tag{Name: name, Slug: tagSlug, Description: description}
	if err := s.tags.Create(tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTagTaken
		}
		return nil, err
	}
	return tag, nil
}

// UpdateTag renames a tag. The slug is regenerated from the new name unless
// the caller supplies an explicit one.
func (s *Service) UpdateTag(ctx context.Context, id uint, name, slugOverride, description string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	tag, err := s.tags.GetByID(id)
	if err != nil {
		return nil, err
	}

	tag.Description = description
	tagSlug := strings.TrimSpace(slugOverride)
	if tagSlug == "" && tag.Name != name {
		tagSlug = slug.Make(name)
	}
	if tagSlug != "" {
		tag.Slug = tagSlug
	}
	tag.Name = name

	if err := s.tags.Update(tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTagTaken
		}
		return nil, err
	}
	return tag, nil
}

// ListTags returns the tag catalog.
func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List()
}

// DeleteTag removes a tag.
func (s *Service) DeleteTag(ctx context.Context, id uint) error {
	return s.tags.Delete(id)
}
