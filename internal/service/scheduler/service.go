// Package scheduler runs the nightly maintenance jobs: the rating aggregate
// recompute and the recommendation cache flush that follows it.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// RatingRecomputer recalculates the stored content rating aggregates.
type RatingRecomputer interface {
	RecomputeRatings(ctx context.Context) (int, error)
}

// RecommendationFlusher drops cached rankings. The recompute changes the
// rating signal the rankings were built from.
type RecommendationFlusher interface {
	InvalidateAll(ctx context.Context) error
}

// Service schedules the nightly maintenance jobs.
type Service struct {
	config   *config.SchedulerConfig
	contents RatingRecomputer
	recs     RecommendationFlusher
	log      *logger.Logger
	cron     *cron.Cron
}

// NewService creates a new scheduler service. recs may be nil.
func NewService(cfg *config.SchedulerConfig, contents RatingRecomputer, recs RecommendationFlusher, log *logger.Logger) *Service {
	return &Service{
		config:   cfg,
		contents: contents,
		recs:     recs,
		log:      log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	cronExpr, err := s.buildCronExpression()
	if err != nil {
		return fmt.Errorf("failed to build cron expression: %w", err)
	}

	_, err = s.cron.AddFunc(cronExpr, s.runNightly)
	if err != nil {
		return fmt.Errorf("failed to schedule nightly job: %w", err)
	}

	s.cron.Start()
	s.log.Info().
		Str("cron", cronExpr).
		Str("timezone", s.config.Timezone).
		Msg("Scheduler started")
	return nil
}

// Stop stops the cron scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// runNightly recomputes the content rating aggregates, then flushes the
// recommendation cache so rankings built on the old aggregates expire with
// them.
func (s *Service) runNightly() {
	ctx := context.Background()
	updated, err := s.contents.RecomputeRatings(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Nightly rating recompute failed")
		return
	}
	s.log.Info().Int("contents", updated).Msg("Nightly rating recompute finished")

	if s.recs == nil {
		return
	}
	if err := s.recs.InvalidateAll(ctx); err != nil {
		s.log.Error().Err(err).Msg("Failed to flush recommendation cache after recompute")
	}
}

// buildCronExpression converts the configured "HH:MM" time into a cron
// expression.
func (s *Service) buildCronExpression() (string, error) {
	parts := strings.Split(s.config.Time, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format %q, expected HH:MM", s.config.Time)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", s.config.Time)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", s.config.Time)
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
