// Package recommendation aggregates ranked content suggestions for a user's
// development plan.
package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talentos-hr/pdi-backend/internal/cache"
	"github.com/talentos-hr/pdi-backend/internal/metrics"
	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/ranking"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// ContentRepository is the content access surface the aggregator needs.
type ContentRepository interface {
	GetActiveByIDs(ids []uint) ([]models.Content, error)
	GetTags(contentID uint) ([]models.Tag, error)
	GetCompetencies(contentID uint) ([]models.Competency, error)
	GetAudiences(contentID uint) ([]models.Audience, error)
}

// RecommendedContent is a fully denormalized content item plus the oracle's
// reason for suggesting it.
type RecommendedContent struct {
	Content models.Content `json:"content"`
	Reason  string         `json:"reason"`
}

// Service aggregates recommendations: oracle ranking, bulk content fetch,
// concurrent association denormalization, then a re-sort into oracle order.
type Service struct {
	oracle      ranking.Oracle
	contentRepo ContentRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	log         *logger.Logger
}

// NewService creates a new recommendation service. cache may be nil, in
// which case every call goes to the oracle.
func NewService(oracle ranking.Oracle, contentRepo ContentRepository, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		oracle:      oracle,
		contentRepo: contentRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// cachePrefix namespaces the ranking keys in Redis.
const cachePrefix = "recs:"

// cacheKey names one user's ranking.
func cacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", cachePrefix, userID)
}

// Recommend returns the ordered, denormalized recommendations for a user.
// Users without a tag signal get an empty list. Any fetch failure aborts the
// whole aggregation; partial results are never returned.
func (s *Service) Recommend(ctx context.Context, userID uint) ([]RecommendedContent, error) {
	ranked, source, err := s.rankedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	metrics.RecommendationsServedTotal.WithLabelValues(source).Inc()
	if len(ranked) == 0 {
		return []RecommendedContent{}, nil
	}

	ids := make([]uint, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ContentID)
	}

	contents, err := s.contentRepo.GetActiveByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommended contents: %w", err)
	}

	if err := s.denormalize(ctx, contents); err != nil {
		return nil, err
	}

	// Re-sort into the oracle's order, not the storage fetch order. IDs the
	// bulk fetch did not return (deactivated since ranking) are dropped.
	byID := make(map[uint]*models.Content, len(contents))
	for i := range contents {
		byID[contents[i].ID] = &contents[i]
	}

	result := make([]RecommendedContent, 0, len(ranked))
	for _, r := range ranked {
		content, ok := byID[r.ContentID]
		if !ok {
			continue
		}
		result = append(result, RecommendedContent{Content: *content, Reason: r.Reason})
	}

	s.log.Debug().
		Uint("user_id", userID).
		Str("source", source).
		Int("ranked", len(ranked)).
		Int("returned", len(result)).
		Msg("Aggregated recommendations")

	return result, nil
}

// rankedForUser consults the cache before the oracle. Cache failures are
// logged and treated as misses; ranking failures are terminal.
func (s *Service) rankedForUser(ctx context.Context, userID uint) ([]ranking.RankedContent, string, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey(userID)); err != nil {
			s.log.Warn().Err(err).Uint("user_id", userID).Msg("Recommendation cache read failed")
		} else if cached != "" {
			var ranked []ranking.RankedContent
			if err := json.Unmarshal([]byte(cached), &ranked); err == nil {
				return ranked, "cache", nil
			}
			s.log.Warn().Uint("user_id", userID).Msg("Discarding undecodable cached ranking")
		}
	}

	ranked, err := s.oracle.RankForUser(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to rank contents: %w", err)
	}

	if s.cache != nil && len(ranked) > 0 {
		if payload, err := json.Marshal(ranked); err == nil {
			if err := s.cache.Set(ctx, cacheKey(userID), string(payload), s.cacheTTL); err != nil {
				s.log.Warn().Err(err).Uint("user_id", userID).Msg("Recommendation cache write failed")
			}
		}
	}

	return ranked, "oracle", nil
}

// denormalize loads tags, competencies and audiences for every content. The
// three lookups of one content run concurrently, as do the contents
// themselves; the first error cancels everything.
func (s *Service) denormalize(ctx context.Context, contents []models.Content) error {
	g, _ := errgroup.WithContext(ctx)

	for i := range contents {
		content := &contents[i]
		g.Go(func() error {
			tags, err := s.contentRepo.GetTags(content.ID)
			if err != nil {
				return err
			}
			content.Tags = tags
			return nil
		})
		g.Go(func() error {
			competencies, err := s.contentRepo.GetCompetencies(content.ID)
			if err != nil {
				return err
			}
			content.Competencies = competencies
			return nil
		})
		g.Go(func() error {
			audiences, err := s.contentRepo.GetAudiences(content.ID)
			if err != nil {
				return err
			}
			content.Audiences = audiences
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to denormalize recommended contents: %w", err)
	}
	return nil
}

// InvalidateUser drops a user's cached ranking, called when a new evaluation
// is finalized for them.
func (s *Service) InvalidateUser(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(userID)); err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Failed to invalidate recommendation cache")
	}
}

// InvalidateAll drops every cached ranking. The nightly rating recompute
// shifts the oracle's tie-break order, so rankings cached before it must not
// be served afterwards.
func (s *Service) InvalidateAll(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DelPattern(ctx, cachePrefix+"*"); err != nil {
		return fmt.Errorf("failed to flush recommendation cache: %w", err)
	}
	return nil
}
