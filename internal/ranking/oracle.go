// Package ranking scores candidate contents for a user. The rest of the
// system treats the Oracle as opaque: it only relies on the returned order.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/talentos-hr/pdi-backend/internal/metrics"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

// RankedContent is one entry of a ranking: a content ID plus the reason it
// was suggested.
type RankedContent struct {
	ContentID uint   `json:"content_id"`
	Reason    string `json:"reason"`
}

// Oracle produces an ordered list of suggested content IDs for a user.
type Oracle interface {
	RankForUser(ctx context.Context, userID uint) ([]RankedContent, error)
}

// TagOverlapOracle ranks active, not-yet-enrolled contents by how many tags
// they share with the user's most recent finalized evaluation. Ties break by
// average rating descending, then content ID ascending, so rankings are
// stable across runs.
type TagOverlapOracle struct {
	evalRepo       *repository.EvaluationRepository
	enrollmentRepo *repository.EnrollmentRepository
	db             *repository.DB
	maxItems       int
	log            *logger.Logger
}

// NewTagOverlapOracle creates the default database-backed oracle.
func NewTagOverlapOracle(
	db *repository.DB,
	evalRepo *repository.EvaluationRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	maxItems int,
	log *logger.Logger,
) *TagOverlapOracle {
	if maxItems <= 0 {
		maxItems = 20
	}
	return &TagOverlapOracle{
		evalRepo:       evalRepo,
		enrollmentRepo: enrollmentRepo,
		db:             db,
		maxItems:       maxItems,
		log:            log,
	}
}

// candidate is an internal scoring row.
type candidate struct {
	contentID uint
	overlap   int
	avgRating float64
	tagName   string
}

// RankForUser implements Oracle.
func (o *TagOverlapOracle) RankForUser(ctx context.Context, userID uint) ([]RankedContent, error) {
	start := time.Now()
	defer func() {
		metrics.RankingDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	tagIDs, err := o.evalRepo.LatestFinalizedTagIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation signal: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil, nil
	}

	enrolledIDs, err := o.enrollmentRepo.ContentIDsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrolled contents: %w", err)
	}

	rows, err := o.queryCandidates(ctx, tagIDs, enrolledIDs)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].overlap != rows[j].overlap {
			return rows[i].overlap > rows[j].overlap
		}
		if rows[i].avgRating != rows[j].avgRating {
			return rows[i].avgRating > rows[j].avgRating
		}
		return rows[i].contentID < rows[j].contentID
	})

	if len(rows) > o.maxItems {
		rows = rows[:o.maxItems]
	}

	ranked := make([]RankedContent, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, RankedContent{
			ContentID: row.contentID,
			Reason:    fmt.Sprintf("matches your development tag %q", row.tagName),
		})
	}

	o.log.Debug().
		Uint("user_id", userID).
		Int("signal_tags", len(tagIDs)).
		Int("candidates", len(ranked)).
		Msg("Ranked contents for user")

	return ranked, nil
}

// queryCandidates aggregates tag overlap per active content in a single
// round trip, excluding contents the user already enrolled in.
func (o *TagOverlapOracle) queryCandidates(ctx context.Context, tagIDs, enrolledIDs []uint) ([]candidate, error) {
	type row struct {
		ContentID uint
		Overlap   int
		AvgRating float64
		TagName   string
	}

	query := o.db.WithContext(ctx).
		Table("content_tags").
		Select("content_tags.content_id as content_id, count(content_tags.tag_id) as overlap, contents.avg_rating as avg_rating, min(tags.name) as tag_name").
		Joins("JOIN contents ON contents.id = content_tags.content_id").
		Joins("JOIN tags ON tags.id = content_tags.tag_id").
		Where("content_tags.tag_id IN ?", tagIDs).
		Where("contents.active = ?", true).
		Group("content_tags.content_id, contents.avg_rating")
	if len(enrolledIDs) > 0 {
		query = query.Where("content_tags.content_id NOT IN ?", enrolledIDs)
	}

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to score candidate contents: %w", err)
	}

	candidates := make([]candidate, 0, len(rows))
	for _, r := range rows {
		candidates = append(candidates, candidate{
			contentID: r.ContentID,
			overlap:   r.Overlap,
			avgRating: r.AvgRating,
			tagName:   r.TagName,
		})
	}
	return candidates, nil
}
