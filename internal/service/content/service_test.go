package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/talentos-hr/pdi-backend/internal/models"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

func setupService(t *testing.T) (*Service, *repository.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db := &repository.DB{DB: gdb}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	log := logger.New("error", "console", "stderr")
	svc := NewService(
		repository.NewContentRepository(db),
		repository.NewTagRepository(db),
		repository.NewEnrollmentRepository(db),
		log,
	)
	return svc, db
}

func TestCreateTagDerivesSlug(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "Liderança e Gestão", "", "")
	if err != nil {
		t.Fatalf("CreateTag() unexpected error: %v", err)
	}
	if tag.Slug != "lideranca-e-gestao" {
		t.Errorf("derived slug = %q, want %q", tag.Slug, "lideranca-e-gestao")
	}

	// An explicit slug wins over derivation.
	tag, err = svc.CreateTag(ctx, "Outro Nome", "custom-slug", "")
	if err != nil {
		t.Fatalf("CreateTag() unexpected error: %v", err)
	}
	if tag.Slug != "custom-slug" {
		t.Errorf("slug = %q, want the explicit override", tag.Slug)
	}

	if _, err := svc.CreateTag(ctx, "   ", "", ""); !errors.Is(err, ErrTagNameRequired) {
		t.Errorf("CreateTag(blank) error = %v, want ErrTagNameRequired", err)
	}

	if _, err := svc.CreateTag(ctx, "Liderança e Gestão", "", ""); !errors.Is(err, ErrTagTaken) {
		t.Errorf("CreateTag(duplicate) error = %v, want ErrTagTaken", err)
	}
}

func TestUpdateTagSlugRegeneration(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "Comunicação", "", "")
	if err != nil {
		t.Fatalf("CreateTag() unexpected error: %v", err)
	}

	// Description-only edit keeps the slug.
	got, err := svc.UpdateTag(ctx, tag.ID, "Comunicação", "", "nova descrição")
	if err != nil {
		t.Fatalf("UpdateTag() unexpected error: %v", err)
	}
	if got.Slug != "comunicacao" {
		t.Errorf("slug after description edit = %q, want unchanged", got.Slug)
	}

	// Renaming regenerates the slug.
	got, err = svc.UpdateTag(ctx, tag.ID, "Comunicação Assertiva", "", "")
	if err != nil {
		t.Fatalf("UpdateTag() unexpected error: %v", err)
	}
	if got.Slug != "comunicacao-assertiva" {
		t.Errorf("slug after rename = %q, want %q", got.Slug, "comunicacao-assertiva")
	}
}

func TestCreateContentWithAssociations(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "Feedback", "", "")
	if err != nil {
		t.Fatalf("CreateTag() unexpected error: %v", err)
	}
	comp := &models.Competency{Name: "Gestão de Pessoas"}
	if err := db.Create(comp).Error; err != nil {
		t.Fatalf("failed to seed competency: %v", err)
	}

	got, err := svc.Create(ctx, Input{
		Title:         "  Curso de Feedback  ",
		TagIDs:        []uint{tag.ID},
		CompetencyIDs: []uint{comp.ID},
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if got.Title != "Curso de Feedback" {
		t.Errorf("Title = %q, want trimmed", got.Title)
	}
	if !got.Active {
		t.Error("new content must start active")
	}
	if len(got.Tags) != 1 || len(got.Competencies) != 1 {
		t.Errorf("associations not attached: %d tags, %d competencies", len(got.Tags), len(got.Competencies))
	}

	if _, err := svc.Create(ctx, Input{Title: "  "}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("Create(blank title) error = %v, want ErrTitleRequired", err)
	}
}

func TestRecomputeRatings(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	content := &models.Content{Title: "rated", Active: true}
	unrated := &models.Content{Title: "unrated", Active: true}
	for _, c := range []*models.Content{content, unrated} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("failed to seed content: %v", err)
		}
	}

	now := time.Now()
	for userID, rating := range map[uint]int{1: 5, 2: 4} {
		r := rating
		e := &models.Enrollment{
			UserID:      userID,
			ContentID:   content.ID,
			Status:      models.EnrollmentStatusCompleted,
			CompletedAt: &now,
			Rating:      &r,
		}
		if err := db.Create(e).Error; err != nil {
			t.Fatalf("failed to seed enrollment: %v", err)
		}
	}
	// An open enrollment must not count.
	open := &models.Enrollment{UserID: 3, ContentID: content.ID, Status: models.EnrollmentStatusInProgress}
	if err := db.Create(open).Error; err != nil {
		t.Fatalf("failed to seed enrollment: %v", err)
	}

	updated, err := svc.RecomputeRatings(ctx)
	if err != nil {
		t.Fatalf("RecomputeRatings() unexpected error: %v", err)
	}
	if updated != 1 {
		t.Errorf("RecomputeRatings() updated %d contents, want 1", updated)
	}

	got, err := svc.Get(ctx, content.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got.AvgRating != 4.5 || got.RatingCount != 2 {
		t.Errorf("rating aggregate = (%v, %d), want (4.5, 2)", got.AvgRating, got.RatingCount)
	}

	got, err = svc.Get(ctx, unrated.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got.AvgRating != 0 || got.RatingCount != 0 {
		t.Errorf("unrated content aggregate = (%v, %d), want zeroes", got.AvgRating, got.RatingCount)
	}
}
