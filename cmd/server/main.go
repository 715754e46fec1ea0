// Command server runs the PDI backend HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentos-hr/pdi-backend/internal/api"
	authapi "github.com/talentos-hr/pdi-backend/internal/api/auth"
	contentsapi "github.com/talentos-hr/pdi-backend/internal/api/contents"
	evalapi "github.com/talentos-hr/pdi-backend/internal/api/evaluations"
	pdiapi "github.com/talentos-hr/pdi-backend/internal/api/pdi"
	provapi "github.com/talentos-hr/pdi-backend/internal/api/provisioning"
	recsapi "github.com/talentos-hr/pdi-backend/internal/api/recommendations"
	tagsapi "github.com/talentos-hr/pdi-backend/internal/api/tags"
	uploadsapi "github.com/talentos-hr/pdi-backend/internal/api/uploads"
	"github.com/talentos-hr/pdi-backend/internal/cache"
	"github.com/talentos-hr/pdi-backend/internal/config"
	"github.com/talentos-hr/pdi-backend/internal/identity"
	"github.com/talentos-hr/pdi-backend/internal/ranking"
	"github.com/talentos-hr/pdi-backend/internal/repository"
	contentsvc "github.com/talentos-hr/pdi-backend/internal/service/content"
	evalsvc "github.com/talentos-hr/pdi-backend/internal/service/evaluation"
	pdisvc "github.com/talentos-hr/pdi-backend/internal/service/pdi"
	provsvc "github.com/talentos-hr/pdi-backend/internal/service/provisioning"
	recsvc "github.com/talentos-hr/pdi-backend/internal/service/recommendation"
	"github.com/talentos-hr/pdi-backend/internal/service/scheduler"
	"github.com/talentos-hr/pdi-backend/internal/storage"
	"github.com/talentos-hr/pdi-backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	store, err := storage.NewStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// Repositories
	tagRepo := repository.NewTagRepository(db)
	contentRepo := repository.NewContentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	actionRepo := repository.NewActionRepository(db)
	evalRepo := repository.NewEvaluationRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	identities := identity.NewService(db, &cfg.Auth, log)
	oracle := ranking.NewTagOverlapOracle(db, evalRepo, enrollmentRepo, cfg.Recs.MaxItems, log)
	recommendationService := recsvc.NewService(oracle, contentRepo, redisCache, cfg.Recs.CacheTTLDuration(), log)
	pdiService := pdisvc.NewService(enrollmentRepo, actionRepo, contentRepo, log)
	evaluationService := evalsvc.NewService(evalRepo, templateRepo, tagRepo, log)
	contentService := contentsvc.NewService(contentRepo, tagRepo, enrollmentRepo, log)
	provisioningService := provsvc.NewService(adminRepo, identities, log)

	schedulerService := scheduler.NewService(&cfg.Scheduler, contentService, recommendationService, log)
	if err := schedulerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer schedulerService.Stop()

	router := api.NewRouter(cfg, db, identities, api.Handlers{
		Auth:            authapi.NewHandler(identities, log),
		Contents:        contentsapi.NewHandler(contentService, log),
		Evaluations:     evalapi.NewHandler(evaluationService, recommendationService, log),
		PDI:             pdiapi.NewHandler(pdiService, log),
		Provisioning:    provapi.NewHandler(provisioningService, identities, log),
		Recommendations: recsapi.NewHandler(recommendationService, log),
		Tags:            tagsapi.NewHandler(contentService, log),
		Uploads:         uploadsapi.NewHandler(store, log),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
