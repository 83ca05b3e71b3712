package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/smartplan-api/internal/config"
	authhandler "github.com/jwalitptl/smartplan-api/internal/handler/auth"
	planhandler "github.com/jwalitptl/smartplan-api/internal/handler/plan"
	settingshandler "github.com/jwalitptl/smartplan-api/internal/handler/settings"
	templatehandler "github.com/jwalitptl/smartplan-api/internal/handler/template"
	"github.com/jwalitptl/smartplan-api/internal/middleware"
	"github.com/jwalitptl/smartplan-api/internal/repository/postgres"
	redisrepo "github.com/jwalitptl/smartplan-api/internal/repository/redis"
	"github.com/jwalitptl/smartplan-api/internal/router"
	authService "github.com/jwalitptl/smartplan-api/internal/service/auth"
	generationService "github.com/jwalitptl/smartplan-api/internal/service/generation"
	planService "github.com/jwalitptl/smartplan-api/internal/service/plan"
	settingsService "github.com/jwalitptl/smartplan-api/internal/service/settings"
	templateService "github.com/jwalitptl/smartplan-api/internal/service/template"
	"github.com/jwalitptl/smartplan-api/internal/storage"
	"github.com/jwalitptl/smartplan-api/pkg/auth"
	"github.com/jwalitptl/smartplan-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	log.Logger = *appLogger.Zerolog()

	ctx := context.Background()

	// Initialize database and apply migrations
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize repositories
	base := postgres.NewBaseRepository(db)
	accountRepo := postgres.NewAccountRepository(base)
	planRepo := postgres.NewPlanRepository(base)
	templateRepo := postgres.NewTemplateRepository(base)
	generationRepo := postgres.NewGenerationRepository(base)

	tokenStore, err := redisrepo.NewTokenStore(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Initialize object storage for logo uploads
	objects, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:       cfg.Storage.Region,
		Bucket:       cfg.Storage.Bucket,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		BaseEndpoint: cfg.Storage.BaseEndpoint,
		PublicURL:    cfg.Storage.PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	// Initialize services
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	authSvc := authService.NewService(accountRepo, tokenStore, jwtSvc)
	settingsSvc := settingsService.NewService(accountRepo, objects)
	planSvc := planService.NewService(planRepo)
	templateSvc := templateService.NewService(templateRepo, templateService.DefaultConfig())
	generationSvc := generationService.NewService(
		planRepo,
		accountRepo,
		templateRepo,
		generationRepo,
		generationService.NewStaticGenerator(),
	)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	authHandler := authhandler.NewHandler(authSvc)
	settingsHandler := settingshandler.NewHandler(settingsSvc)
	planHandler := planhandler.NewHandler(planSvc, generationSvc)
	templateHandler := templatehandler.NewHandler(templateSvc)

	// Setup router
	routerCfg := router.DefaultConfig()
	routerCfg.RateLimitRPS = cfg.Server.RateLimitRPS
	routerCfg.RateLimitBurst = cfg.Server.RateLimitBurst

	r := router.NewRouter(
		authMiddleware,
		authHandler,
		settingsHandler,
		planHandler,
		templateHandler,
		routerCfg,
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
