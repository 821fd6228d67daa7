package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"screenbreak/internal/config"
	"screenbreak/internal/database"
	"screenbreak/internal/handlers"
	"screenbreak/internal/repository"
	"screenbreak/internal/service"
)

func main() {
	cfg := config.Load()

	logger := initLogger(cfg.Environment)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := db.SeedDefaultCatalog(); err != nil {
		logger.Fatal("failed to seed challenge catalog", zap.Error(err))
	}

	childRepo := repository.NewChildRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	familyService := service.NewFamilyService(familyRepo, childRepo, ledgerRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	challengeService := service.NewChallengeService(catalogRepo, instanceRepo, childRepo, ledgerRepo, cfg.RecencyWindowDays)
	ledgerService := service.NewLedgerService(instanceRepo, ledgerRepo, childRepo, logger)
	statsService := service.NewStatsService(childRepo, familyRepo, ledgerRepo)
	leaderboardService := service.NewLeaderboardService(ledgerRepo)

	digestService, err := service.NewDigestService(leaderboardService,
		cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.DigestEmail, logger)
	if err != nil {
		logger.Fatal("failed to initialize digest service", zap.Error(err))
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		FamilyService:      familyService,
		CatalogService:     catalogService,
		ChallengeService:   challengeService,
		LedgerService:      ledgerService,
		StatsService:       statsService,
		LeaderboardService: leaderboardService,
		Logger:             logger,
		CORSOrigins:        cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if digestService.IsEnabled() {
		go runWeeklyDigest(ctx, digestService, logger)
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
			zap.String("database", cfg.DatabaseType))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// runWeeklyDigest sends the leaderboard digest shortly after each weekly
// boundary (Monday 00:05 UTC) until ctx is cancelled.
func runWeeklyDigest(ctx context.Context, digest *service.DigestService, logger *zap.Logger) {
	for {
		next := nextDigestTime(time.Now())
		logger.Info("next digest scheduled", zap.Time("at", next))

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := digest.SendWeeklyDigest(sendCtx); err != nil {
			logger.Error("failed to send weekly digest", zap.Error(err))
		}
		cancel()
	}
}

// nextDigestTime returns the next Monday 00:05 UTC strictly after t
func nextDigestTime(t time.Time) time.Time {
	weekStart := service.StartOfWeek(t)
	next := weekStart.Add(5 * time.Minute)
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// initLogger builds the zap logger for the given environment
func initLogger(environment string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
