package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairwayfive/golf-pool/config"
	"github.com/fairwayfive/golf-pool/db"
	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/handlers"
	"github.com/fairwayfive/golf-pool/jobs"
	"github.com/fairwayfive/golf-pool/live"
	"github.com/fairwayfive/golf-pool/repositories"
	"github.com/fairwayfive/golf-pool/routes"
	"github.com/fairwayfive/golf-pool/services"
	"github.com/fairwayfive/golf-pool/storage"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	provider := golfdata.NewClient(cfg.GolfAPIBaseURL, cfg.GolfAPIKey, cfg.GolfAPIHost, logger)

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	entryRepo := repositories.NewPostgresEntryRepository(dbConn)
	snapshotRepo := repositories.NewPostgresResultSnapshotRepository(dbConn)
	scoreRepo := repositories.NewPostgresDailyScoreRepository(dbConn)
	bonusRepo := repositories.NewPostgresBonusPointRepository(dbConn)
	rankingRepo := repositories.NewPostgresRankingSnapshotRepository(dbConn)
	logger.Info("repositories initialized")

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live leaderboard hub started")

	var archiver services.CycleArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = storage.NewCycleArchive(uploader, logger)
		logger.Info("cycle archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	locks := services.NewTournamentLocks()
	rules := services.DefaultRuleSet()

	historyService := services.NewHistoryService(rankingRepo, scoreRepo, logger)
	calculatorService := services.NewCalculatorService(
		tournamentRepo, entryRepo, scoreRepo, snapshotRepo, bonusRepo,
		historyService, rules, locks, logger,
	)
	syncService := services.NewSyncService(
		provider, tournamentRepo, playerRepo, entryRepo, snapshotRepo, logger,
	)
	leaderboardService := services.NewLeaderboardService(
		tournamentRepo, entryRepo, participantRepo, scoreRepo,
	)
	cycleRunner := services.NewCycleRunner(
		syncService, calculatorService, leaderboardService, locks, hub, archiver, logger,
	)
	bonusService := services.NewBonusService(
		bonusRepo, entryRepo, snapshotRepo, calculatorService, locks, logger,
	)
	tournamentService := services.NewTournamentService(provider, tournamentRepo, logger)
	entryService := services.NewEntryService(entryRepo, participantRepo, tournamentRepo, scoreRepo, logger)
	participantService := services.NewParticipantService(participantRepo, logger)
	authService := services.NewAuthService(cfg.JWTSecretKey, cfg.AdminPasswordHash)
	logger.Info("services initialized")

	registry := jobs.NewRegistry(cycleRunner, cfg.SyncMinInterval, logger)
	defer registry.StopAll()

	router := routes.SetupRoutes(routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Health:      handlers.NewHealthHandler(dbConn),
		Tournament:  handlers.NewTournamentHandler(tournamentService, entryService, leaderboardService),
		Entry:       handlers.NewEntryHandler(entryService),
		Participant: handlers.NewParticipantHandler(participantService),
		Bonus:       handlers.NewBonusHandler(bonusService),
		Jobs:        handlers.NewJobsHandler(registry, cycleRunner, calculatorService, cfg),
		History:     handlers.NewHistoryHandler(historyService),
		WebSocket:   handlers.NewWebSocketHandler(hub, logger),
	}, authService, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		logger.Info("shutting down", slog.String("signal", sig.String()))

		registry.StopAll()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("server starting", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
