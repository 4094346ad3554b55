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

	"github.com/matchday/tournament-tracker/config"
	"github.com/matchday/tournament-tracker/db"
	"github.com/matchday/tournament-tracker/engine"
	"github.com/matchday/tournament-tracker/handlers"
	"github.com/matchday/tournament-tracker/live"
	"github.com/matchday/tournament-tracker/routes"
	"github.com/matchday/tournament-tracker/services"
	"github.com/matchday/tournament-tracker/storage"
	"github.com/matchday/tournament-tracker/store"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	st := store.NewPostgresStore(dbConn)
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.EnsureSchema(schemaCtx); err != nil {
		cancelSchema()
		logger.Error("failed to ensure document schema", slog.Any("error", err))
		os.Exit(1)
	}
	cancelSchema()
	logger.Info("document store ready")

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load sport catalog", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("sport catalog loaded", slog.Int("sports", len(catalog.Sports)))

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("WebSocket hub started")

	authService := services.NewAuthService(st, []byte(cfg.JWTSecretKey), cfg.TokenTTL, logger)
	tournamentService := services.NewTournamentService(st, catalog, logger)
	teamService := services.NewTeamService(st, uploader, logger)
	fixtureService := services.NewFixtureService(st, engine.NewKnockoutGenerator(nil), hub, logger)
	matchService := services.NewMatchService(st, hub, logger)
	standingsService := services.NewStandingsService(tournamentService)
	statsService := services.NewStatsService(tournamentService)
	playerService := services.NewPlayerService(st, catalog, logger)
	logger.Info("services initialized")

	router := routes.InitRoutes(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Team:       handlers.NewTeamHandler(tournamentService, teamService),
		Fixture:    handlers.NewFixtureHandler(fixtureService, tournamentService),
		Match:      handlers.NewMatchHandler(matchService),
		Standings:  handlers.NewStandingsHandler(standingsService, statsService),
		Player:     handlers.NewPlayerHandler(playerService, catalog),
		WebSocket:  handlers.NewWebSocketHandler(hub, tournamentService, logger),
	}, []byte(cfg.JWTSecretKey))
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
