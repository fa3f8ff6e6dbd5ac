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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/esports-overlay/config"
	"github.com/Dosada05/esports-overlay/db"
	"github.com/Dosada05/esports-overlay/handlers"
	"github.com/Dosada05/esports-overlay/logger"
	"github.com/Dosada05/esports-overlay/overlay"
	"github.com/Dosada05/esports-overlay/repositories"
	api "github.com/Dosada05/esports-overlay/routes"
	"github.com/Dosada05/esports-overlay/scheduler"
	"github.com/Dosada05/esports-overlay/services"
	"github.com/Dosada05/esports-overlay/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Dir: cfg.LogDir})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	slog.SetDefault(log)
	log.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("overlay_url", cfg.Overlay.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Error("failed to close database connection", slog.Any("error", err))
		} else {
			log.Info("database connection closed")
		}
	}()
	if err := db.Migrate(ctx, dbConn); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, storage.R2Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		log.Info("Cloudflare R2 uploader initialized")
	} else {
		log.Warn("R2 is not configured, media uploads are disabled")
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := overlay.NewHub(log)
	go wsHub.Run(hubCtx)

	dispatcher := overlay.NewDispatcher(overlay.DispatcherConfig{
		QueueSize:      cfg.Overlay.QueueSize,
		MaxRetries:     cfg.Overlay.MaxRetries,
		AttemptTimeout: cfg.Overlay.Timeout,
	}, log,
		overlay.NewHTTPSink(cfg.Overlay.BaseURL, cfg.Overlay.Timeout, cfg.Overlay.RatePerSecond),
		overlay.NewHubSink(wsHub),
	)

	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	characterRepo := repositories.NewPostgresCharacterRepository(dbConn)
	countryRepo := repositories.NewPostgresCountryRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	liveMatchRepo := repositories.NewPostgresLiveMatchRepository(dbConn)
	txRunner := repositories.NewTxRunner(dbConn, log)

	gameService := services.NewGameService(txRunner, gameRepo, characterRepo, log)
	characterService := services.NewCharacterService(txRunner, characterRepo, log)
	countryService := services.NewCountryService(txRunner, countryRepo, log)
	playerService := services.NewPlayerService(txRunner, playerRepo, countryRepo, log)
	tournamentService := services.NewTournamentService(txRunner, tournamentRepo, log)
	liveMatchService := services.NewLiveMatchService(txRunner, liveMatchRepo, dispatcher, log)
	mediaService := services.NewMediaService(txRunner, uploader, gameRepo, playerRepo, countryRepo, log)

	jobs, err := scheduler.New(cfg.TournamentStatusInterval, tournamentService, log)
	if err != nil {
		return err
	}
	jobs.Start()

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Game:       handlers.NewGameHandler(gameService, characterService, mediaService, log),
		Character:  handlers.NewCharacterHandler(characterService, log),
		Country:    handlers.NewCountryHandler(countryService, mediaService, log),
		Player:     handlers.NewPlayerHandler(playerService, mediaService, log),
		Tournament: handlers.NewTournamentHandler(tournamentService, log),
		LiveMatch:  handlers.NewLiveMatchHandler(liveMatchService, log),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, liveMatchService, cfg.CORSAllowedOrigins, log),
		Health:     handlers.NewHealthHandler(dbConn, log),
	}, cfg.CORSAllowedOrigins, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			log.Error("failed to force close server", slog.Any("error", closeErr))
		}
	}
	if err := jobs.Shutdown(); err != nil {
		log.Error("scheduler shutdown failed", slog.Any("error", err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("overlay dispatcher did not drain", slog.Any("error", err))
	}
	stopHub()

	log.Info("application exited")
	return nil
}
