package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/repositories"
	api "github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	issueToken := flag.Bool("issue-token", false, "print an organizer token signed with JWT_SECRET_KEY and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by -issue-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if *issueToken {
		token, err := middleware.IssueToken(cfg.JWTSecretKey, 1, middleware.RoleOrganizer, *tokenTTL)
		if err != nil {
			logger.Error("failed to issue token", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("store", cfg.StoreDriver))

	var store repositories.SwissStore
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		if err := db.EnsureSchema(ctx, dbConn); err != nil {
			return err
		}
		store = repositories.NewPostgresSwissStore(dbConn)
		logger.Info("database connection established")
	default:
		store = repositories.NewMemorySwissStore()
		logger.Warn("using in-memory store, data is lost on exit")
	}

	var publisher services.RoundPublisher
	if cfg.Sheets.Enabled() {
		uploader, err := storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
			Endpoint:        cfg.Sheets.Endpoint,
			Region:          cfg.Sheets.Region,
			AccessKeyID:     cfg.Sheets.AccessKeyID,
			SecretAccessKey: cfg.Sheets.SecretAccessKey,
			BucketName:      cfg.Sheets.BucketName,
			PublicBaseURL:   cfg.Sheets.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize round sheet uploader: %w", err)
		}
		publisher = storage.NewRoundSheetPublisher(uploader)
		logger.Info("round sheet publishing enabled", slog.String("bucket", cfg.Sheets.BucketName))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	swissMetrics := metrics.NewSwissMetrics(registry)

	wsHub := brackets.NewHub(logger)
	generator := brackets.NewSwissGenerator(cfg.PairingBacktrackLimit)

	tournamentService := services.NewTournamentService(store, wsHub, logger)
	swissService := services.NewSwissService(store, generator, wsHub, publisher, swissMetrics, logger)

	tournamentHandler := handlers.NewTournamentHandler(tournamentService, logger)
	swissHandler := handlers.NewSwissHandler(swissService, logger)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		JWTSecretKey:       cfg.JWTSecretKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Gatherer:           registry,
		Logger:             logger,
	}, tournamentHandler, swissHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsHub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}
