package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fallacyfinder/internal/config"
	"fallacyfinder/internal/database"
	"fallacyfinder/internal/handlers"
	"fallacyfinder/internal/logger"
	"fallacyfinder/internal/metrics"
	"fallacyfinder/internal/repository"
	"fallacyfinder/internal/security"
	"fallacyfinder/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	startup := handlers.NewStartup(
		handlers.StepDatabase,
		handlers.StepMigrations,
		handlers.StepContent,
		handlers.StepBadWords,
		handlers.StepServices,
	)

	// Initialize database with config (supports sqlite, postgres, mysql)
	startup.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	log.Info("database connection established", zap.String("type", cfg.Database.Type))
	startup.CompleteStep(handlers.StepDatabase)

	startup.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	startup.CompleteStep(handlers.StepMigrations)

	contentRepo := repository.NewContentRepository(db)
	contentService := service.NewContentService(contentRepo, log)

	startup.SetCurrentStep(handlers.StepContent)
	if cfg.Content.Seed {
		if err := contentService.SeedIfEmpty(ctx, cfg.Content.Path); err != nil {
			return fmt.Errorf("failed to seed content: %w", err)
		}
	}
	startup.CompleteStep(handlers.StepContent)

	startup.SetCurrentStep(handlers.StepBadWords)
	if cfg.BadWords.Seed {
		if err := db.SeedBadWords(ctx, cfg.BadWords.URL); err != nil {
			log.Warn("failed to seed bad words filter", zap.Error(err))
		}
	}
	startup.CompleteStep(handlers.StepBadWords)

	startup.SetCurrentStep(handlers.StepServices)
	sessions, closeSessions, err := newSessionStore(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	m := metrics.New()
	gameService := service.NewGameService(contentRepo, sessions, m, log, service.WithNameFilter(db))

	limiter := security.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go limiter.Run(ctx, cfg.RateLimit.Window)

	ips, err := security.NewIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}
	middleware := handlers.NewMiddleware(log, m, limiter, ips)
	gameHandler := handlers.NewGameHandler(gameService, log)

	api := http.NewServeMux()
	gameHandler.Register(api, middleware)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handlers.Health)
	mux.HandleFunc("GET /readyz", startup.ShowStartupStatus)
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("/api/", middleware.RequireReady(startup, api))
	startup.CompleteStep(handlers.StepServices)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.Logging(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	startup.MarkReady()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	startup.MarkDraining()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newSessionStore builds the configured session backend and its cleanup func
func newSessionStore(ctx context.Context, cfg *config.Config, db *database.DB, log *zap.Logger) (service.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("using redis session store", zap.String("addr", opts.Addr), zap.Duration("ttl", cfg.Redis.SessionTTL))
		return repository.NewRedisSessionStore(client, cfg.Redis.SessionTTL, log), func() { client.Close() }, nil

	case config.SessionStoreMemory:
		log.Warn("using in-memory session store, sessions are lost on restart")
		return repository.NewMemorySessionStore(), func() {}, nil

	default:
		return repository.NewSessionRepository(db), func() {}, nil
	}
}
