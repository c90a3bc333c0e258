// Command server runs the vocabulary practice API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lexitra/lexitra/internal/api"
	"github.com/lexitra/lexitra/internal/api/middleware"
	"github.com/lexitra/lexitra/internal/config"
	"github.com/lexitra/lexitra/internal/platform/gemini"
	"github.com/lexitra/lexitra/internal/platform/logger"
	"github.com/lexitra/lexitra/internal/platform/openai"
	"github.com/lexitra/lexitra/internal/platform/postgres"
	"github.com/lexitra/lexitra/internal/service"
	"github.com/lexitra/lexitra/internal/translation"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"provider_preference", cfg.Translation.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrate(cfg.Database.URL); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()

	cardStore := postgres.NewPostgresCardStore(pool, log)
	sessionStore := postgres.NewPostgresSessionStore(pool, log)

	backend := buildTranslationChain(ctx, log, cfg.Translation)
	log.Info("translation backend ready", "providers", backend.ProviderNames())

	selector := service.NewCardSelector(cardStore, log, nil)
	tracker := service.NewProgressTracker(sessionStore, cardStore, log)
	evaluator := service.NewEvaluator(backend, service.DefaultFallbackPolicy, log)
	practice := service.NewPracticeService(selector, tracker, evaluator, sessionStore, cardStore, log)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.TraceMiddleware)

	sessionHandler := api.NewSessionHandler(practice, cfg.Practice.DefaultMaxCards, log)
	cardHandler := api.NewCardHandler(cardStore, log)
	router.Route("/api", func(r chi.Router) {
		sessionHandler.RegisterRoutes(r)
		cardHandler.RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// migrate applies pending migrations over a short-lived database/sql
// connection, which is what goose expects.
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}
	return nil
}

// buildTranslationChain constructs the provider chain from the resolved
// configuration: the preferred provider first, at most one secondary,
// heuristic baseline always behind them. A provider whose credential is
// missing is skipped, not fatal — the chain degrades instead.
func buildTranslationChain(ctx context.Context, log *slog.Logger, cfg config.TranslationConfig) *translation.Chain {
	var providers []translation.Provider

	addGemini := func() {
		if cfg.GeminiAPIKey == "" {
			return
		}
		p, err := gemini.New(ctx, log, cfg)
		if err != nil {
			log.Warn("failed to construct gemini provider, skipping", "error", err)
			return
		}
		providers = append(providers, p)
	}
	addOpenAI := func() {
		if cfg.OpenAIAPIKey == "" {
			return
		}
		p, err := openai.New(log, cfg)
		if err != nil {
			log.Warn("failed to construct openai provider, skipping", "error", err)
			return
		}
		providers = append(providers, p)
	}

	// Preference order decides which provider is primary.
	if cfg.Provider == "openai" {
		addOpenAI()
		addGemini()
	} else {
		addGemini()
		addOpenAI()
	}

	if len(providers) == 0 {
		log.Warn("no translation provider configured; sessions will run on the local heuristic")
	}

	return translation.NewChain(log, providers...)
}
