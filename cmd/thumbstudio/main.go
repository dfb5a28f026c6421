// Package main is the entry point for the thumbstudio server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thumbstudio/internal/ai"
	"thumbstudio/internal/cache"
	"thumbstudio/internal/config"
	"thumbstudio/internal/database"
	"thumbstudio/internal/handlers"
	"thumbstudio/internal/router"
	"thumbstudio/internal/session"
	"thumbstudio/internal/store"
	"thumbstudio/internal/studio"
)

func main() {
	// Structured logger — JSON in production, text in development.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the preset catalog, plus a demo account in development.
	if err := database.Seed(db, cfg.IsDev()); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible session + preview cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. Outside development, session
	// cookies are Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Data stores.
	userStore := store.NewUserStore(db)
	presetStore := store.NewPresetStore(db)
	generationStore := store.NewGenerationStore(db)
	purchaseStore := store.NewPurchaseStore(db)

	// Thumbnail cache for the history strip.
	previewCache := cache.NewPreviewCache(valkeyClient, cache.DefaultPreviewTTL)

	// AI provider registry with all configured image providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"openai": {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// The studio workflow: token accounting, generation, editing, and
	// per-session image state.
	studioSvc := studio.NewService(
		studio.NewManager(), aiRegistry, userStore, aiRegistry, generationStore, logger,
	)

	// Handler groups.
	authHandlers := handlers.NewAuth(sessionStore, userStore, studioSvc)
	studioHandlers := handlers.NewStudio(studioSvc, previewCache)
	shopHandlers := handlers.NewShop(userStore, purchaseStore, cfg.PaymentUPIAddress, cfg.PaymentPayeeName, cfg.VerifyDelay)
	presetHandlers := handlers.NewPresets(presetStore)

	r := router.New(sessionStore, authHandlers, studioHandlers, shopHandlers, presetHandlers, router.Options{
		SecureCookies: secureCookies,
	})

	// WriteTimeout must accommodate image generation calls, which can
	// take tens of seconds upstream.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
