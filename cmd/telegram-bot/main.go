package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"diet-planner/internal/api"
	"diet-planner/internal/app"
	"diet-planner/internal/auth"
	"diet-planner/internal/config"
	"diet-planner/internal/database"
	"diet-planner/internal/logger"
	"diet-planner/internal/telegram"

	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New(cfg.Logger()).Named("telegram-bot")
	if err := run(cfg, lg); err != nil {
		lg.Error("telegram bot stopped", zap.Error(err))
		lg.Sync()
		os.Exit(1)
	}
	lg.Sync()
}

// run returns only after every deferred cleanup has run.
func run(cfg *config.Config, lg *zap.Logger) error {
	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	catalog := app.LoadCatalog(ctx, cfg.CatalogPath, db, lg)
	application := app.NewApp(cfg, lg, db, catalog)
	defer application.Close()

	bot, err := telegram.NewBot(cfg, application, lg.Named("bot"))
	if err != nil {
		return fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	var authMiddleware *auth.Middleware
	if cfg.AuthEnabled() {
		m := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, nil)
		authMiddleware = &m
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)
	mux.Handle("/", api.Routes(api.NewHandler(application, lg.Named("api")), authMiddleware, lg))

	srv := api.NewServer(cfg.HTTPAddress, mux)
	errCh := make(chan error, 1)
	go func() {
		lg.Info("telegram bot server listening", zap.String("address", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	lg.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	lg.Info("server exiting")
	return nil
}
