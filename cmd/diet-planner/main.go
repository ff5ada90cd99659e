package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
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
	"diet-planner/internal/planner"

	"go.uber.org/zap"
)

const usage = `usage: diet-planner <command> [flags]

commands:
  serve            run the HTTP API
  plan             print a weekly plan as JSON
  import-catalog   load a CSV or HTML catalog into SQLite
  metrics-cleanup  delete old generation records`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg := logger.New(cfg.Logger()).Named("diet-planner")
	defer lg.Sync()

	ctx := context.Background()
	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "serve":
		err = serve(ctx, cfg, lg)
	case "plan":
		err = plan(ctx, cfg, lg, args)
	case "import-catalog":
		err = importCatalog(ctx, cfg, lg, args)
	case "metrics-cleanup":
		err = metricsCleanup(ctx, cfg, lg, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		lg.Error("command failed", zap.String("command", command), zap.Error(err))
		lg.Sync()
		os.Exit(1)
	}
}

func openApp(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*app.App, error) {
	db, err := database.NewDB(cfg.DatabasePath, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	catalog := app.LoadCatalog(ctx, cfg.CatalogPath, db, lg)
	return app.NewApp(cfg, lg, db, catalog), nil
}

func serve(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	application, err := openApp(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer application.Close()

	var authMiddleware *auth.Middleware
	if cfg.AuthEnabled() {
		m := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, nil)
		authMiddleware = &m
	}
	handler := api.Routes(api.NewHandler(application, lg.Named("api")), authMiddleware, lg)
	srv := api.NewServer(cfg.HTTPAddress, handler)

	errCh := make(chan error, 1)
	go func() {
		lg.Info("http server listening", zap.String("address", cfg.HTTPAddress), zap.Bool("auth", cfg.AuthEnabled()))
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
	return srv.Shutdown(ctxShutdown)
}

func plan(ctx context.Context, cfg *config.Config, lg *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	calories := fs.Int("calories", 0, "target daily calories (default from DEFAULT_TARGET_CALORIES)")
	diet := fs.String("diet", "", "diet preference: any, vegetarian, vegan, non-vegetarian")
	cuisines := fs.String("cuisines", "", "comma-separated preferred cuisines")
	options := fs.Int("options", 0, "options per meal slot (default from OPTIONS_PER_MEAL)")
	seed := fs.Uint64("seed", 0, "offset added to each day's seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	application, err := openApp(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer application.Close()

	gen, err := application.GenerateWeeklyPlan(ctx, app.PlanRequest{
		TargetDailyCalories: *calories,
		DietPreference:      *diet,
		PreferredCuisines:   *cuisines,
		OptionsPerMeal:      *options,
		Seed:                *seed,
	})
	if err != nil {
		if !errors.Is(err, app.ErrInvalidRequest) {
			fmt.Fprintln(os.Stderr, planner.ErrorMessage(err))
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(gen.Plan)
}

func importCatalog(ctx context.Context, cfg *config.Config, lg *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("import-catalog", flag.ExitOnError)
	source := fs.String("source", "", "CSV or HTML catalog file, or an http(s) URL serving one")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return errors.New("-source is required")
	}

	db, err := database.NewDB(cfg.DatabasePath, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	application := app.NewApp(cfg, lg, db, nil)
	defer application.Close()

	n, err := application.ImportCatalog(ctx, *source)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d recipes from %s\n", n, *source)
	return nil
}

func metricsCleanup(ctx context.Context, cfg *config.Config, lg *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("days", cfg.MetricsRetentionDays, "remove records older than this many days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	application, err := openApp(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer application.Close()

	removed, err := application.CleanupMetrics(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d generation records\n", removed)
	return nil
}
