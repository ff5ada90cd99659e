package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"diet-planner/internal/config"
	"diet-planner/internal/database"
	"diet-planner/internal/metrics"
	"diet-planner/internal/observability"
	"diet-planner/internal/planner"
	"diet-planner/internal/recipe"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxOptionsPerMeal caps the alternatives a caller may request per slot.
const MaxOptionsPerMeal = 5

// ErrInvalidRequest marks a plan request rejected before generation.
var ErrInvalidRequest = errors.New("invalid plan request")

// ErrNoDatabase is returned by operations that need SQLite when none is configured.
var ErrNoDatabase = errors.New("database not configured")

// App holds the application's dependencies.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	db           *database.DB
	recipeRepo   *recipe.Repository
	metricsStore *metrics.Store

	catalog     *recipe.Catalog
	mealPlanner *planner.Planner
}

// NewApp creates and initializes a new App instance. db may be nil, in which
// case generations are not persisted and catalog import is unavailable.
func NewApp(cfg *config.Config, logger *zap.Logger, db *database.DB, catalog *recipe.Catalog) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		catalog:     catalog,
		mealPlanner: planner.NewPlanner(catalog, cfg.PlannerTuning(), logger.Named("planner")),
	}
	if db != nil {
		a.recipeRepo = recipe.NewRepository(db.SQL)
		a.metricsStore = metrics.NewStore(db.SQL)
	}
	observability.SetCatalogSize(catalog.Len())
	return a
}

// LoadCatalog builds the process-wide catalog from source: a CSV or HTML
// file, or the imported SQLite table when source is config.CatalogFromDatabase.
// Failures are kept inside the returned catalog so every generation reports them.
func LoadCatalog(ctx context.Context, source string, db *database.DB, logger *zap.Logger) *recipe.Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	var catalog *recipe.Catalog
	if source == config.CatalogFromDatabase {
		if db == nil {
			catalog = recipe.Unavailable(source, ErrNoDatabase)
		} else if recipes, err := recipe.NewRepository(db.SQL).List(ctx); err != nil {
			catalog = recipe.Unavailable(source, err)
		} else {
			catalog = recipe.NewCatalog(source, recipes)
		}
	} else {
		rows, err := recipe.LoadSource(ctx, source)
		if err != nil {
			catalog = recipe.Unavailable(source, err)
		} else {
			catalog = recipe.FromRows(source, rows)
		}
	}

	if err := catalog.Err(); err != nil {
		logger.Error("recipe catalog unavailable", zap.String("source", source), zap.Error(err))
	} else {
		logger.Info("recipe catalog loaded", zap.String("source", source), zap.Int("recipes", catalog.Len()))
	}
	return catalog
}

// PlanRequest is a caller's description of the plan they want.
type PlanRequest struct {
	TargetDailyCalories int                  `json:"target_daily_calories"`
	DietPreference      string               `json:"diet_preference"`
	PreferredCuisines   string               `json:"preferred_cuisines"`
	OptionsPerMeal      int                  `json:"options_per_meal"`
	Seed                uint64               `json:"seed,omitempty"`
	Body                *planner.BodyProfile `json:"body,omitempty"`
}

// Validate rejects requests that cannot describe a plan.
func (r PlanRequest) Validate() error {
	if r.TargetDailyCalories < 0 {
		return fmt.Errorf("%w: target_daily_calories must not be negative", ErrInvalidRequest)
	}
	if r.OptionsPerMeal < 0 || r.OptionsPerMeal > MaxOptionsPerMeal {
		return fmt.Errorf("%w: options_per_meal must be between 0 and %d (0 uses the default)", ErrInvalidRequest, MaxOptionsPerMeal)
	}
	if r.Body != nil && r.TargetDailyCalories == 0 && !r.Body.Complete() {
		return fmt.Errorf("%w: body needs weight_kg, height_cm, age and gender", ErrInvalidRequest)
	}
	return nil
}

// Generation is a successful weekly plan with its run bookkeeping.
type Generation struct {
	RunID  string
	Plan   *planner.WeeklyPlan
	Report planner.Report
	// Body is set when the request carried body metrics.
	Body *planner.BodyMetrics
}

// GenerateWeeklyPlan validates req, plans a week and records the run.
func (a *App) GenerateWeeklyPlan(ctx context.Context, req PlanRequest) (*Generation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var body *planner.BodyMetrics
	if req.Body != nil {
		assessed := planner.Assess(*req.Body)
		body = &assessed
	}
	target := req.TargetDailyCalories
	if target == 0 && body != nil {
		if body.TargetCalories <= 0 {
			a.logger.Warn("body metrics give no usable calorie target",
				zap.Int("tdee", body.TDEE),
				zap.String("goal", req.Body.Goal))
			return nil, fmt.Errorf("%w: body metrics give a calorie target of %d kcal; send target_daily_calories instead",
				ErrInvalidRequest, body.TargetCalories)
		}
		target = body.TargetCalories
	}
	diet, ok := planner.ParseDietPreference(req.DietPreference)
	if !ok {
		a.logger.Warn("unknown diet preference, not filtering by diet", zap.String("diet_preference", req.DietPreference))
	}
	profile := planner.Profile{
		TargetDailyCalories: target,
		DietPreference:      diet,
		PreferredCuisines:   planner.ParseCuisines(req.PreferredCuisines),
	}
	options := req.OptionsPerMeal
	if options == 0 {
		options = a.cfg.OptionsPerMeal
	}

	runID := uuid.NewString()
	start := time.Now()
	plan, report, err := a.mealPlanner.PlanWeek(profile, planner.Options{OptionsPerMeal: options, SeedOffset: req.Seed})
	elapsed := time.Since(start)

	outcome := planner.Outcome(err)
	observability.RecordGeneration(outcome, string(diet), elapsed, report.Sentinels)
	a.recordRun(ctx, metrics.GenerationMetric{
		RunID:          runID,
		TargetCalories: report.TargetCalories,
		DietPreference: string(diet),
		CuisineCount:   len(profile.PreferredCuisines),
		Candidates:     report.Filter.Candidates,
		Sentinels:      report.Sentinels,
		Outcome:        outcome,
		Latency:        elapsed,
	})

	if err != nil {
		a.logger.Warn("weekly plan generation failed",
			zap.String("run_id", runID),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil, err
	}

	a.logger.Info("weekly plan generated",
		zap.String("run_id", runID),
		zap.Int("target_calories", report.TargetCalories),
		zap.Int("candidates", report.Filter.Candidates),
		zap.Int("sentinels", report.Sentinels),
		zap.Duration("elapsed", elapsed))
	return &Generation{RunID: runID, Plan: plan, Report: report, Body: body}, nil
}

func (a *App) recordRun(ctx context.Context, m metrics.GenerationMetric) {
	if a.metricsStore == nil {
		return
	}
	if err := a.metricsStore.Record(ctx, m); err != nil {
		a.logger.Warn("failed to record generation metric", zap.String("run_id", m.RunID), zap.Error(err))
	}
}

// CatalogStatus describes the loaded catalog for health checks.
type CatalogStatus struct {
	Source    string `json:"source"`
	Recipes   int    `json:"recipes"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// CatalogStatus reports whether plans can be generated.
func (a *App) CatalogStatus() CatalogStatus {
	status := CatalogStatus{
		Source:    a.catalog.Source(),
		Recipes:   a.catalog.Len(),
		Available: a.catalog.Err() == nil,
	}
	if err := a.catalog.Err(); err != nil {
		status.Error = err.Error()
	}
	return status
}

// ImportCatalog cleans the rows in a CSV or HTML source and replaces the
// SQLite catalog with them. It returns the number of recipes stored.
func (a *App) ImportCatalog(ctx context.Context, source string) (int, error) {
	if a.recipeRepo == nil {
		return 0, ErrNoDatabase
	}

	rows, err := recipe.LoadSource(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog source: %w", err)
	}
	recipes := recipe.Clean(rows)
	if len(recipes) == 0 {
		return 0, fmt.Errorf("%s: %w", source, recipe.ErrCatalogEmpty)
	}

	previous, err := a.recipeRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := a.recipeRepo.ReplaceAll(ctx, recipes); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}
	stored, err := a.recipeRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	a.logger.Info("catalog imported",
		zap.String("source", source),
		zap.Int("rows", len(rows)),
		zap.Int("replaced", previous),
		zap.Int("recipes", stored))
	return stored, nil
}

// MetricsReport is the usage summary shown to operators.
type MetricsReport struct {
	Daily  []metrics.DailyUsage
	Health metrics.SysHealth
}

// Metrics returns per-day generation summaries for the last N days and a
// runtime health snapshot.
func (a *App) Metrics(ctx context.Context, days int) (*MetricsReport, error) {
	if a.metricsStore == nil {
		return nil, ErrNoDatabase
	}
	daily, err := a.metricsStore.GetDailyUsage(ctx, days)
	if err != nil {
		return nil, err
	}
	return &MetricsReport{
		Daily:  daily,
		Health: metrics.Snapshot(filepath.Dir(a.cfg.DatabasePath), a.catalog.Len()),
	}, nil
}

// CleanupMetrics removes generation records older than olderThanDays.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	if a.metricsStore == nil {
		return 0, ErrNoDatabase
	}
	removed, err := a.metricsStore.Cleanup(ctx, olderThanDays)
	if err != nil {
		return 0, err
	}
	a.logger.Info("generation metrics cleaned up", zap.Int("older_than_days", olderThanDays), zap.Int64("removed", removed))
	return removed, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
