package planner

import (
	"diet-planner/internal/recipe"

	"go.uber.org/zap"
)

// Tuning holds the selection heuristics.
type Tuning struct {
	// CalorieTolerance is the accepted relative distance from a slot target.
	CalorieTolerance float64
	// VarietyFloor is the minimum number of candidates a week needs.
	VarietyFloor int
	// DefaultTargetCalories replaces a missing or non-positive daily target.
	DefaultTargetCalories int
}

// DefaultTuning returns the stock heuristics.
func DefaultTuning() Tuning {
	return Tuning{
		CalorieTolerance:      0.35,
		VarietyFloor:          7,
		DefaultTargetCalories: DefaultTargetCalories,
	}
}

func (t Tuning) withDefaults() Tuning {
	def := DefaultTuning()
	if t.CalorieTolerance <= 0 {
		t.CalorieTolerance = def.CalorieTolerance
	}
	if t.VarietyFloor < 1 {
		t.VarietyFloor = def.VarietyFloor
	}
	if t.DefaultTargetCalories <= 0 {
		t.DefaultTargetCalories = def.DefaultTargetCalories
	}
	return t
}

// Planner generates weekly diet plans from a read-only recipe catalog.
// It holds no per-run state and is safe for concurrent use.
type Planner struct {
	catalog *recipe.Catalog
	tuning  Tuning
	logger  *zap.Logger
}

// NewPlanner creates a new Planner instance.
func NewPlanner(catalog *recipe.Catalog, tuning Tuning, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		catalog: catalog,
		tuning:  tuning.withDefaults(),
		logger:  logger,
	}
}
