package planner

import (
	"fmt"
	"strings"

	"diet-planner/internal/recipe"

	"go.uber.org/zap"
)

// FilterReport describes how a candidate set was derived.
type FilterReport struct {
	Catalog         int  `json:"catalog"`
	Candidates      int  `json:"candidates"`
	DietFallback    bool `json:"diet_fallback"`
	CuisineFallback bool `json:"cuisine_fallback"`
}

// FilterCandidates derives the candidate set for a diet preference and
// cuisine list. A diet filter matching nothing falls back to the whole
// catalog; a cuisine filter matching nothing falls back to the diet pool.
func (p *Planner) FilterCandidates(diet DietPreference, cuisines []string) ([]recipe.Recipe, FilterReport, error) {
	var report FilterReport
	if err := p.catalog.Err(); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	all := p.catalog.Recipes()
	report.Catalog = len(all)
	if len(all) == 0 {
		return nil, report, ErrDataUnavailable
	}

	dietPool, dietRung, _ := Climb(
		Rung[recipe.Recipe]{Name: "diet", Pool: func() []recipe.Recipe { return byDiet(all, diet) }},
		Rung[recipe.Recipe]{Name: "catalog", Pool: func() []recipe.Recipe { return all }},
	)
	if dietRung != "diet" {
		report.DietFallback = true
		p.logger.Warn("no recipes match diet preference, using full catalog",
			zap.String("diet_preference", string(diet)),
			zap.Int("catalog", len(all)))
	}

	candidates := dietPool
	if len(cuisines) > 0 {
		var cuisineRung string
		candidates, cuisineRung, _ = Climb(
			Rung[recipe.Recipe]{Name: "cuisine", Pool: func() []recipe.Recipe { return byCuisine(dietPool, cuisines) }},
			Rung[recipe.Recipe]{Name: "diet", Pool: func() []recipe.Recipe { return dietPool }},
		)
		if cuisineRung != "cuisine" {
			report.CuisineFallback = true
			p.logger.Warn("no recipes match preferred cuisines, using diet pool",
				zap.Strings("preferred_cuisines", cuisines),
				zap.Int("diet_pool", len(dietPool)))
		}
	}

	report.Candidates = len(candidates)
	if len(candidates) < p.tuning.VarietyFloor {
		return nil, report, fmt.Errorf("%w: %d candidates, need %d",
			ErrInsufficientVariety, len(candidates), p.tuning.VarietyFloor)
	}
	return candidates, report, nil
}

func byDiet(pool []recipe.Recipe, diet DietPreference) []recipe.Recipe {
	if diet == DietAny || diet == "" {
		return pool
	}
	var out []recipe.Recipe
	for _, r := range pool {
		if diet.Allows(r.DietType) {
			out = append(out, r)
		}
	}
	return out
}

func byCuisine(pool []recipe.Recipe, cuisines []string) []recipe.Recipe {
	wanted := make(map[string]bool, len(cuisines))
	for _, c := range cuisines {
		wanted[strings.ToLower(strings.TrimSpace(c))] = true
	}
	var out []recipe.Recipe
	for _, r := range pool {
		if wanted[r.NormalizedCuisine()] {
			out = append(out, r)
		}
	}
	return out
}
