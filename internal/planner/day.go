package planner

import (
	"math"

	"diet-planner/internal/recipe"
)

// Novelty rungs tried for each slot, strictest first.
const (
	RungFresh     = "exclude-today-and-week"
	RungToday     = "exclude-today"
	RungUnlimited = "no-exclusion"
)

// DayRequest is the input for planning a single day.
type DayRequest struct {
	TargetCalories int
	Candidates     []recipe.Recipe
	UsedThisWeek   UsedSet
	OptionsPerMeal int
	Tolerance      float64
	Seed           uint64
}

// DayResult is a planned day plus the bookkeeping the week needs.
type DayResult struct {
	Plan      DailyPlan
	UsedToday UsedSet
	// Rungs records which novelty rung supplied each slot's pool.
	// Slots that received a placeholder are absent.
	Rungs map[MealSlot]string
}

// PlanDay picks options for every slot in order. Within a slot, candidates
// within tolerance of the slot target are chosen uniformly at random;
// otherwise the first closest candidate in pool order is taken. Equal
// requests produce equal results.
func PlanDay(req DayRequest) DayResult {
	target := req.TargetCalories
	if target <= 0 {
		target = DefaultTargetCalories
	}
	tolerance := req.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTuning().CalorieTolerance
	}
	options := max(req.OptionsPerMeal, 1)
	week := req.UsedThisWeek
	if week == nil {
		week = UsedSet{}
	}
	sel := NewSelector(req.Seed)

	res := DayResult{
		Plan:      DailyPlan{Meals: make(map[MealSlot][]MealOption, len(Slots))},
		UsedToday: UsedSet{},
		Rungs:     make(map[MealSlot]string, len(Slots)),
	}

	for _, s := range Slots {
		slotTarget := float64(target) * s.Share
		pool, rung, ok := Climb(
			Rung[recipe.Recipe]{Name: RungFresh, Pool: func() []recipe.Recipe { return without(req.Candidates, res.UsedToday, week) }},
			Rung[recipe.Recipe]{Name: RungToday, Pool: func() []recipe.Recipe { return without(req.Candidates, res.UsedToday) }},
			Rung[recipe.Recipe]{Name: RungUnlimited, Pool: func() []recipe.Recipe { return req.Candidates }},
		)

		var chosen []MealOption
		if ok {
			res.Rungs[s.Slot] = rung
			picked := UsedSet{}
			for range options {
				r, found := pickClosest(without(pool, picked), slotTarget, tolerance, sel)
				if !found {
					break
				}
				picked.Add(r.Name)
				res.UsedToday.Add(r.Name)
				chosen = append(chosen, optionFrom(r))
			}
		}
		if len(chosen) == 0 {
			chosen = []MealOption{sentinelOption()}
		}
		res.Plan.Meals[s.Slot] = chosen

		if first := chosen[0]; first.Calories > 0 {
			res.Plan.TotalCalories += first.Calories
		}
	}
	return res
}

// WithinTolerance reports whether calories lie within tolerance of target.
func WithinTolerance(calories int, target, tolerance float64) bool {
	return math.Abs(float64(calories)-target) <= target*tolerance
}

func pickClosest(pool []recipe.Recipe, target, tolerance float64, sel *Selector) (recipe.Recipe, bool) {
	if len(pool) == 0 {
		return recipe.Recipe{}, false
	}

	var within []recipe.Recipe
	closest := 0
	closestDiff := math.Inf(1)
	for i, r := range pool {
		diff := math.Abs(float64(r.Calories) - target)
		if diff <= target*tolerance {
			within = append(within, r)
		}
		if diff < closestDiff {
			closest, closestDiff = i, diff
		}
	}

	if len(within) > 0 {
		return within[sel.IntN(len(within))], true
	}
	return pool[closest], true
}
