package planner

import (
	"fmt"

	"go.uber.org/zap"
)

// DaysPerWeek is the number of days in a generated plan.
const DaysPerWeek = 7

// Options tune a single weekly run.
type Options struct {
	// OptionsPerMeal is the number of alternatives per slot. Values below 1 mean 1.
	OptionsPerMeal int
	// SeedOffset shifts every day seed. Zero reproduces the stock ordering.
	SeedOffset uint64
}

// Report summarizes a weekly run.
type Report struct {
	Filter         FilterReport `json:"filter"`
	TargetCalories int          `json:"target_calories"`
	Sentinels      int          `json:"sentinels"`
	RelaxedSlots   int          `json:"relaxed_slots"`
}

// PlanWeek filters the catalog once and plans seven days against it. Each day
// reshuffles the candidates with its own seed and avoids recipes used on
// earlier days where the pool allows.
func (p *Planner) PlanWeek(profile Profile, opts Options) (*WeeklyPlan, Report, error) {
	var report Report

	diet := profile.DietPreference
	if parsed, ok := ParseDietPreference(string(diet)); ok {
		diet = parsed
	} else {
		p.logger.Warn("unknown diet preference, not filtering by diet", zap.String("diet_preference", string(diet)))
		diet = DietAny
	}

	candidates, filterReport, err := p.FilterCandidates(diet, profile.PreferredCuisines)
	report.Filter = filterReport
	if err != nil {
		return nil, report, err
	}

	target := profile.TargetDailyCalories
	if target <= 0 {
		target = p.tuning.DefaultTargetCalories
	}
	report.TargetCalories = target

	p.logger.Info("generating weekly plan",
		zap.Int("candidates", len(candidates)),
		zap.Int("target_calories", target),
		zap.String("diet_preference", string(diet)))

	plan := &WeeklyPlan{Days: make([]DayEntry, 0, DaysPerWeek)}
	usedThisWeek := UsedSet{}
	anyMeal := false
	for day := range DaysPerWeek {
		seed := uint64(day) + opts.SeedOffset
		res := PlanDay(DayRequest{
			TargetCalories: target,
			Candidates:     NewSelector(seed).Shuffle(candidates),
			UsedThisWeek:   usedThisWeek,
			OptionsPerMeal: opts.OptionsPerMeal,
			Tolerance:      p.tuning.CalorieTolerance,
			Seed:           seed,
		})
		usedThisWeek.Merge(res.UsedToday)

		plan.Days = append(plan.Days, DayEntry{Day: day + 1, Summary: res.Plan})
		report.Sentinels += res.Plan.Sentinels()
		for _, rung := range res.Rungs {
			if rung != RungFresh {
				report.RelaxedSlots++
			}
		}
		anyMeal = anyMeal || res.Plan.HasMeal()

		p.logger.Debug("planned day",
			zap.Int("day", day+1),
			zap.Int("total_calories", res.Plan.TotalCalories),
			zap.Int("sentinels", res.Plan.Sentinels()))
	}

	if !anyMeal {
		return nil, report, fmt.Errorf("%w: all %d days are placeholders", ErrGenerationFailed, DaysPerWeek)
	}
	return plan, report, nil
}
