package planner

import (
	"testing"

	"diet-planner/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDay(t *testing.T) {
	pool := series("Dish", 30, 300, 1000, "Fusion", "vegan")

	t.Run("EverySlotFilled", func(t *testing.T) {
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: pool, Seed: 1})
		require.Len(t, res.Plan.Meals, 3)
		for _, s := range Slots {
			options := res.Plan.Meals[s.Slot]
			require.Len(t, options, 1, "slot %s", s.Slot)
			assert.False(t, options[0].IsSentinel())
			assert.Equal(t, RungFresh, res.Rungs[s.Slot])
		}
	})

	t.Run("SelectionsWithinTolerance", func(t *testing.T) {
		for seed := range uint64(20) {
			res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: pool, Seed: seed, OptionsPerMeal: 2})
			for _, s := range Slots {
				for _, o := range res.Plan.Meals[s.Slot] {
					assert.True(t, WithinTolerance(o.Calories, 2000*s.Share, 0.35),
						"seed %d slot %s picked %d kcal", seed, s.Slot, o.Calories)
				}
			}
		}
	})

	t.Run("NoRepeatsWithinDay", func(t *testing.T) {
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: pool, OptionsPerMeal: 3, Seed: 9})
		seen := map[string]bool{}
		for _, options := range res.Plan.Meals {
			for _, o := range options {
				assert.False(t, seen[o.Name], "%s picked twice", o.Name)
				seen[o.Name] = true
			}
		}
		assert.Len(t, res.UsedToday, 9)
	})

	t.Run("ClosestWhenNoneWithinTolerance", func(t *testing.T) {
		candidates := []recipe.Recipe{
			dish("Crackers", 100, "Any", "vegan"),
			dish("Rice Cake", 150, "Any", "vegan"),
			dish("Toast", 200, "Any", "vegan"),
			dish("Feast", 1500, "Any", "vegan"),
			dish("Banquet", 1600, "Any", "vegan"),
		}
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: candidates})
		assert.Equal(t, "Toast", res.Plan.Meals[Breakfast][0].Name)
		assert.Equal(t, "Rice Cake", res.Plan.Meals[Lunch][0].Name)
		assert.Equal(t, "Crackers", res.Plan.Meals[Dinner][0].Name)
		assert.Equal(t, 450, res.Plan.TotalCalories)
	})

	t.Run("ClosestTieKeepsPoolOrder", func(t *testing.T) {
		candidates := []recipe.Recipe{
			dish("Low", 100, "Any", "vegan"),
			dish("High", 900, "Any", "vegan"),
		}
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: candidates, OptionsPerMeal: 1})
		assert.Equal(t, "Low", res.Plan.Meals[Breakfast][0].Name)
	})

	t.Run("WeekExclusionRelaxes", func(t *testing.T) {
		week := UsedSet{}
		for _, r := range pool {
			week.Add(r.Name)
		}
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: pool, UsedThisWeek: week, Seed: 3})
		for _, s := range Slots {
			assert.Equal(t, RungToday, res.Rungs[s.Slot])
		}
		assert.Len(t, res.UsedToday, 3)
		assert.Len(t, week, 30)
	})

	t.Run("RepeatsOnlyAsLastResort", func(t *testing.T) {
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: []recipe.Recipe{dish("Stew", 600, "Irish", "non-vegetarian")}})
		assert.Equal(t, RungFresh, res.Rungs[Breakfast])
		assert.Equal(t, RungUnlimited, res.Rungs[Lunch])
		assert.Equal(t, RungUnlimited, res.Rungs[Dinner])
		for _, s := range Slots {
			assert.Equal(t, []string{"Stew"}, names(res.Plan.Meals[s.Slot]))
		}
		assert.Equal(t, 1800, res.Plan.TotalCalories)
	})

	t.Run("OptionsStopWhenPoolRunsOut", func(t *testing.T) {
		candidates := []recipe.Recipe{
			dish("Curry", 600, "Indian", "vegan"),
			dish("Dal", 650, "Indian", "vegan"),
		}
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: candidates, OptionsPerMeal: 3})
		for _, s := range Slots {
			assert.Len(t, res.Plan.Meals[s.Slot], 2, "slot %s", s.Slot)
		}
	})

	t.Run("TotalCountsFirstOptionOnly", func(t *testing.T) {
		res := PlanDay(DayRequest{TargetCalories: 2000, Candidates: pool, OptionsPerMeal: 2, Seed: 5})
		want := 0
		for _, s := range Slots {
			want += res.Plan.Meals[s.Slot][0].Calories
		}
		assert.Equal(t, want, res.Plan.TotalCalories)
	})

	t.Run("SentinelWhenNoCandidates", func(t *testing.T) {
		res := PlanDay(DayRequest{TargetCalories: 2000})
		for _, s := range Slots {
			options := res.Plan.Meals[s.Slot]
			require.Len(t, options, 1)
			assert.Equal(t, MealOption{Name: SentinelName, Cuisine: "N/A"}, options[0])
		}
		assert.Zero(t, res.Plan.TotalCalories)
		assert.Equal(t, 3, res.Plan.Sentinels())
		assert.False(t, res.Plan.HasMeal())
		assert.Empty(t, res.UsedToday)
		assert.Empty(t, res.Rungs)
	})

	t.Run("Reproducible", func(t *testing.T) {
		week := UsedSet{"Dish 4": {}, "Dish 17": {}}
		req := DayRequest{TargetCalories: 1800, Candidates: pool, UsedThisWeek: week, OptionsPerMeal: 2, Seed: 4}
		assert.Equal(t, PlanDay(req), PlanDay(req))
	})
}

func TestSelector(t *testing.T) {
	pool := series("Dish", 20, 300, 900, "Any", "vegan")

	a := NewSelector(6).Shuffle(pool)
	b := NewSelector(6).Shuffle(pool)
	assert.Equal(t, a, b)
	assert.ElementsMatch(t, pool, a)
	assert.Equal(t, "Dish 1", pool[0].Name, "input must not be reordered")
}
