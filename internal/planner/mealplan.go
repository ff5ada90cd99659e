package planner

import "diet-planner/internal/recipe"

// MealSlot is one of the three meals planned per day.
type MealSlot string

const (
	Breakfast MealSlot = "breakfast"
	Lunch     MealSlot = "lunch"
	Dinner    MealSlot = "dinner"
)

// SlotShare is the fraction of the daily target assigned to a slot.
type SlotShare struct {
	Slot  MealSlot
	Share float64
}

// Slots lists the meal slots in planning order. Shares sum to 1.
var Slots = []SlotShare{
	{Slot: Breakfast, Share: 0.25},
	{Slot: Lunch, Share: 0.40},
	{Slot: Dinner, Share: 0.35},
}

// SentinelName marks a slot for which no recipe could be chosen.
const SentinelName = "N/A — more variety needed"

// MealOption is the summary of a recipe selected for a slot.
type MealOption struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fat      int    `json:"fat"`
	Cuisine  string `json:"cuisine"`
}

func optionFrom(r recipe.Recipe) MealOption {
	return MealOption{
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Cuisine:  r.Cuisine,
	}
}

func sentinelOption() MealOption {
	return MealOption{Name: SentinelName, Cuisine: "N/A"}
}

// IsSentinel reports whether the option is the placeholder entry.
func (m MealOption) IsSentinel() bool {
	return m.Name == SentinelName
}

// DailyPlan holds the options chosen for each slot of one day.
type DailyPlan struct {
	Meals         map[MealSlot][]MealOption `json:"meals"`
	TotalCalories int                       `json:"total_calories_for_day"`
}

// Sentinels counts slots that hold only the placeholder entry.
func (d DailyPlan) Sentinels() int {
	n := 0
	for _, options := range d.Meals {
		if len(options) == 1 && options[0].IsSentinel() {
			n++
		}
	}
	return n
}

// HasMeal reports whether at least one slot holds a real recipe.
func (d DailyPlan) HasMeal() bool {
	for _, options := range d.Meals {
		for _, o := range options {
			if !o.IsSentinel() {
				return true
			}
		}
	}
	return false
}

// DayEntry tags a daily plan with its 1-based day number.
type DayEntry struct {
	Day     int       `json:"day"`
	Summary DailyPlan `json:"daily_summary"`
}

// WeeklyPlan is the result of a successful generation.
type WeeklyPlan struct {
	Days []DayEntry `json:"weekly_diet_plan"`
}
