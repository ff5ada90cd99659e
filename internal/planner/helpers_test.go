package planner

import (
	"fmt"

	"diet-planner/internal/recipe"
)

func dish(name string, calories int, cuisine, diet string) recipe.Recipe {
	return recipe.Recipe{
		Name:     name,
		Calories: calories,
		Protein:  calories / 20,
		Carbs:    calories / 8,
		Fat:      calories / 30,
		Cuisine:  cuisine,
		DietType: diet,
	}
}

// series builds n recipes with calories spread evenly from low to high.
func series(prefix string, n, low, high int, cuisine, diet string) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, n)
	for i := range n {
		cal := low
		if n > 1 {
			cal = low + (high-low)*i/(n-1)
		}
		out = append(out, dish(fmt.Sprintf("%s %d", prefix, i+1), cal, cuisine, diet))
	}
	return out
}

func newTestPlanner(recipes ...[]recipe.Recipe) *Planner {
	var all []recipe.Recipe
	for _, r := range recipes {
		all = append(all, r...)
	}
	return NewPlanner(recipe.NewCatalog("test", all), DefaultTuning(), nil)
}

func names(options []MealOption) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Name)
	}
	return out
}
