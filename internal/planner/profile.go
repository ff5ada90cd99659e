package planner

import "strings"

// DefaultTargetCalories applies when a profile carries no usable target.
const DefaultTargetCalories = 2000

// DietPreference restricts which diet types may appear in a plan.
type DietPreference string

const (
	DietAny           DietPreference = "any"
	DietVegetarian    DietPreference = "vegetarian"
	DietVegan         DietPreference = "vegan"
	DietNonVegetarian DietPreference = "non-vegetarian"
)

// ParseDietPreference matches s case-insensitively. Unknown or empty values
// resolve to DietAny with ok set to false.
func ParseDietPreference(s string) (DietPreference, bool) {
	switch pref := DietPreference(strings.ToLower(strings.TrimSpace(s))); pref {
	case DietAny, DietVegetarian, DietVegan, DietNonVegetarian:
		return pref, true
	case "":
		return DietAny, true
	default:
		return DietAny, false
	}
}

// Allows reports whether a recipe of the given diet type satisfies the preference.
func (d DietPreference) Allows(dietType string) bool {
	dietType = strings.ToLower(strings.TrimSpace(dietType))
	plantBased := dietType == string(DietVegetarian) || dietType == string(DietVegan)
	switch d {
	case DietVegetarian:
		return plantBased
	case DietVegan:
		return dietType == string(DietVegan)
	case DietNonVegetarian:
		return !plantBased
	default:
		return true
	}
}

// ParseCuisines splits a comma-separated list, trimming and lower-casing each
// entry. Empty entries and duplicates are dropped.
func ParseCuisines(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		c := strings.ToLower(strings.TrimSpace(part))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Profile is what a caller supplies to generate a weekly plan.
type Profile struct {
	TargetDailyCalories int
	DietPreference      DietPreference
	PreferredCuisines   []string
}
