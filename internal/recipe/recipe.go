package recipe

import (
	"math"
	"strconv"
	"strings"
)

// MinCalories is the calorie floor below which a row is treated as a data artifact.
const MinCalories = 50

// Column names expected in a tabular catalog source.
const (
	ColumnName     = "Recipe_name"
	ColumnCalories = "Calories"
	ColumnProtein  = "Protein"
	ColumnCarbs    = "Carbs"
	ColumnFat      = "Fat"
	ColumnCuisine  = "Cuisine"
	ColumnDietType = "Diet_type"
)

// RequiredColumns lists every column a catalog source must provide.
var RequiredColumns = []string{
	ColumnName, ColumnCalories, ColumnProtein, ColumnCarbs, ColumnFat, ColumnCuisine, ColumnDietType,
}

// Recipe is a single cleaned catalog entry with its nutrition facts.
// Name doubles as the identity used for novelty tracking.
type Recipe struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fat      int    `json:"fat"`
	Cuisine  string `json:"cuisine"`
	DietType string `json:"diet_type"`
}

// Row is an uncleaned record as read from a tabular source.
type Row struct {
	Name     string
	Calories string
	Protein  string
	Carbs    string
	Fat      string
	Cuisine  string
	DietType string
}

// Valid reports whether the recipe satisfies the catalog invariants.
func (r Recipe) Valid() bool {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Cuisine) == "" || strings.TrimSpace(r.DietType) == "" {
		return false
	}
	if r.Protein < 0 || r.Carbs < 0 || r.Fat < 0 {
		return false
	}
	return r.Calories > MinCalories
}

// NormalizedCuisine returns the cuisine in the form used for matching.
func (r Recipe) NormalizedCuisine() string {
	return strings.ToLower(strings.TrimSpace(r.Cuisine))
}

// NormalizedDietType returns the diet type in the form used for matching.
func (r Recipe) NormalizedDietType() string {
	return strings.ToLower(strings.TrimSpace(r.DietType))
}

// Clean turns raw rows into recipes. Rows missing any field are dropped,
// numeric fields that fail to parse count as zero, and rows at or below
// MinCalories are discarded.
func Clean(rows []Row) []Recipe {
	out := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		if row.missingField() {
			continue
		}
		rec := Recipe{
			Name:     strings.TrimSpace(row.Name),
			Calories: parseAmount(row.Calories),
			Protein:  parseAmount(row.Protein),
			Carbs:    parseAmount(row.Carbs),
			Fat:      parseAmount(row.Fat),
			Cuisine:  strings.TrimSpace(row.Cuisine),
			DietType: strings.TrimSpace(row.DietType),
		}
		if !rec.Valid() {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r Row) missingField() bool {
	for _, v := range []string{r.Name, r.Calories, r.Protein, r.Carbs, r.Fat, r.Cuisine, r.DietType} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// parseAmount coerces a numeric cell to a non-negative integer, truncating
// fractions. Anything unparsable becomes 0.
func parseAmount(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
