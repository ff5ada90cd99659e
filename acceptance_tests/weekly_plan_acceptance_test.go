package acceptance_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"diet-planner/internal/api"
	"diet-planner/internal/app"
	"diet-planner/internal/auth"
	"diet-planner/internal/config"
	"diet-planner/internal/database"
)

var cuisines = []string{"Indian", "Italian", "Thai", "Mexican", "Greek"}

// catalogCSV builds a catalog whose calories span every meal slot at 2000 kcal.
func catalogCSV() string {
	var b strings.Builder
	b.WriteString("Recipe_name,Calories,Protein,Carbs,Fat,Cuisine,Diet_type\n")
	for i := range 30 {
		fmt.Fprintf(&b, "Recipe %02d,%d,25,70,18,%s,vegetarian\n", i+1, 400+i*20, cuisines[i%len(cuisines)])
	}
	b.WriteString("Black Coffee,5,0,0,0,Italian,vegan\n")
	return b.String()
}

type weeklyPlanResponse struct {
	Days []struct {
		Day     int `json:"day"`
		Summary struct {
			Meals map[string][]struct {
				Name     string `json:"name"`
				Calories int    `json:"calories"`
				Cuisine  string `json:"cuisine"`
			} `json:"meals"`
			Total int `json:"total_calories_for_day"`
		} `json:"daily_summary"`
	} `json:"weekly_diet_plan"`
}

func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := &config.Config{
		CatalogPath:           config.CatalogFromDatabase,
		DatabasePath:          filepath.Join(dir, "planner.db"),
		CalorieTolerance:      0.35,
		VarietyFloor:          7,
		OptionsPerMeal:        1,
		DefaultTargetCalories: 2000,
		JWTSecret:             "acceptance-secret",
		JWTIssuer:             "diet-planner",
	}

	catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(catalogCSV()))
	}))
	defer catalogServer.Close()

	db, err := database.NewDB(cfg.DatabasePath, nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	// --- Step 1: Import ---
	t.Log("--- Step 1: Importing catalog ---")
	importer := app.NewApp(cfg, nil, db, nil)
	n, err := importer.ImportCatalog(ctx, catalogServer.URL+"/diet_dataset.csv")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 30 {
		t.Errorf("Expected 30 recipes imported, got %d", n)
	}

	// --- Step 2: Serve from the imported catalog ---
	t.Log("--- Step 2: Loading catalog from SQLite ---")
	catalog := app.LoadCatalog(ctx, cfg.CatalogPath, db, nil)
	if err := catalog.Err(); err != nil {
		t.Fatalf("Catalog unavailable: %v", err)
	}
	application := app.NewApp(cfg, nil, db, catalog)
	defer application.Close()

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	middleware := auth.NewMiddleware(authCfg, nil)
	srv := httptest.NewServer(api.Routes(api.NewHandler(application, nil), &middleware, nil))
	defer srv.Close()

	// --- Step 3: Requests ---
	t.Log("--- Step 3: Requesting weekly plans ---")
	resp, err := http.Get(srv.URL + "/api/weekly_diet_plan")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
	}

	token, err := auth.Issue("acceptance", time.Hour, authCfg)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/weekly_diet_plan?target_daily_calories=2000&preferred_cuisines=indian,thai,italian", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Run-ID") == "" {
		t.Errorf("Expected X-Run-ID header")
	}

	var plan weeklyPlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("Failed to decode plan: %v", err)
	}
	if len(plan.Days) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(plan.Days))
	}
	allowed := map[string]bool{"Indian": true, "Thai": true, "Italian": true}
	for i, day := range plan.Days {
		if day.Day != i+1 {
			t.Errorf("Expected day %d, got %d", i+1, day.Day)
		}
		for _, slot := range []string{"breakfast", "lunch", "dinner"} {
			options := day.Summary.Meals[slot]
			if len(options) != 1 {
				t.Errorf("Day %d %s: expected 1 option, got %d", day.Day, slot, len(options))
				continue
			}
			if options[0].Cuisine != "N/A" && !allowed[options[0].Cuisine] {
				t.Errorf("Day %d %s: unexpected cuisine %q", day.Day, slot, options[0].Cuisine)
			}
		}
		if day.Summary.Total <= 0 {
			t.Errorf("Day %d: expected a positive total, got %d", day.Day, day.Summary.Total)
		}
	}

	// --- Step 4: Usage metrics ---
	t.Log("--- Step 4: Checking recorded usage ---")
	report, err := application.Metrics(ctx, 1)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if len(report.Daily) != 1 || report.Daily[0].Succeeded != 1 {
		t.Errorf("Expected one successful generation recorded, got %+v", report.Daily)
	}
}
