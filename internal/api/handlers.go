// Package api exposes the weekly diet plan over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"diet-planner/internal/app"
	"diet-planner/internal/auth"
	"diet-planner/internal/planner"

	"go.uber.org/zap"
)

// Service is the application surface the handlers need.
type Service interface {
	GenerateWeeklyPlan(ctx context.Context, req app.PlanRequest) (*app.Generation, error)
	CatalogStatus() app.CatalogStatus
}

// Handler coordinates HTTP requests with the plan service.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/weekly_diet_plan", h.weeklyDietPlan)
	mux.HandleFunc("/health", h.health)
}

type healthResponse struct {
	Status  string            `json:"status"`
	Catalog app.CatalogStatus `json:"catalog"`
}

// health reports ok only while the catalog can serve plans.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.service.CatalogStatus()
	if !status.Available {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Catalog: status})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Catalog: status})
}

func (h *Handler) weeklyDietPlan(w http.ResponseWriter, r *http.Request) {
	var (
		req app.PlanRequest
		err error
	)
	switch r.Method {
	case http.MethodGet:
		req, err = planRequestFromQuery(r)
	case http.MethodPost:
		req, err = planRequestFromBody(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen, err := h.service.GenerateWeeklyPlan(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("weekly plan request failed", zap.Int("status", status), zap.Error(err))
		}
		writeError(w, status, messageFor(err))
		return
	}

	fields := []zap.Field{zap.String("run_id", gen.RunID), zap.Int("target_calories", gen.Report.TargetCalories)}
	if claims, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.String("subject", claims.Subject))
	}
	h.logger.Info("weekly plan served", fields...)

	w.Header().Set("X-Run-ID", gen.RunID)
	writeJSON(w, http.StatusOK, planResponse{WeeklyPlan: gen.Plan, BodyMetrics: gen.Body})
}

// planResponse is the weekly plan payload, plus body metrics when the
// request supplied them.
type planResponse struct {
	*planner.WeeklyPlan
	BodyMetrics *planner.BodyMetrics `json:"body_metrics,omitempty"`
}

func planRequestFromQuery(r *http.Request) (app.PlanRequest, error) {
	q := r.URL.Query()
	req := app.PlanRequest{
		DietPreference:    q.Get("diet_preference"),
		PreferredCuisines: q.Get("preferred_cuisines"),
	}

	var err error
	if req.TargetDailyCalories, err = queryInt(q.Get("target_daily_calories"), "target_daily_calories"); err != nil {
		return req, err
	}
	if req.OptionsPerMeal, err = queryInt(q.Get("options_per_meal"), "options_per_meal"); err != nil {
		return req, err
	}
	if seed := strings.TrimSpace(q.Get("seed")); seed != "" {
		if req.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return req, fmt.Errorf("seed must be a non-negative integer")
		}
	}
	return req, nil
}

func planRequestFromBody(w http.ResponseWriter, r *http.Request) (app.PlanRequest, error) {
	var req app.PlanRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		return req, fmt.Errorf("unable to parse body: %v", err)
	}
	return req, nil
}

func queryInt(value, name string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, planner.ErrInsufficientVariety):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	if errors.Is(err, app.ErrInvalidRequest) {
		return err.Error()
	}
	return planner.ErrorMessage(err)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
