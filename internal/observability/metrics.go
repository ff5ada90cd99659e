// Package observability exposes Prometheus instruments for plan generation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diet_planner",
		Subsystem: "generation",
		Name:      "runs_total",
		Help:      "Weekly plan generations by outcome.",
	}, []string{"outcome", "diet_preference"})
	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "diet_planner",
		Subsystem: "generation",
		Name:      "duration_seconds",
		Help:      "Time spent generating a weekly plan.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	sentinelSlots = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "diet_planner",
		Subsystem: "generation",
		Name:      "placeholder_slots_total",
		Help:      "Meal slots filled with a placeholder because no recipe was available.",
	})
	catalogRecipes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "diet_planner",
		Subsystem: "catalog",
		Name:      "recipes",
		Help:      "Usable recipes in the loaded catalog.",
	})
)

func init() {
	prometheus.MustRegister(generationsTotal, generationDuration, sentinelSlots, catalogRecipes)
}

// RecordGeneration counts a finished generation run.
func RecordGeneration(outcome, dietPreference string, elapsed time.Duration, sentinels int) {
	generationsTotal.WithLabelValues(outcome, dietPreference).Inc()
	generationDuration.Observe(elapsed.Seconds())
	if sentinels > 0 {
		sentinelSlots.Add(float64(sentinels))
	}
}

// SetCatalogSize publishes the number of usable recipes.
func SetCatalogSize(n int) {
	catalogRecipes.Set(float64(n))
}
