package planner

import "errors"

var (
	// ErrDataUnavailable means the catalog is missing, unreadable, or empty after cleaning.
	ErrDataUnavailable = errors.New("diet data not available")
	// ErrInsufficientVariety means filtering left fewer candidates than the variety floor.
	ErrInsufficientVariety = errors.New("not enough diverse food items for your preferences")
	// ErrGenerationFailed means every planned day held only placeholder entries.
	ErrGenerationFailed = errors.New("could not generate any valid daily plans")
)

// ErrorMessage returns the user-facing message for a generation error.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDataUnavailable):
		return "Diet data not available."
	case errors.Is(err, ErrInsufficientVariety):
		return "Not enough diverse food items for your preferences. Try relaxing your diet or cuisine choices."
	case errors.Is(err, ErrGenerationFailed):
		return "Could not generate any valid daily plans."
	default:
		return "Could not generate a diet plan."
	}
}

// Outcome labels a generation result for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, ErrInsufficientVariety):
		return "insufficient_variety"
	case errors.Is(err, ErrGenerationFailed):
		return "generation_failed"
	default:
		return "error"
	}
}
