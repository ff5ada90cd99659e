package planner

import (
	"math"
	"strings"
)

// BodyProfile holds the measurements used to derive a calorie target.
type BodyProfile struct {
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var goalAdjustments = map[string]int{
	"weight_loss": -500,
	"muscle_gain": 300,
	"maintenance": 0,
}

// Complete reports whether every field needed for BMR is present.
func (b BodyProfile) Complete() bool {
	return b.WeightKg > 0 && b.HeightCm > 0 && b.Age > 0 && strings.TrimSpace(b.Gender) != ""
}

// BMR is the Mifflin-St Jeor basal metabolic rate, or 0 for an incomplete profile.
// Genders other than male and female use the midpoint offset.
func BMR(b BodyProfile) int {
	if !b.Complete() {
		return 0
	}
	base := 10*b.WeightKg + 6.25*b.HeightCm - 5*float64(b.Age)
	switch strings.ToLower(strings.TrimSpace(b.Gender)) {
	case "male":
		base += 5
	case "female":
		base -= 161
	default:
		base -= 78
	}
	return int(math.RoundToEven(base))
}

// TDEE scales a BMR by activity level. Unknown levels count as sedentary.
func TDEE(bmr int, activityLevel string) int {
	if bmr <= 0 {
		return 0
	}
	multiplier, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(activityLevel))]
	if !ok {
		multiplier = activityMultipliers["sedentary"]
	}
	return int(math.RoundToEven(float64(bmr) * multiplier))
}

// TargetCalories derives a daily calorie target from body metrics and goal.
// It returns 0 when the profile is incomplete.
func TargetCalories(b BodyProfile) int {
	tdee := TDEE(BMR(b), b.ActivityLevel)
	if tdee == 0 {
		return 0
	}
	return tdee + goalAdjustments[strings.ToLower(strings.TrimSpace(b.Goal))]
}

// BMI returns the body mass index rounded to one decimal, or 0 when
// weight or height is missing.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return math.RoundToEven(weightKg/(heightM*heightM)*10) / 10
}

// BMICategory names the weight band for a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return "N/A"
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obesity"
	}
}

// BodyMetrics is what a body profile implies, reported back to the caller
// alongside the plan built from it.
type BodyMetrics struct {
	BMR            int     `json:"bmr"`
	TDEE           int     `json:"tdee"`
	TargetCalories int     `json:"target_calories"`
	BMI            float64 `json:"bmi"`
	BMICategory    string  `json:"bmi_category"`
}

// Assess derives the calorie figures and BMI band for b.
func Assess(b BodyProfile) BodyMetrics {
	bmr := BMR(b)
	bmi := BMI(b.WeightKg, b.HeightCm)
	return BodyMetrics{
		BMR:            bmr,
		TDEE:           TDEE(bmr, b.ActivityLevel),
		TargetCalories: TargetCalories(b),
		BMI:            bmi,
		BMICategory:    BMICategory(bmi),
	}
}
