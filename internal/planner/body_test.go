package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBMR(t *testing.T) {
	base := BodyProfile{WeightKg: 70, HeightCm: 175, Age: 30}

	male := base
	male.Gender = "Male"
	assert.Equal(t, 1649, BMR(male))

	female := base
	female.Gender = "female"
	assert.Equal(t, 1483, BMR(female))

	other := base
	other.Gender = "nonbinary"
	assert.Equal(t, 1566, BMR(other))

	assert.Zero(t, BMR(BodyProfile{WeightKg: 70, HeightCm: 175, Gender: "male"}))
}

func TestTDEE(t *testing.T) {
	assert.Equal(t, 1979, TDEE(1649, "sedentary"))
	assert.Equal(t, 2556, TDEE(1649, "Moderate"))
	assert.Equal(t, 3133, TDEE(1649, "very_active"))
	assert.Equal(t, 1979, TDEE(1649, "couch"))
	assert.Zero(t, TDEE(0, "active"))
}

func TestTargetCalories(t *testing.T) {
	b := BodyProfile{WeightKg: 70, HeightCm: 175, Age: 30, Gender: "male", ActivityLevel: "moderate"}

	assert.Equal(t, 2556, TargetCalories(b))

	b.Goal = "weight_loss"
	assert.Equal(t, 2056, TargetCalories(b))

	b.Goal = "muscle_gain"
	assert.Equal(t, 2856, TargetCalories(b))

	assert.Zero(t, TargetCalories(BodyProfile{}))
}

func TestBMI(t *testing.T) {
	assert.Equal(t, 22.9, BMI(70, 175))
	assert.Zero(t, BMI(70, 0))

	tests := []struct {
		bmi  float64
		want string
	}{
		{0, "N/A"},
		{17.2, "Underweight"},
		{18.5, "Normal weight"},
		{24.9, "Normal weight"},
		{25, "Overweight"},
		{29.9, "Overweight"},
		{31, "Obesity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BMICategory(tt.bmi), "bmi %.1f", tt.bmi)
	}
}

func TestAssess(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		got := Assess(BodyProfile{WeightKg: 70, HeightCm: 175, Age: 30, Gender: "male", ActivityLevel: "moderate", Goal: "weight_loss"})
		assert.Equal(t, BodyMetrics{BMR: 1649, TDEE: 2556, TargetCalories: 2056, BMI: 22.9, BMICategory: "Normal weight"}, got)
	})

	t.Run("HeightAndWeightOnly", func(t *testing.T) {
		got := Assess(BodyProfile{WeightKg: 50, HeightCm: 180})
		assert.Zero(t, got.BMR)
		assert.Zero(t, got.TargetCalories)
		assert.Equal(t, 15.4, got.BMI)
		assert.Equal(t, "Underweight", got.BMICategory)
	})
}
