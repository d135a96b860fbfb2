package model

import "math"

// NutritionTotals is the elementwise sum of a collection of FoodItems.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns t plus the macros of item. Non-finite fields count as zero.
func (t NutritionTotals) Add(item FoodItem) NutritionTotals {
	return NutritionTotals{
		Calories: t.Calories + finite(item.Calories),
		Protein:  t.Protein + finite(item.Protein),
		Carbs:    t.Carbs + finite(item.Carbs),
		Fat:      t.Fat + finite(item.Fat),
	}
}

// Rounded returns the totals rounded to the nearest integer.
func (t NutritionTotals) Rounded() NutritionTotals {
	return NutritionTotals{
		Calories: math.Round(t.Calories),
		Protein:  math.Round(t.Protein),
		Carbs:    math.Round(t.Carbs),
		Fat:      math.Round(t.Fat),
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
