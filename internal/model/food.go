package model

import (
	"math"
	"strings"
)

// FoodItem is a single resolved food with its nutrition. It is treated as
// immutable once attached to a meal.
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// IsBlank reports whether the item carries neither a name nor any macro.
func (f FoodItem) IsBlank() bool {
	return strings.TrimSpace(f.Name) == "" &&
		f.Calories == 0 && f.Protein == 0 && f.Carbs == 0 && f.Fat == 0
}

// Rounded returns a copy with every macro rounded to the nearest integer.
func (f FoodItem) Rounded() FoodItem {
	f.Calories = math.Round(f.Calories)
	f.Protein = math.Round(f.Protein)
	f.Carbs = math.Round(f.Carbs)
	f.Fat = math.Round(f.Fat)
	return f
}

// PerUnit holds the macros of one unit of a food.
type PerUnit struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// CustomFoodEntry is a user-defined food keyed by its normalized name.
type CustomFoodEntry struct {
	Key string `json:"key"`
	PerUnit
}

// ResolvedFoodMatch is the per-call output of the food resolver. Macros are
// already scaled by Quantity.
type ResolvedFoodMatch struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Quantity int     `json:"quantity"`
}

// Item converts the match into a FoodItem.
func (m ResolvedFoodMatch) Item() FoodItem {
	return FoodItem{
		Name:     m.Name,
		Calories: m.Calories,
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fat:      m.Fat,
	}
}

// NutritionEstimate is the uniform result shape of the AI estimation boundary.
type NutritionEstimate struct {
	Items  []FoodItem      `json:"items"`
	Totals NutritionTotals `json:"totals"`
}

// NormalizeFoodName lower-cases and trims a food name for key lookups.
func NormalizeFoodName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}
