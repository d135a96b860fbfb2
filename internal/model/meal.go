package model

import (
	"fmt"
	"strings"
	"time"
)

// MealType is the conventional meal period a meal belongs to.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// ParseMealType validates s as a meal type.
func ParseMealType(s string) (MealType, error) {
	switch t := MealType(strings.ToLower(strings.TrimSpace(s))); t {
	case Breakfast, Lunch, Dinner, Snack:
		return t, nil
	default:
		return "", fmt.Errorf("unknown meal type %q", s)
	}
}

// Meal is a finalized entry. Totals always equal the sum of Items.
type Meal struct {
	ID        string          `json:"id"`
	Type      MealType        `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Items     []FoodItem      `json:"items"`
	Totals    NutritionTotals `json:"totals"`
	ImageRef  string          `json:"image_ref,omitempty"`
}

// ManualEntry is a draft row typed by the user. Values are kept as the raw text.
type ManualEntry struct {
	Name     string `json:"name"`
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// IsBlank reports whether every field of the row is empty or whitespace.
func (e ManualEntry) IsBlank() bool {
	for _, v := range []string{e.Name, e.Calories, e.Protein, e.Carbs, e.Fat} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// MacroGoals are the daily targets a summary is compared against.
type MacroGoals struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// DailySummary aggregates the meals logged on one day.
type DailySummary struct {
	Date          string     `json:"date"`
	TotalCalories float64    `json:"total_calories"`
	CalorieGoal   float64    `json:"calorie_goal"`
	Macros        MacroGoals `json:"macros"`
	MacroGoals    MacroGoals `json:"macro_goals"`
	Meals         []Meal     `json:"meals"`
}

// DayCalories is one day of a weekly calorie series.
type DayCalories struct {
	Day      string  `json:"day"`
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Goal     float64 `json:"goal"`
}

// DayKey formats t as the calendar day used to bucket meals.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
