package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// ManualEntryName labels manual rows saved without a name.
const ManualEntryName = "Manual Entry"

// SumItems adds the four macro fields over items.
func SumItems(items []model.FoodItem) model.NutritionTotals {
	var totals model.NutritionTotals
	for _, item := range items {
		totals = totals.Add(item)
	}
	return totals
}

// MergeIntoMeal appends newItems to a copy of meal and recomputes its totals.
// Blank items are dropped first; when nothing is left meal is returned as is.
// The input meal is never modified.
func MergeIntoMeal(meal model.Meal, newItems []model.FoodItem) model.Meal {
	kept := make([]model.FoodItem, 0, len(newItems))
	for _, item := range newItems {
		if !item.IsBlank() {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return meal
	}

	items := make([]model.FoodItem, 0, len(meal.Items)+len(kept))
	items = append(items, meal.Items...)
	items = append(items, kept...)

	meal.Items = items
	meal.Totals = SumItems(items)
	return meal
}

// ItemsFromEntries converts manual draft rows into food items. Rows with every
// field blank are discarded; unparsable numbers count as zero.
func ItemsFromEntries(entries []model.ManualEntry) []model.FoodItem {
	items := make([]model.FoodItem, 0, len(entries))
	for _, e := range entries {
		if e.IsBlank() {
			continue
		}
		name := e.Name
		if strings.TrimSpace(name) == "" {
			name = ManualEntryName
		}
		items = append(items, model.FoodItem{
			Name:     name,
			Calories: parseAmount(e.Calories),
			Protein:  parseAmount(e.Protein),
			Carbs:    parseAmount(e.Carbs),
			Fat:      parseAmount(e.Fat),
		})
	}
	return items
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
