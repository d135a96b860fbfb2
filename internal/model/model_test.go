package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMealType(t *testing.T) {
	for _, in := range []string{"breakfast", " Lunch ", "DINNER", "snack"} {
		got, err := ParseMealType(in)
		require.NoError(t, err, in)
		assert.Equal(t, MealType(NormalizeFoodName(in)), got)
	}

	_, err := ParseMealType("brunch")
	assert.ErrorContains(t, err, "brunch")
}

func TestBlankRows(t *testing.T) {
	assert.True(t, FoodItem{Name: "  "}.IsBlank())
	assert.False(t, FoodItem{Calories: 1}.IsBlank())

	assert.True(t, ManualEntry{Name: " ", Fat: "\t"}.IsBlank())
	assert.False(t, ManualEntry{Protein: "0"}.IsBlank())
}

func TestTotalsIgnoreNonFiniteValues(t *testing.T) {
	totals := NutritionTotals{}.
		Add(FoodItem{Calories: 100.4, Protein: 2.5}).
		Add(FoodItem{Calories: math.NaN(), Carbs: math.Inf(1), Fat: 1.2})

	assert.Equal(t, NutritionTotals{Calories: 100.4, Protein: 2.5, Fat: 1.2}, totals)
	assert.Equal(t, NutritionTotals{Calories: 100, Protein: 3, Fat: 1}, totals.Rounded())
}

func TestResolvedMatchItem(t *testing.T) {
	match := ResolvedFoodMatch{Name: "2 egg", Calories: 156, Protein: 12, Carbs: 1.2, Fat: 10.6, Quantity: 2}
	assert.Equal(t, FoodItem{Name: "2 egg", Calories: 156, Protein: 12, Carbs: 1.2, Fat: 10.6}, match.Item())
	assert.Equal(t, FoodItem{Name: "2 egg", Calories: 156, Protein: 12, Carbs: 1, Fat: 11}, match.Item().Rounded())
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-03-09", DayKey(time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)))
}
