package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealsnap/backend/internal/database"
	"github.com/pageza/mealsnap/backend/internal/mocks"
	"github.com/pageza/mealsnap/backend/internal/model"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestMealService(estimator NutritionEstimator, now time.Time) *MealService {
	return NewMealService(database.NewMemoryMealRepository(), estimator, fixedClock(now))
}

func TestMealServiceLogFromText(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 14, 12, 30, 0, 0, time.UTC)

	t.Run("should save the analyzed meal", func(t *testing.T) {
		estimator := new(mocks.MockEstimator)
		estimator.On("EstimateFromText", mock.Anything, "two eggs and toast").Return(&model.NutritionEstimate{
			Items:  []model.FoodItem{{Name: "Eggs", Calories: 156, Protein: 12, Carbs: 1, Fat: 11}, {Name: "Toast", Calories: 75, Protein: 2, Carbs: 13, Fat: 1}},
			Totals: model.NutritionTotals{Calories: 999},
		})
		svc := newTestMealService(estimator, now)

		meal, err := svc.LogMealFromText(ctx, model.Breakfast, "two eggs and toast")
		require.NoError(t, err)
		assert.NotEmpty(t, meal.ID)
		assert.Equal(t, now, meal.Timestamp)
		assert.Equal(t, model.Breakfast, meal.Type)
		// Totals are recomputed from items
		assert.Equal(t, model.NutritionTotals{Calories: 231, Protein: 14, Carbs: 14, Fat: 12}, meal.Totals)

		stored, err := svc.GetMeal(ctx, meal.ID)
		require.NoError(t, err)
		assert.Equal(t, meal.Items, stored.Items)
	})

	t.Run("should not save when analysis fails", func(t *testing.T) {
		estimator := new(mocks.MockEstimator)
		estimator.On("EstimateFromText", mock.Anything, "gibberish").Return(nil)
		svc := newTestMealService(estimator, now)

		_, err := svc.LogMealFromText(ctx, model.Lunch, "gibberish")
		assert.ErrorIs(t, err, ErrAnalysisFailed)

		meals, err := svc.ListMeals(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, meals)
	})

	t.Run("should reject empty text without calling the estimator", func(t *testing.T) {
		estimator := new(mocks.MockEstimator)
		svc := newTestMealService(estimator, now)

		_, err := svc.LogMealFromText(ctx, model.Lunch, "   ")
		assert.ErrorIs(t, err, ErrEmptyMealText)
		estimator.AssertNotCalled(t, "EstimateFromText", mock.Anything, mock.Anything)
	})

	t.Run("should reject an unknown meal type", func(t *testing.T) {
		svc := newTestMealService(new(mocks.MockEstimator), now)
		_, err := svc.SaveMeal(ctx, model.MealType("brunch"), nil, "")
		assert.ErrorIs(t, err, ErrInvalidMealType)
	})
}

func TestMealServiceLogFromImage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 14, 19, 0, 0, 0, time.UTC)

	estimator := new(mocks.MockEstimator)
	estimator.On("EstimateFromImage", mock.Anything, "meal-images/abc.jpg").Return(&model.NutritionEstimate{
		Items: []model.FoodItem{{Name: "Salmon Fillet", Calories: 367, Protein: 34, Carbs: 0, Fat: 24}},
	})
	svc := newTestMealService(estimator, now)

	meal, err := svc.LogMealFromImage(ctx, model.Dinner, "meal-images/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "meal-images/abc.jpg", meal.ImageRef)
	assert.Equal(t, float64(367), meal.Totals.Calories)

	_, err = svc.LogMealFromImage(ctx, model.Dinner, "")
	assert.ErrorIs(t, err, ErrImageRequired)
}

func TestMealServiceAddManualEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC)
	svc := newTestMealService(new(mocks.MockEstimator), now)

	meal, err := svc.SaveMeal(ctx, model.Breakfast, []model.FoodItem{egg}, "")
	require.NoError(t, err)

	t.Run("should merge rows and persist", func(t *testing.T) {
		updated, err := svc.AddManualEntries(ctx, meal.ID, []model.ManualEntry{
			{Name: "toast", Calories: "75", Protein: "2", Carbs: "13", Fat: "1"},
			{},
		})
		require.NoError(t, err)
		require.Len(t, updated.Items, 2)
		assert.Equal(t, float64(153), updated.Totals.Calories)

		stored, err := svc.GetMeal(ctx, meal.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.Totals, stored.Totals)
	})

	t.Run("should leave the meal alone for blank rows", func(t *testing.T) {
		before, err := svc.GetMeal(ctx, meal.ID)
		require.NoError(t, err)

		after, err := svc.AddManualEntries(ctx, meal.ID, []model.ManualEntry{{}, {Name: " "}})
		require.NoError(t, err)
		assert.Equal(t, before.Items, after.Items)
	})

	t.Run("should fail for an unknown meal", func(t *testing.T) {
		_, err := svc.AddManualEntries(ctx, "missing", []model.ManualEntry{{Name: "x"}})
		assert.ErrorIs(t, err, model.ErrMealNotFound)
	})
}

func TestMealServiceDailySummary(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	repo := database.NewMemoryMealRepository()

	current := day.Add(19 * time.Hour)
	svc := NewMealService(repo, new(mocks.MockEstimator), func() time.Time { return current })

	_, err := svc.SaveMeal(ctx, model.Dinner, []model.FoodItem{apple}, "")
	require.NoError(t, err)
	current = day.Add(8 * time.Hour)
	_, err = svc.SaveMeal(ctx, model.Breakfast, []model.FoodItem{egg, toast}, "")
	require.NoError(t, err)
	current = day.Add(32 * time.Hour)
	_, err = svc.SaveMeal(ctx, model.Lunch, []model.FoodItem{toast}, "")
	require.NoError(t, err)

	summary, err := svc.DailySummary(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-14", summary.Date)
	assert.Equal(t, float64(248), summary.TotalCalories)
	assert.InDelta(t, 8.5, summary.Macros.Protein, 1e-9)
	assert.InDelta(t, 38.6, summary.Macros.Carbs, 1e-9)
	assert.InDelta(t, 6.6, summary.Macros.Fat, 1e-9)
	assert.Equal(t, float64(2000), summary.CalorieGoal)
	assert.Equal(t, model.MacroGoals{Protein: 120, Carbs: 200, Fat: 70}, summary.MacroGoals)

	require.Len(t, summary.Meals, 2)
	assert.Equal(t, model.Breakfast, summary.Meals[0].Type)
	assert.Equal(t, model.Dinner, summary.Meals[1].Type)

	empty, err := svc.DailySummary(ctx, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCalories)
	assert.Empty(t, empty.Meals)
}

func TestMealServiceWeeklySummary(t *testing.T) {
	ctx := context.Background()
	thursday := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	repo := database.NewMemoryMealRepository()

	current := thursday.AddDate(0, 0, -3).Add(8 * time.Hour)
	svc := NewMealService(repo, new(mocks.MockEstimator), func() time.Time { return current })

	_, err := svc.SaveMeal(ctx, model.Breakfast, []model.FoodItem{toast}, "")
	require.NoError(t, err)
	current = thursday.Add(12 * time.Hour)
	_, err = svc.SaveMeal(ctx, model.Lunch, []model.FoodItem{egg, apple}, "")
	require.NoError(t, err)
	// Logged on Saturday, but the clock is moved back to Friday below
	current = thursday.AddDate(0, 0, 2).Add(9 * time.Hour)
	_, err = svc.SaveMeal(ctx, model.Snack, []model.FoodItem{apple}, "")
	require.NoError(t, err)
	// Previous week
	current = thursday.AddDate(0, 0, -5)
	_, err = svc.SaveMeal(ctx, model.Dinner, []model.FoodItem{apple}, "")
	require.NoError(t, err)

	current = thursday.AddDate(0, 0, 1).Add(10 * time.Hour)
	week, err := svc.WeeklySummary(ctx, thursday.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, week, 7)

	days := make([]string, 0, 7)
	calories := make([]float64, 0, 7)
	for _, d := range week {
		days = append(days, d.Day)
		calories = append(calories, d.Calories)
		assert.Equal(t, float64(2000), d.Goal)
	}
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, days)
	assert.Equal(t, []float64{0, 75, 0, 0, 173, 0, 0}, calories)
	assert.Equal(t, "2024-03-10", week[0].Date)
	assert.Equal(t, "2024-03-16", week[6].Date)
}
