package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// DefaultGoals are the daily targets used by DailySummary.
var DefaultGoals = struct {
	Calories float64
	Macros   model.MacroGoals
}{
	Calories: 2000,
	Macros:   model.MacroGoals{Protein: 120, Carbs: 200, Fat: 70},
}

// MealService logs meals from text or photo analysis, merges manual entries
// into past meals and summarizes days.
type MealService struct {
	repo      MealRepository
	estimator NutritionEstimator
	now       Clock
}

// NewMealService creates a new MealService instance
func NewMealService(repo MealRepository, estimator NutritionEstimator, now Clock) *MealService {
	if now == nil {
		now = time.Now
	}
	return &MealService{repo: repo, estimator: estimator, now: now}
}

// AnalyzeText estimates a whole typed meal without saving it.
func (s *MealService) AnalyzeText(ctx context.Context, text string) (*model.NutritionEstimate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMealText
	}
	estimate := s.estimator.EstimateFromText(ctx, text)
	if estimate == nil {
		return nil, ErrAnalysisFailed
	}
	return estimate, nil
}

// AnalyzeImage estimates the meal shown in a stored photo without saving it.
func (s *MealService) AnalyzeImage(ctx context.Context, imageRef string) (*model.NutritionEstimate, error) {
	if imageRef == "" {
		return nil, ErrImageRequired
	}
	estimate := s.estimator.EstimateFromImage(ctx, imageRef)
	if estimate == nil {
		return nil, ErrAnalysisFailed
	}
	return estimate, nil
}

// SaveMeal creates and persists a meal. Totals are computed from items.
func (s *MealService) SaveMeal(ctx context.Context, mealType model.MealType, items []model.FoodItem, imageRef string) (model.Meal, error) {
	if _, err := model.ParseMealType(string(mealType)); err != nil {
		return model.Meal{}, fmt.Errorf("%w: %v", ErrInvalidMealType, err)
	}

	kept := make([]model.FoodItem, 0, len(items))
	for _, item := range items {
		if !item.IsBlank() {
			kept = append(kept, item)
		}
	}

	meal := model.Meal{
		ID:        uuid.New().String(),
		Type:      mealType,
		Timestamp: s.now(),
		Items:     kept,
		Totals:    SumItems(kept),
		ImageRef:  imageRef,
	}
	if err := s.repo.Save(ctx, meal); err != nil {
		return model.Meal{}, fmt.Errorf("failed to save meal: %w", err)
	}
	return meal, nil
}

// LogMealFromText analyzes text and saves the result. Nothing is saved when
// the analysis fails.
func (s *MealService) LogMealFromText(ctx context.Context, mealType model.MealType, text string) (model.Meal, error) {
	estimate, err := s.AnalyzeText(ctx, text)
	if err != nil {
		return model.Meal{}, err
	}
	return s.SaveMeal(ctx, mealType, estimate.Items, "")
}

// LogMealFromImage analyzes a stored photo and saves the result with its reference.
func (s *MealService) LogMealFromImage(ctx context.Context, mealType model.MealType, imageRef string) (model.Meal, error) {
	estimate, err := s.AnalyzeImage(ctx, imageRef)
	if err != nil {
		return model.Meal{}, err
	}
	return s.SaveMeal(ctx, mealType, estimate.Items, imageRef)
}

// GetMeal returns a stored meal.
func (s *MealService) GetMeal(ctx context.Context, id string) (model.Meal, error) {
	return s.repo.Get(ctx, id)
}

// AddItems merges items into a stored meal and persists the new value.
func (s *MealService) AddItems(ctx context.Context, id string, items []model.FoodItem) (model.Meal, error) {
	meal, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Meal{}, err
	}

	updated := MergeIntoMeal(meal, items)
	if len(updated.Items) == len(meal.Items) {
		return meal, nil
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		return model.Meal{}, fmt.Errorf("failed to update meal: %w", err)
	}
	return updated, nil
}

// AddManualEntries converts draft rows and merges them into a stored meal.
func (s *MealService) AddManualEntries(ctx context.Context, id string, entries []model.ManualEntry) (model.Meal, error) {
	return s.AddItems(ctx, id, ItemsFromEntries(entries))
}

// ListMeals returns the meals logged on day, oldest first.
func (s *MealService) ListMeals(ctx context.Context, day time.Time) ([]model.Meal, error) {
	meals, err := s.repo.ListByDay(ctx, model.DayKey(day))
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].Timestamp.Before(meals[j].Timestamp)
	})
	return meals, nil
}

// DailySummary totals the meals logged on day against the default goals.
func (s *MealService) DailySummary(ctx context.Context, day time.Time) (model.DailySummary, error) {
	meals, err := s.ListMeals(ctx, day)
	if err != nil {
		return model.DailySummary{}, err
	}

	var totals model.NutritionTotals
	for _, meal := range meals {
		totals = totals.Add(model.FoodItem{
			Calories: meal.Totals.Calories,
			Protein:  meal.Totals.Protein,
			Carbs:    meal.Totals.Carbs,
			Fat:      meal.Totals.Fat,
		})
	}

	return model.DailySummary{
		Date:          model.DayKey(day),
		TotalCalories: totals.Calories,
		CalorieGoal:   DefaultGoals.Calories,
		Macros:        model.MacroGoals{Protein: totals.Protein, Carbs: totals.Carbs, Fat: totals.Fat},
		MacroGoals:    DefaultGoals.Macros,
		Meals:         meals,
	}, nil
}

// WeeklySummary returns calories per day for the Sunday-to-Saturday week
// containing day. Days after today report zero.
func (s *MealService) WeeklySummary(ctx context.Context, day time.Time) ([]model.DayCalories, error) {
	y, m, d := day.Date()
	start := time.Date(y, m, d-int(day.Weekday()), 0, 0, 0, 0, day.Location())
	today := model.DayKey(s.now().In(day.Location()))

	week := make([]model.DayCalories, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		entry := model.DayCalories{
			Day:  date.Weekday().String()[:3],
			Date: model.DayKey(date),
			Goal: DefaultGoals.Calories,
		}
		if entry.Date <= today {
			meals, err := s.repo.ListByDay(ctx, entry.Date)
			if err != nil {
				return nil, fmt.Errorf("failed to list meals: %w", err)
			}
			for _, meal := range meals {
				entry.Calories += meal.Totals.Calories
			}
		}
		week = append(week, entry)
	}
	return week, nil
}
