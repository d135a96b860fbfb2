package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/mealsnap/backend/internal/model"
)

func mealKey(id string) string {
	return fmt.Sprintf("meal:%s", id)
}

func mealDayKey(day string) string {
	return fmt.Sprintf("meals:%s", day)
}

// MemoryMealRepository keeps meals in process memory.
type MemoryMealRepository struct {
	mu    sync.RWMutex
	meals map[string]model.Meal
	days  map[string][]string
}

// NewMemoryMealRepository creates an empty repository.
func NewMemoryMealRepository() *MemoryMealRepository {
	return &MemoryMealRepository{
		meals: make(map[string]model.Meal),
		days:  make(map[string][]string),
	}
}

func (r *MemoryMealRepository) Save(_ context.Context, meal model.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.meals[meal.ID]; !exists {
		day := model.DayKey(meal.Timestamp)
		r.days[day] = append(r.days[day], meal.ID)
	}
	r.meals[meal.ID] = cloneMeal(meal)
	return nil
}

func (r *MemoryMealRepository) Get(_ context.Context, id string) (model.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meal, ok := r.meals[id]
	if !ok {
		return model.Meal{}, model.ErrMealNotFound
	}
	return cloneMeal(meal), nil
}

func (r *MemoryMealRepository) ListByDay(_ context.Context, day string) ([]model.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.days[day]
	meals := make([]model.Meal, 0, len(ids))
	for _, id := range ids {
		meals = append(meals, cloneMeal(r.meals[id]))
	}
	return meals, nil
}

func cloneMeal(meal model.Meal) model.Meal {
	items := make([]model.FoodItem, len(meal.Items))
	copy(items, meal.Items)
	meal.Items = items
	return meal
}

// RedisMealRepository stores each meal as JSON under meal:<id> and indexes
// ids per calendar day in the set meals:<yyyy-mm-dd>.
type RedisMealRepository struct {
	client *redis.Client
}

// NewRedisMealRepository creates a repository backed by client.
func NewRedisMealRepository(client *redis.Client) *RedisMealRepository {
	return &RedisMealRepository{client: client}
}

func (r *RedisMealRepository) Save(ctx context.Context, meal model.Meal) error {
	data, err := json.Marshal(meal)
	if err != nil {
		return fmt.Errorf("failed to marshal meal: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, mealKey(meal.ID), data, 0)
		pipe.SAdd(ctx, mealDayKey(model.DayKey(meal.Timestamp)), meal.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save meal to Redis: %w", err)
	}
	return nil
}

func (r *RedisMealRepository) Get(ctx context.Context, id string) (model.Meal, error) {
	data, err := r.client.Get(ctx, mealKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Meal{}, model.ErrMealNotFound
	}
	if err != nil {
		return model.Meal{}, fmt.Errorf("failed to get meal from Redis: %w", err)
	}

	var meal model.Meal
	if err := json.Unmarshal(data, &meal); err != nil {
		return model.Meal{}, fmt.Errorf("failed to unmarshal meal: %w", err)
	}
	return meal, nil
}

func (r *RedisMealRepository) ListByDay(ctx context.Context, day string) ([]model.Meal, error) {
	ids, err := r.client.SMembers(ctx, mealDayKey(day)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list meals from Redis: %w", err)
	}
	if len(ids) == 0 {
		return []model.Meal{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = mealKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load meals from Redis: %w", err)
	}

	meals := make([]model.Meal, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			log.Printf("[MealRepository] Meal %s is indexed for %s but missing", ids[i], day)
			continue
		}
		var meal model.Meal
		if err := json.Unmarshal([]byte(raw), &meal); err != nil {
			log.Printf("[MealRepository] Skipping unreadable meal %s: %v", ids[i], err)
			continue
		}
		meals = append(meals, meal)
	}
	return meals, nil
}
