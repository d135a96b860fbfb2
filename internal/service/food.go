package service

import (
	"context"
	"fmt"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// FoodService exposes resolution and custom food management.
type FoodService struct {
	resolver Resolver
	store    CustomFoodStore
}

// NewFoodService creates a new FoodService instance
func NewFoodService(resolver Resolver, store CustomFoodStore) *FoodService {
	return &FoodService{resolver: resolver, store: store}
}

// Resolve resolves text through the tier chain.
func (s *FoodService) Resolve(ctx context.Context, text string) (model.ResolvedFoodMatch, bool) {
	return s.resolver.Resolve(ctx, text)
}

// AddCustomFood creates or overwrites a custom food.
func (s *FoodService) AddCustomFood(ctx context.Context, name string, perUnit model.PerUnit) (model.CustomFoodEntry, error) {
	if model.NormalizeFoodName(name) == "" {
		return model.CustomFoodEntry{}, ErrEmptyFoodName
	}
	entry, err := s.store.Put(ctx, name, perUnit)
	if err != nil {
		return model.CustomFoodEntry{}, fmt.Errorf("failed to save custom food: %w", err)
	}
	return entry, nil
}

// ListCustomFoods returns every custom food.
func (s *FoodService) ListCustomFoods(ctx context.Context) ([]model.CustomFoodEntry, error) {
	return s.store.List(ctx)
}

// DeleteCustomFood removes a custom food and reports whether it existed.
func (s *FoodService) DeleteCustomFood(ctx context.Context, name string) (bool, error) {
	return s.store.Delete(ctx, name)
}
