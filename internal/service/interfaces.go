package service

import (
	"context"
	"errors"
	"time"

	"github.com/pageza/mealsnap/backend/internal/model"
)

var (
	ErrEmptyFoodName   = errors.New("food name is required")
	ErrEmptyMealText   = errors.New("meal description is required")
	ErrAnalysisFailed  = errors.New("meal analysis failed")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrImageRequired   = errors.New("image is required")
	ErrInvalidMealType = errors.New("invalid meal type")
)

// CustomFoodStore is the user-editable table of per-unit custom foods.
// Names are normalized by the store.
type CustomFoodStore interface {
	Get(ctx context.Context, name string) (model.CustomFoodEntry, bool, error)
	Put(ctx context.Context, name string, perUnit model.PerUnit) (model.CustomFoodEntry, error)
	Delete(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]model.CustomFoodEntry, error)
}

// NutritionEstimator is the AI estimation boundary. A nil estimate means
// unconfigured, failed or malformed; it never returns an error.
type NutritionEstimator interface {
	EstimateFromText(ctx context.Context, text string) *model.NutritionEstimate
	EstimateFromImage(ctx context.Context, imageRef string) *model.NutritionEstimate
}

// Resolver resolves free text to a scaled food match.
type Resolver interface {
	Resolve(ctx context.Context, text string) (model.ResolvedFoodMatch, bool)
}

// MealRepository persists finalized meals. Get returns model.ErrMealNotFound
// for unknown ids.
type MealRepository interface {
	Save(ctx context.Context, meal model.Meal) error
	Get(ctx context.Context, id string) (model.Meal, error)
	ListByDay(ctx context.Context, day string) ([]model.Meal, error)
}

// ImageStore keeps uploaded meal photos and hands back an opaque reference.
// Delete of an unknown reference is not an error.
type ImageStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ImageLinker hands out a temporary download URL for a stored photo.
type ImageLinker interface {
	Link(ctx context.Context, ref string) (string, error)
}

// ImageReader serves stored photo bytes directly.
type ImageReader interface {
	Read(ref string) ([]byte, string, bool)
}

// Clock returns the current time.
type Clock func() time.Time
