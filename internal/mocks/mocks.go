package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// MockEstimator is a mock implementation of the NutritionEstimator interface
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) EstimateFromText(ctx context.Context, text string) *model.NutritionEstimate {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.NutritionEstimate)
}

func (m *MockEstimator) EstimateFromImage(ctx context.Context, imageRef string) *model.NutritionEstimate {
	args := m.Called(ctx, imageRef)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.NutritionEstimate)
}

// MockCustomFoodStore is a mock implementation of the CustomFoodStore interface
type MockCustomFoodStore struct {
	mock.Mock
}

func (m *MockCustomFoodStore) Get(ctx context.Context, name string) (model.CustomFoodEntry, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.CustomFoodEntry), args.Bool(1), args.Error(2)
}

func (m *MockCustomFoodStore) Put(ctx context.Context, name string, perUnit model.PerUnit) (model.CustomFoodEntry, error) {
	args := m.Called(ctx, name, perUnit)
	return args.Get(0).(model.CustomFoodEntry), args.Error(1)
}

func (m *MockCustomFoodStore) Delete(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomFoodStore) List(ctx context.Context) ([]model.CustomFoodEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CustomFoodEntry), args.Error(1)
}

// MockImageStore is a mock implementation of the ImageStore interface
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
