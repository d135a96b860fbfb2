package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// ErrUnreadableSnapshot is returned by writes when the stored table cannot be
// decoded. The stored bytes are left untouched.
var ErrUnreadableSnapshot = errors.New("custom food table is unreadable")

// SnapshotFoodStore keeps the custom food table as a single JSON object of
// the form {"name": {"calories":..,"protein":..,"carbs":..,"fat":..}}.
// Every write rewrites the whole object. Writers in this process are
// serialized; concurrent writers in other processes are last-writer-wins.
type SnapshotFoodStore struct {
	backend SnapshotBackend
	mu      sync.Mutex
}

// NewSnapshotFoodStore creates a custom food store over backend.
func NewSnapshotFoodStore(backend SnapshotBackend) *SnapshotFoodStore {
	return &SnapshotFoodStore{backend: backend}
}

// load decodes the stored table. Reads treat an unreadable table as empty;
// writes get ErrUnreadableSnapshot so they never overwrite it.
func (s *SnapshotFoodStore) load(ctx context.Context, forWrite bool) (map[string]model.PerUnit, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	foods := make(map[string]model.PerUnit)
	if len(data) == 0 {
		return foods, nil
	}
	if err := json.Unmarshal(data, &foods); err != nil {
		if forWrite {
			log.Printf("[CustomFoods] Refusing to overwrite unreadable custom food table: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUnreadableSnapshot, err)
		}
		log.Printf("[CustomFoods] Ignoring unreadable custom food table: %v", err)
		return make(map[string]model.PerUnit), nil
	}
	return foods, nil
}

func (s *SnapshotFoodStore) save(ctx context.Context, foods map[string]model.PerUnit) error {
	data, err := json.Marshal(foods)
	if err != nil {
		return fmt.Errorf("failed to encode custom foods: %w", err)
	}
	return s.backend.Save(ctx, data)
}

// Get returns the entry for name.
func (s *SnapshotFoodStore) Get(ctx context.Context, name string) (model.CustomFoodEntry, bool, error) {
	key := model.NormalizeFoodName(name)
	if key == "" {
		return model.CustomFoodEntry{}, false, nil
	}
	foods, err := s.load(ctx, false)
	if err != nil {
		return model.CustomFoodEntry{}, false, err
	}
	perUnit, ok := foods[key]
	if !ok {
		return model.CustomFoodEntry{}, false, nil
	}
	return model.CustomFoodEntry{Key: key, PerUnit: perUnit}, true, nil
}

// Put creates or overwrites the entry for name.
func (s *SnapshotFoodStore) Put(ctx context.Context, name string, perUnit model.PerUnit) (model.CustomFoodEntry, error) {
	key := model.NormalizeFoodName(name)
	if key == "" {
		return model.CustomFoodEntry{}, fmt.Errorf("custom food name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	foods, err := s.load(ctx, true)
	if err != nil {
		return model.CustomFoodEntry{}, err
	}
	foods[key] = perUnit
	if err := s.save(ctx, foods); err != nil {
		return model.CustomFoodEntry{}, err
	}
	return model.CustomFoodEntry{Key: key, PerUnit: perUnit}, nil
}

// Delete removes the entry for name and reports whether it existed.
func (s *SnapshotFoodStore) Delete(ctx context.Context, name string) (bool, error) {
	key := model.NormalizeFoodName(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	foods, err := s.load(ctx, true)
	if err != nil {
		return false, err
	}
	if _, ok := foods[key]; !ok {
		return false, nil
	}
	delete(foods, key)
	if err := s.save(ctx, foods); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all entries sorted by key.
func (s *SnapshotFoodStore) List(ctx context.Context) ([]model.CustomFoodEntry, error) {
	foods, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	entries := make([]model.CustomFoodEntry, 0, len(foods))
	for key, perUnit := range foods {
		entries = append(entries, model.CustomFoodEntry{Key: key, PerUnit: perUnit})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}
