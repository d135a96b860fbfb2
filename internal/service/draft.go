package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/mealsnap/backend/internal/draft"
	"github.com/pageza/mealsnap/backend/internal/model"
)

// DraftView is the client view of a draft sheet.
type DraftView struct {
	ID     string      `json:"id"`
	MealID string      `json:"meal_id"`
	Rows   []draft.Row `json:"rows"`
}

type draftSession struct {
	mealID string
	sheet  *draft.Sheet
}

// DraftService hosts manual-entry sheets for adding foods to an existing meal.
type DraftService struct {
	meals    *MealService
	resolver Resolver
	window   time.Duration
	schedule draft.Scheduler

	mu       sync.Mutex
	sessions map[string]*draftSession
}

// NewDraftService creates a new DraftService instance. A nil scheduler uses
// the runtime timer.
func NewDraftService(meals *MealService, resolver Resolver, window time.Duration, schedule draft.Scheduler) *DraftService {
	return &DraftService{
		meals:    meals,
		resolver: resolver,
		window:   window,
		schedule: schedule,
		sessions: make(map[string]*draftSession),
	}
}

// Create opens a sheet for the meal with id mealID.
func (s *DraftService) Create(ctx context.Context, mealID string) (DraftView, error) {
	if _, err := s.meals.GetMeal(ctx, mealID); err != nil {
		return DraftView{}, err
	}

	id := uuid.New().String()
	session := &draftSession{
		mealID: mealID,
		sheet:  draft.NewSheet(s.window, s.resolver.Resolve, s.schedule),
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	log.Printf("[DraftService] Opened draft %s for meal %s", id, mealID)
	return s.view(id, session), nil
}

// Get returns the current rows of a draft.
func (s *DraftService) Get(id string) (DraftView, error) {
	session, err := s.session(id)
	if err != nil {
		return DraftView{}, err
	}
	return s.view(id, session), nil
}

// AddRow appends a blank row.
func (s *DraftService) AddRow(id string) (DraftView, error) {
	session, err := s.session(id)
	if err != nil {
		return DraftView{}, err
	}
	if _, err := session.sheet.AddRow(); err != nil {
		return DraftView{}, err
	}
	return s.view(id, session), nil
}

// SetFields updates the given fields of row. Name changes schedule a lookup.
func (s *DraftService) SetFields(id string, row int, fields map[string]string) (DraftView, error) {
	session, err := s.session(id)
	if err != nil {
		return DraftView{}, err
	}
	for field := range fields {
		switch field {
		case draft.FieldName, draft.FieldCalories, draft.FieldProtein, draft.FieldCarbs, draft.FieldFat:
		default:
			return DraftView{}, draft.ErrUnknownField
		}
	}
	// Macros first so a name edit's lookup sees the latest row.
	for _, field := range []string{draft.FieldCalories, draft.FieldProtein, draft.FieldCarbs, draft.FieldFat, draft.FieldName} {
		value, ok := fields[field]
		if !ok {
			continue
		}
		if err := session.sheet.SetField(row, field, value); err != nil {
			return DraftView{}, err
		}
	}
	return s.view(id, session), nil
}

// RemoveRow deletes a row.
func (s *DraftService) RemoveRow(id string, row int) (DraftView, error) {
	session, err := s.session(id)
	if err != nil {
		return DraftView{}, err
	}
	if err := session.sheet.RemoveRow(row); err != nil {
		return DraftView{}, err
	}
	return s.view(id, session), nil
}

// Save merges the non-blank rows into the meal and closes the draft.
func (s *DraftService) Save(ctx context.Context, id string) (model.Meal, error) {
	session, err := s.session(id)
	if err != nil {
		return model.Meal{}, err
	}

	meal, err := s.meals.AddManualEntries(ctx, session.mealID, session.sheet.Entries())
	if err != nil {
		return model.Meal{}, err
	}

	s.close(id, session)
	log.Printf("[DraftService] Saved draft %s into meal %s", id, session.mealID)
	return meal, nil
}

// Discard closes a draft without saving.
func (s *DraftService) Discard(id string) error {
	session, err := s.session(id)
	if err != nil {
		return err
	}
	s.close(id, session)
	return nil
}

// Close discards every open draft.
func (s *DraftService) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*draftSession)
	s.mu.Unlock()

	for _, session := range sessions {
		session.sheet.Close()
	}
}

func (s *DraftService) session(id string) (*draftSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return session, nil
}

func (s *DraftService) close(id string, session *draftSession) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	session.sheet.Close()
}

func (s *DraftService) view(id string, session *draftSession) DraftView {
	return DraftView{ID: id, MealID: session.mealID, Rows: session.sheet.Rows()}
}
