package draft

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/pageza/mealsnap/backend/internal/model"
)

var (
	ErrRowOutOfRange = errors.New("draft row out of range")
	ErrUnknownField  = errors.New("unknown draft field")
	ErrSheetClosed   = errors.New("draft sheet is closed")
)

// Editable row fields
const (
	FieldName     = "name"
	FieldCalories = "calories"
	FieldProtein  = "protein"
	FieldCarbs    = "carbs"
	FieldFat      = "fat"
)

// Row is a draft row together with its lookup state.
type Row struct {
	model.ManualEntry
	Lookup string `json:"lookup"`
}

// Sheet is a list of manual-entry rows. Editing a row's name schedules a
// debounced lookup that fills the row's macros when it resolves.
type Sheet struct {
	mu     sync.Mutex
	rows   []model.ManualEntry
	closed bool

	lookups *Controller
}

// NewSheet creates a sheet with one blank row.
func NewSheet(window time.Duration, resolve ResolveFunc, schedule Scheduler) *Sheet {
	s := &Sheet{rows: []model.ManualEntry{{}}}
	s.lookups = NewController(window, resolve, s.apply, schedule)
	return s
}

// AddRow appends a blank row and returns its index.
func (s *Sheet) AddRow() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSheetClosed
	}
	s.rows = append(s.rows, model.ManualEntry{})
	return len(s.rows) - 1, nil
}

// SetField updates one field of row. Name edits trigger a debounced lookup.
func (s *Sheet) SetField(row int, field, value string) error {
	if field != FieldName {
		return s.write(row, field, value)
	}

	// The controller lock is always taken before the sheet lock. Holding it
	// across the write schedules lookups in the order names were written.
	s.lookups.mu.Lock()
	defer s.lookups.mu.Unlock()
	if err := s.write(row, field, value); err != nil {
		return err
	}
	s.lookups.editLocked(row, value)
	return nil
}

func (s *Sheet) write(row int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSheetClosed
	}
	if row < 0 || row >= len(s.rows) {
		return ErrRowOutOfRange
	}

	entry := &s.rows[row]
	switch field {
	case FieldName:
		entry.Name = value
	case FieldCalories:
		entry.Calories = value
	case FieldProtein:
		entry.Protein = value
	case FieldCarbs:
		entry.Carbs = value
	case FieldFat:
		entry.Fat = value
	default:
		return ErrUnknownField
	}
	return nil
}

// RemoveRow deletes row. Later rows shift down, so their pending lookups are
// cancelled together with the removed row's.
func (s *Sheet) RemoveRow(row int) error {
	s.lookups.mu.Lock()
	defer s.lookups.mu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSheetClosed
	}
	if row < 0 || row >= len(s.rows) {
		s.mu.Unlock()
		return ErrRowOutOfRange
	}
	affected := make([]int, 0, len(s.rows)-row)
	for i := row; i < len(s.rows); i++ {
		affected = append(affected, i)
	}
	s.rows = append(s.rows[:row], s.rows[row+1:]...)
	s.mu.Unlock()

	s.lookups.cancelLocked(affected...)
	return nil
}

// Rows returns a snapshot of the rows with their lookup states.
func (s *Sheet) Rows() []Row {
	entries := s.Entries()
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{ManualEntry: e, Lookup: s.lookups.State(i).String()}
	}
	return rows
}

// Entries returns a copy of the raw rows.
func (s *Sheet) Entries() []model.ManualEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]model.ManualEntry, len(s.rows))
	copy(entries, s.rows)
	return entries
}

// Close cancels all pending lookups. The sheet rejects further edits.
func (s *Sheet) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.lookups.Close()
}

// apply fills row from match unless the row's name changed since the lookup started.
func (s *Sheet) apply(row int, text string, match model.ResolvedFoodMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || row >= len(s.rows) || s.rows[row].Name != text {
		return
	}
	s.rows[row] = model.ManualEntry{
		Name:     text,
		Calories: formatAmount(match.Calories),
		Protein:  formatAmount(match.Protein),
		Carbs:    formatAmount(match.Carbs),
		Fat:      formatAmount(match.Fat),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
