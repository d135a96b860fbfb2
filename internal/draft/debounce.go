// Package draft hosts manual-entry draft rows and the debounced food lookup
// that fills them in while the user types.
package draft

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// RowState is the lookup state of a single row.
type RowState int

const (
	Idle RowState = iota
	PendingLookup
	Resolving
	Resolved
)

func (s RowState) String() string {
	switch s {
	case PendingLookup:
		return "pending"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Timer is a cancellable scheduled task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc satisfies it through RealScheduler.
type Scheduler func(d time.Duration, f func()) Timer

// RealScheduler schedules on the runtime timer.
func RealScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ResolveFunc resolves the text of a row.
type ResolveFunc func(ctx context.Context, text string) (model.ResolvedFoodMatch, bool)

// ApplyFunc receives a resolution that is still current for its row.
type ApplyFunc func(row int, text string, match model.ResolvedFoodMatch)

type rowLookup struct {
	seq   uint64
	timer Timer
	state RowState
}

// Controller debounces lookups per row index. Each edit restarts that row's
// timer; when the timer fires the row's text is resolved and the result is
// applied only if no newer edit, cancellation or close happened meanwhile.
//
// In-flight resolutions are not aborted when superseded. They run to
// completion and their results are dropped by the sequence check, so a slow
// upstream call keeps its goroutine until it returns.
type Controller struct {
	window   time.Duration
	resolve  ResolveFunc
	apply    ApplyFunc
	schedule Scheduler

	mu     sync.Mutex
	rows   map[int]*rowLookup
	closed bool
}

// NewController creates a controller. A nil scheduler uses RealScheduler.
func NewController(window time.Duration, resolve ResolveFunc, apply ApplyFunc, schedule Scheduler) *Controller {
	if schedule == nil {
		schedule = RealScheduler
	}
	return &Controller{
		window:   window,
		resolve:  resolve,
		apply:    apply,
		schedule: schedule,
		rows:     make(map[int]*rowLookup),
	}
}

func (c *Controller) row(idx int) *rowLookup {
	r, ok := c.rows[idx]
	if !ok {
		r = &rowLookup{}
		c.rows[idx] = r
	}
	return r
}

// Edit records new text for row and restarts its quiescence window. Blank
// text cancels the pending lookup and leaves the row idle.
func (c *Controller) Edit(row int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editLocked(row, text)
}

// editLocked is Edit with c.mu already held.
func (c *Controller) editLocked(row int, text string) {
	if c.closed {
		return
	}

	r := c.row(row)
	r.seq++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if strings.TrimSpace(text) == "" {
		r.state = Idle
		return
	}

	seq := r.seq
	r.state = PendingLookup
	r.timer = c.schedule(c.window, func() { c.fire(row, seq, text) })
}

func (c *Controller) fire(row int, seq uint64, text string) {
	c.mu.Lock()
	r, ok := c.rows[row]
	if c.closed || !ok || r.seq != seq {
		c.mu.Unlock()
		return
	}
	r.timer = nil
	r.state = Resolving
	c.mu.Unlock()

	match, found := c.resolve(context.Background(), text)

	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok = c.rows[row]
	if c.closed || !ok || r.seq != seq {
		return
	}
	if !found {
		r.state = Idle
		return
	}
	r.state = Resolved
	c.apply(row, text, match)
}

// Cancel stops pending lookups for rows and invalidates any in-flight result.
func (c *Controller) Cancel(rows ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked(rows...)
}

func (c *Controller) cancelLocked(rows ...int) {
	for _, idx := range rows {
		r, ok := c.rows[idx]
		if !ok {
			continue
		}
		r.seq++
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		r.state = Idle
	}
}

// Close cancels every pending timer. Later edits are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, r := range c.rows {
		r.seq++
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		r.state = Idle
	}
}

// State returns the lookup state of row.
func (c *Controller) State(row int) RowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.rows[row]; ok {
		return r.state
	}
	return Idle
}
