package ops

import (
	"database/sql"
	"sync"
	"time"

	"github.com/sproutnotes/sprout/internal/idea"
)

// Autosave coalesces rapid title/details edits into a single persisted
// write after an inactivity window (trailing debounce: only the final
// state in the window is persisted). The in-memory value updates
// immediately on every edit; the store write happens when the window
// elapses, or synchronously on Flush/Close so no edit is silently
// lost on teardown.
type Autosave struct {
	database *sql.DB
	id       string
	seed     *idea.Idea
	delay    time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	title   *string
	details *string
	lastErr error
	closed  bool
}

// NewAutosave creates a controller for one idea. draft carries the
// in-memory record for ideas not yet persisted (a transient draft); it
// may be nil for ideas already in the store.
func NewAutosave(database *sql.DB, id string, draft *idea.Idea, delay time.Duration) *Autosave {
	return &Autosave{
		database: database,
		id:       id,
		seed:     draft,
		delay:    delay,
	}
}

// SetTitle records a title edit and re-arms the countdown.
func (a *Autosave) SetTitle(s string) {
	a.mu.Lock()
	a.title = &s
	a.arm()
	a.mu.Unlock()

	if a.delay <= 0 {
		_ = a.Flush()
	}
}

// SetDetails records a details edit and re-arms the countdown.
func (a *Autosave) SetDetails(s string) {
	a.mu.Lock()
	a.details = &s
	a.arm()
	a.mu.Unlock()

	if a.delay <= 0 {
		_ = a.Flush()
	}
}

// arm cancels and restarts the countdown. Caller holds a.mu.
func (a *Autosave) arm() {
	if a.closed || a.delay <= 0 {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.Flush(); err != nil {
			a.mu.Lock()
			a.lastErr = err
			a.mu.Unlock()
		}
	})
}

// Flush persists the pending edits, if any, reading the latest stored
// record at flush time rather than a value captured when the countdown
// was armed.
func (a *Autosave) Flush() error {
	a.mu.Lock()
	title, details := a.title, a.details
	a.title, a.details = nil, nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if title == nil && details == nil {
		return nil
	}

	_, err := Apply(a.database, a.id, a.seed, func(i *idea.Idea) {
		if title != nil {
			i.Title = *title
		}
		if details != nil {
			i.Details = *details
		}
	})
	return err
}

// Close flushes any pending write synchronously and stops the
// controller. It must be called on teardown; after Close further edits
// are not persisted.
func (a *Autosave) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	return a.Flush()
}

// Err returns the last error from a timer-fired flush.
func (a *Autosave) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
