package selection

import (
	"sync"
	"time"
)

const (
	// WeeklyCap is the number of selections after which a volunteer is no
	// longer offered for the rest of the window.
	WeeklyCap = 2

	// Window is the rolling counting period.
	Window = 7 * 24 * time.Hour
)

// Tracker holds process-wide selection counts for the current weekly window.
// All methods are safe for concurrent use. An Available read and a later
// Select are not one atomic step: a volunteer can cross the cap between the
// two, in which case the extra increment still counts toward the window.
type Tracker struct {
	mu          sync.Mutex
	counts      map[string]int
	windowStart time.Time
	seenTokens  map[string]struct{}

	nowFunc func() time.Time
}

// NewTracker creates a tracker with an empty count map and a window starting now.
func NewTracker() *Tracker {
	t := &Tracker{
		counts:     make(map[string]int),
		seenTokens: make(map[string]struct{}),
		nowFunc:    time.Now,
	}
	t.windowStart = t.nowFunc()
	return t
}

// CheckWindow performs the lazy weekly reset. If the window is 7 days or
// older, all counts and interaction tokens are cleared, the window restarts
// now, and true is returned so the caller can surface a notice. Must run
// before any availability read so the cap reflects the fresh window.
func (t *Tracker) CheckWindow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkWindowLocked()
}

func (t *Tracker) checkWindowLocked() bool {
	now := t.nowFunc()
	if now.Sub(t.windowStart) < Window {
		return false
	}
	t.counts = make(map[string]int)
	t.seenTokens = make(map[string]struct{})
	t.windowStart = now
	return true
}

// Sync inserts every roster name missing from the count map at zero. Names
// that have left the roster are kept on purpose: their counts persist until
// the next weekly reset.
func (t *Tracker) Sync(names []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range names {
		if _, ok := t.counts[name]; !ok {
			t.counts[name] = 0
		}
	}
}

// Available returns the set of names still under the weekly cap.
func (t *Tracker) Available() map[string]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	available := make(map[string]struct{}, len(t.counts))
	for name, count := range t.counts {
		if count < WeeklyCap {
			available[name] = struct{}{}
		}
	}
	return available
}

// Count returns the number of selections recorded for name this window.
func (t *Tracker) Count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[name]
}

// WindowStart returns the start of the current counting window.
func (t *Tracker) WindowStart() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.windowStart
}

// Select records one selection for name, creating the entry at 1 if absent.
// A non-empty interactionID that was already seen this window makes the call
// a no-op, so a doubled click or rerendered button cannot double-count.
// Returns the resulting count and whether the increment was applied.
func (t *Tracker) Select(name, interactionID string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.checkWindowLocked()

	if interactionID != "" {
		if _, dup := t.seenTokens[interactionID]; dup {
			return t.counts[name], false
		}
		t.seenTokens[interactionID] = struct{}{}
	}

	t.counts[name]++
	return t.counts[name], true
}
