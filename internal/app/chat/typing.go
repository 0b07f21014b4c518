package chat

import (
	"sync"
	"time"
)

// TypingIdleTimeout is how long after the last keystroke the local typing flag stays raised.
const TypingIdleTimeout = 2 * time.Second

// TypingState is the state of the local typing indicator.
type TypingState int

const (
	TypingIdle TypingState = iota
	TypingActive
)

func (s TypingState) String() string {
	if s == TypingActive {
		return "active"
	}
	return "idle"
}

// TypingIndicator is the debounced "is typing" flag of the local user.
// It holds timestamps instead of timer handles: a keystroke at T makes the flag
// read true for [T, T+idle) and false from T+idle on.
type TypingIndicator struct {
	mu        sync.Mutex
	idle      time.Duration
	enteredAt time.Time
	lastInput time.Time
}

// NewTypingIndicator returns an idle indicator that falls back to idle after idle without input.
func NewTypingIndicator(idle time.Duration) *TypingIndicator {
	return &TypingIndicator{idle: idle}
}

// Keystroke records input at now, entering the active state or extending it.
func (t *TypingIndicator) Keystroke(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stateLocked(now) == TypingIdle {
		t.enteredAt = now
	}
	t.lastInput = now
}

// State returns the indicator state at now.
func (t *TypingIndicator) State(now time.Time) TypingState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stateLocked(now)
}

// Active reports whether the indicator is in the active state at now.
func (t *TypingIndicator) Active(now time.Time) bool {
	return t.State(now) == TypingActive
}

// EnteredAt returns when the latest active period began, zero if there never was one.
func (t *TypingIndicator) EnteredAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.enteredAt
}

// ExitAt returns when the latest active period ends (or ended), zero if there never was one.
func (t *TypingIndicator) ExitAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastInput.IsZero() {
		return time.Time{}
	}
	return t.lastInput.Add(t.idle)
}

// Reset drops back to idle immediately.
func (t *TypingIndicator) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enteredAt = time.Time{}
	t.lastInput = time.Time{}
}

func (t *TypingIndicator) stateLocked(now time.Time) TypingState {
	if t.lastInput.IsZero() || now.Before(t.lastInput) {
		return TypingIdle
	}
	if now.Sub(t.lastInput) < t.idle {
		return TypingActive
	}
	return TypingIdle
}
