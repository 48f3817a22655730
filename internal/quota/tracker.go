// Package quota tracks forwarded request volume against a monthly limit.
//
// The counter is process-local and advisory: it starts at zero on every
// process start and resets once the configured window has elapsed since the
// last reset, not on calendar month boundaries.
package quota

import (
	"sync"
	"time"
)

const (
	// DefaultLimit leaves a margin under the upstream's 1,000,000 monthly credits.
	DefaultLimit = 950000

	// DefaultResetWindow approximates one month (30 days).
	DefaultResetWindow = 2592000 * time.Second
)

// Decision is the result of an admission check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Snapshot is a read-only view of the tracker state.
type Snapshot struct {
	Count      int64         `json:"count"`
	Limit      int64         `json:"limit"`
	Remaining  int64         `json:"remaining"`
	Window     time.Duration `json:"-"`
	EpochStart time.Time     `json:"epoch_start"`
	ResetAt    time.Time     `json:"reset_at"`
}

// Tracker owns the quota state. All mutation happens in Admit.
type Tracker struct {
	mu         sync.Mutex
	count      int64
	epochStart time.Time

	limit  int64
	window time.Duration
	clock  func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLimit overrides the request limit. Non-positive values are ignored.
func WithLimit(limit int64) Option {
	return func(t *Tracker) {
		if limit > 0 {
			t.limit = limit
		}
	}
}

// WithResetWindow overrides the reset window. Non-positive values are ignored.
func WithResetWindow(window time.Duration) Option {
	return func(t *Tracker) {
		if window > 0 {
			t.window = window
		}
	}
}

// WithClock replaces the time source.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// NewTracker creates a tracker with count zero and the epoch starting now.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		limit:  DefaultLimit,
		window: DefaultResetWindow,
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	t.epochStart = t.clock()
	return t
}

// Admit resets the window if it has elapsed, then admits the call when the
// count is below the limit. A denied call does not change the count.
func (t *Tracker) Admit() Decision {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	if now.Sub(t.epochStart) >= t.window {
		t.count = 0
		t.epochStart = now
	}

	if t.count >= t.limit {
		return Denied
	}
	t.count++
	return Allowed
}

// Snapshot returns the current state without side effects.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	remaining := t.limit - t.count
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{
		Count:      t.count,
		Limit:      t.limit,
		Remaining:  remaining,
		Window:     t.window,
		EpochStart: t.epochStart,
		ResetAt:    t.epochStart.Add(t.window),
	}
}

// Count returns the number of admitted calls in the current window.
func (t *Tracker) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Limit returns the configured request limit.
func (t *Tracker) Limit() int64 {
	return t.limit
}
