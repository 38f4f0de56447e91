package advisor

import (
	"sync"
	"time"
)

// Debouncer suppresses repeat notifications for a standing recommendation.
// It owns the last-notified identity exclusively; no other component reads
// or writes it. State lives for the process lifetime and never resets on
// its own; only a different recommendation target (or the optional
// renotify interval) re-arms it, so an alternative that drops out of a
// scan and returns is not announced twice.
//
// Debouncer is safe for concurrent use.
type Debouncer struct {
	mu             sync.Mutex
	lastNotifiedID string
	lastNotifiedAt time.Time

	renotifyAfter time.Duration
	now           func() time.Time // injectable for tests
}

// NewDebouncer returns a Debouncer. renotifyAfter of zero means a standing
// recommendation is announced exactly once; a positive value re-surfaces
// it after that long without a change.
func NewDebouncer(renotifyAfter time.Duration) *Debouncer {
	return &Debouncer{
		renotifyAfter: renotifyAfter,
		now:           time.Now,
	}
}

// ShouldNotify reports whether res warrants a notification, recording the
// recommendation as announced only when it returns true.
func (d *Debouncer) ShouldNotify(res SelectionResult) bool {
	if !res.RecommendSwitch || res.BestAlternative == nil {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := res.BestAlternative.ID
	if id == d.lastNotifiedID {
		if d.renotifyAfter <= 0 || d.now().Sub(d.lastNotifiedAt) < d.renotifyAfter {
			return false
		}
	}

	d.lastNotifiedID = id
	d.lastNotifiedAt = d.now()
	return true
}
