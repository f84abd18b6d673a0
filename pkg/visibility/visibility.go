// Package visibility provides a shared viewport-visibility tracking service.
//
// Many independent widgets want to know when their element scrolls into view.
// Rather than one observation context per widget, the package multiplexes all
// requests onto a single shared observer: a process-wide primitive configured
// once with a fixed intersection threshold. Each tracked target carries one
// callback and a persistence flag; one-shot subscriptions are removed after
// their first qualifying visibility event, persistent ones fire on every
// entry until explicitly untracked.
package visibility

import (
	"sync"
	"sync/atomic"
)

// Threshold is the intersection ratio the shared observer is configured with.
// It controls the observer's event cadence, not the fire condition: any
// entry that is intersecting or has a nonzero ratio fires the callback.
const Threshold = 0.15

// Target is an opaque handle to an observable UI element.
// Targets are compared by reference identity.
type Target struct {
	id int64
}

var nextTargetID atomic.Int64

// NewTarget allocates a fresh target handle.
func NewTarget() *Target {
	return &Target{id: nextTargetID.Add(1)}
}

// ID returns the host-side identifier for the target.
func (t *Target) ID() int64 {
	return t.id
}

// Entry is one visibility report for an observed target.
type Entry struct {
	// Target is the identifier of the observed element.
	Target int64
	// Ratio is the fraction of the target inside the viewport.
	Ratio float64
	// Intersecting reports whether the observer considers the target visible.
	// Observers may report true with a zero ratio at boundary crossings, so
	// both fields feed the fire condition.
	Intersecting bool
}

// Observer is the underlying visibility-observation primitive. It is
// constructed once per Tracker with a delivery callback for batched entries.
type Observer interface {
	Observe(target int64)
	Unobserve(target int64)
}

// ObserverFactory constructs an Observer that reports entries through deliver.
type ObserverFactory func(deliver func(entries []Entry)) Observer

// subscription pairs a target's callback with its persistence flag.
type subscription struct {
	onVisible  func()
	persistent bool
}

// Tracker multiplexes visibility subscriptions onto one shared Observer.
//
// The observer is constructed lazily on the first Track call and lives for
// the lifetime of the Tracker. At most one subscription exists per target;
// tracking an already-tracked target replaces its callback and flag. The
// registry's key set always equals the observer's observed-target set.
type Tracker struct {
	mu       sync.Mutex
	factory  ObserverFactory
	observer Observer
	registry map[*Target]subscription
	byID     map[int64]*Target
}

// NewTracker creates a Tracker that builds its observer with factory on
// first use. A nil factory uses the platform viewport observer.
func NewTracker(factory ObserverFactory) *Tracker {
	if factory == nil {
		factory = newPlatformObserver
	}
	return &Tracker{
		factory:  factory,
		registry: make(map[*Target]subscription),
		byID:     make(map[int64]*Target),
	}
}

// Track registers onVisible to fire when target enters the viewport.
//
// A nil target is a no-op: no subscription is created and the shared
// observer is not constructed. If target is already tracked, its callback
// and persistence flag are replaced in place. With persistent false the
// subscription is one-shot: it is removed before its first fire so the
// callback cannot be re-entered by a near-simultaneous second event.
func (t *Tracker) Track(target *Target, onVisible func(), persistent bool) {
	if target == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.observer == nil {
		t.observer = t.factory(t.deliver)
	}

	_, tracked := t.registry[target]
	t.registry[target] = subscription{onVisible: onVisible, persistent: persistent}
	if !tracked {
		t.byID[target.id] = target
		t.observer.Observe(target.id)
	}
}

// Untrack removes target's subscription and stops observation, regardless of
// its persistence flag. Untracking an unknown or nil target is a no-op.
// After Untrack returns, no further callback delivery occurs for the target;
// entries already queued by the observer are silently dropped.
func (t *Tracker) Untrack(target *Target) {
	if target == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.registry[target]; !ok {
		return
	}
	delete(t.registry, target)
	delete(t.byID, target.id)
	t.observer.Unobserve(target.id)
}

// IsTracked reports whether target currently has an active subscription.
func (t *Tracker) IsTracked(target *Target) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.registry[target]
	return ok
}

// TrackedCount returns the number of active subscriptions.
func (t *Tracker) TrackedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.registry)
}

// deliver processes one batch of entries from the observer. Entries for
// untracked targets are dropped. Qualifying one-shot subscriptions are
// removed and unobserved before their callback is invoked.
func (t *Tracker) deliver(entries []Entry) {
	for _, entry := range entries {
		// The 0.15 threshold is advisory cadence for the observer, not a
		// gate: any nonzero visibility fires, and observers may report
		// intersecting with a zero ratio at boundary crossings.
		if !entry.Intersecting && entry.Ratio <= 0 {
			continue
		}

		t.mu.Lock()
		target, known := t.byID[entry.Target]
		if !known {
			t.mu.Unlock()
			continue
		}
		sub, ok := t.registry[target]
		if !ok {
			t.mu.Unlock()
			continue
		}
		if !sub.persistent {
			delete(t.registry, target)
			delete(t.byID, target.id)
			t.observer.Unobserve(target.id)
		}
		t.mu.Unlock()

		if sub.onVisible != nil {
			sub.onVisible()
		}
	}
}

// Shared tracker singleton. Constructed on first use and never torn down.
var (
	shared   *Tracker
	sharedMu sync.Mutex
)

// sharedTracker returns the process-wide Tracker, creating it if needed.
func sharedTracker() *Tracker {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = NewTracker(nil)
	}
	return shared
}

// Track registers onVisible on the shared process-wide tracker.
func Track(target *Target, onVisible func(), persistent bool) {
	if target == nil {
		// Skip the singleton lookup entirely: a nil target must not
		// construct the shared observer as a side effect.
		return
	}
	sharedTracker().Track(target, onVisible, persistent)
}

// Untrack removes target from the shared process-wide tracker.
func Untrack(target *Target) {
	if target == nil {
		return
	}
	sharedMu.Lock()
	t := shared
	sharedMu.Unlock()
	if t == nil {
		return
	}
	t.Untrack(target)
}

// ResetForTest discards the shared tracker so the next Track call builds a
// fresh observer. Only call this from tests.
func ResetForTest() {
	sharedMu.Lock()
	shared = nil
	sharedMu.Unlock()
}
