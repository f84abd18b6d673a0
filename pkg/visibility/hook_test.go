package visibility

import (
	"testing"

	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/platform"
)

// StateBase must satisfy Scope so hooks can take states directly.
var _ Scope = &core.StateBase{}

// installFakeShared swaps the shared tracker for one driven by a fake
// observer and returns the environment.
func installFakeShared(t *testing.T) *fakeEnv {
	t.Helper()
	env := newFakeEnv()
	sharedMu.Lock()
	shared = env.tracker
	sharedMu.Unlock()
	t.Cleanup(ResetForTest)
	return env
}

func TestUseUntracksOnDispose(t *testing.T) {
	env := installFakeShared(t)
	scope := &core.StateBase{}
	target := NewTarget()

	Use(scope, target, func() {}, true)
	if !env.tracker.IsTracked(target) {
		t.Fatal("Use should track the target")
	}

	scope.Dispose()
	if env.tracker.IsTracked(target) {
		t.Error("scope teardown should untrack the target")
	}
	if len(env.observer.observed) != 0 {
		t.Error("observer should have no targets after teardown")
	}
}

func TestUseNilTargetTracksNothing(t *testing.T) {
	env := installFakeShared(t)
	scope := &core.StateBase{}

	h := Use(scope, nil, func() {}, false)

	if env.tracker.TrackedCount() != 0 {
		t.Error("nil target should not create a subscription")
	}
	if h.Target() != nil {
		t.Error("handle should carry a nil target")
	}
	scope.Dispose()
}

func TestRetrackSwitchesTargets(t *testing.T) {
	env := installFakeShared(t)
	scope := &core.StateBase{}
	first, second := NewTarget(), NewTarget()

	staleFired := 0
	h := Use(scope, first, func() { staleFired++ }, true)

	fresh := 0
	h.Retrack(second, func() { fresh++ }, true)

	if env.tracker.IsTracked(first) {
		t.Error("previous target should be untracked before the new one is tracked")
	}
	if !env.tracker.IsTracked(second) {
		t.Error("new target should be tracked")
	}

	// An event for the old target must hit nothing.
	env.deliver([]Entry{visibleEntry(first)})
	if staleFired != 0 {
		t.Error("stale callback fired after retrack")
	}

	env.deliver([]Entry{visibleEntry(second)})
	if fresh != 1 {
		t.Errorf("expected new callback to fire once, got %d", fresh)
	}

	// Teardown must remove the target the handle currently points at.
	scope.Dispose()
	if env.tracker.IsTracked(second) {
		t.Error("dispose should untrack the retracked target")
	}
}

func TestRetrackToNil(t *testing.T) {
	env := installFakeShared(t)
	scope := &core.StateBase{}
	target := NewTarget()

	h := Use(scope, target, func() {}, false)
	h.Retrack(nil, nil, false)

	if env.tracker.TrackedCount() != 0 {
		t.Error("retracking to nil should leave nothing tracked")
	}
	scope.Dispose()
}

func TestPackageLevelNilTargetNeverBuildsShared(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	Track(nil, func() {}, false)
	Untrack(nil)

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		t.Error("nil-target calls must not construct the shared tracker")
	}
}

// End-to-end through the platform layer: entries arrive over the viewport
// event channel and reach callbacks registered on the shared tracker.
func TestSharedTrackerOverPlatformChannel(t *testing.T) {
	platform.SetupTestBridge(t.Cleanup)
	ResetForTest()
	t.Cleanup(ResetForTest)

	target := NewTarget()
	fired := 0
	Track(target, func() { fired++ }, false)

	payload, err := platform.DefaultCodec.Encode(map[string]any{
		"entries": []map[string]any{
			{"target": target.ID(), "ratio": 0.4, "intersecting": true},
		},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := platform.HandleEvent("arbor/viewport/events", payload); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if fired != 1 {
		t.Errorf("expected 1 fire through the platform channel, got %d", fired)
	}
}
