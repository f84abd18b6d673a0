package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arbor-app/arbor/pkg/platform"
)

// fakeScope stands in for a widget state during hook tests.
type fakeScope struct {
	mu        sync.Mutex
	setStates int
	cleanups  []func()
}

func (s *fakeScope) OnDispose(cleanup func()) func() {
	s.cleanups = append(s.cleanups, cleanup)
	return func() {}
}

func (s *fakeScope) SetState(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		fn()
	}
	s.setStates++
}

func (s *fakeScope) rebuilds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStates
}

func (s *fakeScope) dispose() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestUseLoadsAndRebuilds(t *testing.T) {
	cache := NewCache(time.Minute)
	scope := &fakeScope{}

	res := Use[string](scope, cache, "greeting", func(ctx context.Context) (any, error) {
		return "hello", nil
	})

	waitFor(t, "resource to load", res.Ready)
	if res.Value() != "hello" {
		t.Errorf("unexpected value %q", res.Value())
	}
	if res.Loading() {
		t.Error("resource should settle after the fetch")
	}
	if scope.rebuilds() == 0 {
		t.Error("state should rebuild when the resource changes")
	}
}

func TestUseServesFreshCacheSynchronously(t *testing.T) {
	cache := NewCache(time.Minute)
	cache.Get(testContext(t), "k", func(ctx context.Context) (any, error) {
		return 42, nil
	})
	scope := &fakeScope{}

	res := Use[int](scope, cache, "k", func(ctx context.Context) (any, error) {
		t.Error("fresh entry should not refetch")
		return nil, nil
	})

	if !res.Ready() || res.Value() != 42 {
		t.Errorf("expected synchronous cached value, got ready=%v value=%v", res.Ready(), res.Value())
	}
	if res.Loading() {
		t.Error("fresh cache hit should not start a fetch")
	}
}

func TestUseServesStaleWhileRevalidating(t *testing.T) {
	clock := newFakeClock()
	cache := NewCache(time.Minute, WithClock(clock.Now))
	cache.Get(testContext(t), "k", func(ctx context.Context) (any, error) {
		return "old", nil
	})
	clock.Advance(2 * time.Minute)

	release := make(chan struct{})
	scope := &fakeScope{}
	res := Use[string](scope, cache, "k", func(ctx context.Context) (any, error) {
		<-release
		return "new", nil
	})

	if !res.Ready() || res.Value() != "old" {
		t.Fatalf("stale value should be readable immediately, got %q", res.Value())
	}
	if !res.Loading() {
		t.Error("a revalidation should be in flight")
	}

	close(release)
	waitFor(t, "revalidated value", func() bool { return res.Value() == "new" })
	if res.Loading() {
		t.Error("resource should settle after revalidation")
	}
}

func TestUseSurfacesFetchError(t *testing.T) {
	cache := NewCache(time.Minute)
	scope := &fakeScope{}
	boom := errors.New("backend down")

	res := Use[string](scope, cache, "k", func(ctx context.Context) (any, error) {
		return nil, boom
	})

	waitFor(t, "fetch error", func() bool { return res.Err() != nil })
	if !errors.Is(res.Err(), boom) {
		t.Errorf("unexpected error %v", res.Err())
	}
	if res.Ready() {
		t.Error("a failed first fetch should not mark the resource ready")
	}
}

func TestDisposeStopsRebuilds(t *testing.T) {
	cache := NewCache(time.Minute)
	scope := &fakeScope{}
	release := make(chan struct{})

	res := Use[string](scope, cache, "k", func(ctx context.Context) (any, error) {
		<-release
		return "late", nil
	})

	scope.dispose()
	before := scope.rebuilds()
	close(release)

	waitFor(t, "fetch to finish", res.Ready)
	if got := scope.rebuilds(); got != before {
		t.Errorf("disposed state rebuilt: %d -> %d", before, got)
	}
}

func TestRebuildsHopThroughDispatcher(t *testing.T) {
	platform.SetupTestBridge(t.Cleanup)

	var mu sync.Mutex
	dispatched := 0
	platform.RegisterDispatch(func(callback func()) {
		mu.Lock()
		dispatched++
		mu.Unlock()
		callback()
	})

	cache := NewCache(time.Minute)
	scope := &fakeScope{}
	res := Use[string](scope, cache, "k", func(ctx context.Context) (any, error) {
		return "hello", nil
	})

	waitFor(t, "resource to load", res.Ready)
	waitFor(t, "rebuild", func() bool { return scope.rebuilds() > 0 })
	mu.Lock()
	defer mu.Unlock()
	if dispatched == 0 {
		t.Error("rebuilds should be scheduled through the registered dispatcher")
	}
}
