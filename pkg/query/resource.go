package query

import (
	"context"
	"sync"

	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/platform"
)

// Resource holds the result of a keyed fetch and notifies listeners as it
// moves through loading, ready, and failed states. While a refresh is in
// flight a previously cached value stays readable (stale-while-revalidate).
type Resource[T any] struct {
	notifier *core.Notifier

	mu      sync.Mutex
	value   T
	err     error
	ready   bool
	loading bool
}

// NewResource creates an empty, non-loading resource.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{notifier: core.NewNotifier()}
}

// AddListener registers a change callback. Returns an unsubscribe function.
func (r *Resource[T]) AddListener(listener func()) func() {
	return r.notifier.AddListener(listener)
}

// Value returns the last successfully fetched value.
func (r *Resource[T]) Value() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Err returns the error from the most recent failed fetch, or nil.
func (r *Resource[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Ready reports whether a value has ever been loaded.
func (r *Resource[T]) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Loading reports whether a fetch is in flight.
func (r *Resource[T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *Resource[T]) setLoading() {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()
	r.notifier.NotifyListeners()
}

func (r *Resource[T]) complete(value T, err error) {
	r.mu.Lock()
	r.loading = false
	if err != nil {
		r.err = err
	} else {
		r.value = value
		r.err = nil
		r.ready = true
	}
	r.mu.Unlock()
	r.notifier.NotifyListeners()
}

// Load fetches the resource's value through the cache. A fresh cached value
// resolves synchronously; otherwise any stale value is published first and
// the fetch runs in the background.
func (r *Resource[T]) Load(cache *Cache, key string, fetch Fetcher) {
	if cached, ok, stale := cache.Peek(key); ok {
		if typed, matches := cached.(T); matches {
			r.complete(typed, nil)
			if !stale {
				return
			}
		}
	}

	r.setLoading()
	go func() {
		value, err := cache.Get(context.Background(), key, fetch)
		if err != nil {
			var zero T
			r.complete(zero, err)
			return
		}
		typed, _ := value.(T)
		r.complete(typed, nil)
	}()
}

// Scope is a widget state's lifetime boundary. core.StateBase satisfies it.
type Scope interface {
	OnDispose(cleanup func()) func()
	SetState(fn func())
}

// Use binds a keyed fetch to a widget state: it loads the value through the
// cache, rebuilds the state whenever the resource changes, and drops the
// subscription when the state is disposed. Call it from InitState.
//
//	func (s *membersState) InitState() {
//	    s.members = query.Use[[]api.Member](s, s.cache, "members", s.fetchMembers)
//	}
//
// Rebuilds hop through platform.Dispatch when a dispatcher is registered, so
// background fetch completions land on the UI thread.
func Use[T any](s Scope, cache *Cache, key string, fetch Fetcher) *Resource[T] {
	resource := NewResource[T]()

	unsub := resource.AddListener(func() {
		if !platform.Dispatch(func() { s.SetState(nil) }) {
			s.SetState(nil)
		}
	})
	s.OnDispose(unsub)

	resource.Load(cache, key, fetch)
	return resource
}
