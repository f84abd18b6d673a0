package visibility

// Scope is the caller-controlled lifetime boundary a subscription is tied
// to. core.StateBase satisfies it.
type Scope interface {
	// OnDispose registers a cleanup function to run when the scope ends and
	// returns a function that unregisters it.
	OnDispose(cleanup func()) func()
}

// Handle is a scope's live registration with the shared tracker. It follows
// the target currently tracked on the scope's behalf, so teardown always
// removes the right one even after retracking.
type Handle struct {
	target *Target
}

// Use tracks target on the shared tracker for the lifetime of the scope.
// Whatever target the returned handle points at when the scope is disposed
// is untracked unconditionally, whether or not the callback has fired.
//
// Call it from InitState:
//
//	func (s *cardState) InitState() {
//	    s.target = visibility.NewTarget()
//	    s.tracking = visibility.Use(s, s.target, s.onFirstSeen, false)
//	}
//
// When the tracked target, callback, or persistence flag changes across
// widget updates, call Handle.Retrack from DidUpdateWidget rather than Use
// again: Use would stack a second teardown on the same scope.
func Use(s Scope, target *Target, onVisible func(), persistent bool) *Handle {
	h := &Handle{target: target}
	Track(target, onVisible, persistent)
	s.OnDispose(func() {
		Untrack(h.target)
	})
	return h
}

// Retrack switches the handle's registration to a new target, callback, or
// persistence flag. The previous target is fully untracked before the new
// one is tracked, so no orphaned subscription can keep a stale callback
// alive. A nil next target leaves the handle tracking nothing.
func (h *Handle) Retrack(next *Target, onVisible func(), persistent bool) {
	Untrack(h.target)
	h.target = next
	Track(next, onVisible, persistent)
}

// Target returns the target the handle currently tracks, which may be nil.
func (h *Handle) Target() *Target {
	return h.target
}
