package core

import "sync"

// Listenable is anything that notifies registered listeners of changes.
type Listenable interface {
	// AddListener registers a change callback and returns a function that
	// removes it.
	AddListener(listener func()) func()
}

// Notifier is a basic Listenable implementation.
// Safe for concurrent use; listeners are invoked outside the lock.
type Notifier struct {
	mu        sync.Mutex
	listeners []func()
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// AddListener registers a change callback. Returns an unsubscribe function.
func (n *Notifier) AddListener(listener func()) func() {
	if listener == nil {
		return func() {}
	}
	n.mu.Lock()
	n.listeners = append(n.listeners, listener)
	index := len(n.listeners) - 1
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		if index < len(n.listeners) {
			n.listeners[index] = nil
		}
		n.mu.Unlock()
	}
}

// NotifyListeners invokes all registered listeners.
func (n *Notifier) NotifyListeners() {
	n.mu.Lock()
	listeners := make([]func(), len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l()
		}
	}
}

// ListenerCount returns the number of active listeners.
func (n *Notifier) ListenerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, l := range n.listeners {
		if l != nil {
			count++
		}
	}
	return count
}

// Observable holds a value and notifies typed listeners when it changes.
type Observable[T any] struct {
	mu        sync.Mutex
	value     T
	listeners []func(T)
}

// NewObservable creates an Observable with an initial value.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set updates the value and notifies listeners.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	o.value = value
	listeners := make([]func(T), len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(value)
		}
	}
}

// AddListener registers a typed change callback. Returns an unsubscribe function.
func (o *Observable[T]) AddListener(listener func(T)) func() {
	if listener == nil {
		return func() {}
	}
	o.mu.Lock()
	o.listeners = append(o.listeners, listener)
	index := len(o.listeners) - 1
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		if index < len(o.listeners) {
			o.listeners[index] = nil
		}
		o.mu.Unlock()
	}
}
