package platform

import (
	"sync"

	"github.com/arbor-app/arbor/pkg/errors"
)

// Lifecycle provides app lifecycle state management.
var Lifecycle = &LifecycleService{
	events: NewEventChannel("arbor/lifecycle/events"),
	state:  LifecycleStateResumed,
}

// LifecycleService tracks the host application lifecycle.
type LifecycleService struct {
	events   *EventChannel
	state    LifecycleState
	handlers []LifecycleHandler
	sub      *Subscription
	mu       sync.RWMutex
}

// LifecycleState represents the current app lifecycle state.
type LifecycleState string

const (
	// LifecycleStateResumed indicates the app is visible and responding to user input.
	LifecycleStateResumed LifecycleState = "resumed"

	// LifecycleStateInactive indicates the app is transitioning
	// (e.g., app switcher, system dialog).
	LifecycleStateInactive LifecycleState = "inactive"

	// LifecycleStatePaused indicates the app is not visible but still running.
	LifecycleStatePaused LifecycleState = "paused"

	// LifecycleStateDetached indicates the app is still hosted but detached from any view.
	LifecycleStateDetached LifecycleState = "detached"
)

// LifecycleHandler is called when lifecycle state changes.
type LifecycleHandler func(state LifecycleState)

// State returns the current lifecycle state.
func (l *LifecycleService) State() LifecycleState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsResumed returns true if the app is in the resumed state.
func (l *LifecycleService) IsResumed() bool {
	return l.State() == LifecycleStateResumed
}

// AddHandler registers a handler to be called on lifecycle changes.
// The first handler starts the host event stream. Returns a function that
// removes the handler.
func (l *LifecycleService) AddHandler(handler LifecycleHandler) func() {
	l.mu.Lock()
	l.handlers = append(l.handlers, handler)
	index := len(l.handlers) - 1
	needsListen := l.sub == nil
	l.mu.Unlock()

	if needsListen {
		l.listen()
	}

	return func() {
		l.mu.Lock()
		if index < len(l.handlers) {
			l.handlers[index] = nil
		}
		l.mu.Unlock()
	}
}

// listen subscribes to the host lifecycle event stream.
func (l *LifecycleService) listen() {
	sub := l.events.Listen(EventHandler{
		OnEvent: func(data any) {
			m, ok := data.(map[string]any)
			if !ok {
				l.reportParseError(data)
				return
			}
			state, ok := m["state"].(string)
			if !ok {
				l.reportParseError(data)
				return
			}
			l.updateState(LifecycleState(state))
		},
		OnError: func(err error) {
			errors.Report(&errors.AppError{
				Op:      "lifecycle.streamError",
				Kind:    errors.KindPlatform,
				Channel: l.events.Name(),
				Err:     err,
			})
		},
	})

	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()
}

func (l *LifecycleService) reportParseError(data any) {
	errors.Report(&errors.AppError{
		Op:      "lifecycle.parseEvent",
		Kind:    errors.KindParsing,
		Channel: l.events.Name(),
		Err: &errors.ParseError{
			Channel:  l.events.Name(),
			DataType: "LifecycleState",
			Got:      data,
		},
	})
}

// updateState updates the lifecycle state and notifies handlers.
func (l *LifecycleService) updateState(newState LifecycleState) {
	l.mu.Lock()
	if l.state == newState {
		l.mu.Unlock()
		return
	}
	l.state = newState
	handlers := make([]LifecycleHandler, len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h(newState)
		}
	}
}

// reset restores the service to its initial state. Called by ResetForTest.
func (l *LifecycleService) reset() {
	l.mu.Lock()
	l.state = LifecycleStateResumed
	l.handlers = l.handlers[:0]
	l.sub = nil
	l.mu.Unlock()
}
