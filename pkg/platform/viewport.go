package platform

import (
	"sync"

	"github.com/arbor-app/arbor/pkg/errors"
)

// Viewport exposes the host's viewport observation primitive. The host owns
// the actual geometry: the shell asks it to watch targets at a configured
// intersection threshold and receives batched visibility entries back.
var Viewport = &ViewportService{
	channel: NewMethodChannel("arbor/viewport"),
	events:  NewEventChannel("arbor/viewport/events"),
}

// ViewportEntry is one visibility report for an observed target.
type ViewportEntry struct {
	// Target is the host-side identifier of the observed element.
	Target int64
	// Ratio is the fraction of the target currently inside the viewport.
	Ratio float64
	// Intersecting reports whether the host considers the target visible.
	// Hosts may report true with a zero ratio at boundary crossings.
	Intersecting bool
}

// ViewportHandler receives batched visibility entries.
type ViewportHandler func(entries []ViewportEntry)

// ViewportService manages viewport observation over platform channels.
type ViewportService struct {
	channel  *MethodChannel
	events   *EventChannel
	handlers []ViewportHandler
	sub      *Subscription
	mu       sync.Mutex
}

// Configure sets the intersection-ratio threshold used by the host observer.
// The threshold controls event cadence, not whether an entry is delivered:
// the host reports every crossing of the configured ratio in either direction.
func (v *ViewportService) Configure(threshold float64) error {
	_, err := v.channel.Invoke("configure", map[string]any{"threshold": threshold})
	return err
}

// Observe asks the host to start watching a target.
func (v *ViewportService) Observe(target int64) error {
	_, err := v.channel.Invoke("observe", map[string]any{"target": target})
	return err
}

// Unobserve asks the host to stop watching a target.
func (v *ViewportService) Unobserve(target int64) error {
	_, err := v.channel.Invoke("unobserve", map[string]any{"target": target})
	return err
}

// AddHandler registers a handler for visibility entries. The first handler
// starts the host event stream. Returns a function that removes the handler.
func (v *ViewportService) AddHandler(handler ViewportHandler) func() {
	v.mu.Lock()
	v.handlers = append(v.handlers, handler)
	index := len(v.handlers) - 1
	needsListen := v.sub == nil
	v.mu.Unlock()

	if needsListen {
		v.listen()
	}

	return func() {
		v.mu.Lock()
		if index < len(v.handlers) {
			v.handlers[index] = nil
		}
		v.mu.Unlock()
	}
}

// listen subscribes to the host visibility event stream.
func (v *ViewportService) listen() {
	sub := v.events.Listen(EventHandler{
		OnEvent: func(data any) {
			entries, ok := parseViewportEvent(data)
			if !ok {
				errors.Report(&errors.AppError{
					Op:      "viewport.parseEvent",
					Kind:    errors.KindParsing,
					Channel: v.events.Name(),
					Err: &errors.ParseError{
						Channel:  v.events.Name(),
						DataType: "[]ViewportEntry",
						Got:      data,
					},
				})
				return
			}
			v.dispatch(entries)
		},
		OnError: func(err error) {
			errors.Report(&errors.AppError{
				Op:      "viewport.streamError",
				Kind:    errors.KindPlatform,
				Channel: v.events.Name(),
				Err:     err,
			})
		},
	})

	v.mu.Lock()
	v.sub = sub
	v.mu.Unlock()
}

// dispatch fans one batch of entries out to all registered handlers.
func (v *ViewportService) dispatch(entries []ViewportEntry) {
	v.mu.Lock()
	handlers := make([]ViewportHandler, len(v.handlers))
	copy(handlers, v.handlers)
	v.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h(entries)
		}
	}
}

// parseViewportEvent decodes the wire shape
// {"entries": [{"target": 1, "ratio": 0.4, "intersecting": true}, ...]}.
func parseViewportEvent(data any) ([]ViewportEntry, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	raw, ok := m["entries"].([]any)
	if !ok {
		return nil, false
	}

	entries := make([]ViewportEntry, 0, len(raw))
	for _, item := range raw {
		em, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		target, ok := em["target"].(float64)
		if !ok {
			return nil, false
		}
		entry := ViewportEntry{Target: int64(target)}
		if ratio, ok := em["ratio"].(float64); ok {
			entry.Ratio = ratio
		}
		if intersecting, ok := em["intersecting"].(bool); ok {
			entry.Intersecting = intersecting
		}
		entries = append(entries, entry)
	}
	return entries, true
}

// reset restores the service to its initial state. Called by ResetForTest.
func (v *ViewportService) reset() {
	v.mu.Lock()
	v.handlers = v.handlers[:0]
	v.sub = nil
	v.mu.Unlock()
}
