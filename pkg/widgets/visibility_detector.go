package widgets

import (
	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/visibility"
)

// VisibilityDetector calls OnVisible when its child enters the viewport.
//
// Each mounted detector owns one visibility target, registered with the
// process-wide shared tracker for the element's lifetime. With Persistent
// false the callback fires at most once per mount; widget updates do not
// re-arm a fired subscription unless Persistent changes.
type VisibilityDetector struct {
	core.StatefulBase
	// OnVisible is called when the child becomes visible.
	OnVisible func()
	// Persistent keeps the subscription firing on every visibility event.
	// When false the subscription is one-shot.
	Persistent bool
	Child      core.Widget
}

func (v VisibilityDetector) CreateState() core.State {
	return &visibilityDetectorState{initial: v}
}

type visibilityDetectorState struct {
	core.StateBase
	initial  VisibilityDetector
	target   *visibility.Target
	tracking *visibility.Handle
}

func (s *visibilityDetectorState) InitState() {
	s.target = visibility.NewTarget()
	w := s.initial
	s.tracking = visibility.Use(s, s.target, func() { s.fire() }, w.Persistent)
}

func (s *visibilityDetectorState) current() VisibilityDetector {
	if e := s.Element(); e != nil {
		return e.Widget().(VisibilityDetector)
	}
	return s.initial
}

func (s *visibilityDetectorState) fire() {
	if onVisible := s.current().OnVisible; onVisible != nil {
		onVisible()
	}
}

func (s *visibilityDetectorState) DidUpdateWidget(old core.StatefulWidget) {
	prev := old.(VisibilityDetector)
	next := s.current()
	if prev.Persistent != next.Persistent {
		s.tracking.Retrack(s.target, func() { s.fire() }, next.Persistent)
	}
}

func (s *visibilityDetectorState) Build(ctx core.BuildContext) core.Widget {
	return ctx.Widget().(VisibilityDetector).Child
}

// TargetID returns the host-side identifier of a mounted detector's target.
// The host uses it to associate the rendered child view with the shared
// viewport observer.
func (s *visibilityDetectorState) TargetID() int64 {
	return s.target.ID()
}
