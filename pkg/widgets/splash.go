package widgets

import (
	"time"

	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/platform"
)

// Splash shows Placeholder until the app is ready AND a minimum duration has
// elapsed, then swaps to Child. The minimum keeps the splash from flashing
// when startup is fast.
type Splash struct {
	core.StatefulBase
	// MinimumDuration is how long the splash stays up even if Ready sooner.
	MinimumDuration time.Duration
	// Ready reports whether the content behind the splash can be shown.
	Ready bool
	// Placeholder is shown while the splash is up.
	Placeholder core.Widget
	// Child is shown once the splash comes down.
	Child core.Widget
	// OnFinished is called once, when the splash comes down.
	OnFinished func()
}

func (s Splash) CreateState() core.State {
	return &splashState{initial: s}
}

type splashState struct {
	core.StateBase
	initial  Splash
	elapsed  bool
	notified bool
	timer    *time.Timer
}

func (s *splashState) current() Splash {
	if e := s.Element(); e != nil {
		return e.Widget().(Splash)
	}
	return s.initial
}

func (s *splashState) InitState() {
	if s.initial.MinimumDuration <= 0 {
		s.elapsed = true
		s.maybeFinish()
		return
	}
	s.timer = time.AfterFunc(s.initial.MinimumDuration, func() {
		done := func() {
			s.SetState(func() { s.elapsed = true })
			s.maybeFinish()
		}
		if !platform.Dispatch(done) {
			done()
		}
	})
	s.OnDispose(func() { s.timer.Stop() })
}

func (s *splashState) DidUpdateWidget(old core.StatefulWidget) {
	s.maybeFinish()
}

// maybeFinish fires OnFinished the first time both gates are open.
func (s *splashState) maybeFinish() {
	w := s.current()
	if !s.elapsed || !w.Ready || s.notified {
		return
	}
	s.notified = true
	if w.OnFinished != nil {
		w.OnFinished()
	}
}

func (s *splashState) Build(ctx core.BuildContext) core.Widget {
	w := ctx.Widget().(Splash)
	if s.elapsed && w.Ready {
		return w.Child
	}
	return w.Placeholder
}
