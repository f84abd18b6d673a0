package visibility

import (
	"github.com/arbor-app/arbor/pkg/errors"
	"github.com/arbor-app/arbor/pkg/platform"
)

// platformObserver adapts the host viewport service to the Observer
// interface. Construction configures the host threshold and subscribes to
// the visibility event stream; the subscription is never removed, matching
// the process lifetime of the shared tracker.
type platformObserver struct{}

func newPlatformObserver(deliver func(entries []Entry)) Observer {
	if err := platform.Viewport.Configure(Threshold); err != nil {
		reportObserverError("visibility.configure", err)
	}

	platform.Viewport.AddHandler(func(raw []platform.ViewportEntry) {
		entries := make([]Entry, len(raw))
		for i, e := range raw {
			entries[i] = Entry{
				Target:       e.Target,
				Ratio:        e.Ratio,
				Intersecting: e.Intersecting,
			}
		}
		deliver(entries)
	})

	return platformObserver{}
}

func (platformObserver) Observe(target int64) {
	if err := platform.Viewport.Observe(target); err != nil {
		reportObserverError("visibility.observe", err)
	}
}

func (platformObserver) Unobserve(target int64) {
	if err := platform.Viewport.Unobserve(target); err != nil {
		reportObserverError("visibility.unobserve", err)
	}
}

// reportObserverError logs host failures. Tracking is best-effort
// notification, so errors are reported and otherwise ignored.
func reportObserverError(op string, err error) {
	errors.Report(&errors.AppError{
		Op:      op,
		Kind:    errors.KindPlatform,
		Channel: "arbor/viewport",
		Err:     err,
	})
}
