package app

import (
	"context"
	"time"

	"github.com/arbor-app/arbor/pkg/api"
	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/errors"
	"github.com/arbor-app/arbor/pkg/platform"
	"github.com/arbor-app/arbor/pkg/query"
	"github.com/arbor-app/arbor/pkg/session"
	"github.com/arbor-app/arbor/pkg/update"
	"github.com/arbor-app/arbor/pkg/widgets"
)

// App is the root widget of the Arbor shell. It owns the session controller,
// the API client, the query cache, and the update checker, and exposes the
// session to the rest of the tree through session.Scope.
type App struct {
	core.StatefulBase
	Config Config
}

func (a App) CreateState() core.State {
	return &appState{config: a.Config}
}

type appState struct {
	core.StateBase
	config  Config
	session *session.Controller
	client  *api.Client
	cache   *query.Cache
	checker *update.Checker
	ready   *core.Managed[bool]
}

func (s *appState) InitState() {
	s.session = session.NewController()
	core.UseListenable(s, s.session)

	s.client = api.NewClient(s.config.API.BaseURL,
		api.WithTokenSource(s.session.Token),
		api.WithRateLimit(s.config.API.RequestsPerSecond, s.config.API.Burst),
	)
	s.cache = query.NewCache(s.config.Cache.TTL.Std())

	s.checker = core.UseController(s, func() *update.Checker {
		return update.NewChecker(s.config.Update.FeedURL, Version,
			update.WithInterval(s.config.Update.Interval.Std()))
	})
	if s.config.Update.FeedURL != "" {
		s.checker.Start()
	}

	s.ready = core.NewManaged(s, false)
	go s.bootstrap()
}

// bootstrap warms the identity cache, then lifts the splash. A failed warmup
// is reported but never blocks startup.
func (s *appState) bootstrap() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.cache.Get(ctx, "identity", func(ctx context.Context) (any, error) {
		return s.client.Identity(ctx)
	}); err != nil {
		appErr, ok := err.(*errors.AppError)
		if !ok {
			appErr = &errors.AppError{Op: "app.bootstrap", Kind: errors.KindUnknown, Err: err}
		}
		errors.Report(appErr)
	}

	markReady := func() { s.ready.Set(true) }
	if !platform.Dispatch(markReady) {
		markReady()
	}
}

func (s *appState) Build(ctx core.BuildContext) core.Widget {
	return session.Scope{
		Controller: s.session,
		Child: widgets.Splash{
			MinimumDuration: s.config.Splash.MinimumDuration.Std(),
			Ready:           s.ready.Value(),
			Placeholder:     splashScreen{},
			Child: Shell{
				Config:  s.config,
				Client:  s.client,
				Cache:   s.cache,
				Checker: s.checker,
			},
		},
	}
}

// splashScreen is the branding shown while the shell boots.
type splashScreen struct {
	core.StatelessBase
}

func (splashScreen) Build(ctx core.BuildContext) core.Widget {
	return widgets.Container{
		Color: widgets.RGB(24, 49, 37),
		Child: widgets.Text{
			Content: "Arbor",
			Style:   widgets.TextStyle{Color: widgets.ColorWhite, Size: 32, Bold: true},
		},
	}
}
