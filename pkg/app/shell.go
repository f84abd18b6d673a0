package app

import (
	"context"
	"fmt"

	"github.com/arbor-app/arbor/pkg/api"
	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/query"
	"github.com/arbor-app/arbor/pkg/update"
	"github.com/arbor-app/arbor/pkg/widgets"
)

// Shell is the tabbed scaffold behind the splash: an update banner when a new
// release is known, the current tab's body, and the tab bar.
type Shell struct {
	core.StatefulBase
	Config  Config
	Client  *api.Client
	Cache   *query.Cache
	Checker *update.Checker
}

func (s Shell) CreateState() core.State {
	return &shellState{initial: s}
}

type shellState struct {
	core.StateBase
	initial Shell
	tab     *core.Managed[int]
}

func (s *shellState) InitState() {
	s.tab = core.NewManaged(s, 0)
	if s.initial.Checker != nil {
		core.UseListenable(s, s.initial.Checker)
	}
}

func (s *shellState) current() Shell {
	if e := s.Element(); e != nil {
		return e.Widget().(Shell)
	}
	return s.initial
}

func (s *shellState) Build(ctx core.BuildContext) core.Widget {
	w := s.current()

	items := make([]widgets.TabItem, len(w.Config.Tabs))
	for i, tab := range w.Config.Tabs {
		items[i] = widgets.TabItem{Label: tab.Label, Icon: tab.Icon}
	}

	children := []core.Widget{}
	if w.Checker != nil {
		if release := w.Checker.Available(); release != nil {
			children = append(children, updateBanner{Release: release, OnDismiss: w.Checker.Acknowledge})
		}
	}
	children = append(children,
		s.body(w),
		widgets.TabBar{
			Items:           items,
			CurrentIndex:    s.tab.Value(),
			OnTap:           s.tab.Set,
			BackgroundColor: widgets.RGB(24, 49, 37),
			ActiveColor:     widgets.ColorWhite,
			InactiveColor:   widgets.RGBA(255, 255, 255, 0.6),
			IndicatorColor:  widgets.RGB(118, 200, 147),
			IndicatorHeight: 2,
			Height:          56,
		},
	)
	return widgets.Column{Children: children}
}

func (s *shellState) body(w Shell) core.Widget {
	switch s.tab.Value() {
	case 1:
		return NetworkTab{Client: w.Client, Cache: w.Cache}
	default:
		return HomeTab{Client: w.Client, Cache: w.Cache}
	}
}

// updateBanner announces an available release across the top of the shell.
type updateBanner struct {
	core.StatelessBase
	Release   *update.Release
	OnDismiss func()
}

func (b updateBanner) Build(ctx core.BuildContext) core.Widget {
	return widgets.Container{
		Color:   widgets.RGB(118, 200, 147),
		Padding: widgets.EdgeInsetsSymmetric(8, 12),
		Child: widgets.Row{
			Children: []core.Widget{
				widgets.Text{
					Content: fmt.Sprintf("Version %s is available", b.Release.Version),
					Style:   widgets.TextStyle{Color: widgets.ColorBlack, Size: 14},
				},
				widgets.Spacer{Size: 8},
				widgets.Tappable{
					OnTap: b.OnDismiss,
					Child: widgets.Text{
						Content: "Dismiss",
						Style:   widgets.TextStyle{Color: widgets.ColorBlack, Size: 14, Bold: true},
					},
				},
			},
		},
	}
}

// HomeTab shows the signed-in account's identity summary.
type HomeTab struct {
	core.StatefulBase
	Client *api.Client
	Cache  *query.Cache
}

func (h HomeTab) CreateState() core.State {
	return &homeTabState{widget: h}
}

type homeTabState struct {
	core.StateBase
	widget   HomeTab
	identity *query.Resource[*api.Identity]
}

func (s *homeTabState) InitState() {
	s.identity = query.Use[*api.Identity](s, s.widget.Cache, "identity",
		func(ctx context.Context) (any, error) {
			return s.widget.Client.Identity(ctx)
		})
}

func (s *homeTabState) Build(ctx core.BuildContext) core.Widget {
	if !s.identity.Ready() {
		if err := s.identity.Err(); err != nil {
			return statusText("Could not load your profile")
		}
		return statusText("Loading…")
	}

	identity := s.identity.Value()
	return widgets.Column{
		Children: []core.Widget{
			widgets.Text{
				Content: identity.DisplayName,
				Style:   widgets.TextStyle{Color: widgets.ColorWhite, Size: 24, Bold: true},
			},
			widgets.Text{
				Content: "@" + identity.Handle,
				Style:   widgets.TextStyle{Color: widgets.RGBA(255, 255, 255, 0.6), Size: 16},
			},
			widgets.Spacer{Size: 12},
			widgets.Text{
				Content: fmt.Sprintf("%d people in your network", identity.MemberCount),
				Style:   widgets.TextStyle{Color: widgets.ColorWhite, Size: 14},
			},
		},
	}
}

// NetworkTab lists the accounts in the caller's network. Each row is wrapped
// in a one-shot visibility detector so rows are marked seen as they scroll
// into view.
type NetworkTab struct {
	core.StatefulBase
	Client *api.Client
	Cache  *query.Cache
}

func (n NetworkTab) CreateState() core.State {
	return &networkTabState{widget: n}
}

type networkTabState struct {
	core.StateBase
	widget  NetworkTab
	members *query.Resource[[]api.Member]
	seen    map[string]bool
}

func (s *networkTabState) InitState() {
	s.seen = make(map[string]bool)
	s.members = query.Use[[]api.Member](s, s.widget.Cache, "members",
		func(ctx context.Context) (any, error) {
			return s.widget.Client.Members(ctx)
		})
}

func (s *networkTabState) markSeen(id string) {
	s.SetState(func() { s.seen[id] = true })
}

func (s *networkTabState) Build(ctx core.BuildContext) core.Widget {
	if !s.members.Ready() {
		if err := s.members.Err(); err != nil {
			return statusText("Could not load your network")
		}
		return statusText("Loading…")
	}

	members := s.members.Value()
	rows := make([]core.Widget, 0, len(members))
	for _, member := range members {
		rows = append(rows, widgets.VisibilityDetector{
			OnVisible: func() { s.markSeen(member.ID) },
			Child:     memberRow{Member: member, Seen: s.seen[member.ID]},
		})
	}
	return widgets.Column{Children: rows}
}

// memberRow is one account in the network list.
type memberRow struct {
	core.StatelessBase
	Member api.Member
	Seen   bool
}

func (r memberRow) Build(ctx core.BuildContext) core.Widget {
	presence := widgets.RGBA(255, 255, 255, 0.3)
	if r.Member.Online {
		presence = widgets.RGB(118, 200, 147)
	}
	name := r.Member.DisplayName
	if name == "" {
		name = "@" + r.Member.Handle
	}

	opacity := 0.6
	if r.Seen {
		opacity = 1.0
	}
	return widgets.Container{
		Padding: widgets.EdgeInsetsSymmetric(8, 12),
		Child: widgets.Row{
			Children: []core.Widget{
				widgets.Container{Width: 8, Height: 8, Color: presence},
				widgets.Spacer{Size: 8},
				widgets.Text{
					Content: name,
					Style:   widgets.TextStyle{Color: widgets.RGBA(255, 255, 255, opacity), Size: 16},
				},
			},
		},
	}
}

func statusText(message string) core.Widget {
	return widgets.Text{
		Content: message,
		Style:   widgets.TextStyle{Color: widgets.RGBA(255, 255, 255, 0.6), Size: 14},
	}
}
