package widgets

import "github.com/arbor-app/arbor/pkg/core"

// Text displays a run of text. A leaf widget: the host draws it.
type Text struct {
	core.StatelessBase
	Content  string
	Style    TextStyle
	MaxLines int
}

func (t Text) Build(ctx core.BuildContext) core.Widget { return nil }

// Icon displays a named glyph from the host's icon set.
type Icon struct {
	core.StatelessBase
	Name  string
	Color Color
	Size  float64
}

func (i Icon) Build(ctx core.BuildContext) core.Widget { return nil }

// Container wraps a child with background color, padding, and fixed sizing.
// Zero values mean zero: a zero Color is transparent, a zero Height collapses.
type Container struct {
	core.StatelessBase
	Color   Color
	Padding EdgeInsets
	Width   float64
	Height  float64
	Child   core.Widget
}

func (c Container) Build(ctx core.BuildContext) core.Widget { return c.Child }

// SizedBox fixes its child to the given dimensions.
type SizedBox struct {
	core.StatelessBase
	Width  float64
	Height float64
	Child  core.Widget
}

func (s SizedBox) Build(ctx core.BuildContext) core.Widget { return s.Child }

// Spacer is fixed empty space between siblings.
type Spacer struct {
	core.StatelessBase
	Size float64
}

func (s Spacer) Build(ctx core.BuildContext) core.Widget { return nil }

// Column lays out children vertically.
type Column struct {
	core.MultiChildBase
	Children []core.Widget
}

func (c Column) ChildrenWidgets() []core.Widget { return c.Children }

// Row lays out children horizontally.
type Row struct {
	core.MultiChildBase
	Children []core.Widget
}

func (r Row) ChildrenWidgets() []core.Widget { return r.Children }

// Tappable invokes OnTap when the host reports a tap on its child.
type Tappable struct {
	core.StatelessBase
	OnTap func()
	Child core.Widget
}

func (t Tappable) Build(ctx core.BuildContext) core.Widget { return t.Child }
