package widgets

import "github.com/arbor-app/arbor/pkg/core"

// TabItem describes a single tab entry.
type TabItem struct {
	Label string
	Icon  string
}

// TabBar displays a row of tabs with a selection indicator.
//
// All visual properties are explicit: a zero value means zero, not "use a
// default". A zero BackgroundColor is transparent, a zero IndicatorHeight
// draws no indicator, a zero Height collapses the bar.
//
//	widgets.TabBar{
//	    Items:        []widgets.TabItem{{Label: "Home", Icon: "home"}, {Label: "Network", Icon: "people"}},
//	    CurrentIndex: s.tab,
//	    OnTap:        func(i int) { s.SetState(func() { s.tab = i }) },
//	    Height:       56,
//	}
type TabBar struct {
	core.StatelessBase
	// Items are the tab entries.
	Items []TabItem
	// CurrentIndex is the selected tab index.
	CurrentIndex int
	// OnTap is called with the tapped tab's index.
	OnTap func(index int)
	// BackgroundColor is the bar background.
	BackgroundColor Color
	// ActiveColor is the selected tab's text and icon color.
	ActiveColor Color
	// InactiveColor is the unselected tabs' text and icon color.
	InactiveColor Color
	// IndicatorColor is the selected tab's indicator color.
	IndicatorColor Color
	// IndicatorHeight is the indicator bar height.
	IndicatorHeight float64
	// Padding is the per-tab internal padding.
	Padding EdgeInsets
	// Height is the bar height.
	Height float64
	// LabelStyle is the text style for labels; its color is overridden by
	// ActiveColor or InactiveColor per tab.
	LabelStyle TextStyle
}

func (t TabBar) Build(ctx core.BuildContext) core.Widget {
	children := make([]core.Widget, 0, len(t.Items))
	for i, item := range t.Items {
		children = append(children, t.buildTab(i, item))
	}

	return SizedBox{
		Height: t.Height,
		Child: Container{
			Color: t.BackgroundColor,
			Child: Row{Children: children},
		},
	}
}

func (t TabBar) buildTab(index int, item TabItem) core.Widget {
	isActive := index == t.CurrentIndex
	color := t.InactiveColor
	indicator := ColorTransparent
	if isActive {
		color = t.ActiveColor
		indicator = t.IndicatorColor
	}

	labelStyle := t.LabelStyle
	labelStyle.Color = color

	content := []core.Widget{}
	if item.Icon != "" {
		content = append(content, Icon{Name: item.Icon, Color: color}, Spacer{Size: 4})
	}
	content = append(content, Text{Content: item.Label, Style: labelStyle, MaxLines: 1})

	return Tappable{
		OnTap: func() {
			if t.OnTap != nil {
				t.OnTap(index)
			}
		},
		Child: Column{
			Children: []core.Widget{
				Container{
					Padding: t.Padding,
					Child:   Column{Children: content},
				},
				Container{Height: t.IndicatorHeight, Color: indicator},
			},
		},
	}
}
