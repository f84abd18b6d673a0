// Package core provides the widget and element framework for the Arbor shell.
//
// Widgets are immutable descriptions of UI structure. Elements are their
// mounted instances, arranged in a tree that tracks parent/child links,
// inherited-scope dependencies, and rebuild scheduling. The shell owns no
// rendering pipeline; elements exist to drive build lifecycles, scope
// lookups, and hook-based subscriptions.
package core

import "reflect"

// Widget is an immutable description of a piece of UI.
type Widget interface {
	// CreateElement instantiates the element that will host this widget.
	CreateElement() Element

	// Key identifies the widget across rebuilds. Widgets of the same type
	// with equal keys update in place; differing keys force a remount.
	Key() any
}

// StatelessWidget builds its structure purely from its own fields.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget owns mutable state held in a separate State object.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// State holds the mutable state for a StatefulWidget.
type State interface {
	// SetElement stores the element reference for triggering rebuilds.
	SetElement(element *StatefulElement)

	// InitState is called once when the state is first mounted.
	InitState()

	// Build returns the widget structure for the current state.
	Build(ctx BuildContext) Widget

	// SetState runs fn and schedules a rebuild.
	SetState(fn func())

	// Dispose releases resources when the element unmounts.
	Dispose()

	// DidChangeDependencies is called when an inherited scope this state
	// depends on changes.
	DidChangeDependencies()

	// DidUpdateWidget is called when the element's widget is replaced by a
	// newer configuration of the same type.
	DidUpdateWidget(oldWidget StatefulWidget)
}

// InheritedWidget propagates a value down the tree. Descendants that look it
// up through BuildContext.DependOnInherited are rebuilt when a new
// configuration reports UpdateShouldNotify.
type InheritedWidget interface {
	Widget
	ChildWidget() Widget
	UpdateShouldNotify(old InheritedWidget) bool
}

// BuildContext gives build methods access to the hosting element's position
// in the tree.
type BuildContext interface {
	// Widget returns the widget currently hosted by this element.
	Widget() Widget

	// DependOnInherited finds the nearest ancestor InheritedWidget of the
	// given type, registers a dependency on it, and returns it. Returns nil
	// if no such ancestor exists.
	DependOnInherited(inheritedType reflect.Type) any

	// FindAncestor walks up the tree and returns the first element matching
	// the predicate, or nil.
	FindAncestor(predicate func(Element) bool) Element
}

// Element is a widget's mounted instance in the tree.
type Element interface {
	BuildContext

	Mount(parent Element, slot any)
	Update(newWidget Widget)
	Unmount()
	RebuildIfNeeded()
	VisitChildren(visitor func(Element) bool)
	Depth() int
	MarkNeedsBuild()
}

// StatelessBase provides default CreateElement and Key implementations for
// stateless widgets. Embed it in your widget struct to satisfy the Widget
// interface without boilerplate:
//
//	type Greeting struct {
//	    core.StatelessBase
//	    Name string
//	}
//
//	func (g Greeting) Build(ctx core.BuildContext) core.Widget {
//	    return widgets.Text{Content: "Hello, " + g.Name}
//	}
type StatelessBase struct{}

// CreateElement returns a new StatelessElement.
func (StatelessBase) CreateElement() Element { return &StatelessElement{} }

// Key returns nil (no key).
func (StatelessBase) Key() any { return nil }

// StatefulBase provides default CreateElement and Key implementations for
// stateful widgets.
type StatefulBase struct{}

// CreateElement returns a new StatefulElement.
func (StatefulBase) CreateElement() Element { return &StatefulElement{} }

// Key returns nil (no key).
func (StatefulBase) Key() any { return nil }

// InheritedBase provides default CreateElement and Key implementations for
// inherited widgets. Embed it alongside a Child field and implement
// ChildWidget and UpdateShouldNotify:
//
//	type UserScope struct {
//	    core.InheritedBase
//	    User  *User
//	    Child core.Widget
//	}
//
//	func (u UserScope) ChildWidget() core.Widget { return u.Child }
//
//	func (u UserScope) UpdateShouldNotify(old core.InheritedWidget) bool {
//	    return u.User != old.(UserScope).User
//	}
type InheritedBase struct{}

// CreateElement returns a new InheritedElement.
func (InheritedBase) CreateElement() Element { return NewInheritedElement() }

// Key returns nil (no key).
func (InheritedBase) Key() any { return nil }
