package core

// MultiChildWidget is a widget hosting an ordered list of children.
type MultiChildWidget interface {
	Widget
	ChildrenWidgets() []Widget
}

// MultiChildBase provides default CreateElement and Key implementations for
// multi-child widgets. Embed it alongside a Children field and implement
// ChildrenWidgets.
type MultiChildBase struct{}

// CreateElement returns a new MultiChildElement.
func (MultiChildBase) CreateElement() Element { return &MultiChildElement{} }

// Key returns nil (no key).
func (MultiChildBase) Key() any { return nil }

// MultiChildElement hosts a MultiChildWidget. Children are reconciled by
// position: a child whose widget type and key match its predecessor updates
// in place, anything else remounts.
type MultiChildElement struct {
	elementBase
	children []Element
}

func (e *MultiChildElement) Mount(parent Element, slot any) {
	if e.self == nil {
		e.self = e
	}
	e.mount(parent, slot)
	e.RebuildIfNeeded()
}

func (e *MultiChildElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *MultiChildElement) Unmount() {
	e.mounted = false
	for _, child := range e.children {
		child.Unmount()
	}
	e.children = nil
}

func (e *MultiChildElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false

	widgets := e.widget.(MultiChildWidget).ChildrenWidgets()
	next := make([]Element, 0, len(widgets))
	for i, w := range widgets {
		var existing Element
		if i < len(e.children) {
			existing = e.children[i]
		}
		if child := updateChild(existing, w, e, e.buildOwner); child != nil {
			next = append(next, child)
		}
	}
	for i := len(widgets); i < len(e.children); i++ {
		e.children[i].Unmount()
	}
	e.children = next
}

func (e *MultiChildElement) VisitChildren(visitor func(Element) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}
