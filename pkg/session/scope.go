package session

import (
	"reflect"

	"github.com/arbor-app/arbor/pkg/core"
)

// Scope exposes a session Controller to descendant widgets.
//
//	session.Scope{
//	    Controller: controller,
//	    Child:      appBody,
//	}
type Scope struct {
	core.InheritedBase
	Controller *Controller
	Child      core.Widget
}

func (s Scope) ChildWidget() core.Widget { return s.Child }

func (s Scope) UpdateShouldNotify(old core.InheritedWidget) bool {
	return s.Controller != old.(Scope).Controller
}

var scopeType = reflect.TypeOf(Scope{})

// Of returns the nearest ancestor Scope's controller, registering the calling
// element as a dependent. Returns nil if no Scope is in the tree.
func Of(ctx core.BuildContext) *Controller {
	scope, ok := ctx.DependOnInherited(scopeType).(Scope)
	if !ok {
		return nil
	}
	return scope.Controller
}
