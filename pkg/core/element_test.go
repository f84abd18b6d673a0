package core

import (
	"reflect"
	"testing"
)

type probeWidget struct {
	StatelessBase
	name    string
	onBuild func(ctx BuildContext)
}

func (w probeWidget) Build(ctx BuildContext) Widget {
	if w.onBuild != nil {
		w.onBuild(ctx)
	}
	return nil
}

type wrapperWidget struct {
	StatelessBase
	child Widget
}

func (w wrapperWidget) Build(ctx BuildContext) Widget {
	return w.child
}

type counterWidget struct {
	StatefulBase
	onInit    func(s *counterState)
	onDispose func()
}

func (w counterWidget) CreateState() State {
	return &counterState{widget: w}
}

type counterState struct {
	StateBase
	widget counterWidget
	count  int
	builds int
}

func (s *counterState) InitState() {
	if s.widget.onInit != nil {
		s.widget.onInit(s)
	}
}

func (s *counterState) Build(ctx BuildContext) Widget {
	s.builds++
	return nil
}

func (s *counterState) Dispose() {
	if s.widget.onDispose != nil {
		s.widget.onDispose()
	}
	s.RunDisposers()
}

func TestMountRootBuildsTree(t *testing.T) {
	owner := NewBuildOwner()
	built := false
	root := owner.MountRoot(wrapperWidget{child: probeWidget{
		onBuild: func(BuildContext) { built = true },
	}})
	if root == nil {
		t.Fatal("expected a mounted root element")
	}
	if !built {
		t.Error("child widget should have been built during mount")
	}
}

func TestStatefulLifecycle(t *testing.T) {
	owner := NewBuildOwner()
	var state *counterState
	disposed := false

	root := owner.MountRoot(counterWidget{
		onInit:    func(s *counterState) { state = s },
		onDispose: func() { disposed = true },
	})

	if state == nil {
		t.Fatal("InitState should have run during mount")
	}
	if state.builds != 1 {
		t.Errorf("expected 1 build after mount, got %d", state.builds)
	}

	state.SetState(func() { state.count++ })
	owner.FlushBuild()
	if state.builds != 2 {
		t.Errorf("expected 2 builds after SetState, got %d", state.builds)
	}

	root.Unmount()
	if !disposed {
		t.Error("Dispose should run on unmount")
	}
}

func TestSetStateAfterDisposeIsNoop(t *testing.T) {
	owner := NewBuildOwner()
	var state *counterState
	root := owner.MountRoot(counterWidget{
		onInit: func(s *counterState) { state = s },
	})
	root.Unmount()

	builds := state.builds
	state.SetState(func() { state.count++ })
	owner.FlushBuild()
	if state.builds != builds {
		t.Error("disposed state should not rebuild")
	}
}

type scopeWidget struct {
	InheritedBase
	Value string
	Child Widget
}

func (w scopeWidget) ChildWidget() Widget { return w.Child }

func (w scopeWidget) UpdateShouldNotify(old InheritedWidget) bool {
	return w.Value != old.(scopeWidget).Value
}

var scopeType = reflect.TypeOf(scopeWidget{})

type scopeReaderWidget struct {
	StatefulBase
	onState func(s *scopeReaderState)
}

func (w scopeReaderWidget) CreateState() State {
	return &scopeReaderState{widget: w}
}

type scopeReaderState struct {
	StateBase
	widget     scopeReaderWidget
	seen       []string
	depChanges int
}

func (s *scopeReaderState) InitState() {
	if s.widget.onState != nil {
		s.widget.onState(s)
	}
}

func (s *scopeReaderState) Build(ctx BuildContext) Widget {
	if scope, ok := ctx.DependOnInherited(scopeType).(scopeWidget); ok {
		s.seen = append(s.seen, scope.Value)
	}
	return nil
}

func (s *scopeReaderState) DidChangeDependencies() {
	s.depChanges++
}

func TestInheritedScopeLookup(t *testing.T) {
	owner := NewBuildOwner()
	var state *scopeReaderState
	owner.MountRoot(scopeWidget{
		Value: "alpha",
		Child: scopeReaderWidget{onState: func(s *scopeReaderState) { state = s }},
	})

	if state == nil || len(state.seen) != 1 || state.seen[0] != "alpha" {
		t.Fatalf("expected scope value alpha, got %v", state.seen)
	}
}

func TestInheritedScopeNotifiesDependents(t *testing.T) {
	owner := NewBuildOwner()
	var state *scopeReaderState
	root := owner.MountRoot(scopeWidget{
		Value: "alpha",
		Child: scopeReaderWidget{onState: func(s *scopeReaderState) { state = s }},
	})

	root.Update(scopeWidget{
		Value: "beta",
		Child: scopeReaderWidget{},
	})
	owner.FlushBuild()

	if state.depChanges != 1 {
		t.Errorf("expected 1 dependency change, got %d", state.depChanges)
	}
	if got := state.seen[len(state.seen)-1]; got != "beta" {
		t.Errorf("expected latest scope value beta, got %q", got)
	}
}

func TestInheritedScopeUnchangedValueDoesNotNotify(t *testing.T) {
	owner := NewBuildOwner()
	var state *scopeReaderState
	root := owner.MountRoot(scopeWidget{
		Value: "alpha",
		Child: scopeReaderWidget{onState: func(s *scopeReaderState) { state = s }},
	})

	root.Update(scopeWidget{
		Value: "alpha",
		Child: scopeReaderWidget{},
	})
	owner.FlushBuild()

	if state.depChanges != 0 {
		t.Errorf("unchanged scope should not notify, got %d changes", state.depChanges)
	}
}

type keyedWidget struct {
	key     any
	onBuild func()
}

func (w keyedWidget) CreateElement() Element { return &StatelessElement{} }
func (w keyedWidget) Key() any               { return w.key }
func (w keyedWidget) Build(ctx BuildContext) Widget {
	if w.onBuild != nil {
		w.onBuild()
	}
	return nil
}

func TestUpdateChildRemountsOnKeyChange(t *testing.T) {
	owner := NewBuildOwner()
	mounts := 0
	root := owner.MountRoot(wrapperWidget{child: keyedWidget{key: "a", onBuild: func() { mounts++ }}})

	root.Update(wrapperWidget{child: keyedWidget{key: "b", onBuild: func() { mounts++ }}})
	owner.FlushBuild()

	if mounts != 2 {
		t.Errorf("key change should remount the child, got %d builds", mounts)
	}
}

func TestBuildPanicIsRecovered(t *testing.T) {
	owner := NewBuildOwner()
	root := owner.MountRoot(probeWidget{
		onBuild: func(BuildContext) { panic("bad build") },
	})
	if root == nil {
		t.Fatal("mount should survive a panicking build")
	}
}

func TestBuildOwnerFlushOrder(t *testing.T) {
	owner := NewBuildOwner()
	frames := 0
	owner.OnNeedsFrame = func() { frames++ }

	var state *counterState
	owner.MountRoot(counterWidget{
		onInit: func(s *counterState) { state = s },
	})

	state.SetState(nil)
	state.SetState(nil)

	if frames != 1 {
		t.Errorf("duplicate scheduling should request one frame, got %d", frames)
	}
	if !owner.NeedsWork() {
		t.Error("owner should report pending work")
	}
	owner.FlushBuild()
	if owner.NeedsWork() {
		t.Error("owner should be idle after flush")
	}
}
