package app

import (
	"sync"

	"github.com/arbor-app/arbor/pkg/core"
	"github.com/arbor-app/arbor/pkg/platform"
)

// Loop serializes all UI work onto one goroutine. It is registered as the
// platform dispatcher, so background goroutines that hop through
// platform.Dispatch land here, and it flushes pending rebuilds after every
// task.
type Loop struct {
	owner *core.BuildOwner
	tasks chan func()
	wake  chan struct{}
	stop  chan struct{}
	once  sync.Once
	root  core.Element
}

// NewLoop creates an idle loop. Call Run to start it.
func NewLoop() *Loop {
	l := &Loop{
		owner: core.NewBuildOwner(),
		tasks: make(chan func(), 256),
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
	l.owner.OnNeedsFrame = l.requestFrame
	return l
}

// Post schedules a task on the loop goroutine.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	select {
	case l.tasks <- task:
	case <-l.stop:
	}
}

func (l *Loop) requestFrame() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Mount schedules widget as the loop's root. The previous root, if any, is
// unmounted first.
func (l *Loop) Mount(widget core.Widget) {
	l.Post(func() {
		if l.root != nil {
			l.root.Unmount()
		}
		l.root = l.owner.MountRoot(widget)
	})
}

// Run processes tasks and build passes until Stop is called. It unmounts the
// root on the way out.
func (l *Loop) Run() {
	for {
		select {
		case <-l.stop:
			l.drain()
			return
		case task := <-l.tasks:
			task()
			l.owner.FlushBuild()
		case <-l.wake:
			l.owner.FlushBuild()
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case task := <-l.tasks:
			task()
		default:
			if l.root != nil {
				l.root.Unmount()
				l.root = nil
			}
			return
		}
	}
}

// Stop shuts the loop down. Safe to call from any goroutine, more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Run wires the platform bridge and dispatcher, mounts the application, and
// blocks driving its build loop until stop closes.
func Run(cfg Config, bridge platform.HostBridge, stop <-chan struct{}) {
	platform.SetHostBridge(bridge)

	loop := NewLoop()
	platform.RegisterDispatch(loop.Post)
	loop.Mount(App{Config: cfg})

	go func() {
		<-stop
		loop.Stop()
	}()
	loop.Run()
}
