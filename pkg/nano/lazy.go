package nano

import (
	"context"
	"sync"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

// Trigger selects the conditions that start a lazy hydration. The first
// condition to occur wins. The zero Trigger waits for visibility.
type Trigger struct {
	// Visible hydrates when the container is reported visible.
	Visible bool

	// Idle hydrates when the scheduler next has nothing to do.
	Idle bool

	// Interaction hydrates on the first user interaction inside the
	// container. See InteractionEvents.
	Interaction bool
}

// InteractionEvents are the event types that count as interaction.
var InteractionEvents = []string{"pointerdown", "touchstart", "keydown", "focusin", "click"}

type lazyState int

const (
	lazyPending lazyState = iota
	lazyHydrated
	lazyCancelled
)

// LazyRoot is a hydration deferred until a trigger fires. Until then the
// container's markup is untouched.
type LazyRoot struct {
	container *dom.Node
	node      *vdom.VNode
	opts      []Option
	cfg       config

	mu     sync.Mutex
	state  lazyState
	reason string
	root   *Root
	err    error
	done   chan struct{}

	release []func()
}

// HydrateLazy defers Hydrate(container, node) until trigger fires. Exactly
// one hydration runs; triggers after it are no-ops. It waits indefinitely
// unless ctx ends first, in which case Done closes and Err returns the
// context's error whether or not the scheduler is being driven. The
// cancelled root's listeners are released on the scheduler goroutine.
//
// Triggers fire on the goroutine driving the scheduler (or, for
// interaction, the goroutine dispatching the event).
func HydrateLazy(ctx context.Context, container *dom.Node, node *vdom.VNode, trigger Trigger, opts ...Option) *LazyRoot {
	l := &LazyRoot{
		container: container,
		node:      node,
		opts:      opts,
		cfg:       buildConfig(opts),
		done:      make(chan struct{}),
	}
	if !validContainer(container) {
		l.finish(lazyCancelled, "", nil, ErrInvalidContainer)
		return l
	}
	if trigger == (Trigger{}) {
		trigger.Visible = true
	}

	if trigger.Interaction {
		for _, typ := range InteractionEvents {
			typ := typ
			listener := dom.NewListener(func(*dom.Event) { l.hydrate("interaction") })
			container.AddEventListener(typ, listener)
			l.release = append(l.release, func() { container.RemoveEventListener(typ, listener) })
		}
	}
	if trigger.Idle {
		l.cfg.scheduler.OnIdle(func() { l.hydrate("idle") })
	}
	if trigger.Visible {
		stop := container.Document().ObserveVisibility(container, func(visible bool) {
			if visible {
				l.hydrate("visible")
			}
		})
		if l.Hydrated() {
			stop()
		} else {
			l.release = append(l.release, stop)
		}
	}
	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				l.cancel(ctx.Err())
			case <-l.done:
			}
		}()
	}
	return l
}

// Hydrate runs the hydration now if it has not run yet.
func (l *LazyRoot) Hydrate() error {
	l.hydrate("manual")
	return l.Err()
}

func (l *LazyRoot) hydrate(reason string) {
	l.mu.Lock()
	if l.state != lazyPending {
		l.mu.Unlock()
		return
	}
	l.state = lazyHydrated
	l.mu.Unlock()

	l.releaseTriggers()
	l.cfg.logger.Debug("lazy hydration triggered", "reason", reason)
	root, err := Hydrate(l.container, l.node, l.opts...)
	l.finish(lazyHydrated, reason, root, err)
}

// cancel runs on the context watcher goroutine. Trigger callbacks that
// race with it see a non-pending state and return.
func (l *LazyRoot) cancel(err error) {
	l.mu.Lock()
	if l.state != lazyPending {
		l.mu.Unlock()
		return
	}
	l.state = lazyCancelled
	l.mu.Unlock()

	l.cfg.scheduler.Dispatch(l.releaseTriggers)
	l.finish(lazyCancelled, "", nil, err)
}

func (l *LazyRoot) releaseTriggers() {
	l.mu.Lock()
	release := l.release
	l.release = nil
	l.mu.Unlock()
	for _, fn := range release {
		fn()
	}
}

func (l *LazyRoot) finish(state lazyState, reason string, root *Root, err error) {
	l.mu.Lock()
	l.state = state
	l.reason = reason
	l.root = root
	l.err = err
	l.mu.Unlock()
	close(l.done)
}

// Done is closed once hydration has run or been cancelled.
func (l *LazyRoot) Done() <-chan struct{} { return l.done }

// Hydrated reports whether the hydration has started.
func (l *LazyRoot) Hydrated() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == lazyHydrated
}

// Reason returns which trigger started the hydration.
func (l *LazyRoot) Reason() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reason
}

// Root returns the hydrated root, or ErrNotHydrated.
func (l *LazyRoot) Root() (*Root, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.root == nil {
		if l.err != nil {
			return nil, l.err
		}
		return nil, ErrNotHydrated
	}
	return l.root, nil
}

// Err returns the hydration error, the context error after cancellation,
// or nil.
func (l *LazyRoot) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
