package nano

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/scheduler"
)

// runtime is the state shared by every instance of one Root.
type runtime struct {
	doc     *dom.Document
	sched   *scheduler.Scheduler
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	nextID atomic.Uint64
}

func newRuntime(doc *dom.Document, cfg config) *runtime {
	return &runtime{
		doc:     doc,
		sched:   cfg.scheduler,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		tracer:  cfg.tracer,
	}
}

// run executes fn with a fresh reconciler inside a span, commits queued
// lifecycle callbacks and returns the joined errors.
func (rt *runtime) run(name string, fn func(rc *reconciler), attrs ...attribute.KeyValue) (*reconciler, error) {
	span := rt.startSpan(name, attrs...)

	mutations := 0
	stop := rt.doc.Observe(func(m dom.Mutation) {
		mutations++
		rt.metrics.observeMutation(m)
	})

	rc := newReconciler(rt)
	fn(rc)
	rc.commit()
	stop()

	err := rc.err()
	endSpan(span, mutations, err)
	return rc, err
}

// rerender re-renders a dirty instance in isolation and places its new host
// nodes where the old ones were.
func (rt *runtime) rerender(inst *ComponentInstance) error {
	_, err := rt.run("nano.Rerender", func(rc *reconciler) {
		ref := inst.rendered.nextHostAfter()
		rc.rerender(inst)
		rc.place(inst.parentHost, inst.rendered.hostNodes(), ref)
	}, attribute.String("nano.component", inst.Name()))
	return err
}

// invokeHandler runs an event handler, recovering panics.
func (rt *runtime) invokeHandler(h any, ev *dom.Event) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("handler panic",
				"panic", r,
				"event", ev.Type,
				"stack", string(debug.Stack()))
		}
	}()

	var err error
	switch fn := h.(type) {
	case func():
		fn()
	case func(*dom.Event):
		fn(ev)
	case func() error:
		err = fn()
	case func(*dom.Event) error:
		err = fn(ev)
	default:
		err = fmt.Errorf("nano: unsupported handler type %T", h)
	}
	if err != nil {
		rt.logger.Error("handler error", "event", ev.Type, "error", err)
	}
}

func (rt *runtime) invokeRef(ref refCall) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("ref panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	ref.fn(ref.node)
}

// call runs a component callback, converting returned errors and panics into
// a LifecycleError.
func (rt *runtime) call(inst *ComponentInstance, phase Hook, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			rt.logger.Error("component panic",
				"component", inst.Name(),
				"phase", phase,
				"panic", r,
				"stack", string(stack))
			err = &LifecycleError{
				Phase:     phase,
				Component: inst.Name(),
				Err:       &PanicError{Value: r},
				Stack:     stack,
			}
		} else if err != nil {
			var le *LifecycleError
			if !errors.As(err, &le) {
				err = &LifecycleError{Phase: phase, Component: inst.Name(), Err: err}
			}
			rt.logger.Error("component error",
				"component", inst.Name(),
				"phase", phase,
				"error", err)
		}
		if err != nil {
			rt.metrics.lifecycleError(phase)
		}
	}()
	return fn()
}
