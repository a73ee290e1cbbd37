package nano

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/vdom"
)

func lazyTree(log *[]string, clicks *int) *vdom.VNode {
	Comp := defineLogged("lazy", log, func(vdom.Scope) *vdom.VNode {
		return vdom.Button(vdom.OnClick(func() { *clicks++ }), "go")
	})
	return vdom.C(Comp, nil)
}

func countHook(log []string, entry string) int {
	n := 0
	for _, e := range log {
		if e == entry {
			n++
		}
	}
	return n
}

func TestHydrateLazyOnInteraction(t *testing.T) {
	f := newFixture(t)
	doc, app := parseApp(t, `<button>go</button>`)
	btn := app.FirstChild()

	var log []string
	clicks := 0
	rec := dom.NewRecorder(doc)
	defer rec.Stop()

	l := HydrateLazy(context.Background(), app, lazyTree(&log, &clicks), Trigger{Interaction: true}, f.opts()...)

	assert.False(t, l.Hydrated())
	assert.Zero(t, rec.Len(), "markup touched before the trigger")
	_, err := l.Root()
	assert.ErrorIs(t, err, ErrNotHydrated)

	btn.Dispatch(dom.NewEvent("pointerdown"))

	require.True(t, l.Hydrated())
	assert.Equal(t, "interaction", l.Reason())
	select {
	case <-l.Done():
	default:
		t.Fatal("Done not closed after hydration")
	}
	root, err := l.Root()
	require.NoError(t, err)
	assert.Same(t, btn, root.Nodes()[0])
	assert.Zero(t, app.ListenerCount(), "trigger listeners not released")

	btn.Dispatch(dom.NewEvent("pointerdown"))
	btn.Dispatch(dom.NewEvent("click"))
	assert.Equal(t, 1, countHook(log, "lazy:WillMount"), "hydrated more than once")
	assert.Equal(t, 1, clicks)
}

func TestHydrateLazyOnVisibility(t *testing.T) {
	f := newFixture(t)
	doc, app := parseApp(t, `<button>go</button>`)
	var log []string
	clicks := 0

	l := HydrateLazy(context.Background(), app, lazyTree(&log, &clicks), Trigger{}, f.opts()...)
	assert.False(t, l.Hydrated())

	doc.SetVisible(app, true)
	require.True(t, l.Hydrated())
	assert.Equal(t, "visible", l.Reason())

	doc.SetVisible(app, false)
	doc.SetVisible(app, true)
	assert.Equal(t, 1, countHook(log, "lazy:WillMount"))
}

func TestHydrateLazyAlreadyVisible(t *testing.T) {
	f := newFixture(t)
	doc, app := parseApp(t, `<button>go</button>`)
	doc.SetVisible(app, true)
	var log []string
	clicks := 0

	l := HydrateLazy(context.Background(), app, lazyTree(&log, &clicks), Trigger{Visible: true}, f.opts()...)
	require.True(t, l.Hydrated())
	assert.NoError(t, l.Err())
}

func TestHydrateLazyOnIdle(t *testing.T) {
	f := newFixture(t)
	_, app := parseApp(t, `<button>go</button>`)
	var log []string
	clicks := 0

	l := HydrateLazy(context.Background(), app, lazyTree(&log, &clicks), Trigger{Idle: true}, f.opts()...)
	assert.False(t, l.Hydrated())

	require.NoError(t, f.sched.Flush())
	require.True(t, l.Hydrated())
	assert.Equal(t, "idle", l.Reason())
}

func TestHydrateLazyFirstTriggerWins(t *testing.T) {
	f := newFixture(t)
	doc, app := parseApp(t, `<button>go</button>`)
	var log []string
	clicks := 0

	l := HydrateLazy(context.Background(), app, lazyTree(&log, &clicks),
		Trigger{Visible: true, Idle: true, Interaction: true}, f.opts()...)

	app.FirstChild().Dispatch(dom.NewEvent("keydown"))
	doc.SetVisible(app, true)
	require.NoError(t, f.sched.Flush())

	assert.Equal(t, "interaction", l.Reason())
	assert.Equal(t, 1, countHook(log, "lazy:WillMount"))
}

func TestHydrateLazyCancelled(t *testing.T) {
	f := newFixture(t)
	_, app := parseApp(t, `<button>go</button>`)
	var log []string
	clicks := 0

	ctx, cancel := context.WithCancel(context.Background())
	l := HydrateLazy(ctx, app, lazyTree(&log, &clicks), Trigger{Interaction: true}, f.opts()...)
	cancel()

	require.Eventually(t, func() bool {
		_ = f.sched.Flush()
		select {
		case <-l.Done():
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	assert.True(t, errors.Is(l.Err(), context.Canceled))
	assert.False(t, l.Hydrated())

	app.FirstChild().Dispatch(dom.NewEvent("click"))
	assert.False(t, l.Hydrated())
	assert.Empty(t, log)
}

func TestHydrateLazyCancelledWithoutScheduler(t *testing.T) {
	f := newFixture(t)
	_, app := parseApp(t, `<button>go</button>`)
	var log []string
	clicks := 0

	ctx, cancel := context.WithCancel(context.Background())
	l := HydrateLazy(ctx, app, lazyTree(&log, &clicks), Trigger{Interaction: true}, f.opts()...)
	require.Positive(t, app.ListenerCount())
	cancel()

	// Nothing drives the scheduler, yet Done must close.
	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after cancel")
	}
	assert.ErrorIs(t, l.Err(), context.Canceled)

	require.NoError(t, f.sched.Flush())
	assert.Zero(t, app.ListenerCount(), "listeners released on the next flush")
}

func TestHydrateLazyManual(t *testing.T) {
	f := newFixture(t)
	_, app := parseApp(t, `<button>go</button>`)
	var log []string
	clicks := 0

	l := HydrateLazy(context.Background(), app, lazyTree(&log, &clicks), Trigger{Interaction: true}, f.opts()...)
	require.NoError(t, l.Hydrate())
	assert.Equal(t, "manual", l.Reason())
	require.NoError(t, l.Hydrate())
	assert.Equal(t, 1, countHook(log, "lazy:WillMount"))
}

func TestHydrateLazyInvalidContainer(t *testing.T) {
	l := HydrateLazy(context.Background(), nil, vdom.Div(), Trigger{})
	select {
	case <-l.Done():
	default:
		t.Fatal("Done not closed")
	}
	assert.ErrorIs(t, l.Err(), ErrInvalidContainer)
	_, err := l.Root()
	assert.ErrorIs(t, err, ErrInvalidContainer)
}
