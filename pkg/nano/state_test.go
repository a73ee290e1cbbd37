package nano

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/scheduler"
	"github.com/vango-dev/nano/pkg/store"
	"github.com/vango-dev/nano/pkg/vdom"
)

func TestStoreChangesBatchIntoOnePass(t *testing.T) {
	f := newFixture(t)
	count := store.New(0)
	renders := 0
	Counter := vdom.DefineFunc("Counter", func(s vdom.Scope) *vdom.VNode {
		renders++
		return vdom.Span(vdom.Textf("%d", UseStore(s, count)))
	})
	f.render(t, vdom.C(Counter, nil))

	count.Set(1)
	count.Set(2)
	f.flush(t)

	assert.Equal(t, 2, renders, "two sets should cause one re-render")
	assert.Equal(t, uint64(1), f.sched.Passes())
	assert.Equal(t, "<span>2</span>", f.body.InnerHTML())
}

func TestStoreSetEqualValueDoesNotRender(t *testing.T) {
	f := newFixture(t)
	name := store.New("ada")
	renders := 0
	Comp := vdom.DefineFunc("Name", func(s vdom.Scope) *vdom.VNode {
		renders++
		return vdom.Text(UseStore(s, name))
	})
	f.render(t, vdom.Div(vdom.C(Comp, nil)))

	name.Set("ada")
	f.flush(t)
	assert.Equal(t, 1, renders)
	assert.False(t, f.sched.Pending())
}

func TestSharedStoreRendersParentOnce(t *testing.T) {
	f := newFixture(t)
	shared := store.New("x")
	var order []string
	Child := vdom.DefineFunc("Child", func(s vdom.Scope) *vdom.VNode {
		order = append(order, "child")
		return vdom.I(UseStore(s, shared))
	})
	Parent := vdom.DefineFunc("Parent", func(s vdom.Scope) *vdom.VNode {
		order = append(order, "parent")
		return vdom.Div(vdom.B(UseStore(s, shared)), vdom.C(Child, nil))
	})
	f.render(t, vdom.C(Parent, nil))
	order = nil

	shared.Set("y")
	f.flush(t)

	// The parent re-renders its child, so the child's own job is stale.
	assert.Equal(t, []string{"parent", "child"}, order)
	assert.Equal(t, "<div><b>y</b><i>y</i></div>", f.body.InnerHTML())
}

func TestUnmountUnsubscribes(t *testing.T) {
	f := newFixture(t)
	st := store.New(0)
	Comp := vdom.DefineFunc("Sub", func(s vdom.Scope) *vdom.VNode {
		return vdom.Textf("%d", UseStore(s, st))
	})
	root := f.render(t, vdom.Div(vdom.C(Comp, nil)))
	require.Equal(t, 1, st.Len())

	require.NoError(t, root.Update(vdom.Div()))
	assert.Zero(t, st.Len())

	st.Set(5)
	assert.False(t, f.sched.Pending())
}

func TestUseStateToggle(t *testing.T) {
	f := newFixture(t)
	Toggle := vdom.DefineFunc("Toggle", func(s vdom.Scope) *vdom.VNode {
		on, setOn := UseState(s, false)
		label := "off"
		if on {
			label = "on"
		}
		return vdom.Button(vdom.OnClick(func() { setOn(!on) }), label)
	})
	f.render(t, vdom.C(Toggle, nil))
	btn := f.body.FirstChild()

	btn.Dispatch(dom.NewEvent("click"))
	f.flush(t)
	assert.Equal(t, "on", btn.TextContent())

	btn.Dispatch(dom.NewEvent("click"))
	f.flush(t)
	assert.Equal(t, "off", btn.TextContent())
	assert.Same(t, btn, f.body.FirstChild())
}

func TestTickWaitsForPass(t *testing.T) {
	f := newFixture(t)
	st := store.New("a")
	Comp := vdom.DefineFunc("Ticked", func(s vdom.Scope) *vdom.VNode {
		return vdom.P(UseStore(s, st))
	})
	root := f.render(t, vdom.C(Comp, nil))

	st.Set("b")
	done := root.Tick()
	f.flush(t)

	select {
	case err := <-done:
		assert.NoError(t, err)
	default:
		t.Fatal("tick not delivered")
	}
	assert.Equal(t, "<p>b</p>", f.body.InnerHTML())
}

func TestSetFromAnotherGoroutine(t *testing.T) {
	f := newFixture(t)
	st := store.New(0)
	Comp := vdom.DefineFunc("Remote", func(s vdom.Scope) *vdom.VNode {
		return vdom.P(vdom.Textf("%d", UseStore(s, st)))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mounted := make(chan *Root, 1)
	f.sched.Dispatch(func() {
		root, err := Render(f.body, vdom.C(Comp, nil), f.opts()...)
		assert.NoError(t, err)
		mounted <- root
	})
	stopped := make(chan error, 1)
	go func() { stopped <- f.sched.Run(ctx) }()

	var root *Root
	select {
	case root = <-mounted:
	case <-time.After(time.Second):
		t.Fatal("render never ran")
	}

	go st.Set(7)

	got := make(chan string, 1)
	require.Eventually(t, func() bool {
		f.sched.Dispatch(func() {
			select {
			case got <- root.Container().TextContent():
			default:
			}
		})
		select {
		case text := <-got:
			return text == "7"
		case <-time.After(10 * time.Millisecond):
			return false
		}
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-stopped, context.Canceled)
}

func TestPassObserverFeedsMetrics(t *testing.T) {
	var seen []scheduler.PassStats
	sched := scheduler.New(
		scheduler.WithLogger(discardLogger()),
		scheduler.WithPassObserver(func(s scheduler.PassStats) { seen = append(seen, s) }),
	)
	doc := dom.NewDocument()
	st := store.New(1)
	Comp := vdom.DefineFunc("Observed", func(s vdom.Scope) *vdom.VNode {
		return vdom.Textf("%d", UseStore(s, st))
	})
	_, err := Render(doc.Body(), vdom.Div(vdom.C(Comp, nil)), WithScheduler(sched), WithLogger(discardLogger()))
	require.NoError(t, err)

	st.Set(2)
	require.NoError(t, sched.Flush())
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].Jobs)
	assert.NoError(t, seen[0].Err)
}

func TestPassLimitDoesNotFreezeDroppedInstances(t *testing.T) {
	doc := dom.NewDocument()
	sched := scheduler.New(scheduler.WithLogger(discardLogger()), scheduler.WithMaxPasses(5))
	feed := store.New(0)
	running := true

	Runaway := vdom.DefineFunc("Runaway", func(s vdom.Scope) *vdom.VNode {
		if running {
			feed.Update(func(n int) int { return n + 1 })
			s.Update()
		}
		return vdom.Span("spin")
	})
	Viewer := vdom.DefineFunc("Viewer", func(s vdom.Scope) *vdom.VNode {
		return vdom.B(vdom.Textf("%d", UseStore(s, feed)))
	})
	_, err := Render(doc.Body(), vdom.Div(vdom.C(Runaway, nil), vdom.C(Viewer, nil)),
		WithScheduler(sched), WithLogger(discardLogger()))
	require.NoError(t, err)

	require.ErrorIs(t, sched.Flush(), scheduler.ErrPassLimit)
	assert.False(t, sched.Pending())

	running = false
	feed.Set(1000)
	require.NoError(t, sched.Flush())
	assert.Equal(t, "<div><span>spin</span><b>1000</b></div>", doc.Body().InnerHTML())
}
