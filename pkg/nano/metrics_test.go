package nano

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/scheduler"
	"github.com/vango-dev/nano/pkg/vdom"
)

func TestMetricsRecordRuntimeActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	f := newFixture(t)
	Comp := vdom.DefineFunc("Metered", func(vdom.Scope) *vdom.VNode { return vdom.P("x") })
	Bad := vdom.DefineFunc("Broken", func(vdom.Scope) *vdom.VNode { panic("no") })

	root, err := Render(f.body, vdom.Div(vdom.C(Comp, nil), vdom.C(Bad, nil)), f.opts(WithMetrics(m))...)
	if err == nil {
		t.Fatal("expected render error")
	}

	if got := testutil.ToFloat64(m.mounted); got != 1 {
		t.Errorf("mounted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.lifecycleErrors.WithLabelValues(string(HookRender))); got != 1 {
		t.Errorf("lifecycle errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.mutations.WithLabelValues(dom.MutationInsertNode.String())); got == 0 {
		t.Error("no insert mutations counted")
	}

	if err := root.Destroy(); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(m.mounted); got != 0 {
		t.Errorf("mounted after destroy = %v, want 0", got)
	}

	m.ObservePass(scheduler.PassStats{Jobs: 2, Duration: time.Millisecond})
	m.ObservePass(scheduler.PassStats{Jobs: 1, Err: errors.New("x")})
	if got := testutil.ToFloat64(m.passes); got != 2 {
		t.Errorf("passes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.passErrors); got != 1 {
		t.Errorf("pass errors = %v, want 1", got)
	}

	expected := `
# HELP test_pass_errors_total Total number of passes that reported an error
# TYPE test_pass_errors_total counter
test_pass_errors_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_pass_errors_total"); err != nil {
		t.Error(err)
	}
}

func TestMetricsCountHydrationMismatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"), WithSubsystem("hydrate"))

	f := newFixture(t)
	_, app := parseApp(t, `<p>old</p><span></span>`)
	if _, err := Hydrate(app, vdom.P("new"), f.opts(WithMetrics(m))...); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(m.mismatches.WithLabelValues(mismatchText)); got != 1 {
		t.Errorf("text mismatches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.mismatches.WithLabelValues(mismatchExtra)); got != 1 {
		t.Errorf("extra mismatches = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObservePass(scheduler.PassStats{})
	m.observeMutation(dom.Mutation{Op: dom.MutationSetText})
	m.hydrationMismatch(mismatchTag)
	m.lifecycleError(HookRender)
	m.componentMounted()
	m.componentUnmounted()
}

func TestSpansRecordRenders(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	f := newFixture(t)
	tracer := tp.Tracer(TracerName)
	root := f.render(t, vdom.P("a"), WithTracer(tracer))
	_ = root.Update(vdom.H(nil, nil))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Name != "nano.Render" || spans[0].Status.Code != codes.Ok {
		t.Errorf("render span = %s %v", spans[0].Name, spans[0].Status)
	}
	if spans[1].Name != "nano.Update" || spans[1].Status.Code != codes.Error {
		t.Errorf("update span = %s %v", spans[1].Name, spans[1].Status)
	}
	if len(spans[1].Events) == 0 {
		t.Error("update error not recorded on span")
	}
}

func TestInspect(t *testing.T) {
	f := newFixture(t)
	Item := vdom.DefineFunc("Item", func(s vdom.Scope) *vdom.VNode {
		return vdom.Li(vdom.OnClick(func() {}), s.Props().String("label"))
	})
	App := vdom.DefineFunc("App", func(vdom.Scope) *vdom.VNode {
		return vdom.Ul(vdom.Keyed("one", vdom.C(Item, vdom.Props{"label": "one"})))
	})
	root := f.render(t, vdom.C(App, nil))

	info := root.Inspect()
	if info.Kind != "Component" || info.Name != "App" || info.Phase != "mounted" {
		t.Fatalf("root info = %+v", info)
	}
	ul := info.Children[0]
	if ul.Name != "ul" || len(ul.Children) != 1 {
		t.Fatalf("ul info = %+v", ul)
	}
	item := ul.Children[0]
	if item.Key != "one" || item.Name != "Item" {
		t.Errorf("item info = %+v", item)
	}
	li := item.Children[0]
	if len(li.Handlers) != 1 || li.Handlers[0] != "click" {
		t.Errorf("li handlers = %v", li.Handlers)
	}

	out, err := yaml.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "kind: Component") || !strings.Contains(string(out), "text: one") {
		t.Errorf("yaml dump:\n%s", out)
	}
}
