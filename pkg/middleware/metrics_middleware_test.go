package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRouter(m *Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/p/{page}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chi.URLParam(r, "page")))
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	h := newTestRouter(m)

	for _, path := range []string{"/p/counter", "/p/todos", "/fail", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	tests := []struct {
		route, status string
		want          float64
	}{
		{"/p/{page}", "200", 2},
		{"/fail", "500", 1},
		{"other", "404", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.requests.WithLabelValues(tt.route, http.MethodGet, tt.status))
		if got != tt.want {
			t.Errorf("requests{route=%q,status=%s} = %v, want %v", tt.route, tt.status, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 3 {
		t.Errorf("duration series = %d, want 3", n)
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("web"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	newTestRouter(m).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/p/x", nil))

	expected := `
# HELP app_web_requests_total Total number of HTTP requests served
# TYPE app_web_requests_total counter
app_web_requests_total{env="test",method="GET",route="/p/{page}",status="200"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "app_web_requests_total"); err != nil {
		t.Error(err)
	}
}
