package dev

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/nano/internal/config"
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/vdom"
)

var counter = vdom.DefineFunc("Counter", func(s vdom.Scope) *vdom.VNode {
	n, set := nano.UseState(s, 0)
	return vdom.Div(
		vdom.Button(vdom.OnClick(func() { set(n + 1) }), "+"),
		vdom.Span(fmt.Sprint(n)),
	)
})

func testCatalog() *Catalog {
	return NewCatalog(
		Page{Name: "counter", Title: "Counter", Body: func() *vdom.VNode { return vdom.C(counter, nil) }},
		Page{Name: "static", Title: "Static", Body: func() *vdom.VNode { return vdom.P("hello") }},
	)
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.New()
	cfg.Dev.Metrics = true
	srv := NewServer(Options{
		Config:   cfg,
		Catalog:  testCatalog(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.closeSessions()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, page string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_nano/ws/" + page
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestPageRendersWithClientScript(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := get(t, ts.URL+"/p/counter")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Counter</title>")
	assert.Contains(t, body, `<div id="app"><div><button>+</button><span>0</span></div></div>`)
	assert.Contains(t, body, `"/_nano/ws/counter"`)

	status, _ = get(t, ts.URL+"/p/missing")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIndexListsPages(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<a href="/p/counter">Counter</a>`)
	assert.Contains(t, body, `<a href="/p/static">Static</a>`)
	assert.Less(t, strings.Index(body, "/p/counter"), strings.Index(body, "/p/static"))
}

func TestSessionInitAndPatch(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts, "counter")

	init := readMessage(t, conn)
	assert.Equal(t, MessageInit, init.Type)
	assert.NotEmpty(t, init.Session)
	assert.Equal(t, "<div><button>+</button><span>0</span></div>", init.HTML)
	assert.Zero(t, init.Mismatches)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "event", Event: "click", Path: []int{0, 0}}))
	patch := readMessage(t, conn)
	assert.Equal(t, MessagePatch, patch.Type)
	assert.Equal(t, uint64(1), patch.Seq)
	assert.Equal(t, "<div><button>+</button><span>1</span></div>", patch.HTML)
	require.NotEmpty(t, patch.Mutations)
	for _, m := range patch.Mutations {
		assert.Equal(t, []int{0, 1}, m.Target, "mutation %+v", m)
	}

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "event", Event: "click", Path: []int{0, 0}}))
	patch = readMessage(t, conn)
	assert.Equal(t, uint64(2), patch.Seq)
	assert.Contains(t, patch.HTML, "<span>2</span>")
}

func TestSessionReportsInvalidMessages(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts, "counter")
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	msg := readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, "N062")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "event", Event: "click", Path: []int{7}}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, "no element at path [7]")
}

func TestUnknownSessionPage(t *testing.T) {
	_, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_nano/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionsEndpointAndMetrics(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts, "static")
	readMessage(t, conn)

	_, body := get(t, ts.URL+"/_nano/sessions")
	var sessions []SessionInfo
	require.NoError(t, json.Unmarshal([]byte(body), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "static", sessions[0].Page)
	assert.Equal(t, float64(1), testutil.ToFloat64(srv.metrics.activeSessions))

	status, metrics := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, metrics, "nano_dev_active_sessions 1")
	assert.Contains(t, metrics, "http_requests_total")

	conn.Close()
	assert.Eventually(t, func() bool {
		return len(srv.Sessions()) == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, float64(0), testutil.ToFloat64(srv.metrics.activeSessions))
}

func TestMetricsDisabled(t *testing.T) {
	srv, ts := newTestServer(t)
	cfg := config.New()
	cfg.Dev.Metrics = false
	srv.SetConfig(cfg)

	status, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSetConfigReloadsBrowsers(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts, "static")
	readMessage(t, conn)

	srv.SetConfig(config.New())
	assert.Equal(t, MessageReload, readMessage(t, conn).Type)
}

func TestServeShutsDownSessions(t *testing.T) {
	srv := NewServer(Options{
		Catalog:  testCatalog(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	url := "ws://" + ln.Addr().String() + "/_nano/ws/static"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var init ServerMessage
	require.NoError(t, conn.ReadJSON(&init))

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "session connection should be closed")
}

func TestPaths(t *testing.T) {
	doc, err := dom.ParseHTMLString(`<html><body><div id="app">a<p>x</p>b<ul><li>1</li><li>2</li></ul></div><p id="out"></p></body></html>`)
	require.NoError(t, err)
	app := doc.GetElementByID("app")
	ul := app.GetElementsByTag("ul")[0]
	second := ul.LastChild()
	text := app.GetElementsByTag("p")[0].FirstChild()

	assert.Equal(t, []int{1, 1}, pathOf(app, second))
	assert.Equal(t, []int{0}, pathOf(app, text), "text resolves to its parent element")
	assert.Empty(t, pathOf(app, app))
	assert.Nil(t, pathOf(app, doc.GetElementByID("out")))

	assert.Same(t, second, resolvePath(app, []int{1, 1}))
	assert.Same(t, app, resolvePath(app, nil))
	assert.Nil(t, resolvePath(app, []int{2}))
	assert.Nil(t, resolvePath(app, []int{-1}))
}

func TestClientScriptEmbedsQuotedValues(t *testing.T) {
	js := clientScript("a\"b", "root")
	assert.Contains(t, js, `"/_nano/ws/a\"b"`)
	assert.Contains(t, js, `document.getElementById("root")`)
	assert.NotContains(t, js, "__WS_PATH__")
}
