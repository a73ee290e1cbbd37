package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/nano"
)

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != "dev\n" {
		t.Errorf("version = %q, want %q", out, "dev\n")
	}
}

func TestRender(t *testing.T) {
	out, err := run(t, "render", "counter")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("output is not a document: %.40q", out)
	}
	if !strings.Contains(out, `<div id="app"><div class="counter">`) {
		t.Errorf("counter markup missing:\n%s", out)
	}

	out, err = run(t, "render", "clock", "--fragment")
	if err != nil {
		t.Fatal(err)
	}
	if want := "<p class=\"clock\"><code>--:--:--</code></p>\n"; out != want {
		t.Errorf("fragment = %q, want %q", out, want)
	}
}

func TestRenderUnknownPage(t *testing.T) {
	_, err := run(t, "render", "nope")
	if !errors.Is(err, "N021") {
		t.Fatalf("err = %v, want N021", err)
	}
	var ne *errors.NanoError
	if !stderrors.As(err, &ne) || !strings.Contains(ne.Suggestion, "counter") {
		t.Errorf("suggestion should list pages, got %+v", ne)
	}
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", "counter")
	if err != nil {
		t.Fatal(err)
	}
	var info nano.NodeInfo
	if err := yaml.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("yaml: %v\n%s", err, out)
	}
	if info.Name != "Counter" || info.Phase != "mounted" {
		t.Errorf("root = %s (%s), want Counter (mounted)", info.Name, info.Phase)
	}
	if len(info.Children) != 1 || info.Children[0].Name != "div" {
		t.Fatalf("children = %+v", info.Children)
	}
	buttons := 0
	for _, c := range info.Children[0].Children {
		if c.Name == "button" && len(c.Handlers) == 1 && c.Handlers[0] == "click" {
			buttons++
		}
	}
	if buttons != 2 {
		t.Errorf("buttons with click handlers = %d, want 2", buttons)
	}

	out, err = run(t, "inspect", "todos", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"name": "TodoItem"`) {
		t.Errorf("json dump missing TodoItem:\n%s", out)
	}

	if _, err := run(t, "inspect", "counter", "--format", "xml"); !errors.Is(err, "N080") {
		t.Errorf("err = %v, want N080", err)
	}
}

func TestHydrateCheck(t *testing.T) {
	page := filepath.Join(t.TempDir(), "todos.html")
	if _, err := run(t, "render", "todos", "--output", page); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "hydrate-check", page, "--page", "todos")
	if err != nil {
		t.Fatalf("hydrate-check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "no mutations") || !strings.Contains(out, "hydrates cleanly") {
		t.Errorf("output = %s", out)
	}

	out, err = run(t, "hydrate-check", page, "--page", "todos", "--lazy")
	if err != nil {
		t.Fatalf("lazy hydrate-check: %v", err)
	}
	if !strings.Contains(out, "lazy hydration started by visible") {
		t.Errorf("output = %s", out)
	}
}

func TestHydrateCheckReportsMismatches(t *testing.T) {
	stale := writeFile(t, "stale.html", `<html><body><div id="app"><p>stale</p></div></body></html>`)
	out, err := run(t, "hydrate-check", stale, "--page", "counter")
	if !errors.Is(err, "N040") {
		t.Fatalf("err = %v, want N040", err)
	}
	if !strings.Contains(out, "mutations:") {
		t.Errorf("mutation report missing: %s", out)
	}

	noContainer := writeFile(t, "empty.html", `<html><body></body></html>`)
	if _, err := run(t, "hydrate-check", noContainer, "--page", "counter"); !errors.Is(err, "N041") {
		t.Errorf("err = %v, want N041", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.html")
	if _, err := run(t, "hydrate-check", missing, "--page", "counter"); !errors.Is(err, "N081") {
		t.Errorf("err = %v, want N081", err)
	}

	if _, err := run(t, "hydrate-check", stale); err == nil {
		t.Error("--page is required")
	}
}

func TestConfig(t *testing.T) {
	path := writeFile(t, "nano.yaml", "dev:\n  port: 8080\nlog:\n  format: json\n")
	out, err := run(t, "config", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "port: 8080") || !strings.Contains(out, "format: json") {
		t.Errorf("config = %s", out)
	}

	out, err = run(t, "config", "--config", path, "--check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("check output = %s", out)
	}

	bad := writeFile(t, "bad.yaml", "dev:\n  port: 0\n")
	if _, err := run(t, "config", "--config", bad, "--check"); !errors.Is(err, "N001") {
		t.Errorf("err = %v, want N001", err)
	}

	if _, err := run(t, "config", "--log-level", "loud"); !errors.Is(err, "N001") {
		t.Errorf("err = %v, want N001", err)
	}
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "--clients", "2", "--duration", "300ms", "--rps", "20", "--list", "3", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var report struct {
		Clients int    `json:"clients"`
		Events  uint64 `json:"events"`
		Errors  struct {
			FailedClients uint64 `json:"failed_clients"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out)
	}
	if report.Clients != 2 || report.Events == 0 || report.Errors.FailedClients != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestBenchRejectsBadOptions(t *testing.T) {
	for _, args := range [][]string{
		{"bench", "--profile", "huge"},
		{"bench", "--clients", "-1"},
	} {
		_, err := run(t, args...)
		if !errors.Is(err, "N080") {
			t.Errorf("%v: err = %v, want N080", args, err)
		}
	}
}
