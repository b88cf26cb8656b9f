package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omm-dev/omm/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func testProject(t *testing.T, configJSON string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ConfigFileName), configJSON)
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func discardLogger(t *testing.T) *slog.Logger {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return slog.New(slog.NewTextHandler(f, nil))
}

func TestBuildProject(t *testing.T) {
	cfg := testProject(t, `{"inputs": ["pages/*.json", "pages/*.yaml"], "build": {"minify": false}}`)
	writeFile(t, filepath.Join(cfg.Dir(), "pages", "index.json"),
		`{"div": [{"h1": "Home"}], "style": {"color": "red"}}`)
	writeFile(t, filepath.Join(cfg.Dir(), "pages", "about.yaml"),
		"p: About us\nclass: note\n")

	b := New(cfg, Options{Logger: discardLogger(t)})
	res, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(res.Pages))
	}

	about, err := os.ReadFile(filepath.Join(cfg.OutputPath(), "about.html"))
	if err != nil {
		t.Fatalf("about.html not written: %v", err)
	}
	if !strings.Contains(string(about), `<p class="note">About us</p>`) {
		t.Errorf("about.html missing fragment, got %q", about)
	}

	css, err := os.ReadFile(res.Stylesheet)
	if err != nil {
		t.Fatalf("stylesheet not written: %v", err)
	}
	if !strings.Contains(string(css), ".omm-index-1 { color: red; }") {
		t.Errorf("stylesheet missing page-prefixed rule, got %q", css)
	}

	index, err := os.ReadFile(filepath.Join(cfg.OutputPath(), "index.html"))
	if err != nil {
		t.Fatalf("index.html not written: %v", err)
	}
	if !strings.Contains(string(index), `href="styles.css"`) {
		t.Errorf("styled page should link the stylesheet, got %q", index)
	}
	if !strings.Contains(string(index), `class="omm-index-1"`) {
		t.Errorf("index.html missing generated class, got %q", index)
	}
}

func TestBuildNoInputs(t *testing.T) {
	cfg := testProject(t, `{"inputs": ["pages/*.json"]}`)

	b := New(cfg, Options{Logger: discardLogger(t)})
	if _, err := b.Build(context.Background()); err == nil {
		t.Fatal("expected error when no documents match")
	}
}

func TestBuildContinuesPastFailedDocument(t *testing.T) {
	cfg := testProject(t, `{"inputs": ["pages/*.json"], "build": {"minify": false}}`)
	writeFile(t, filepath.Join(cfg.Dir(), "pages", "bad.json"), `{`)
	writeFile(t, filepath.Join(cfg.Dir(), "pages", "good.json"), `{"p": "fine"}`)

	b := New(cfg, Options{Logger: discardLogger(t)})
	res, err := b.Build(context.Background())
	if err == nil {
		t.Fatal("expected error when a document fails")
	}
	if res == nil {
		t.Fatal("partial result should still be returned")
	}
	if len(res.Failed) != 1 || !strings.HasSuffix(res.Failed[0], "bad.json") {
		t.Errorf("got failed %v, want bad.json", res.Failed)
	}
	if len(res.Pages) != 1 || res.Pages[0].Name != "good" {
		t.Errorf("good document should still build, got %+v", res.Pages)
	}
}

func TestBuildMinify(t *testing.T) {
	cfg := testProject(t, `{"inputs": ["pages/*.json"], "build": {"minify": true}}`)
	writeFile(t, filepath.Join(cfg.Dir(), "pages", "index.json"),
		`{"div": [{"h1": "Home"}], "style": {"color": "red"}}`)

	b := New(cfg, Options{Logger: discardLogger(t)})
	res, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html, err := os.ReadFile(res.Pages[0].Output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "omm-index-1") {
		t.Errorf("minified page missing generated class, got %q", html)
	}
}

func TestPageName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"pages/index.json", "index"},
		{"a/b/about.yaml", "about"},
		{"plain.yml", "plain"},
	}
	for _, tt := range tests {
		if got := pageName(tt.path); got != tt.want {
			t.Errorf("pageName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCSSIdent(t *testing.T) {
	if got := cssIdent("my page.v2"); got != "my-page-v2" {
		t.Errorf("got %q", got)
	}
}
