package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rafbgarcia/minissr/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderBuiltinTemplate(t *testing.T) {
	out, _, err := runCLI(t, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<div id="root"><div>Hello world!</div></div>`) {
		t.Errorf("expected mounted markup, got:\n%s", out)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("expected full document, got:\n%s", out)
	}
}

func TestRenderTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	os.WriteFile(path, []byte(`<body><main id="app"></main><div id="app"></div></body>`), 0644)

	out, _, err := runCLI(t, "render", "--template", path, "--mount-id", "app")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<body><main id="app"></main><div id="app"><div>Hello world!</div></div></body>`
	if out != want {
		t.Errorf("render =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderTemplateVars(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "page.html")
	os.WriteFile(tpl, []byte(`<title>{{ title }}</title><div id="root"></div>`), 0644)
	cfg := filepath.Join(dir, "minissr.yaml")
	os.WriteFile(cfg, []byte("template: "+tpl+"\nvars:\n  title: Home\n"), 0644)

	out, _, err := runCLI(t, "render", "--config", cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != `<title>Home</title><div id="root"><div>Hello world!</div></div>` {
		t.Errorf("render = %s", out)
	}
}

func TestRenderTemplateVarsMixedCase(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "page.html")
	os.WriteFile(tpl, []byte(`<title>{{ pageTitle }}</title><div id="root"></div>`), 0644)
	cfg := filepath.Join(dir, "minissr.yaml")
	os.WriteFile(cfg, []byte("template: "+tpl+"\nvars:\n  pageTitle: Home\n"), 0644)

	out, _, err := runCLI(t, "render", "--config", cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != `<title>Home</title><div id="root"><div>Hello world!</div></div>` {
		t.Errorf("render = %s", out)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.html")
	_, stderr, err := runCLI(t, "render", "--template", missing)
	if err == nil {
		t.Fatal("expected error for missing template")
	}
	if !strings.Contains(stderr, "render failed") {
		t.Errorf("expected error log on stderr, got:\n%s", stderr)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := runCLI(t, "render", "--mount-id", "bad id")
	if err == nil || !strings.Contains(err.Error(), "mount_id") {
		t.Fatalf("expected mount_id config error, got %v", err)
	}

	_, _, err = runCLI(t, "serve", "--port", "nope")
	if err == nil || !strings.Contains(err.Error(), "port") {
		t.Fatalf("expected port config error, got %v", err)
	}
}

func TestBuildPipelineCacheAndWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	os.WriteFile(path, []byte(`<div id="root"></div>`), 0644)

	cfg, err := loadTestConfig(t, "--template", path, "--cache", "--watch")
	if err != nil {
		t.Fatal(err)
	}
	p, err := buildPipeline(cfg, newLogger(cfg, &bytes.Buffer{}))
	if err != nil {
		t.Fatalf("buildPipeline: %v", err)
	}
	defer p.Close()

	if p.cache == nil || p.watcher == nil {
		t.Fatalf("expected cache and watcher, got cache=%v watcher=%v", p.cache != nil, p.watcher != nil)
	}
	if p.template != path {
		t.Errorf("template = %q, want %q", p.template, path)
	}
}

// loadTestConfig parses args with the serve command's flags and loads the
// resulting configuration.
func loadTestConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	if err := serve.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return loadConfig(serve)
}
