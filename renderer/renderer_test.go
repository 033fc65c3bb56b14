package renderer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rafbgarcia/minissr/document"
	"github.com/rafbgarcia/minissr/element"
)

func testdataDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata")
}

func templateFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(testdataDir(), "index.html")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("missing fixture: %v", err)
	}
	return path
}

func readFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(templateFile(t))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRenderHelloWorld(t *testing.T) {
	r := New(document.FileLoader{Path: templateFile(t)})

	root := element.Div(nil, element.Text("Hello world!"))
	markup, err := r.Markup(root)
	if err != nil {
		t.Fatalf("Markup: %v", err)
	}
	if markup != "<div>Hello world!</div>" {
		t.Errorf("Markup = %q", markup)
	}

	html, err := r.Render(context.Background(), root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := strings.Replace(readFixture(t), `<div id="root"></div>`, `<div id="root"><div>Hello world!</div></div>`, 1)
	if html != want {
		t.Errorf("Render =\n%s\nwant\n%s", html, want)
	}
}

func TestRenderEmptyTree(t *testing.T) {
	r := New(document.FileLoader{Path: templateFile(t)})

	html, err := r.Render(context.Background(), element.Fragment())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html != readFixture(t) {
		t.Errorf("expected template unchanged with an empty mount point, got:\n%s", html)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := New(nil)
	root := element.Main(element.Attrs{"id": "m", "class": "x"},
		element.H1(nil, element.Text("Posts")),
		element.Ul(nil, element.Li(nil, element.Text("First")), element.Li(nil, element.Text("Second"))),
	)

	first, err := r.Render(context.Background(), root)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, _ := r.Render(context.Background(), root)
		if got != first {
			t.Fatalf("render %d differs", i)
		}
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	r := New(document.FileLoader{Path: filepath.Join(t.TempDir(), "missing.html")})

	_, err := r.Render(context.Background(), element.Div(nil, element.Text("x")))
	if err == nil {
		t.Fatal("expected error for missing template")
	}
	var tplErr *TemplateError
	if !errors.As(err, &tplErr) {
		t.Fatalf("expected *TemplateError, got %T: %v", err, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist in chain, got: %v", err)
	}
	if !strings.Contains(err.Error(), "renderer: load template") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRenderInvalidTree(t *testing.T) {
	r := New(nil)
	_, err := r.Render(context.Background(), element.El("br", nil, element.Text("x")))
	if err == nil {
		t.Fatal("expected error for void element with children")
	}
	var tplErr *TemplateError
	if errors.As(err, &tplErr) {
		t.Errorf("render error must not be reported as a template error: %v", err)
	}
}

func TestRenderMissingPlaceholder(t *testing.T) {
	const doc = "<html><body><main></main></body></html>"
	r := New(document.StaticLoader(doc))

	html, err := r.Render(context.Background(), element.P(nil, element.Text("lost")))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html != doc {
		t.Errorf("expected document unchanged, got %s", html)
	}
}

func TestRenderCustomMount(t *testing.T) {
	r := New(document.StaticLoader(`<div id="root"></div><div id="app"></div>`), WithMountID("app"))

	html, err := r.Render(context.Background(), element.Text("hi"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html != `<div id="root"></div><div id="app">hi</div>` {
		t.Errorf("Render = %s", html)
	}
	if r.Placeholder().Token() != `<div id="app"></div>` {
		t.Errorf("Placeholder = %q", r.Placeholder().Token())
	}
}

func TestRenderWithPlaceholder(t *testing.T) {
	r := New(document.StaticLoader("<body><!--ssr--></body>"),
		WithPlaceholder(document.Placeholder{Open: "<!--ssr-->"}))

	html, err := r.Render(context.Background(), element.P(nil, element.Text("x")))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html != "<body><!--ssr--><p>x</p></body>" {
		t.Errorf("Render = %s", html)
	}
}
