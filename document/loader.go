package document

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed default.html
var defaultTemplate string

// Loader retrieves the template document.
type Loader interface {
	Load(ctx context.Context) (string, error)
}

// Default returns a loader for the built-in template, which mounts into
// `<div id="root"></div>`.
func Default() Loader {
	return StaticLoader(defaultTemplate)
}

// StaticLoader serves a template held in memory.
type StaticLoader string

func (s StaticLoader) Load(context.Context) (string, error) {
	return string(s), nil
}

// FileLoader reads the template from disk on every call.
type FileLoader struct {
	Path string
}

func (f FileLoader) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("document: read %s: %w", f.Path, err)
	}
	return string(data), nil
}

// CachedLoader loads the template once and serves the cached copy until
// Invalidate is called. Failed loads are not cached.
type CachedLoader struct {
	src Loader

	mu     sync.RWMutex
	doc    string
	loaded bool
}

// NewCachedLoader wraps src with a cache.
func NewCachedLoader(src Loader) *CachedLoader {
	return &CachedLoader{src: src}
}

func (c *CachedLoader) Load(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.loaded {
		doc := c.doc
		c.mu.RUnlock()
		return doc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.doc, nil
	}
	doc, err := c.src.Load(ctx)
	if err != nil {
		return "", err
	}
	c.doc, c.loaded = doc, true
	return doc, nil
}

// Invalidate drops the cached copy so the next Load reads from the source.
func (c *CachedLoader) Invalidate() {
	c.mu.Lock()
	c.doc, c.loaded = "", false
	c.mu.Unlock()
}

// VarsLoader renders the template from src through pongo2 with Vars before
// returning it, e.g. to fill in a page title.
type VarsLoader struct {
	Src  Loader
	Vars map[string]any
}

func (v VarsLoader) Load(ctx context.Context) (string, error) {
	src, err := v.Src.Load(ctx)
	if err != nil {
		return "", err
	}
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return "", fmt.Errorf("document: parse template: %w", err)
	}
	out, err := tpl.Execute(pongo2.Context(v.Vars))
	if err != nil {
		return "", fmt.Errorf("document: execute template: %w", err)
	}
	return out, nil
}
