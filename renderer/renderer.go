// Package renderer turns an element tree into a complete HTML document.
package renderer

import (
	"context"
	"fmt"

	"github.com/rafbgarcia/minissr/document"
	"github.com/rafbgarcia/minissr/element"
)

// Renderer renders element trees and mounts the markup into the template
// document returned by its loader. It keeps no per-render state, so one
// Renderer serves concurrent requests.
type Renderer struct {
	loader document.Loader
	mount  document.Placeholder
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMountID mounts rendered markup into `<div id="ID"></div>`.
func WithMountID(id string) Option {
	return func(r *Renderer) { r.mount = document.MountPoint(id) }
}

// WithPlaceholder mounts rendered markup at an arbitrary placeholder.
func WithPlaceholder(p document.Placeholder) Option {
	return func(r *Renderer) { r.mount = p }
}

// New creates a Renderer reading templates from loader. A nil loader uses
// the built-in template.
func New(loader document.Loader, opts ...Option) *Renderer {
	if loader == nil {
		loader = document.Default()
	}
	r := &Renderer{
		loader: loader,
		mount:  document.MountPoint(document.DefaultMountID),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Placeholder returns the placeholder markup is mounted into.
func (r *Renderer) Placeholder() document.Placeholder {
	return r.mount
}

// Markup renders root to an HTML string.
func (r *Renderer) Markup(root element.Node) (string, error) {
	html, err := element.RenderToString(root)
	if err != nil {
		return "", fmt.Errorf("renderer: %w", err)
	}
	return html, nil
}

// Render renders root, loads the template, and returns the template with
// the markup mounted at the placeholder.
func (r *Renderer) Render(ctx context.Context, root element.Node) (string, error) {
	html, err := r.Markup(root)
	if err != nil {
		return "", err
	}

	doc, err := r.loader.Load(ctx)
	if err != nil {
		return "", &TemplateError{Err: err}
	}

	return document.Inject(doc, r.mount, html), nil
}

// TemplateError reports that the template document could not be retrieved.
type TemplateError struct {
	Err error
}

func (e *TemplateError) Error() string {
	return "renderer: load template: " + e.Err.Error()
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
