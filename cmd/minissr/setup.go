package main

import (
	"io"

	"github.com/spf13/cobra"

	minissr "github.com/rafbgarcia/minissr"
	"github.com/rafbgarcia/minissr/document"
	"github.com/rafbgarcia/minissr/element"
	"github.com/rafbgarcia/minissr/internal/config"
	"github.com/rafbgarcia/minissr/internal/conventions"
	"github.com/rafbgarcia/minissr/internal/watcher"
	"github.com/rafbgarcia/minissr/renderer"
)

// helloView is the page served by the CLI.
func helloView(ctx *minissr.Context) element.Node {
	return element.Div(nil, element.Text("Hello world!"))
}

// loadConfig resolves configuration for cmd from its --config file, the
// environment and its flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *minissr.Logger {
	level, _ := cfg.Level()
	return minissr.NewLoggerTo(w, level)
}

// pipeline is the configured template source and renderer.
type pipeline struct {
	renderer *renderer.Renderer
	template string // "" for the built-in template
	cache    *document.CachedLoader
	watcher  *watcher.Watcher
}

// Close stops the template watcher, if any.
func (p *pipeline) Close() {
	if p.watcher != nil {
		p.watcher.Stop()
	}
}

// buildPipeline wires the loader chain described by cfg: file or built-in
// template, optional pongo2 variables, optional cache, and optional
// watcher invalidating the cache.
func buildPipeline(cfg *config.Config, log *minissr.Logger) (*pipeline, error) {
	p := &pipeline{template: conventions.ResolveTemplate(".", cfg.Template)}

	var loader document.Loader = document.Default()
	if p.template != "" {
		loader = document.FileLoader{Path: p.template}
	}
	if len(cfg.Vars) > 0 {
		loader = document.VarsLoader{Src: loader, Vars: cfg.Vars}
	}
	if cfg.CacheTemplate {
		p.cache = document.NewCachedLoader(loader)
		loader = p.cache
	}

	if cfg.Watch && p.cache != nil && p.template != "" {
		p.watcher = watcher.New([]string{p.template}, func(batch []watcher.Event) {
			p.cache.Invalidate()
			log.Info("template changed, cache cleared", "path", batch[0].Path, "events", len(batch))
		})
		p.watcher.OnError(func(err error) {
			log.Warn("template watcher", "error", err)
		})
		if err := p.watcher.Start(); err != nil {
			return nil, err
		}
	}

	p.renderer = renderer.New(loader, renderer.WithMountID(cfg.MountID))
	return p, nil
}
