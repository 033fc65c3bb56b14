package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	minissr "github.com/rafbgarcia/minissr"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd)
		},
	}
	cmd.Flags().String("port", "3000", "HTTP server port")
	cmd.Flags().Bool("cache", false, "read the template once instead of on every request")
	cmd.Flags().Bool("watch", false, "clear the template cache when the template file changes")
	cmd.Flags().String("metrics-addr", "", "address for the Prometheus /metrics listener (disabled when empty)")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stdout)

	p, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	template := p.template
	if template == "" {
		template = "built-in"
	}
	log.Info("starting",
		"port", cfg.Port,
		"template", template,
		"mount_id", cfg.MountID,
		"cache", cfg.CacheTemplate,
		"watch", p.watcher != nil,
	)

	app := minissr.NewApp(helloView, p.renderer, minissr.WithLogger(log))

	if cfg.MetricsAddr != "" {
		go func() {
			if err := app.ServeMetrics(ctx, cfg.MetricsAddr); err != nil {
				log.Error("metrics server", "error", err)
			}
		}()
	}

	if err := app.ListenAndServe(ctx, cfg.Addr()); err != nil {
		return err
	}
	log.Info("stopped")
	return nil
}
