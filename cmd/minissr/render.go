package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render the page once and write it to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			p, err := buildPipeline(cfg, log)
			if err != nil {
				return err
			}
			defer p.Close()

			page, err := p.renderer.Render(cmd.Context(), helloView(nil))
			if err != nil {
				log.Error("render failed", "error", err)
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), page)
			return err
		},
	}
}
