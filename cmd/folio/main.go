package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio/internal/config"
	"github.com/goliatone/go-folio/internal/logging"
	htmlrenderer "github.com/goliatone/go-folio/pkg/renderers/html"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	variant    string
	cfg        config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "folio:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Build a portfolio through a guided chat",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.variant != "" {
				cfg.Render.Variant = a.variant
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&a.variant, "variant", "", "theme variant for HTML output (overrides render.variant)")

	root.AddCommand(
		newServeCommand(a),
		newChatCommand(a),
		newRenderCommand(a),
	)
	return root
}

// htmlOptions maps the render config onto HTML renderer options.
func (a *app) htmlOptions() []htmlrenderer.Option {
	return []htmlrenderer.Option{
		htmlrenderer.WithVariant(a.cfg.Render.Variant),
		htmlrenderer.WithTemplatesDir(a.cfg.Render.TemplatesDir),
	}
}
