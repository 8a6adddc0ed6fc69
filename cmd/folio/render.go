package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	folio "github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/renderers/terminal"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		rendererName string
		output       string
		standalone   bool
	)

	cmd := &cobra.Command{
		Use:   "render <portfolio.yaml>",
		Short: "Render a saved portfolio record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), cmd.OutOrStdout(), args[0], rendererName, output, standalone)
		},
	}
	cmd.Flags().StringVarP(&rendererName, "renderer", "r", folio.RendererHTML, "renderer to use (html, terminal)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&standalone, "standalone", true, "emit a full HTML document")
	return cmd
}

func (a *app) render(ctx context.Context, out io.Writer, path, rendererName, output string, standalone bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := portfolio.ReadYAML(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	registry, err := folio.NewRegistry(
		folio.WithHTMLOptions(a.htmlOptions()...),
		folio.WithTerminalOptions(terminal.WithColorProfile(lipgloss.NewRenderer(os.Stdout).ColorProfile())),
	)
	if err != nil {
		return err
	}

	rendered, contentType, err := registry.Render(ctx, rendererName, data, folio.RenderOptions{Standalone: standalone})
	if err != nil {
		return err
	}
	a.logger.Debug("rendered portfolio", "renderer", rendererName, "content_type", contentType, "bytes", len(rendered))

	if output != "" {
		if err := os.WriteFile(output, rendered, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "Portfolio written to %s\n", output)
		return nil
	}
	_, err = out.Write(rendered)
	return err
}
