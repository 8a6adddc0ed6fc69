package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio/pkg/conversation"
	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/render"
	htmlrenderer "github.com/goliatone/go-folio/pkg/renderers/html"
	"github.com/goliatone/go-folio/pkg/renderers/terminal"
	"github.com/goliatone/go-folio/pkg/tui"
)

func newChatCommand(a *app) *cobra.Command {
	var (
		output string
		save   string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Build a portfolio interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.chat(cmd.Context(), cmd.OutOrStdout(), output, save)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the finished portfolio as a standalone HTML page")
	cmd.Flags().StringVar(&save, "save", "", "write the finished portfolio record as YAML")
	return cmd
}

func (a *app) chat(ctx context.Context, out io.Writer, output, save string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	engine := conversation.New(
		conversation.WithScheduler(conversation.BlockingScheduler{}),
		conversation.WithColorDelay(a.cfg.Chat.ColorDelay),
		conversation.WithImageEncoder(conversation.DataURIEncoder{MaxBytes: a.cfg.Upload.MaxBytes}),
		conversation.WithLogger(a.logger),
	)
	wizard := tui.New(
		tui.WithEngine(engine),
		tui.WithLogger(a.logger),
	)

	data, err := wizard.Run(ctx)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
		return err
	}

	if save != "" {
		if err := savePortfolio(save, data); err != nil {
			return err
		}
		fmt.Fprintf(out, "Portfolio saved to %s\n", save)
	}

	if output != "" {
		renderer, err := htmlrenderer.New(a.htmlOptions()...)
		if err != nil {
			return err
		}
		page, err := renderer.Render(ctx, data, render.RenderOptions{Standalone: true})
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, page, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "Portfolio written to %s\n", output)
		return nil
	}

	preview := terminal.New(
		terminal.WithColorProfile(lipgloss.NewRenderer(os.Stdout).ColorProfile()),
	)
	frame, err := preview.Render(ctx, data, render.RenderOptions{})
	if err != nil {
		return err
	}
	_, err = out.Write(frame)
	return err
}

func savePortfolio(path string, data portfolio.Data) error {
	var buf bytes.Buffer
	if err := portfolio.WriteYAML(&buf, data); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write portfolio: %w", err)
	}
	return nil
}
