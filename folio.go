// Package folio bundles the conversation engine and the built-in renderers
// behind a few entry points for callers that just want a portfolio on screen.
package folio

import (
	"context"
	"fmt"

	"github.com/goliatone/go-folio/pkg/conversation"
	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/render"
	htmlrenderer "github.com/goliatone/go-folio/pkg/renderers/html"
	"github.com/goliatone/go-folio/pkg/renderers/terminal"
)

// Renderer names registered by NewRegistry.
const (
	RendererHTML     = "html"
	RendererTerminal = "terminal"
)

// RenderOptions aliases render.RenderOptions for callers of the root package.
type RenderOptions = render.RenderOptions

// Data aliases the portfolio record.
type Data = portfolio.Data

// NewEngine exposes the conversation engine constructor from the top-level
// module.
func NewEngine(options ...conversation.Option) *conversation.Engine {
	return conversation.New(options...)
}

type registryConfig struct {
	html     []htmlrenderer.Option
	terminal []terminal.Option
}

// RegistryOption configures the renderers built by NewRegistry.
type RegistryOption func(*registryConfig)

// WithHTMLOptions forwards options to the HTML renderer.
func WithHTMLOptions(options ...htmlrenderer.Option) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.html = append(cfg.html, options...)
	}
}

// WithTerminalOptions forwards options to the terminal renderer.
func WithTerminalOptions(options ...terminal.Option) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.terminal = append(cfg.terminal, options...)
	}
}

// NewRegistry returns a registry holding the HTML and terminal renderers.
func NewRegistry(options ...RegistryOption) (*render.Registry, error) {
	cfg := &registryConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	html, err := htmlrenderer.New(cfg.html...)
	if err != nil {
		return nil, fmt.Errorf("folio: html renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(terminal.New(cfg.terminal...)); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderHTML renders data with the HTML renderer. Standalone output is a full
// document, otherwise a fragment.
func RenderHTML(ctx context.Context, data Data, standalone bool) ([]byte, error) {
	renderer, err := htmlrenderer.New()
	if err != nil {
		return nil, fmt.Errorf("folio: html renderer: %w", err)
	}
	return renderer.Render(ctx, data, RenderOptions{Standalone: standalone})
}
