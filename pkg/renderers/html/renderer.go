package html

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/render"
	rendertemplate "github.com/goliatone/go-folio/pkg/render/template"
	gotemplate "github.com/goliatone/go-folio/pkg/render/template/gotemplate"
	"github.com/goliatone/go-folio/pkg/themes"
)

const (
	previewTemplate = "templates/preview"
	chatTemplate    = "templates/chat"
	pageTemplate    = "templates/page"

	defaultTitle      = "Portfolio Builder"
	defaultChatAction = "/chat"
)

type Option func(*config)

type config struct {
	templateFS  fs.FS
	templateDir string
	selector    theme.ThemeSelector
	variant     string
	title       string
	chatAction  string
}

// WithTemplatesFS replaces the embedded template bundle. The bundle must hold
// templates/preview.tmpl, templates/chat.tmpl and templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk laid out like the
// embedded bundle. Files missing from the directory fall back to the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithThemeSelector resolves layout tokens when RenderOptions carry no theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		if selector != nil {
			cfg.selector = selector
		}
	}
}

// WithVariant selects a theme variant for every render.
func WithVariant(variant string) Option {
	return func(cfg *config) {
		cfg.variant = strings.TrimSpace(variant)
	}
}

// WithTitle sets the document title used for standalone pages.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(title) != "" {
			cfg.title = title
		}
	}
}

// WithChatAction sets the path prefix chat forms post to.
func WithChatAction(prefix string) Option {
	return func(cfg *config) {
		cfg.chatAction = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// Renderer projects portfolio records into HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	selector   theme.ThemeSelector
	variant    string
	title      string
	chatAction string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		title:      defaultTitle,
		chatAction: defaultChatAction,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.selector == nil {
		cfg.selector = themes.Default()
	}

	engineOptions := []gotemplate.Option{
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithExtension(".tmpl"),
	}
	if cfg.templateDir != "" {
		engineOptions = append(engineOptions, gotemplate.WithBaseDir(cfg.templateDir))
	}
	engine, err := gotemplate.New(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
	}

	return &Renderer{
		templates:  engine,
		selector:   cfg.selector,
		variant:    cfg.variant,
		title:      cfg.title,
		chatAction: cfg.chatAction,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the preview fragment, or a complete document when
// options.Standalone is set.
func (r *Renderer) Render(ctx context.Context, data portfolio.Data, options render.RenderOptions) ([]byte, error) {
	preview, cfg, err := r.renderPreview(ctx, data, options)
	if err != nil {
		return nil, err
	}
	if !options.Standalone {
		return []byte(preview), nil
	}
	return r.renderPage(preview, "", false, cfg)
}

// RenderChat renders the chat panel for the given view.
func (r *Renderer) RenderChat(ctx context.Context, view ChatView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := r.renderTemplate(chatTemplate, map[string]any{
		"chat": r.buildChatContext(view),
	})
	if err != nil {
		return nil, err
	}
	return []byte(result), nil
}

// RenderPage composes the preview and chat panel into a complete document.
func (r *Renderer) RenderPage(ctx context.Context, data portfolio.Data, view ChatView, options render.RenderOptions) ([]byte, error) {
	preview, cfg, err := r.renderPreview(ctx, data, options)
	if err != nil {
		return nil, err
	}
	chat, err := r.RenderChat(ctx, view)
	if err != nil {
		return nil, err
	}
	return r.renderPage(preview, string(chat), view.Busy, cfg)
}

func (r *Renderer) renderPreview(ctx context.Context, data portfolio.Data, options render.RenderOptions) (string, *theme.RendererConfig, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	cfg, err := r.themeConfig(data.Template, options)
	if err != nil {
		return "", nil, err
	}
	result, err := r.renderTemplate(previewTemplate, map[string]any{
		"preview": buildPreviewContext(data, cfg),
	})
	if err != nil {
		return "", nil, err
	}
	return result, cfg, nil
}

// renderPage wraps the fragments in a document. A busy chat reloads itself so
// the prompt that follows a color pick shows up without user action.
func (r *Renderer) renderPage(preview, chat string, busy bool, cfg *theme.RendererConfig) ([]byte, error) {
	stylesheet := "/assets/" + StylesheetName
	if cfg != nil && cfg.AssetURL != nil {
		if url := cfg.AssetURL(themes.AssetStylesheet); url != "" {
			stylesheet = url
		}
	}
	result, err := r.renderTemplate(pageTemplate, map[string]any{
		"page": map[string]any{
			"title":      r.title,
			"stylesheet": stylesheet,
			"preview":    preview,
			"chat":       chat,
			"refresh":    busy,
		},
	})
	if err != nil {
		return nil, err
	}
	return []byte(result), nil
}

func (r *Renderer) renderTemplate(name string, data map[string]any) (string, error) {
	if r.templates == nil {
		return "", fmt.Errorf("html renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("html renderer: render %s: %w", name, err)
	}
	return result, nil
}

func (r *Renderer) themeConfig(tpl portfolio.Template, options render.RenderOptions) (*theme.RendererConfig, error) {
	if options.Theme != nil {
		return options.Theme, nil
	}
	selection, err := r.selector.Select(string(tpl), r.variant)
	if err != nil {
		return nil, fmt.Errorf("html renderer: select theme: %w", err)
	}
	return themes.RendererConfig(selection), nil
}
