package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/render"
	"github.com/goliatone/go-folio/pkg/themes"
)

const defaultWidth = 72

type Option func(*Renderer)

// WithWidth sets the preview box width in cells.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithColorProfile selects how colors are emitted. termenv.Ascii strips them.
func WithColorProfile(profile termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = profile
	}
}

// WithThemeSelector resolves layout tokens when RenderOptions carry no theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(r *Renderer) {
		if selector != nil {
			r.selector = selector
		}
	}
}

// Renderer draws the portfolio preview as styled terminal text.
type Renderer struct {
	width    int
	profile  termenv.Profile
	selector theme.ThemeSelector
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer. The default profile is plain ASCII.
func New(options ...Option) *Renderer {
	r := &Renderer{
		width:    defaultWidth,
		profile:  termenv.Ascii,
		selector: themes.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "terminal"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, data portfolio.Data, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := options.Theme
	if cfg == nil {
		selection, err := r.selector.Select(string(data.Template), "")
		if err != nil {
			return nil, fmt.Errorf("terminal renderer: select theme: %w", err)
		}
		cfg = themes.RendererConfig(selection)
	}

	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(r.profile)
	st := newStyles(lr, data, cfg, r.width)

	var body string
	if data.Template == portfolio.TemplateUnset {
		body = st.empty.Render(lipgloss.JoinVertical(lipgloss.Center,
			st.accent.Render("✦"),
			st.title.Render("Start Building Your Portfolio"),
			"Click the chat button below to get started!",
		))
	} else {
		body = r.portfolio(st, data)
	}
	return []byte(st.frame.Render(body) + "\n"), nil
}

func (r *Renderer) portfolio(st styles, data portfolio.Data) string {
	blocks := []string{r.header(st, data)}

	if data.Bio != "" {
		blocks = append(blocks, section(st, "About Me", st.body.Render(data.Bio)))
	}
	if len(data.Skills) > 0 {
		badges := make([]string, len(data.Skills))
		for i, skill := range data.Skills {
			badges[i] = st.badge.Render(skill)
		}
		blocks = append(blocks, section(st, "Skills", st.body.Render(strings.Join(badges, " "))))
	}
	if len(data.Gallery) > 0 {
		tiles := make([]string, len(data.Gallery))
		for i, ref := range data.Gallery {
			tiles[i] = st.tile.Render(fmt.Sprintf("Gallery %d · %s", i+1, mediaLabel(ref)))
		}
		blocks = append(blocks, section(st, "Gallery", lipgloss.JoinVertical(lipgloss.Left, tiles...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (r *Renderer) header(st styles, data portfolio.Data) string {
	name := data.Name
	if strings.TrimSpace(name) == "" {
		name = "Your Name"
	}
	profession := data.Profession
	if strings.TrimSpace(profession) == "" {
		profession = "Your Profession"
	}

	lines := make([]string, 0, 3)
	if data.ProfileImage != "" {
		lines = append(lines, st.accent.Render("◉ "+mediaLabel(data.ProfileImage)))
	}
	lines = append(lines, st.title.Render(name), st.accent.Render(profession))
	return st.header.Render(lipgloss.JoinVertical(st.align, lines...))
}

func section(st styles, title, content string) string {
	return lipgloss.JoinVertical(lipgloss.Left, "", st.sectionTitle.Render(title), content)
}

// mediaLabel returns the media type of a data URI, or "image" for any other
// reference.
func mediaLabel(ref string) string {
	if !strings.HasPrefix(ref, "data:") {
		return "image"
	}
	meta, _, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return "image"
	}
	mediaType, _, _ := strings.Cut(meta, ";")
	if mediaType == "" {
		return "image"
	}
	return mediaType
}
