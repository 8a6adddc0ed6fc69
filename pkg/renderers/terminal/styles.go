package terminal

import (
	"github.com/charmbracelet/lipgloss"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/themes"
)

type styles struct {
	frame        lipgloss.Style
	empty        lipgloss.Style
	header       lipgloss.Style
	title        lipgloss.Style
	accent       lipgloss.Style
	sectionTitle lipgloss.Style
	body         lipgloss.Style
	badge        lipgloss.Style
	tile         lipgloss.Style
	align        lipgloss.Position
}

// newStyles binds the record's colors verbatim to lipgloss styles. Layout
// comes from the theme tokens.
func newStyles(lr *lipgloss.Renderer, data portfolio.Data, cfg *theme.RendererConfig, width int) styles {
	bg := lipgloss.Color(data.BgColor)
	fg := lipgloss.Color(data.TextColor)
	accent := lipgloss.Color(data.AccentColor)

	align := lipgloss.Left
	border := lipgloss.NormalBorder()
	if cfg != nil {
		if cfg.Tokens[themes.TokenHeaderAlign] == "center" {
			align = lipgloss.Center
		}
		switch cfg.Theme {
		case string(portfolio.TemplateModern):
			border = lipgloss.ThickBorder()
		case string(portfolio.TemplateCreative):
			border = lipgloss.RoundedBorder()
		}
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	return styles{
		frame: lr.NewStyle().
			Border(border).
			BorderForeground(accent).
			Background(bg).
			Foreground(fg).
			Padding(0, 1).
			Width(width - 2),
		empty:        lr.NewStyle().Width(inner).Align(lipgloss.Center).Padding(1, 0),
		header:       lr.NewStyle().Width(inner).Align(align),
		title:        lr.NewStyle().Bold(true).Foreground(fg),
		accent:       lr.NewStyle().Foreground(accent),
		sectionTitle: lr.NewStyle().Bold(true).Underline(true).Foreground(accent),
		body:         lr.NewStyle().Width(inner).Foreground(fg),
		badge:        lr.NewStyle().Foreground(accent).Padding(0, 1).Border(lipgloss.NormalBorder(), false, true),
		tile:         lr.NewStyle().Foreground(fg),
		align:        align,
	}
}
