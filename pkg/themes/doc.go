// Package themes maps portfolio templates onto go-theme manifests. Each
// template contributes layout tokens (font, radius, spacing, header
// alignment) that renderers expose as CSS custom properties; the colors chosen
// during the conversation are applied separately and never live in a theme.
package themes
