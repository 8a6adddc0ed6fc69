package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carry per-call presentation settings that are not part of
// the portfolio record.
type RenderOptions struct {
	// Theme supplies layout tokens resolved for the record's template. When
	// nil, renderers resolve the built-in theme themselves.
	Theme *theme.RendererConfig
	// Standalone asks HTML renderers for a complete document instead of a
	// fragment suitable for embedding.
	Standalone bool
}
