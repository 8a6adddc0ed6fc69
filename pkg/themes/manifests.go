package themes

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-folio/pkg/portfolio"
)

// Token keys understood by the built-in renderers.
const (
	TokenFont           = "font-family"
	TokenRadius         = "radius"
	TokenHeaderAlign    = "header-align"
	TokenHeaderWeight   = "header-weight"
	TokenSpacing        = "spacing"
	TokenGalleryColumns = "gallery-columns"
	TokenShadow         = "shadow"
)

// Partial and asset keys.
const (
	PartialPreview  = "preview"
	AssetStylesheet = "stylesheet"
)

// VariantCompact tightens spacing and drops shadows.
const VariantCompact = "compact"

// AssetPrefix is the URL prefix the stylesheet is served under.
const AssetPrefix = "/assets"

func baseManifest(name string, tokens map[string]string) *theme.Manifest {
	return &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  tokens,
		Templates: map[string]string{
			PartialPreview: "templates/preview.tmpl",
		},
		Assets: theme.Assets{
			Prefix: AssetPrefix,
			Files: map[string]string{
				AssetStylesheet: "folio.css",
			},
		},
		Variants: map[string]theme.Variant{
			VariantCompact: {
				Tokens: map[string]string{
					TokenSpacing: "1rem",
					TokenShadow:  "none",
				},
			},
		},
	}
}

// Manifests returns one manifest per template, in display order.
func Manifests() []*theme.Manifest {
	return []*theme.Manifest{
		baseManifest(string(portfolio.TemplateMinimal), map[string]string{
			TokenFont:           "system-ui, -apple-system, sans-serif",
			TokenRadius:         "8px",
			TokenHeaderAlign:    "left",
			TokenHeaderWeight:   "600",
			TokenSpacing:        "2rem",
			TokenGalleryColumns: "2",
			TokenShadow:         "none",
		}),
		baseManifest(string(portfolio.TemplateModern), map[string]string{
			TokenFont:           "'Inter', system-ui, sans-serif",
			TokenRadius:         "16px",
			TokenHeaderAlign:    "center",
			TokenHeaderWeight:   "800",
			TokenSpacing:        "2.5rem",
			TokenGalleryColumns: "3",
			TokenShadow:         "0 10px 30px rgba(0, 0, 0, 0.15)",
		}),
		baseManifest(string(portfolio.TemplateCreative), map[string]string{
			TokenFont:           "Georgia, 'Times New Roman', serif",
			TokenRadius:         "24px",
			TokenHeaderAlign:    "center",
			TokenHeaderWeight:   "700",
			TokenSpacing:        "3rem",
			TokenGalleryColumns: "3",
			TokenShadow:         "0 4px 0 rgba(0, 0, 0, 0.25)",
		}),
	}
}
