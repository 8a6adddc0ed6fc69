package render

import (
	"context"

	"github.com/goliatone/go-folio/pkg/portfolio"
)

// Renderer projects a portfolio record into a byte representation (HTML,
// terminal text). Implementations must be pure: identical input yields
// identical output and the record is never modified.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, data portfolio.Data, options RenderOptions) ([]byte, error)
}
