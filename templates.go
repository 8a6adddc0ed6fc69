package folio

import (
	"io/fs"

	htmlrenderer "github.com/goliatone/go-folio/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return htmlrenderer.TemplatesFS()
}

// AssetsFS exposes the stylesheet served next to rendered pages.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(folio.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return htmlrenderer.AssetsFS()
}
