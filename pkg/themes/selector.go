package themes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-folio/pkg/portfolio"
)

var (
	// ErrUnknownTheme is returned when no manifest carries the requested name.
	ErrUnknownTheme = errors.New("themes: unknown theme")
	// ErrUnknownVariant is returned when a manifest has no such variant.
	ErrUnknownVariant = errors.New("themes: unknown variant")
)

// Selector resolves template names to theme selections. It satisfies
// theme.ThemeSelector so callers holding a go-theme registry can swap it in.
type Selector struct {
	manifests    map[string]*theme.Manifest
	defaultTheme string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector validates the manifests against a go-theme registry and indexes
// them by name. The first manifest is the default.
func NewSelector(manifests ...*theme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		return nil, errors.New("themes: at least one manifest is required")
	}

	registry := theme.NewRegistry()
	index := make(map[string]*theme.Manifest, len(manifests))
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("themes: register %q: %w", manifest.Name, err)
		}
		index[manifest.Name] = manifest
	}

	return &Selector{
		manifests:    index,
		defaultTheme: manifests[0].Name,
	}, nil
}

var (
	defaultOnce     sync.Once
	defaultSelector *Selector
	defaultErr      error
)

// Default returns the selector over the built-in manifests.
func Default() *Selector {
	defaultOnce.Do(func() {
		defaultSelector, defaultErr = NewSelector(Manifests()...)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultSelector
}

// Select returns the manifest registered under name. An empty name selects
// the default theme; an empty variant selects the base tokens.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q for theme %q", ErrUnknownVariant, variant, name)
		}
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Names lists the registered theme names in sorted order.
func (s *Selector) Names() []string {
	out := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Config resolves the renderer configuration for a portfolio template. An
// unset template resolves to the default theme.
func (s *Selector) Config(tpl portfolio.Template, variant string) (*theme.RendererConfig, error) {
	selection, err := s.Select(string(tpl), variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection), nil
}

// RendererConfig flattens a selection into the tokens, partials and asset
// resolver renderers consume. Variant values override the base manifest.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	var variant theme.Variant
	if selection.Variant != "" {
		variant = manifest.Variants[selection.Variant]
	}

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--folio-"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// CSSVarsStyle renders CSS custom properties as a declaration list sorted by
// name so output is stable across calls.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
