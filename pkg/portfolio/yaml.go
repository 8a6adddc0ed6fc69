package portfolio

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrUnknownTemplate is returned when a record names a template that does not
// exist.
var ErrUnknownTemplate = errors.New("portfolio: unknown template")

// ReadYAML decodes a record from r. Fields absent from the document keep the
// defaults from New. The template may be empty or one of Templates.
func ReadYAML(r io.Reader) (Data, error) {
	out := New()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return Data{}, fmt.Errorf("portfolio: decode yaml: %w", err)
	}
	if out.Template != TemplateUnset && !out.Template.Valid() {
		return Data{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, out.Template)
	}
	return out, nil
}

// WriteYAML encodes d to w.
func WriteYAML(w io.Writer, d Data) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("portfolio: encode yaml: %w", err)
	}
	return enc.Close()
}
