package testsupport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-folio/pkg/portfolio"
)

// PNG is the smallest byte sequence the image encoder recognises as a PNG.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// MustLoadPortfolio reads a YAML fixture into a portfolio record.
func MustLoadPortfolio(t *testing.T, path string) portfolio.Data {
	t.Helper()

	data, err := LoadPortfolio(path)
	if err != nil {
		t.Fatalf("load portfolio: %v", err)
	}
	return data
}

// LoadPortfolio reads a YAML document into a portfolio record. Missing colors
// keep the default palette.
func LoadPortfolio(path string) (portfolio.Data, error) {
	if path == "" {
		return portfolio.Data{}, errors.New("testsupport: portfolio path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return portfolio.Data{}, fmt.Errorf("testsupport: read portfolio: %w", err)
	}
	out, err := portfolio.ReadYAML(bytes.NewReader(raw))
	if err != nil {
		return portfolio.Data{}, fmt.Errorf("testsupport: %w", err)
	}
	return out, nil
}

// SamplePortfolio returns a fully populated record.
func SamplePortfolio() portfolio.Data {
	data := portfolio.New()
	data.Template = portfolio.TemplateModern
	data.Name = "Ada"
	data.Profession = "Engineer"
	data.Bio = "I build things."
	data.ProfileImage = "data:image/png;base64,iVBORw0KGgo="
	data.SetSkills([]string{"Rust", "Go"})
	data.BgColor = "#0f172a"
	data.TextColor = "#f8fafc"
	data.AccentColor = "#f97316"
	data.AppendGallery("data:image/png;base64,AAAA")
	data.AppendGallery("data:image/gif;base64,BBBB")
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
