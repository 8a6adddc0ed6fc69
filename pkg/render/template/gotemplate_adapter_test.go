package template_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-folio/pkg/render/template/gotemplate"
	"github.com/goliatone/go-folio/pkg/testsupport"
)

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := "Hello Ada!"
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)

	type profile struct {
		DisplayName string   `json:"displayName"`
		Skills      []string `json:"skills"`
	}

	result, err := engine.RenderTemplate("skills", map[string]any{
		"profile": profile{DisplayName: "Ada", Skills: []string{"Rust", "Go"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Ada: [Rust][Go]" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_AutoescapesValues(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "<b>Ada</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<b>") {
		t.Fatalf("expected escaped output, got %q", result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout_test", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout_test", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	result, err := engine.RenderString(`{{ name|shout_test }}`, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("unexpected filter output %q", result)
	}
}

func TestGoTemplateEngine_TintFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render(`{{ accent|tint }}|{{ accent|tint:"80" }}`, map[string]any{"accent": "#6366f1"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "#6366f120|#6366f180" {
		t.Fatalf("unexpected tint output %q", result)
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS := fstest.MapFS{
		"hello.tmpl":  {Data: []byte(`Hello {{ name }}!`)},
		"skills.tmpl": {Data: []byte(`{{ profile.displayName }}: {% for s in profile.skills %}[{{ s }}]{% endfor %}`)},
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
