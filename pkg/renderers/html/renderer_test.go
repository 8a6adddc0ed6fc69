package html

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-folio/pkg/conversation"
	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/render"
	"github.com/goliatone/go-folio/pkg/testsupport"
	"github.com/goliatone/go-folio/pkg/themes"
)

func TestRenderer_EmptyTemplateRendersPlaceholderOnly(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.Render(context.Background(), portfolio.New(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "Start Building Your Portfolio") {
		t.Fatalf("expected empty state, got:\n%s", html)
	}
	for _, unexpected := range []string{`class="folio-header"`, "About Me", `class="folio-section`, `class="folio-skill"`} {
		if strings.Contains(html, unexpected) {
			t.Fatalf("empty state should not contain %q:\n%s", unexpected, html)
		}
	}
}

func TestRenderer_HeaderPlaceholders(t *testing.T) {
	renderer := newRenderer(t)

	data := portfolio.New()
	data.Template = portfolio.TemplateMinimal

	out, err := renderer.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{placeholderName, placeholderProfession, "folio-minimal"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	for _, unexpected := range []string{"About Me", "folio-avatar", "folio-section-skills", "folio-section-gallery"} {
		if strings.Contains(html, unexpected) {
			t.Fatalf("unexpected %q for sparse record:\n%s", unexpected, html)
		}
	}
}

func TestRenderer_SectionsInOrder(t *testing.T) {
	renderer := newRenderer(t)
	data := testsupport.SamplePortfolio()

	out, err := renderer.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	markers := []string{`class="folio-header"`, "folio-section-bio", "folio-section-skills", "folio-section-gallery"}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(html, marker)
		if idx < 0 {
			t.Fatalf("missing %q in output:\n%s", marker, html)
		}
		if idx <= last {
			t.Fatalf("%q rendered out of order", marker)
		}
		last = idx
	}

	if got := strings.Count(html, `class="folio-skill"`); got != len(data.Skills) {
		t.Fatalf("expected %d skill badges, got %d", len(data.Skills), got)
	}
	if strings.Index(html, ">Rust<") > strings.Index(html, ">Go<") {
		t.Fatalf("skills rendered out of order")
	}
	if got := strings.Count(html, `class="folio-gallery-item"`); got != len(data.Gallery) {
		t.Fatalf("expected %d gallery tiles, got %d", len(data.Gallery), got)
	}
	if !strings.Contains(html, `src="data:image/png;base64,iVBORw0KGgo="`) {
		t.Fatalf("expected profile image src in output")
	}
}

func TestRenderer_ColorsVerbatim(t *testing.T) {
	renderer := newRenderer(t)
	data := testsupport.SamplePortfolio()
	data.AccentColor = "tomato"
	data.BgColor = "not-a-color"

	out, err := renderer.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"background-color: not-a-color;",
		"color: tomato;",
		"background-color: tomato20;",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestRenderer_Idempotent(t *testing.T) {
	renderer := newRenderer(t)
	data := testsupport.SamplePortfolio()

	first, err := renderer.Render(context.Background(), data, render.RenderOptions{Standalone: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := renderer.Render(context.Background(), data, render.RenderOptions{Standalone: true})
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("render %d differs from first render", i)
		}
	}
}

func TestRenderer_DoesNotMutateInput(t *testing.T) {
	renderer := newRenderer(t)
	data := testsupport.SamplePortfolio()
	before := data.Clone()

	if _, err := renderer.Render(context.Background(), data, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := testsupport.CompareGolden(before, data); diff != "" {
		t.Fatalf("record mutated (-before +after):\n%s", diff)
	}
}

func TestRenderer_EscapesUserText(t *testing.T) {
	renderer := newRenderer(t)
	data := testsupport.SamplePortfolio()
	data.Bio = `<script>alert("x")</script>`

	out, err := renderer.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("bio rendered unescaped:\n%s", out)
	}
}

func TestRenderer_UsesThemeFromOptions(t *testing.T) {
	renderer := newRenderer(t)
	data := testsupport.SamplePortfolio()

	out, err := renderer.Render(context.Background(), data, render.RenderOptions{
		Standalone: true,
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			CSSVars: map[string]string{"--folio-radius": "2px"},
			AssetURL: func(key string) string {
				return "/themes/acme/" + key + ".css"
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{"folio-theme-acme", "--folio-radius: 2px;", `href="/themes/acme/stylesheet.css"`, "<!DOCTYPE html>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestRenderer_BuiltinThemeTokens(t *testing.T) {
	renderer := newRenderer(t)
	data := testsupport.SamplePortfolio()
	data.Template = portfolio.TemplateCreative

	out, err := renderer.Render(context.Background(), data, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "--folio-radius: 24px;") {
		t.Fatalf("expected creative radius token:\n%s", out)
	}
}

func TestRenderChat_SanitisesUserMessages(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.RenderChat(context.Background(), ChatView{
		Messages: []conversation.Message{
			{Origin: conversation.OriginBot, Text: "What's your name?"},
			{Origin: conversation.OriginUser, Text: `<img src=x onerror=alert(1)>Ada`},
		},
		Input: conversation.InputText,
	})
	if err != nil {
		t.Fatalf("render chat: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "onerror") {
		t.Fatalf("user text not sanitised:\n%s", html)
	}
	if !strings.Contains(html, "Ada") {
		t.Fatalf("expected user text in output:\n%s", html)
	}
	if !strings.Contains(html, `action="/chat/text"`) {
		t.Fatalf("expected text form:\n%s", html)
	}
}

func TestRenderChat_ControlsFollowEngine(t *testing.T) {
	renderer := newRenderer(t)
	engine := conversation.New()

	out, err := renderer.RenderChat(context.Background(), NewChatView(engine))
	if err != nil {
		t.Fatalf("render chat: %v", err)
	}
	html := string(out)
	for _, want := range []string{`action="/chat/template"`, `value="Modern"`, "Bold and vibrant"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in template turn:\n%s", want, html)
		}
	}

	mustNoErr(t, engine.SelectTemplate("Modern"))
	mustNoErr(t, engine.SubmitText("Ada"))
	mustNoErr(t, engine.SubmitText("Engineer"))
	mustNoErr(t, engine.SubmitImage(testsupport.PNG, false))
	mustNoErr(t, engine.SubmitText("I build things."))
	mustNoErr(t, engine.SubmitText("Rust, Go"))

	out, err = renderer.RenderChat(context.Background(), NewChatView(engine))
	if err != nil {
		t.Fatalf("render chat: %v", err)
	}
	html = string(out)
	if !strings.Contains(html, `action="/chat/color"`) || !strings.Contains(html, `value="#ffffff"`) {
		t.Fatalf("expected color form prefilled with current value:\n%s", html)
	}
	if strings.Contains(html, `action="/chat/template"`) {
		t.Fatalf("template choices should not stay active:\n%s", html)
	}

	mustNoErr(t, engine.SubmitColor("#000000"))
	mustNoErr(t, engine.SubmitColor("#ffffff"))
	mustNoErr(t, engine.SubmitColor("#ff0000"))

	out, err = renderer.RenderChat(context.Background(), NewChatView(engine))
	if err != nil {
		t.Fatalf("render chat: %v", err)
	}
	html = string(out)
	for _, want := range []string{`action="/chat/image"`, `name="gallery" value="true"`, `action="/chat/finish"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q at gallery step:\n%s", want, html)
		}
	}

	mustNoErr(t, engine.FinishGallery())
	out, err = renderer.RenderChat(context.Background(), NewChatView(engine))
	if err != nil {
		t.Fatalf("render chat: %v", err)
	}
	if strings.Contains(string(out), "<form") {
		t.Fatalf("terminal state should render no input control:\n%s", out)
	}
}

func TestRenderPage_ComposesPreviewAndChat(t *testing.T) {
	renderer, err := New(WithTitle("My Folio"), WithChatAction("/wizard/"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.RenderPage(context.Background(), portfolio.New(), NewChatView(conversation.New()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<title>My Folio</title>", "Start Building Your Portfolio", `action="/wizard/template"`, `href="/assets/folio.css"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in page:\n%s", want, html)
		}
	}
	if strings.Index(html, "folio-preview") > strings.Index(html, "folio-chat") {
		t.Fatalf("preview should precede the chat panel")
	}
}

func TestRenderer_HonoursCancelledContext(t *testing.T) {
	renderer := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := renderer.Render(ctx, portfolio.New(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestAssetsFS_Stylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".folio-preview") {
		t.Fatalf("stylesheet missing preview rules")
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenderPage_BusyChatReloads(t *testing.T) {
	renderer := newRenderer(t)
	data := portfolio.New()

	idle, err := renderer.RenderPage(context.Background(), data, ChatView{Input: conversation.InputColor, Value: "#111111"}, render.RenderOptions{})
	mustNoErr(t, err)
	if bytes.Contains(idle, []byte(`http-equiv="refresh"`)) {
		t.Fatalf("idle page should not reload itself")
	}

	busy, err := renderer.RenderPage(context.Background(), data, ChatView{Input: conversation.InputColor, Busy: true}, render.RenderOptions{})
	mustNoErr(t, err)
	if !bytes.Contains(busy, []byte(`<meta http-equiv="refresh" content="1">`)) {
		t.Fatalf("busy page should reload itself:\n%s", busy)
	}

	standalone, err := renderer.Render(context.Background(), data, render.RenderOptions{Standalone: true})
	mustNoErr(t, err)
	if bytes.Contains(standalone, []byte(`http-equiv="refresh"`)) {
		t.Fatalf("standalone export should not reload itself")
	}
}

func TestRenderer_WithVariant(t *testing.T) {
	renderer, err := New(WithVariant(themes.VariantCompact))
	mustNoErr(t, err)

	out, err := renderer.Render(context.Background(), testsupport.SamplePortfolio(), render.RenderOptions{})
	mustNoErr(t, err)
	for _, want := range []string{"--folio-spacing: 1rem;", "--folio-shadow: none;"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %q in compact output:\n%s", want, out)
		}
	}

	unknown, err := New(WithVariant("roomy"))
	mustNoErr(t, err)
	if _, err := unknown.Render(context.Background(), testsupport.SamplePortfolio(), render.RenderOptions{}); !errors.Is(err, themes.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestRenderer_WithThemeSelector(t *testing.T) {
	selector, err := themes.NewSelector(&theme.Manifest{
		Name:    string(portfolio.TemplateModern),
		Version: "1.0.0",
		Tokens:  map[string]string{themes.TokenRadius: "3px"},
	})
	mustNoErr(t, err)

	renderer, err := New(WithThemeSelector(selector))
	mustNoErr(t, err)

	out, err := renderer.Render(context.Background(), testsupport.SamplePortfolio(), render.RenderOptions{})
	mustNoErr(t, err)
	if !strings.Contains(string(out), "--folio-radius: 3px;") {
		t.Fatalf("expected selector tokens:\n%s", out)
	}
}

func TestRenderer_WithTemplatesFS(t *testing.T) {
	files := fstest.MapFS{
		"templates/preview.tmpl": {Data: []byte(`<p class="custom">{{ preview.name }}</p>`)},
	}
	renderer, err := New(WithTemplatesFS(files))
	mustNoErr(t, err)

	out, err := renderer.Render(context.Background(), testsupport.SamplePortfolio(), render.RenderOptions{})
	mustNoErr(t, err)
	if got := strings.TrimSpace(string(out)); got != `<p class="custom">Ada</p>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRenderer_WithTemplatesDirFallsBackToEmbedded(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	page := `<html><title>{{ page.title }}</title>{{ page.preview|safe }}</html>`
	if err := os.WriteFile(filepath.Join(dir, "templates", "page.tmpl"), []byte(page), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer, err := New(WithTemplatesDir(dir), WithTitle("Override"))
	mustNoErr(t, err)

	out, err := renderer.Render(context.Background(), testsupport.SamplePortfolio(), render.RenderOptions{Standalone: true})
	mustNoErr(t, err)
	html := string(out)
	if !strings.HasPrefix(html, "<html><title>Override</title>") || strings.Contains(html, "<!DOCTYPE html>") {
		t.Fatalf("expected page override:\n%s", html)
	}
	if !strings.Contains(html, "folio-preview") || !strings.Contains(html, "Ada") {
		t.Fatalf("expected embedded preview template:\n%s", html)
	}
}
