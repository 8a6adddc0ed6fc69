package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.yaml")
	content := `
server:
  addr: "127.0.0.1:9000"
chat:
  color_delay: 50ms
render:
  variant: compact
  templates_dir: ./overrides
log:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Chat.ColorDelay != 50*time.Millisecond {
		t.Fatalf("color delay = %s", cfg.Chat.ColorDelay)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("log format = %q", cfg.Log.Format)
	}
	if cfg.Render.Variant != "compact" || cfg.Render.TemplatesDir != "./overrides" {
		t.Fatalf("render = %+v", cfg.Render)
	}
	if cfg.Session.Max != Defaults().Session.Max {
		t.Fatalf("unset keys should keep defaults, session.max = %d", cfg.Session.Max)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_SESSION_MAX", "3")
	t.Setenv("FOLIO_LOG_LEVEL", "debug")
	t.Setenv("FOLIO_RENDER_VARIANT", "compact")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Max != 3 {
		t.Fatalf("session.max = %d", cfg.Session.Max)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log.level = %q", cfg.Log.Level)
	}
	if cfg.Render.Variant != "compact" {
		t.Fatalf("render.variant = %q", cfg.Render.Variant)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Session.Max = 0
	cfg.Log.Format = "xml"
	cfg.Render.Variant = "roomy"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"session.max", "log.format", "render.variant"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}
