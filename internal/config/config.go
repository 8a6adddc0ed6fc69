package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-folio/pkg/themes"
)

// EnvPrefix namespaces environment overrides, e.g. FOLIO_SERVER_ADDR.
const EnvPrefix = "FOLIO"

// Config is the runtime configuration of the folio binary.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Session Session `mapstructure:"session"`
	Chat    Chat    `mapstructure:"chat"`
	Upload  Upload  `mapstructure:"upload"`
	Render  Render  `mapstructure:"render"`
	Log     Log     `mapstructure:"log"`
}

type Server struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Session struct {
	Max    int    `mapstructure:"max"`
	Cookie string `mapstructure:"cookie"`
	// SubmitRate is the sustained submissions per second per session; zero
	// disables the limit.
	SubmitRate  float64 `mapstructure:"submit_rate"`
	SubmitBurst int     `mapstructure:"submit_burst"`
}

type Chat struct {
	ColorDelay time.Duration `mapstructure:"color_delay"`
}

type Upload struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Render tunes the HTML output. TemplatesDir overrides individual embedded
// templates by path, e.g. <dir>/templates/page.tmpl.
type Render struct {
	Variant      string `mapstructure:"variant"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Session: Session{
			Max:         1024,
			Cookie:      "folio_session",
			SubmitRate:  10,
			SubmitBurst: 20,
		},
		Chat: Chat{
			ColorDelay: 300 * time.Millisecond,
		},
		Upload: Upload{
			MaxBytes: 5 << 20,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load layers an optional config file and FOLIO_* environment variables over
// Defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("session.max", d.Session.Max)
	v.SetDefault("session.cookie", d.Session.Cookie)
	v.SetDefault("session.submit_rate", d.Session.SubmitRate)
	v.SetDefault("session.submit_burst", d.Session.SubmitBurst)
	v.SetDefault("chat.color_delay", d.Chat.ColorDelay)
	v.SetDefault("upload.max_bytes", d.Upload.MaxBytes)
	v.SetDefault("render.variant", d.Render.Variant)
	v.SetDefault("render.templates_dir", d.Render.TemplatesDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Session.Max <= 0 {
		errs = append(errs, fmt.Errorf("session.max must be positive, got %d", c.Session.Max))
	}
	if strings.TrimSpace(c.Session.Cookie) == "" {
		errs = append(errs, errors.New("session.cookie is required"))
	}
	if c.Session.SubmitRate < 0 {
		errs = append(errs, fmt.Errorf("session.submit_rate must not be negative, got %g", c.Session.SubmitRate))
	}
	if c.Session.SubmitRate > 0 && c.Session.SubmitBurst <= 0 {
		errs = append(errs, fmt.Errorf("session.submit_burst must be positive, got %d", c.Session.SubmitBurst))
	}
	if c.Chat.ColorDelay < 0 {
		errs = append(errs, fmt.Errorf("chat.color_delay must not be negative, got %s", c.Chat.ColorDelay))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes))
	}
	switch c.Render.Variant {
	case "", themes.VariantCompact:
	default:
		errs = append(errs, fmt.Errorf("render.variant must be empty or %q, got %q", themes.VariantCompact, c.Render.Variant))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
