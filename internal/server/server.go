package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/conversation"
	htmlrenderer "github.com/goliatone/go-folio/pkg/renderers/html"
)

// Defaults mirror the configuration defaults of the binary.
const (
	DefaultCookieName  = "folio_session"
	DefaultMaxSessions = 1024
	DefaultMaxUpload   = 5 << 20
	DefaultSubmitRate  = 10
	DefaultSubmitBurst = 20
)

// multipartOverhead leaves room for form fields and boundaries around the
// uploaded image.
const multipartOverhead = 64 << 10

type Option func(*Server)

// WithLogger sets the logger used for requests and sessions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithMaxUpload bounds the accepted image size in bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithColorDelay sets the pause before the prompt that follows a color pick.
func WithColorDelay(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.colorDelay = d
		}
	}
}

// WithSubmitRate limits submissions per session to perSecond with the given
// burst. A non-positive rate disables the limit.
func WithSubmitRate(perSecond float64, burst int) Option {
	return func(s *Server) {
		s.submitRate = rate.Limit(perSecond)
		if burst > 0 {
			s.submitBurst = burst
		}
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(renderer *htmlrenderer.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// Server exposes conversations over HTTP, one engine per browser session.
type Server struct {
	logger      *slog.Logger
	cookieName  string
	maxSessions int
	maxUpload   int64
	colorDelay  time.Duration
	submitRate  rate.Limit
	submitBurst int
	renderer    *htmlrenderer.Renderer

	sessions *sessionStore
	metrics  *metrics
	router   chi.Router
}

// New constructs the server and its routes.
func New(options ...Option) (*Server, error) {
	s := &Server{
		logger:      logging.Discard(),
		cookieName:  DefaultCookieName,
		maxSessions: DefaultMaxSessions,
		maxUpload:   DefaultMaxUpload,
		colorDelay:  conversation.DefaultColorDelay,
		submitRate:  DefaultSubmitRate,
		submitBurst: DefaultSubmitBurst,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.renderer == nil {
		renderer, err := htmlrenderer.New()
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.renderer = renderer
	}

	store, err := newSessionStore(s.maxSessions, s.newEngine)
	if err != nil {
		return nil, err
	}
	if s.submitRate > 0 {
		store.newLimiter = func() *rate.Limiter {
			return rate.NewLimiter(s.submitRate, s.submitBurst)
		}
	}
	s.sessions = store

	m, err := newMetrics(store.len)
	if err != nil {
		return nil, err
	}
	store.setOnEvict(func(id string) {
		m.evicted()
		s.logger.Debug("session evicted", "session", id)
	})
	s.metrics = m

	s.router = s.routes()
	return s, nil
}

func (s *Server) newEngine(id string, loop *conversation.Loop) *conversation.Engine {
	s.logger.Debug("session created", "session", id)
	return conversation.New(
		conversation.WithScheduler(loop),
		conversation.WithColorDelay(s.colorDelay),
		conversation.WithImageEncoder(conversation.DataURIEncoder{MaxBytes: s.maxUpload}),
		conversation.WithLogger(s.logger.With("session", id)),
	)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops every session loop.
func (s *Server) Close() {
	s.sessions.close()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/preview", s.handlePreview)

	r.Route("/chat", func(r chi.Router) {
		r.Post("/template", s.formAction(kindTemplate, selectTemplateForm))
		r.Post("/text", s.formAction(kindText, submitTextForm))
		r.Post("/color", s.formAction(kindColor, submitColorForm))
		r.Post("/finish", s.formAction(kindFinish, finishForm))
		r.Post("/image", s.handleFormImage)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.handleSessionState)
		r.Post("/template", s.apiAction(kindTemplate, selectTemplateJSON))
		r.Post("/text", s.apiAction(kindText, submitTextJSON))
		r.Post("/color", s.apiAction(kindColor, submitColorJSON))
		r.Post("/finish", s.apiAction(kindFinish, finishJSON))
		r.Post("/image", s.handleAPIImage)
	})

	assets := http.FileServer(http.FS(htmlrenderer.AssetsFS()))
	r.Handle("/assets/*", http.StripPrefix("/assets/", assets))

	r.Handle("/metrics", s.metrics.handler())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": s.sessions.len(),
		})
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
