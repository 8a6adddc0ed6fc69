package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goliatone/go-folio/pkg/conversation"
	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/render"
	htmlrenderer "github.com/goliatone/go-folio/pkg/renderers/html"
)

// action applies one submission to an engine.
type action func(*conversation.Engine) error

// Submission kinds used as metric labels.
const (
	kindTemplate = "template"
	kindText     = "text"
	kindColor    = "color"
	kindImage    = "image"
	kindFinish   = "finish"
)

// sessionFor returns the caller's session, starting a new one (and setting
// the cookie) when the cookie is missing or the session was evicted.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		if sess, ok := s.sessions.get(cookie.Value); ok {
			return sess
		}
	}
	sess := s.sessions.create()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// errRateLimited is reported when a session submits faster than allowed.
var errRateLimited = errors.New("server: too many submissions")

// apply runs act on the session loop and records the outcome. after, when
// set, runs in the same task so it observes the state act left behind. The
// second error reports that the loop could not run the task.
func (s *Server) apply(ctx context.Context, sess *session, kind string, act action, after func(*conversation.Engine)) (rejection error, err error) {
	if !sess.allow() {
		s.metrics.limited(kind)
		return errRateLimited, nil
	}
	err = sess.do(ctx, func(e *conversation.Engine) {
		wasDone := e.Done()
		rejection = act(e)
		s.metrics.completed(wasDone, e.Done(), rejection)
		if after != nil {
			after(e)
		}
	})
	if err != nil {
		return nil, err
	}
	s.metrics.observe(kind, rejection)
	return rejection, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	var (
		data portfolio.Data
		view htmlrenderer.ChatView
	)
	if err := sess.do(r.Context(), func(e *conversation.Engine) {
		data = e.Snapshot()
		view = htmlrenderer.NewChatView(e)
	}); err != nil {
		s.loopFailed(w, err)
		return
	}

	out, err := s.renderer.RenderPage(r.Context(), data, view, render.RenderOptions{})
	if err != nil {
		s.logger.Error("render page", "session", sess.id, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(out)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	var data portfolio.Data
	if err := sess.do(r.Context(), func(e *conversation.Engine) {
		data = e.Snapshot()
	}); err != nil {
		s.loopFailed(w, err)
		return
	}

	standalone, _ := strconv.ParseBool(r.URL.Query().Get("standalone"))
	out, err := s.renderer.Render(r.Context(), data, render.RenderOptions{Standalone: standalone})
	if err != nil {
		s.logger.Error("render preview", "session", sess.id, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(out)
}

// formAction adapts a form submission. Rejections are dropped silently and
// the browser is sent back to the page.
func (s *Server) formAction(kind string, build func(*http.Request) action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessionFor(w, r)
		if err := r.ParseForm(); err != nil {
			s.redirectHome(w, r)
			return
		}
		rejection, err := s.apply(r.Context(), sess, kind, build(r), nil)
		if err != nil {
			s.loopFailed(w, err)
			return
		}
		if rejection != nil {
			s.logger.Debug("form submission rejected", "session", sess.id, "path", r.URL.Path, "error", rejection)
		}
		s.redirectHome(w, r)
	}
}

func (s *Server) handleFormImage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	raw, gallery, err := s.readUpload(w, r)
	if err != nil {
		s.logger.Debug("form upload rejected", "session", sess.id, "error", err)
		s.redirectHome(w, r)
		return
	}
	rejection, err := s.apply(r.Context(), sess, kindImage, func(e *conversation.Engine) error {
		return e.SubmitImage(raw, gallery)
	}, nil)
	if err != nil {
		s.loopFailed(w, err)
		return
	}
	if rejection != nil {
		s.logger.Debug("form upload rejected", "session", sess.id, "error", rejection)
	}
	s.redirectHome(w, r)
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func selectTemplateForm(r *http.Request) action {
	choice := r.PostForm.Get("choice")
	return func(e *conversation.Engine) error { return e.SelectTemplate(choice) }
}

func submitTextForm(r *http.Request) action {
	value := r.PostForm.Get("value")
	return func(e *conversation.Engine) error { return e.SubmitText(value) }
}

func submitColorForm(r *http.Request) action {
	value := r.PostForm.Get("value")
	return func(e *conversation.Engine) error { return e.SubmitColor(value) }
}

func finishForm(*http.Request) action {
	return func(e *conversation.Engine) error { return e.FinishGallery() }
}

// stateResponse is the JSON view of a session.
type stateResponse struct {
	ID         string                 `json:"id"`
	Step       int                    `json:"step"`
	Done       bool                   `json:"done"`
	Busy       bool                   `json:"busy"`
	Expecting  conversation.InputKind `json:"expecting"`
	Gallery    bool                   `json:"gallery"`
	Transcript []conversation.Message `json:"transcript"`
	Portfolio  portfolio.Data         `json:"portfolio"`
}

func snapshotState(id string, e *conversation.Engine) stateResponse {
	state := stateResponse{
		ID:         id,
		Step:       e.Step(),
		Done:       e.Done(),
		Busy:       e.Busy(),
		Expecting:  e.Expecting(),
		Transcript: e.Transcript(),
		Portfolio:  e.Snapshot(),
	}
	if step, ok := e.Current(); ok {
		state.Gallery = step.Gallery
	}
	return state
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	var state stateResponse
	if err := sess.do(r.Context(), func(e *conversation.Engine) {
		state = snapshotState(sess.id, e)
	}); err != nil {
		s.loopFailed(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

type valueRequest struct {
	Value string `json:"value"`
}

type choiceRequest struct {
	Choice string `json:"choice"`
}

// apiAction adapts a JSON submission. Rejections map to 4xx responses with
// the engine state left untouched.
func (s *Server) apiAction(kind string, build func(*http.Request) (action, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessionFor(w, r)
		act, err := build(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondAction(w, r, sess, kind, act)
	}
}

func (s *Server) respondAction(w http.ResponseWriter, r *http.Request, sess *session, kind string, act action) {
	var state stateResponse
	rejection, err := s.apply(r.Context(), sess, kind, act, func(e *conversation.Engine) {
		state = snapshotState(sess.id, e)
	})
	if err != nil {
		s.loopFailed(w, err)
		return
	}
	if rejection != nil {
		respondError(w, rejectionStatus(rejection), rejection.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func selectTemplateJSON(r *http.Request) (action, error) {
	var req choiceRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return func(e *conversation.Engine) error { return e.SelectTemplate(req.Choice) }, nil
}

func submitTextJSON(r *http.Request) (action, error) {
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return func(e *conversation.Engine) error { return e.SubmitText(req.Value) }, nil
}

func submitColorJSON(r *http.Request) (action, error) {
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	return func(e *conversation.Engine) error { return e.SubmitColor(req.Value) }, nil
}

func finishJSON(*http.Request) (action, error) {
	return func(e *conversation.Engine) error { return e.FinishGallery() }, nil
}

func (s *Server) handleAPIImage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	raw, gallery, err := s.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, conversation.ErrImageTooLarge.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondAction(w, r, sess, kindImage, func(e *conversation.Engine) error {
		return e.SubmitImage(raw, gallery)
	})
}

// readUpload reads the "image" file and the "gallery" flag from a multipart
// form, bounded by the upload limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUpload + multipartOverhead); err != nil {
		return nil, false, fmt.Errorf("parse upload: %w", err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, false, fmt.Errorf("image field: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, false, fmt.Errorf("read image: %w", err)
	}
	gallery, _ := strconv.ParseBool(r.FormValue("gallery"))
	return raw, gallery, nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, conversation.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, conversation.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, conversation.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, conversation.ErrOutOfTurn),
		errors.Is(err, conversation.ErrCompleted),
		errors.Is(err, conversation.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// loopFailed reports a session whose loop stopped or a request that gave up
// waiting for it.
func (s *Server) loopFailed(w http.ResponseWriter, err error) {
	if errors.Is(err, conversation.ErrLoopClosed) {
		respondError(w, http.StatusGone, "session expired")
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	s.logger.Error("session loop", "error", err)
	respondError(w, http.StatusInternalServerError, "internal error")
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
