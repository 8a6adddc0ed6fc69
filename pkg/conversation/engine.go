package conversation

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-folio/pkg/portfolio"
)

// Engine walks the fixed step script, recording every turn in the transcript
// and committing answers into the portfolio record.
//
// Step 0 is the template turn, steps 1..len(Script()) address the script and
// TerminalStep() is reached once the gallery is finished. The index only moves
// forward. An Engine is not safe for concurrent use; drive it from a single
// goroutine such as a Loop.
type Engine struct {
	step       int
	transcript []Message
	data       portfolio.Data
	busy       bool

	scheduler  Scheduler
	colorDelay time.Duration
	encoder    ImageEncoder
	logger     *slog.Logger
}

// New constructs an engine positioned at the template turn with the greeting
// already in the transcript.
func New(options ...Option) *Engine {
	e := &Engine{
		data:       portfolio.New(),
		scheduler:  InlineScheduler{},
		colorDelay: DefaultColorDelay,
		encoder:    DataURIEncoder{},
		logger:     discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.transcript = []Message{
		botMessage(GreetingText, InputChoice, portfolio.TemplateNames()...),
	}
	return e
}

// Step returns the current step index.
func (e *Engine) Step() int {
	return e.step
}

// Done reports whether the terminal state was reached.
func (e *Engine) Done() bool {
	return e.step >= TerminalStep()
}

// Busy reports whether a deferred continuation is pending.
func (e *Engine) Busy() bool {
	return e.busy
}

// Current returns the script step awaiting input. ok is false during the
// template turn and after completion.
func (e *Engine) Current() (Step, bool) {
	if e.step < 1 || e.step > len(script) {
		return Step{}, false
	}
	return script[e.step-1], true
}

// Expecting reports the control the UI should offer for the next turn.
func (e *Engine) Expecting() InputKind {
	if e.step == 0 {
		return InputChoice
	}
	if st, ok := e.Current(); ok {
		return st.Input
	}
	return InputNone
}

// Transcript returns a copy of the messages exchanged so far.
func (e *Engine) Transcript() []Message {
	return cloneMessages(e.transcript)
}

// Snapshot returns a copy of the portfolio record.
func (e *Engine) Snapshot() portfolio.Data {
	return e.data.Clone()
}

// SelectTemplate answers the bootstrap turn. Unknown labels resolve to the
// default template.
func (e *Engine) SelectTemplate(choice string) error {
	if e.step != 0 {
		return ErrOutOfTurn
	}
	if strings.TrimSpace(choice) == "" {
		return ErrEmptyInput
	}

	e.data.Template = portfolio.ResolveTemplate(choice)
	e.transcript = append(e.transcript, userMessage(choice))
	e.advance()
	return nil
}

// SubmitText answers a text, multiline or skills step. At the gallery step
// the keyword "done" finishes the conversation.
func (e *Engine) SubmitText(raw string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyInput
	}
	st, ok := e.Current()
	if !ok {
		return ErrOutOfTurn
	}

	if st.Gallery {
		if strings.EqualFold(strings.TrimSpace(raw), finishKeyword) {
			return e.FinishGallery()
		}
		return ErrOutOfTurn
	}
	if !st.Input.Textual() {
		return ErrOutOfTurn
	}

	if st.Input == InputSkills {
		e.data.SetSkills(portfolio.ParseSkills(raw))
	} else if err := e.data.SetText(st.Field, raw); err != nil {
		return err
	}
	e.transcript = append(e.transcript, userMessage(raw))
	e.advance()
	return nil
}

// SubmitImage encodes an upload and stores it as the profile image or, when
// gallery is set, appends it to the gallery. Gallery uploads do not advance
// the step.
func (e *Engine) SubmitImage(raw []byte, gallery bool) error {
	if err := e.ready(); err != nil {
		return err
	}
	st, ok := e.Current()
	if !ok || st.Input != InputFile || st.Gallery != gallery {
		return ErrOutOfTurn
	}

	ref, err := e.encoder.Encode(raw)
	if err != nil {
		if !errors.Is(err, ErrUnsupportedImage) && !errors.Is(err, ErrImageTooLarge) {
			err = fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		e.logger.Debug("image rejected", "step", e.step, "gallery", gallery, "error", err)
		return err
	}

	if gallery {
		e.data.AppendGallery(ref)
		e.transcript = append(e.transcript,
			userMessage(GalleryUploadText),
			botMessage(GalleryAckText, InputFile),
		)
		e.logger.Debug("gallery image added", "count", len(e.data.Gallery))
		return nil
	}

	e.data.SetProfileImage(ref)
	e.transcript = append(e.transcript, userMessage(ProfileUploadText))
	e.advance()
	return nil
}

// SubmitColor writes the color for the current color step. The follow-up
// prompt and the step advance run as a deferred continuation; until it fires
// every submission is rejected with ErrBusy.
func (e *Engine) SubmitColor(value string) error {
	if err := e.ready(); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ErrEmptyInput
	}
	st, ok := e.Current()
	if !ok || st.Input != InputColor {
		return ErrOutOfTurn
	}

	if err := e.data.SetText(st.Field, trimmed); err != nil {
		return err
	}
	e.transcript = append(e.transcript, userMessage(ColorEchoPrefix+trimmed))

	e.busy = true
	from := e.step
	e.scheduler.After(e.colorDelay, func() {
		e.completeColor(from)
	})
	return nil
}

func (e *Engine) completeColor(from int) {
	if !e.busy || e.step != from {
		return
	}
	e.busy = false
	e.advance()
}

// FinishGallery ends the gallery step and the conversation.
func (e *Engine) FinishGallery() error {
	if err := e.ready(); err != nil {
		return err
	}
	st, ok := e.Current()
	if !ok || !st.Gallery {
		return ErrOutOfTurn
	}

	e.transcript = append(e.transcript,
		userMessage(FinishText),
		botMessage(CompletionText, InputNone),
	)
	e.step = TerminalStep()
	e.logger.Debug("conversation completed", "gallery", len(e.data.Gallery))
	return nil
}

func (e *Engine) ready() error {
	if e.Done() {
		return ErrCompleted
	}
	if e.busy {
		return ErrBusy
	}
	if e.step == 0 {
		return ErrOutOfTurn
	}
	return nil
}

func (e *Engine) advance() {
	e.step++
	st, ok := e.Current()
	if !ok {
		return
	}
	e.transcript = append(e.transcript, botMessage(st.Prompt, st.Input))
	e.logger.Debug("conversation advanced", "step", e.step, "field", st.Field)
}
