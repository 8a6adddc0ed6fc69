package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-folio/pkg/conversation"
	"github.com/goliatone/go-folio/pkg/portfolio"
)

// Wizard runs a conversation engine in the terminal, one prompt per step.
type Wizard struct {
	driver   PromptDriver
	engine   *conversation.Engine
	readFile func(string) ([]byte, error)
	theme    Theme
	logger   *slog.Logger

	printed int
}

// New constructs a wizard. Without WithEngine it drives a fresh engine whose
// color continuation blocks for the configured delay.
func New(options ...Option) *Wizard {
	w := &Wizard{
		readFile: defaultReadFile,
		theme:    DefaultTheme,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	if w.driver == nil {
		w.driver = NewSurveyDriver(nil)
	}
	if w.engine == nil {
		w.engine = conversation.New(
			conversation.WithScheduler(conversation.BlockingScheduler{}),
			conversation.WithLogger(w.logger),
		)
	}
	return w
}

// Engine exposes the driven engine.
func (w *Wizard) Engine() *conversation.Engine {
	return w.engine
}

// Run prompts until the conversation completes and returns the collected
// record. Rejected answers are reported and asked again.
func (w *Wizard) Run(ctx context.Context) (portfolio.Data, error) {
	if ctx == nil {
		return portfolio.Data{}, errors.New("tui: context is required")
	}
	if w.engine == nil {
		return portfolio.Data{}, ErrNoEngine
	}

	for !w.engine.Done() {
		if err := ctx.Err(); err != nil {
			return w.engine.Snapshot(), err
		}
		if err := w.flush(ctx); err != nil {
			return w.engine.Snapshot(), err
		}

		err := w.turn(ctx)
		var pe *promptError
		switch {
		case err == nil:
		case errors.As(err, &pe):
			return w.engine.Snapshot(), pe.err
		case conversation.Silent(err):
		default:
			w.logger.Debug("submission rejected", "step", w.engine.Step(), "error", err)
			if infoErr := w.driver.Info(ctx, w.theme.ErrorPrefix+rejectionText(err)); infoErr != nil {
				return w.engine.Snapshot(), infoErr
			}
		}
	}

	if err := w.flush(ctx); err != nil {
		return w.engine.Snapshot(), err
	}
	return w.engine.Snapshot(), nil
}

func (w *Wizard) turn(ctx context.Context) error {
	switch w.engine.Expecting() {
	case conversation.InputChoice:
		return w.chooseTemplate(ctx)
	case conversation.InputText, conversation.InputSkills:
		answer, err := w.driver.Input(ctx, InputConfig{Message: answerLabel(w.engine)})
		if err != nil {
			return &promptError{err}
		}
		return w.engine.SubmitText(answer)
	case conversation.InputMultiline:
		answer, err := w.driver.TextArea(ctx, TextAreaConfig{Message: answerLabel(w.engine)})
		if err != nil {
			return &promptError{err}
		}
		return w.engine.SubmitText(answer)
	case conversation.InputColor:
		return w.pickColor(ctx)
	case conversation.InputFile:
		return w.upload(ctx)
	default:
		return conversation.ErrCompleted
	}
}

func (w *Wizard) chooseTemplate(ctx context.Context) error {
	options := portfolio.Templates()
	names := make([]string, len(options))
	descriptions := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
		descriptions[i] = opt.Description
	}
	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      "Template",
		Options:      names,
		Descriptions: descriptions,
	})
	if err != nil {
		return &promptError{err}
	}
	choice := ""
	if idx >= 0 && idx < len(names) {
		choice = names[idx]
	}
	return w.engine.SelectTemplate(choice)
}

func (w *Wizard) pickColor(ctx context.Context) error {
	current := ""
	if step, ok := w.engine.Current(); ok {
		snapshot := w.engine.Snapshot()
		current, _ = snapshot.Text(step.Field)
	}
	value, err := w.driver.Input(ctx, InputConfig{
		Message: "Color",
		Default: current,
		Help:    "Any CSS color, e.g. #6366f1",
	})
	if err != nil {
		return &promptError{err}
	}
	return w.engine.SubmitColor(value)
}

func (w *Wizard) upload(ctx context.Context) error {
	step, ok := w.engine.Current()
	if !ok {
		return conversation.ErrOutOfTurn
	}

	if step.Gallery {
		more, err := w.driver.Confirm(ctx, ConfirmConfig{
			Message: "Add an image to your gallery?",
			Default: len(w.engine.Snapshot().Gallery) == 0,
		})
		if err != nil {
			return &promptError{err}
		}
		if !more {
			return w.engine.FinishGallery()
		}
	}

	path, err := w.driver.Input(ctx, InputConfig{
		Message: "Image path",
		Help:    "Path to a PNG, JPEG, GIF or WebP file",
	})
	if err != nil {
		return &promptError{err}
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return conversation.ErrEmptyInput
	}
	raw, err := w.readFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return w.engine.SubmitImage(raw, step.Gallery)
}

// flush prints bot messages appended since the last call. User entries are
// already visible as prompt answers.
func (w *Wizard) flush(ctx context.Context) error {
	transcript := w.engine.Transcript()
	for _, msg := range transcript[w.printed:] {
		if msg.Origin != conversation.OriginBot {
			continue
		}
		if err := w.driver.Info(ctx, w.theme.BotPrefix+msg.Text); err != nil {
			return err
		}
	}
	w.printed = len(transcript)
	return nil
}

// promptError marks failures of the driver itself, which end the run. Every
// other error from a turn is a rejected answer.
type promptError struct {
	err error
}

func (e *promptError) Error() string { return e.err.Error() }

func (e *promptError) Unwrap() error { return e.err }

func answerLabel(engine *conversation.Engine) string {
	step, ok := engine.Current()
	if !ok {
		return "Answer"
	}
	switch step.Field {
	case portfolio.FieldName:
		return "Name"
	case portfolio.FieldProfession:
		return "Profession"
	case portfolio.FieldBio:
		return "Bio"
	case portfolio.FieldSkills:
		return "Skills"
	default:
		return "Answer"
	}
}

func rejectionText(err error) string {
	switch {
	case errors.Is(err, conversation.ErrUnsupportedImage):
		return "That file is not an image I can use. Try a PNG, JPEG, GIF or WebP."
	case errors.Is(err, conversation.ErrImageTooLarge):
		return "That image is too large. Try a smaller one."
	case errors.Is(err, conversation.ErrBusy):
		return "One moment..."
	default:
		return err.Error()
	}
}
