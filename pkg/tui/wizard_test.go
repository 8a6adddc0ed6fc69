package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-folio/pkg/conversation"
	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	inputConfigs []InputConfig
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func fakeFiles(files map[string][]byte) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		raw, ok := files[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		return raw, nil
	}
}

func inlineEngine() *conversation.Engine {
	return conversation.New(conversation.WithScheduler(conversation.InlineScheduler{}))
}

func TestWizard_RunCollectsPortfolio(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1},
		inputs: []string{
			"Ada",
			"Engineer",
			"me.png",
			"Rust, Go",
			"#0f172a",
			"#f8fafc",
			"#f97316",
			"one.png",
			"two.png",
		},
		textAreas: []string{"I build things."},
		confirm:   []bool{true, true, false},
	}

	wizard := New(
		WithPromptDriver(driver),
		WithEngine(inlineEngine()),
		WithFileReader(fakeFiles(map[string][]byte{
			"me.png":  testsupport.PNG,
			"one.png": testsupport.PNG,
			"two.png": testsupport.PNG,
		})),
	)

	data, err := wizard.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if data.Template != portfolio.TemplateModern {
		t.Fatalf("template = %q", data.Template)
	}
	if data.Name != "Ada" || data.Profession != "Engineer" || data.Bio != "I build things." {
		t.Fatalf("unexpected text fields: %+v", data)
	}
	if diff := cmp.Diff([]string{"Rust", "Go"}, data.Skills); diff != "" {
		t.Fatalf("skills mismatch (-want +got):\n%s", diff)
	}
	if data.BgColor != "#0f172a" || data.TextColor != "#f8fafc" || data.AccentColor != "#f97316" {
		t.Fatalf("unexpected colors: %+v", data)
	}
	if len(data.Gallery) != 2 {
		t.Fatalf("expected 2 gallery images, got %d", len(data.Gallery))
	}
	if !strings.HasPrefix(data.ProfileImage, "data:image/png;base64,") {
		t.Fatalf("unexpected profile image %q", data.ProfileImage)
	}
	if !wizard.Engine().Done() {
		t.Fatalf("expected engine to be done")
	}

	last := driver.infoMessages[len(driver.infoMessages)-1]
	if last != DefaultTheme.BotPrefix+conversation.CompletionText {
		t.Fatalf("expected completion message last, got %q", last)
	}
	if driver.infoMessages[0] != DefaultTheme.BotPrefix+conversation.GreetingText {
		t.Fatalf("expected greeting first, got %q", driver.infoMessages[0])
	}
}

func TestWizard_RepromptsAfterRejection(t *testing.T) {
	engine := inlineEngine()
	mustNoErr(t, engine.SelectTemplate("Minimal"))
	mustNoErr(t, engine.SubmitText("Ada"))
	mustNoErr(t, engine.SubmitText("Engineer"))

	driver := &stubDriver{
		inputs: []string{"notes.txt", "", "me.png"},
	}
	wizard := New(
		WithPromptDriver(driver),
		WithEngine(engine),
		WithFileReader(fakeFiles(map[string][]byte{
			"notes.txt": []byte("just some text"),
			"me.png":    testsupport.PNG,
		})),
	)

	// The run stops once the scripted answers run out at the bio step.
	_, err := wizard.Run(context.Background())
	if err == nil {
		t.Fatalf("expected run to stop when answers run out")
	}

	if engine.Snapshot().ProfileImage == "" {
		t.Fatalf("expected profile image after re-prompt")
	}
	var rejections int
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, DefaultTheme.ErrorPrefix) {
			rejections++
		}
	}
	if rejections != 1 {
		t.Fatalf("expected one visible rejection (empty path is silent), got %d: %v", rejections, driver.infoMessages)
	}
}

func TestWizard_ColorPromptDefaultsToCurrentValue(t *testing.T) {
	engine := inlineEngine()
	mustNoErr(t, engine.SelectTemplate("Creative"))
	mustNoErr(t, engine.SubmitText("Ada"))
	mustNoErr(t, engine.SubmitText("Engineer"))
	mustNoErr(t, engine.SubmitImage(testsupport.PNG, false))
	mustNoErr(t, engine.SubmitText("bio"))
	mustNoErr(t, engine.SubmitText("Go"))

	driver := &stubDriver{inputs: []string{"#000000"}}
	wizard := New(WithPromptDriver(driver), WithEngine(engine))
	_, _ = wizard.Run(context.Background())

	if len(driver.inputConfigs) < 2 {
		t.Fatalf("expected at least two color prompts, got %d", len(driver.inputConfigs))
	}
	if driver.inputConfigs[0].Default != portfolio.DefaultBgColor {
		t.Fatalf("expected bg default %q, got %q", portfolio.DefaultBgColor, driver.inputConfigs[0].Default)
	}
	if driver.inputConfigs[1].Default != portfolio.DefaultTextColor {
		t.Fatalf("expected text default %q, got %q", portfolio.DefaultTextColor, driver.inputConfigs[1].Default)
	}
	if engine.Snapshot().BgColor != "#000000" {
		t.Fatalf("expected bg color applied")
	}
}

type abortingDriver struct {
	stubDriver
}

func (a *abortingDriver) Select(context.Context, SelectConfig) (int, error) {
	return 0, ErrAborted
}

func TestWizard_AbortStopsRun(t *testing.T) {
	wizard := New(WithPromptDriver(&abortingDriver{}), WithEngine(inlineEngine()))
	_, err := wizard.Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestWizard_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wizard := New(WithPromptDriver(&stubDriver{}), WithEngine(inlineEngine()))
	if _, err := wizard.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
