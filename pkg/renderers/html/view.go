package html

import (
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-folio/pkg/conversation"
	"github.com/goliatone/go-folio/pkg/portfolio"
	"github.com/goliatone/go-folio/pkg/themes"
)

const (
	placeholderName       = "Your Name"
	placeholderProfession = "Your Profession"
)

var (
	policyOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func textPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

type previewContext struct {
	Empty        bool          `json:"empty"`
	Theme        string        `json:"theme"`
	Template     string        `json:"template"`
	Style        string        `json:"style"`
	AccentColor  string        `json:"accentColor"`
	Name         string        `json:"name"`
	DisplayName  string        `json:"displayName"`
	Profession   string        `json:"profession"`
	ProfileImage string        `json:"profileImage"`
	Bio          string        `json:"bio"`
	Skills       []string      `json:"skills"`
	Gallery      []galleryTile `json:"gallery"`
}

type galleryTile struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

func buildPreviewContext(data portfolio.Data, cfg *theme.RendererConfig) previewContext {
	ctx := previewContext{
		Empty:       data.Template == portfolio.TemplateUnset,
		Template:    string(data.Template),
		Style:       previewStyle(data, cfg),
		AccentColor: data.AccentColor,
	}
	if cfg != nil {
		ctx.Theme = cfg.Theme
	}
	if ctx.Empty {
		return ctx
	}

	ctx.Name = data.Name
	ctx.DisplayName = orDefault(data.Name, placeholderName)
	ctx.Profession = orDefault(data.Profession, placeholderProfession)
	ctx.ProfileImage = data.ProfileImage
	ctx.Bio = data.Bio
	ctx.Skills = append([]string(nil), data.Skills...)
	for i, ref := range data.Gallery {
		ctx.Gallery = append(ctx.Gallery, galleryTile{
			Src: ref,
			Alt: fmt.Sprintf("Gallery %d", i+1),
		})
	}
	return ctx
}

// previewStyle writes the record's colors verbatim followed by the theme's
// CSS variables in sorted order.
func previewStyle(data portfolio.Data, cfg *theme.RendererConfig) string {
	var b strings.Builder
	b.WriteString("background-color: ")
	b.WriteString(data.BgColor)
	b.WriteString("; color: ")
	b.WriteString(data.TextColor)
	b.WriteString("; --folio-accent: ")
	b.WriteString(data.AccentColor)
	b.WriteString(";")
	if cfg != nil {
		if vars := themes.CSSVarsStyle(cfg.CSSVars); vars != "" {
			b.WriteByte(' ')
			b.WriteString(vars)
		}
	}
	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ChatView is the chat panel state handed to RenderChat.
type ChatView struct {
	Messages []conversation.Message
	// Input is the control to show; InputNone hides the input area.
	Input   conversation.InputKind
	Gallery bool
	Busy    bool
	// Value pre-fills the color picker.
	Value string
}

// NewChatView captures the chat state of an engine. Callers must hold the
// engine's owning goroutine.
func NewChatView(engine *conversation.Engine) ChatView {
	view := ChatView{
		Messages: engine.Transcript(),
		Input:    engine.Expecting(),
		Busy:     engine.Busy(),
	}
	if step, ok := engine.Current(); ok {
		view.Gallery = step.Gallery
		if step.Input == conversation.InputColor {
			snapshot := engine.Snapshot()
			view.Value, _ = snapshot.Text(step.Field)
		}
	}
	return view
}

type chatContext struct {
	Action   string           `json:"action"`
	Input    string           `json:"input"`
	Gallery  bool             `json:"gallery"`
	Busy     bool             `json:"busy"`
	Value    string           `json:"value"`
	Messages []messageContext `json:"messages"`
}

type messageContext struct {
	Origin  string          `json:"origin"`
	HTML    string          `json:"html"`
	Choices []choiceContext `json:"choices,omitempty"`
}

type choiceContext struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *Renderer) buildChatContext(view ChatView) chatContext {
	input := view.Input
	if input == "" {
		input = conversation.InputNone
	}
	ctx := chatContext{
		Action:   r.chatAction,
		Input:    string(input),
		Gallery:  view.Gallery,
		Busy:     view.Busy,
		Value:    view.Value,
		Messages: make([]messageContext, 0, len(view.Messages)),
	}

	descriptions := make(map[string]string)
	for _, opt := range portfolio.Templates() {
		descriptions[opt.Name] = opt.Description
	}

	policy := textPolicy()
	for _, msg := range view.Messages {
		entry := messageContext{
			Origin: string(msg.Origin),
			HTML:   policy.Sanitize(msg.Text),
		}
		// Choices stay clickable only while the template choice is pending.
		if input == conversation.InputChoice {
			for _, name := range msg.Choices {
				entry.Choices = append(entry.Choices, choiceContext{
					Name:        name,
					Description: descriptions[name],
				})
			}
		}
		ctx.Messages = append(ctx.Messages, entry)
	}
	return ctx
}
