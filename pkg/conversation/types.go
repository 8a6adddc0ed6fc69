package conversation

import "github.com/goliatone/go-folio/pkg/portfolio"

// InputKind tells the UI which control to show for the next user turn.
type InputKind string

const (
	InputNone      InputKind = "none"
	InputChoice    InputKind = "choice"
	InputText      InputKind = "text"
	InputMultiline InputKind = "multiline"
	InputFile      InputKind = "file"
	InputColor     InputKind = "color"
	InputSkills    InputKind = "skills"
)

// Textual reports whether the kind is answered with SubmitText.
func (k InputKind) Textual() bool {
	switch k {
	case InputText, InputMultiline, InputSkills:
		return true
	default:
		return false
	}
}

// Origin marks who authored a transcript entry.
type Origin string

const (
	OriginBot  Origin = "bot"
	OriginUser Origin = "user"
)

// Message is a single transcript entry. Messages are never mutated once
// appended.
type Message struct {
	Origin  Origin    `json:"origin"`
	Text    string    `json:"text"`
	Choices []string  `json:"choices,omitempty"`
	Input   InputKind `json:"input,omitempty"`
}

// Step pairs a target field with the prompt that asks for it.
type Step struct {
	Field   portfolio.Field `json:"field"`
	Prompt  string          `json:"prompt"`
	Input   InputKind       `json:"input"`
	Gallery bool            `json:"gallery,omitempty"`
}

func botMessage(text string, input InputKind, choices ...string) Message {
	msg := Message{Origin: OriginBot, Text: text, Input: input}
	if len(choices) > 0 {
		msg.Choices = append([]string(nil), choices...)
	}
	return msg
}

func userMessage(text string) Message {
	return Message{Origin: OriginUser, Text: text}
}

func cloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	for i, msg := range in {
		out[i] = msg
		if msg.Choices != nil {
			out[i].Choices = append([]string(nil), msg.Choices...)
		}
	}
	return out
}
