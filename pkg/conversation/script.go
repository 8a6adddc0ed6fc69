package conversation

import "github.com/goliatone/go-folio/pkg/portfolio"

// Fixed copy used by the engine.
const (
	GreetingText      = "👋 Hi! I'll help you build your portfolio. Let's start by choosing a template:"
	ProfileUploadText = "📷 Profile image uploaded"
	GalleryUploadText = "📷 Image uploaded"
	GalleryAckText    = `Image added! Upload another or type "done" to finish.`
	FinishText        = "Done"
	CompletionText    = "🎉 Your portfolio is complete! You can continue editing anytime."
	ColorEchoPrefix   = "🎨 "
)

// finishKeyword ends the gallery step when typed instead of clicking finish.
const finishKeyword = "done"

var script = []Step{
	{Field: portfolio.FieldName, Prompt: "Great choice! Now, what's your name?", Input: InputText},
	{Field: portfolio.FieldProfession, Prompt: "Nice to meet you! What's your profession or title?", Input: InputText},
	{Field: portfolio.FieldProfileImage, Prompt: "Perfect! Let's upload your profile picture:", Input: InputFile},
	{Field: portfolio.FieldBio, Prompt: "Looking good! Tell me about yourself (your bio):", Input: InputMultiline},
	{Field: portfolio.FieldSkills, Prompt: "What are your top skills? (separate with commas)", Input: InputSkills},
	{Field: portfolio.FieldBgColor, Prompt: "Want to customize colors? Pick a background color:", Input: InputColor},
	{Field: portfolio.FieldTextColor, Prompt: "Great! Now choose your text color:", Input: InputColor},
	{Field: portfolio.FieldAccentColor, Prompt: "And finally, pick an accent color:", Input: InputColor},
	{Field: portfolio.FieldGallery, Prompt: "✨ Your portfolio is ready! Want to add images to your gallery?", Input: InputFile, Gallery: true},
}

// Script returns a copy of the ordered steps that follow template selection.
func Script() []Step {
	return append([]Step(nil), script...)
}

// TerminalStep is the step index reached after the gallery is finished.
func TerminalStep() int {
	return len(script) + 1
}
