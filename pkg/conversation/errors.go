package conversation

import "errors"

// Rejections leave the engine state and transcript untouched.
var (
	// ErrEmptyInput is returned for blank text, choice or color submissions.
	ErrEmptyInput = errors.New("conversation: empty input")
	// ErrOutOfTurn is returned when a submission does not match the current step.
	ErrOutOfTurn = errors.New("conversation: submission does not match current step")
	// ErrCompleted is returned once the conversation reached its terminal state.
	ErrCompleted = errors.New("conversation: conversation already completed")
	// ErrBusy is returned while a deferred color continuation is pending.
	ErrBusy = errors.New("conversation: previous submission still pending")
	// ErrUnsupportedImage is returned when an upload is not a recognised image.
	ErrUnsupportedImage = errors.New("conversation: unsupported image")
	// ErrImageTooLarge is returned when an upload exceeds the encoder limit.
	ErrImageTooLarge = errors.New("conversation: image too large")
	// ErrLoopClosed is returned when work is posted to a stopped loop.
	ErrLoopClosed = errors.New("conversation: loop closed")
)

// Silent reports whether err is a rejection the UI should drop without
// feedback.
func Silent(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}
