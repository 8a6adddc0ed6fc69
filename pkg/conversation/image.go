package conversation

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageEncoder turns raw upload bytes into an embeddable reference.
type ImageEncoder interface {
	Encode(raw []byte) (string, error)
}

// ImageEncoderFunc adapts a function to ImageEncoder.
type ImageEncoderFunc func(raw []byte) (string, error)

// Encode calls fn.
func (fn ImageEncoderFunc) Encode(raw []byte) (string, error) {
	return fn(raw)
}

// DataURIEncoder sniffs the content type and emits a base64 data URI. Only
// image/* payloads are accepted.
type DataURIEncoder struct {
	// MaxBytes caps the accepted payload size; zero disables the check.
	MaxBytes int64
}

// Encode implements ImageEncoder.
func (e DataURIEncoder) Encode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrUnsupportedImage)
	}
	if e.MaxBytes > 0 && int64(len(raw)) > e.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, len(raw), e.MaxBytes)
	}

	mime := mimetype.Detect(raw)
	contentType := mediaType(mime.String())
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrUnsupportedImage, contentType)
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(contentType) + base64.StdEncoding.EncodedLen(len(raw)))
	b.WriteString("data:")
	b.WriteString(contentType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(raw))
	return b.String(), nil
}

func mediaType(value string) string {
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}
