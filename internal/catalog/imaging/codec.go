// Package imaging converts between the API's base64 image payloads and
// in-memory images.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
)

// ErrDecode wraps every payload problem: bad base64, truncated data, or an
// unrecognized image format.
var ErrDecode = errors.New("decode image payload")

// Decode turns a base64 payload, with or without a data:<mime>;base64, prefix,
// into an image. The returned format is the registered name of the detected
// encoding ("png", "jpeg", "gif").
func Decode(payload string) (image.Image, string, error) {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, format, nil
}

// EncodePNG serializes an image to PNG bytes, the format used for uploads and
// for the AI calls.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
