package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngPayload(t *testing.T) (string, []byte) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), buf.Bytes()
}

func TestDecode(t *testing.T) {
	payload, _ := pngPayload(t)

	tests := []struct {
		name    string
		payload string
		wantFmt string
		wantErr bool
	}{
		{
			name:    "plain base64",
			payload: payload,
			wantFmt: "png",
		},
		{
			name:    "data uri prefix",
			payload: "data:image/png;base64," + payload,
			wantFmt: "png",
		},
		{
			name:    "surrounding whitespace",
			payload: "  " + payload + "\n",
			wantFmt: "png",
		},
		{
			name:    "invalid base64",
			payload: "not-base64!!!",
			wantErr: true,
		},
		{
			name:    "valid base64 but not an image",
			payload: base64.StdEncoding.EncodeToString([]byte("just some text")),
			wantErr: true,
		},
		{
			name:    "empty payload",
			payload: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, format, err := Decode(tt.payload)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("want ErrDecode, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if format != tt.wantFmt {
				t.Fatalf("want format %q, got %q", tt.wantFmt, format)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
				t.Fatalf("unexpected bounds %v", img.Bounds())
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	payload, _ := pngPayload(t)

	img, _, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	encoded, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Re-encoding need not be byte-identical, but the decoded pixels must
	// survive the round trip.
	again, format, err := Decode(base64.StdEncoding.EncodeToString(encoded))
	if err != nil {
		t.Fatalf("decode re-encoded: %v", err)
	}
	if format != "png" {
		t.Fatalf("want png, got %q", format)
	}
	if again.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v vs %v", again.Bounds(), img.Bounds())
	}
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			r1, g1, b1, a1 := img.At(x, y).RGBA()
			r2, g2, b2, a2 := again.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) changed after round trip", x, y)
			}
		}
	}
}
