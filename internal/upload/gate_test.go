package upload

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestValidate(t *testing.T) {
	g := DefaultGate()
	tests := []struct {
		name string
		file File
		want error
	}{
		{"png under limit", File{"logo.png", "image/png", 1 << 20}, nil},
		{"jpeg at limit", File{"logo.jpg", "image/jpeg", 5 << 20}, nil},
		{"mixed case with params", File{"logo.png", "Image/PNG; charset=binary", 10}, nil},
		{"one byte over", File{"logo.png", "image/png", 5<<20 + 1}, ErrTooLarge},
		{"6MB png", File{"big.png", "image/png", 6 << 20}, ErrTooLarge},
		{"gif", File{"anim.gif", "image/gif", 10}, ErrUnsupportedType},
		{"empty type", File{"blob", "", 10}, ErrUnsupportedType},
		{"type checked before size", File{"huge.svg", "image/svg+xml", 100 << 20}, ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.file)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
			var ue *Error
			if !errors.As(err, &ue) || ue.File != tt.file {
				t.Errorf("error does not carry the rejected file: %#v", err)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	g := DefaultGate()
	if got := Message(g.Validate(File{MIMEType: "image/gif"})); got != "Please upload a JPG or PNG file only." {
		t.Errorf("Message(unsupported) = %q", got)
	}
	if got := Message(g.Validate(File{MIMEType: "image/png", Size: 6 << 20})); got != "File size exceeds 5MB. Please upload a smaller file." {
		t.Errorf("Message(too large) = %q", got)
	}
	if got := Message(errors.New("boom")); got != "Error reading file. Please try again." {
		t.Errorf("Message(other) = %q", got)
	}
}

func TestMessageUsesConfiguredCeiling(t *testing.T) {
	tests := []struct {
		max  int64
		want string
	}{
		{2 << 20, "File size exceeds 2MB. Please upload a smaller file."},
		{512 << 10, "File size exceeds 512KB. Please upload a smaller file."},
		{1000, "File size exceeds 1000 bytes. Please upload a smaller file."},
	}
	for _, tt := range tests {
		g := NewGate(DefaultAllowed, tt.max)
		err := g.Validate(File{MIMEType: "image/png", Size: tt.max + 1})
		if got := Message(err); got != tt.want {
			t.Errorf("Message(max=%d) = %q, want %q", tt.max, got, tt.want)
		}
	}
}

func TestZeroGateRejects(t *testing.T) {
	var g Gate
	if err := g.Validate(File{MIMEType: "image/png"}); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("zero gate Validate() = %v, want ErrUnsupportedType", err)
	}
}

func TestCustomGate(t *testing.T) {
	g := NewGate([]string{"image/webp"}, 100)
	if err := g.Validate(File{MIMEType: "image/webp", Size: 100}); err != nil {
		t.Errorf("webp at limit: %v", err)
	}
	if err := g.Validate(File{MIMEType: "image/png", Size: 1}); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("png on webp-only gate: %v", err)
	}
	if g.MaxBytes() != 100 {
		t.Errorf("MaxBytes() = %d", g.MaxBytes())
	}
}

func TestSniff(t *testing.T) {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if got := Sniff(buf.Bytes()); got != "image/png" {
		t.Errorf("Sniff(png) = %q", got)
	}
	if got := Sniff([]byte("hello world")); got != "text/plain" {
		t.Errorf("Sniff(text) = %q, want text/plain", got)
	}
}
