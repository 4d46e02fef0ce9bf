package composite

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// Format is an export encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
)

// ParseFormat accepts "png" or "webp", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png", "":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return 0, fmt.Errorf("composite: unknown format %q", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatWebP:
		return "webp"
	default:
		return "png"
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// MIMEType returns the media type of the encoding.
func (f Format) MIMEType() string {
	return "image/" + f.String()
}

// Encode writes img in format f. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("composite: PNG encode: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("composite: WebP encode: %w", err)
		}
	default:
		return fmt.Errorf("composite: unknown format %d", int(f))
	}
	return nil
}

// FileName replaces the extension of name with the format's extension.
func FileName(name string, f Format) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name + f.Ext()
}
