// Package asset locates, decodes and caches the base product images.
package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8}
)

// LoadImage reads a PNG, JPEG, TGA or WebP file and returns an NRGBA image.
func LoadImage(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}

	var img *image.NRGBA
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = decodeTGA(raw)
	} else {
		img, err = DecodeBytes(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("asset: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads r fully and decodes it with DecodeBytes.
func Decode(r io.Reader) (*image.NRGBA, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(raw)
}

// DecodeBytes picks the decoder from the leading magic bytes. TGA has no
// magic, so anything unrecognised is tried as TGA last.
func DecodeBytes(raw []byte) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch {
	case bytes.HasPrefix(raw, pngMagic):
		img, err = png.Decode(bytes.NewReader(raw))
	case bytes.HasPrefix(raw, jpegMagic):
		img, err = jpeg.Decode(bytes.NewReader(raw))
	case isWebP(raw):
		img, err = webp.Decode(bytes.NewReader(raw))
	default:
		return decodeTGA(raw)
	}
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

func isWebP(raw []byte) bool {
	return len(raw) >= 12 && string(raw[0:4]) == "RIFF" && string(raw[8:12]) == "WEBP"
}

func decodeTGA(raw []byte) (*image.NRGBA, error) {
	img, err := tga.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA format with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
