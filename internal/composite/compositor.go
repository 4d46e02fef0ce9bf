package composite

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"umbrella-configurator/internal/transform"
)

// ErrDecodeFailure means the logo could not be decoded. The render still
// completes with the base image alone.
var ErrDecodeFailure = errors.New("composite: logo decode failed")

// Overlay supplies the logo image at render time.
type Overlay interface {
	Image() (image.Image, error)
}

type staticOverlay struct{ img image.Image }

func (o staticOverlay) Image() (image.Image, error) { return o.img, nil }

// ImageOverlay wraps an already decoded image.
func ImageOverlay(img image.Image) Overlay {
	return staticOverlay{img}
}

// Compositor draws logos onto product images.
type Compositor struct {
	// Interp resamples the logo. Nil means bilinear.
	Interp draw.Transformer
}

// Default is the bilinear compositor used for exports.
var Default = &Compositor{Interp: draw.BiLinear}

// Render composites with the default compositor.
func Render(base image.Image, overlay Overlay, st transform.State) (*image.NRGBA, error) {
	return Default.Render(base, overlay, st)
}

// Render returns a new image the size of base's natural bounds with base drawn
// at the origin and, if overlay is non-nil, the logo placed per st.
//
// If the overlay fails to decode, the base-only image is returned together
// with an error wrapping ErrDecodeFailure.
func (c *Compositor) Render(base image.Image, overlay Overlay, st transform.State) (*image.NRGBA, error) {
	bb := base.Bounds()
	out := cloneNRGBA(base)

	if overlay == nil {
		return out, nil
	}
	logo, err := overlay.Image()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	if logo == nil {
		return out, fmt.Errorf("%w: empty image", ErrDecodeFailure)
	}

	lb := logo.Bounds()
	p := Place(bb.Dx(), bb.Dy(), lb.Dx(), lb.Dy(), st)
	c.DrawLogo(out, logo, p)
	return out, nil
}

// DrawLogo draws logo onto dst at placement p. The canvas transform is
// restored before returning.
func (c *Compositor) DrawLogo(dst draw.Image, logo image.Image, p Placement) {
	if p.Empty() {
		return
	}
	cv := newCanvas(dst, c.interp())
	cv.save()
	cv.translate(p.AnchorX, p.AnchorY)
	cv.rotate(p.Angle)
	cv.drawImage(logo, -p.Width/2, -p.Height/2, p.Width, p.Height)
	cv.restore()
}

func (c *Compositor) interp() draw.Transformer {
	if c == nil || c.Interp == nil {
		return draw.BiLinear
	}
	return c.Interp
}

// cloneNRGBA copies base into a new NRGBA with its origin at (0, 0). NRGBA
// sources are copied row by row so the pixels are bit-identical.
func cloneNRGBA(base image.Image) *image.NRGBA {
	bb := base.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bb.Dx(), bb.Dy()))
	if src, ok := base.(*image.NRGBA); ok {
		rowLen := bb.Dx() * 4
		for y := 0; y < bb.Dy(); y++ {
			si := src.PixOffset(bb.Min.X, bb.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], src.Pix[si:si+rowLen])
		}
		return out
	}
	draw.Draw(out, out.Bounds(), base, bb.Min, draw.Src)
	return out
}
