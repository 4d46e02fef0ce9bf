// Package preview renders the live, display-sized view of the product.
//
// The logo is placed with the export placement scaled to the display, so the
// preview is the export seen at a smaller size. The orbit tilt is applied last
// and never reaches the export.
package preview

import (
	"image"
	"sync"

	"golang.org/x/image/draw"

	"umbrella-configurator/internal/asset"
	"umbrella-configurator/internal/composite"
	"umbrella-configurator/internal/orbit"
	"umbrella-configurator/internal/postprocess"
	"umbrella-configurator/internal/transform"
)

// Frame is everything the view shows at one moment.
type Frame struct {
	Base      image.Image
	Logo      image.Image // nil when no logo is loaded or it is hidden
	Transform transform.State
	Orbit     orbit.Angles
}

// Renderer draws frames at most MaxW×MaxH. It caches the downscaled base
// image between frames.
type Renderer struct {
	MaxW, MaxH int

	compositor *composite.Compositor

	mu     sync.Mutex
	base   image.Image
	fitted *image.NRGBA
	zoom   float64
}

// New returns a renderer for a maxW×maxH display area.
func New(maxW, maxH int) *Renderer {
	return &Renderer{MaxW: maxW, MaxH: maxH, compositor: composite.Default}
}

// Render composes f. It returns nil when f has no base image.
func (r *Renderer) Render(f Frame) *image.NRGBA {
	if f.Base == nil {
		return nil
	}
	fitted, k := r.fit(f.Base)

	fb := fitted.Bounds()
	out := image.NewNRGBA(fb)
	rowLen := fb.Dx() * 4
	for y := fb.Min.Y; y < fb.Max.Y; y++ {
		si := fitted.PixOffset(fb.Min.X, y)
		di := out.PixOffset(fb.Min.X, y)
		copy(out.Pix[di:di+rowLen], fitted.Pix[si:si+rowLen])
	}

	if f.Logo != nil {
		bb := f.Base.Bounds()
		lb := f.Logo.Bounds()
		p := composite.Place(bb.Dx(), bb.Dy(), lb.Dx(), lb.Dy(), f.Transform).Zoom(k)
		r.compositor.DrawLogo(out, f.Logo, p)
	}

	if f.Orbit.IsRest() {
		return out
	}
	b := out.Bounds()
	tilted := image.NewNRGBA(b)
	m := f.Orbit.Affine(float64(b.Dx())/2, float64(b.Dy())/2)
	draw.BiLinear.Transform(tilted, m, out, b, draw.Src, nil)
	return tilted
}

// Zoom returns the display-to-natural scale of the last rendered base.
func (r *Renderer) Zoom() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fitted == nil {
		return 1
	}
	return r.zoom
}

func (r *Renderer) fit(base image.Image) (*image.NRGBA, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fitted != nil && r.base == base {
		return r.fitted, r.zoom
	}
	maxW, maxH := r.MaxW, r.MaxH
	bb := base.Bounds()
	if maxW <= 0 {
		maxW = bb.Dx()
	}
	if maxH <= 0 {
		maxH = bb.Dy()
	}
	r.fitted, r.zoom = postprocess.Fit(asset.ToNRGBA(base), maxW, maxH)
	r.base = base
	return r.fitted, r.zoom
}
