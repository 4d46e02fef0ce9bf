// Package composite renders the product image with the transformed logo on
// top. The same placement rules drive the live preview and the export, so the
// two always agree.
package composite

import (
	"math"

	"golang.org/x/image/math/f64"

	"umbrella-configurator/internal/mathutil"
	"umbrella-configurator/internal/transform"
)

// Logo anchor and size cap, as fractions of the canvas.
const (
	AnchorX       = 0.5
	AnchorY       = 0.85
	MaxWidthRatio = 0.3
)

// Placement is where and how large the logo lands on a canvas.
type Placement struct {
	AnchorX, AnchorY float64 // rotation pivot and logo centre, canvas pixels
	Width, Height    float64 // drawn logo size, canvas pixels
	Angle            float64 // radians, clockwise on screen
	SrcW, SrcH       int     // natural logo size
}

// Place computes the logo placement on a canvasW×canvasH canvas for a logo of
// natural size logoW×logoH. The width is the scaled natural width, capped at
// 30% of the canvas; the height keeps the natural aspect ratio.
func Place(canvasW, canvasH, logoW, logoH int, st transform.State) Placement {
	p := Placement{
		AnchorX: float64(canvasW) * AnchorX,
		AnchorY: float64(canvasH) * AnchorY,
		Angle:   st.Radians(),
		SrcW:    logoW,
		SrcH:    logoH,
	}
	if logoW <= 0 || logoH <= 0 {
		return p
	}
	aspect := float64(logoW) / float64(logoH)
	p.Width = math.Min(float64(canvasW)*MaxWidthRatio, float64(logoW)*st.Ratio())
	p.Height = p.Width / aspect
	return p
}

// Empty reports whether the placement draws nothing.
func (p Placement) Empty() bool {
	return p.Width <= 0 || p.Height <= 0
}

// Zoom scales the placement for a canvas k times the size of the original.
func (p Placement) Zoom(k float64) Placement {
	p.AnchorX *= k
	p.AnchorY *= k
	p.Width *= k
	p.Height *= k
	return p
}

// Matrix maps natural logo pixels to canvas pixels:
// translate(anchor) · rotate(angle) · translate(-w/2, -h/2) · scale(w/srcW, h/srcH).
func (p Placement) Matrix() f64.Aff3 {
	if p.SrcW <= 0 || p.SrcH <= 0 {
		return mathutil.Identity()
	}
	m := mathutil.Translate(p.AnchorX, p.AnchorY)
	m = mathutil.Mul(m, mathutil.Rotate(p.Angle))
	m = mathutil.Mul(m, mathutil.Translate(-p.Width/2, -p.Height/2))
	return mathutil.Mul(m, mathutil.Scale(p.Width/float64(p.SrcW), p.Height/float64(p.SrcH)))
}

// Corners returns the drawn logo's corners in canvas pixels, clockwise from
// the top-left.
func (p Placement) Corners() [4][2]float64 {
	m := p.Matrix()
	w, h := float64(p.SrcW), float64(p.SrcH)
	var out [4][2]float64
	for i, c := range [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		out[i][0], out[i][1] = mathutil.Apply(m, c[0], c[1])
	}
	return out
}
