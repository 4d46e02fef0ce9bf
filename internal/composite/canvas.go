package composite

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"umbrella-configurator/internal/mathutil"
)

// canvas is a 2D drawing surface with a save/restore transform stack.
type canvas struct {
	dst    draw.Image
	interp draw.Transformer
	m      f64.Aff3
	stack  []f64.Aff3
}

func newCanvas(dst draw.Image, interp draw.Transformer) *canvas {
	return &canvas{dst: dst, interp: interp, m: mathutil.Identity()}
}

// save pushes the current transform.
func (c *canvas) save() {
	c.stack = append(c.stack, c.m)
}

// restore pops the last saved transform. Unbalanced calls are ignored.
func (c *canvas) restore() {
	if len(c.stack) == 0 {
		return
	}
	c.m = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *canvas) translate(x, y float64) {
	c.m = mathutil.Mul(c.m, mathutil.Translate(x, y))
}

func (c *canvas) rotate(rad float64) {
	c.m = mathutil.Mul(c.m, mathutil.Rotate(rad))
}

// drawImage draws src stretched into the w×h box at (x, y) in the current
// transform, blending over what is already there.
func (c *canvas) drawImage(src image.Image, x, y, w, h float64) {
	sb := src.Bounds()
	if sb.Empty() || w <= 0 || h <= 0 {
		return
	}
	m := mathutil.Mul(c.m, mathutil.Translate(x, y))
	m = mathutil.Mul(m, mathutil.Scale(w/float64(sb.Dx()), h/float64(sb.Dy())))
	m = mathutil.Mul(m, mathutil.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)))
	c.interp.Transform(c.dst, m, src, sb, draw.Over, nil)
}

// depth reports the number of unrestored saves.
func (c *canvas) depth() int {
	return len(c.stack)
}
