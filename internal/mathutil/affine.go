package mathutil

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine matrices are f64.Aff3, row-major 2×3: [a, b, c, d, e, f] maps
// (x, y) to (a·x + b·y + c, d·x + e·y + f). This is the layout
// golang.org/x/image/draw expects for source-to-destination transforms.

func Identity() f64.Aff3 {
	return f64.Aff3{1, 0, 0, 0, 1, 0}
}

func Translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

func Scale(sx, sy float64) f64.Aff3 {
	return f64.Aff3{sx, 0, 0, 0, sy, 0}
}

// Rotate returns a rotation by a radians. With y pointing down, positive
// angles turn clockwise on screen, matching canvas rotate().
func Rotate(a float64) f64.Aff3 {
	c, s := math.Cos(a), math.Sin(a)
	return f64.Aff3{c, -s, 0, s, c, 0}
}

// Mul returns a × b: the result applies b first, then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps the point (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}
