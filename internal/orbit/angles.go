package orbit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f64"

	"umbrella-configurator/internal/mathutil"
)

// Angles is the tilt in degrees: X tips the top toward or away from the
// viewer, Y turns left or right.
type Angles struct {
	X, Y float64
}

// IsRest reports whether both angles are zero.
func (a Angles) IsRest() bool {
	return a.X == 0 && a.Y == 0
}

// Matrix is rotateX(X)·rotateY(Y), the same composition order as the CSS
// transform "rotateX() rotateY()".
func (a Angles) Matrix() mgl64.Mat4 {
	rx := mgl64.HomogRotate3DX(mathutil.Deg2Rad(a.X))
	ry := mgl64.HomogRotate3DY(mathutil.Deg2Rad(a.Y))
	return rx.Mul4(ry)
}

// Affine projects the tilted image plane orthographically back onto the
// screen, pivoting about (cx, cy). The result maps untilted pixels to tilted
// ones.
func (a Angles) Affine(cx, cy float64) f64.Aff3 {
	m := a.Matrix()
	// Upper-left 2×2 of the 4×4: how the plane's x and y axes land on screen.
	// mgl64 matrices are column-major: At(row, col).
	proj := f64.Aff3{
		m.At(0, 0), m.At(0, 1), 0,
		m.At(1, 0), m.At(1, 1), 0,
	}
	return mathutil.Mul(mathutil.Translate(cx, cy), mathutil.Mul(proj, mathutil.Translate(-cx, -cy)))
}

func (a Angles) String() string {
	return fmt.Sprintf("rotateX(%gdeg) rotateY(%gdeg)", a.X, a.Y)
}
