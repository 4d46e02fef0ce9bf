package orbit

import (
	"math"
	"testing"
	"time"
)

func testLimits() Limits {
	l := DefaultLimits
	l.SpringBack = 5 * time.Millisecond
	return l
}

func TestPhaseTransitions(t *testing.T) {
	g := New(testLimits())
	if s := g.State(); s.Phase != Idle || s.Dragging || s.Anchor != nil {
		t.Fatalf("initial state = %+v, want idle", s)
	}

	if _, ok := g.PointerMove(10, 10); ok {
		t.Error("PointerMove while idle should be ignored")
	}
	if _, ok := g.PointerUp(); ok {
		t.Error("PointerUp while idle should be ignored")
	}

	if !g.PointerDown(100, 200) {
		t.Fatal("PointerDown from idle failed")
	}
	s := g.State()
	if s.Phase != Dragging || !s.Dragging || s.Anchor == nil || *s.Anchor != (Point{100, 200}) {
		t.Fatalf("dragging state = %+v", s)
	}
	if g.PointerDown(0, 0) {
		t.Error("second PointerDown during a drag should be rejected")
	}

	settled, ok := g.PointerUp()
	if !ok {
		t.Fatal("PointerUp during drag failed")
	}
	s = g.State()
	if s.Phase != SpringingBack || s.Dragging || s.Anchor != nil {
		t.Errorf("after release state = %+v, want springing-back without anchor", s)
	}

	select {
	case a, ok := <-settled:
		if !ok || !a.IsRest() {
			t.Errorf("settled = %+v, %v; want rest angles", a, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("spring-back never fired")
	}
	if s := g.State(); s.Phase != Idle {
		t.Errorf("phase after spring-back = %v, want idle", s.Phase)
	}
}

func TestMoveComputesBoundedAngles(t *testing.T) {
	l := testLimits()
	tests := []struct {
		dx, dy float64
		want   Angles
	}{
		{0, 0, Angles{0, 0}},
		{50, 0, Angles{0, 10}},
		{0, 50, Angles{-5, 0}}, // pull down tilts the top back
		{0, -50, Angles{5, 0}},
		{-100, 100, Angles{-10, -20}},
		{1e6, -1e6, Angles{15, 30}},
		{-1e9, 1e9, Angles{-15, -30}},
	}
	for _, tt := range tests {
		g := New(l)
		g.PointerDown(400, 300)
		got, ok := g.PointerMove(400+tt.dx, 300+tt.dy)
		if !ok {
			t.Fatalf("PointerMove(%v,%v) ignored", tt.dx, tt.dy)
		}
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("delta (%v,%v): angles = %+v, want %+v", tt.dx, tt.dy, got, tt.want)
		}
		if math.Abs(got.X) > l.MaxX || math.Abs(got.Y) > l.MaxY {
			t.Errorf("delta (%v,%v): angles %+v exceed bounds", tt.dx, tt.dy, got)
		}
	}
}

func TestSpringBackReturnsToRestFromAnyAngle(t *testing.T) {
	l := testLimits()
	l.SpringBack = 200 * time.Millisecond
	for _, d := range []float64{1, 37, 500, 1e7} {
		g := New(l)
		g.PointerDown(0, 0)
		g.PointerMove(d, d)
		settled, _ := g.PointerUp()

		// Angles hold until the delay elapses.
		if s := g.State(); s.IsRest() {
			t.Errorf("delta %v: tilt reset instantly on release", d)
		}
		select {
		case <-settled:
		case <-time.After(time.Second):
			t.Fatalf("delta %v: spring-back never fired", d)
		}
		if s := g.State(); !s.IsRest() {
			t.Errorf("delta %v: angles after spring-back = %+v, want (0,0)", d, s.Angles)
		}
	}
}

func TestClickWithoutMoveStillSpringsBack(t *testing.T) {
	g := New(testLimits())
	g.PointerDown(5, 5)
	settled, ok := g.PointerUp()
	if !ok {
		t.Fatal("PointerUp after click failed")
	}
	select {
	case a := <-settled:
		if !a.IsRest() {
			t.Errorf("settled = %+v", a)
		}
	case <-time.After(time.Second):
		t.Fatal("spring-back never fired")
	}
}

func TestNewDragCancelsPendingSpringBack(t *testing.T) {
	l := testLimits()
	l.SpringBack = time.Hour
	g := New(l)

	g.PointerDown(0, 0)
	g.PointerMove(100, 0)
	settled, _ := g.PointerUp()

	if !g.PointerDown(10, 10) {
		t.Fatal("PointerDown during spring-back should start a new drag")
	}
	if _, ok := <-settled; ok {
		t.Error("cancelled spring-back channel should close without a value")
	}
	if s := g.State(); !s.IsRest() || s.Phase != Dragging {
		t.Errorf("new drag state = %+v, want dragging from rest", s)
	}
}

func TestStop(t *testing.T) {
	l := testLimits()
	l.SpringBack = time.Hour
	g := New(l)
	g.PointerDown(0, 0)
	g.PointerMove(0, -40)
	settled, _ := g.PointerUp()
	g.Stop()
	if _, ok := <-settled; ok {
		t.Error("Stop should close the pending settle channel")
	}
	if s := g.State(); s.Phase != Idle || !s.IsRest() {
		t.Errorf("after Stop state = %+v", s)
	}
}

func TestPhaseString(t *testing.T) {
	if Idle.String() != "idle" || Dragging.String() != "dragging" || SpringingBack.String() != "springing-back" {
		t.Error("unexpected phase names")
	}
}
