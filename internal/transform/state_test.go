package transform

import (
	"testing"
)

func TestDefault(t *testing.T) {
	if got := Default(); got != (State{Scale: 100, Rotation: 0}) {
		t.Errorf("Default() = %+v, want {100 0}", got)
	}
}

func TestWithScaleClamps(t *testing.T) {
	base := Default()
	for s := -1000; s <= 1000; s += 7 {
		got := base.WithScale(s)
		want := s
		if want < 50 {
			want = 50
		}
		if want > 150 {
			want = 150
		}
		if got.Scale != want {
			t.Fatalf("WithScale(%d).Scale = %d, want %d", s, got.Scale, want)
		}
		if got.Rotation != base.Rotation {
			t.Fatalf("WithScale changed rotation to %d", got.Rotation)
		}
	}
}

func TestWithRotationClamps(t *testing.T) {
	base := State{Scale: 120}
	for r := -1000; r <= 1000; r += 11 {
		got := base.WithRotation(r)
		if got.Rotation < -180 || got.Rotation > 180 {
			t.Fatalf("WithRotation(%d).Rotation = %d, out of range", r, got.Rotation)
		}
		if r >= -180 && r <= 180 && got.Rotation != r {
			t.Fatalf("WithRotation(%d).Rotation = %d, want unchanged", r, got.Rotation)
		}
		if got.Scale != 120 {
			t.Fatalf("WithRotation changed scale to %d", got.Scale)
		}
	}
}

func TestValueSemantics(t *testing.T) {
	a := Default()
	b := a.WithScale(130).WithRotation(45)
	if a != Default() {
		t.Errorf("original mutated: %+v", a)
	}
	if b != (State{130, 45}) {
		t.Errorf("b = %+v, want {130 45}", b)
	}
}

func TestCustomLimits(t *testing.T) {
	l := Limits{Scale: Range{10, 20, 15}, Rotation: Range{-5, 5, 1}}
	if got := l.Default(); got != (State{15, 1}) {
		t.Errorf("Default() = %+v", got)
	}
	if got := l.Clamp(State{100, -100}); got != (State{20, -5}) {
		t.Errorf("Clamp() = %+v", got)
	}
}

func TestLabels(t *testing.T) {
	s := State{Scale: 120, Rotation: -45}
	if s.ScaleLabel() != "120%" || s.RotationLabel() != "-45°" {
		t.Errorf("labels = %q %q", s.ScaleLabel(), s.RotationLabel())
	}
	if s.String() != "120% / -45°" {
		t.Errorf("String() = %q", s.String())
	}
	if s.Ratio() != 1.2 {
		t.Errorf("Ratio() = %v", s.Ratio())
	}
}
