// Package transform holds the logo transform value and its undo/redo history.
package transform

import (
	"fmt"

	"umbrella-configurator/internal/mathutil"
)

// State is the logo transform: a uniform scale in percent and a rotation in
// degrees about the placement anchor. It is a value; every change returns a
// new State.
type State struct {
	Scale    int `json:"scale"`
	Rotation int `json:"rotation"`
}

// Range is a closed integer interval with a rest value.
type Range struct {
	Min, Max, Default int
}

// Clamp limits v to the range.
func (r Range) Clamp(v int) int {
	return mathutil.Clamp(v, r.Min, r.Max)
}

// Limits bounds both transform axes.
type Limits struct {
	Scale    Range
	Rotation Range
}

// DefaultLimits: scale 50–150% (rest 100), rotation ±180° (rest 0).
var DefaultLimits = Limits{
	Scale:    Range{Min: 50, Max: 150, Default: 100},
	Rotation: Range{Min: -180, Max: 180, Default: 0},
}

// Default returns the rest state for these limits.
func (l Limits) Default() State {
	return State{Scale: l.Scale.Default, Rotation: l.Rotation.Default}
}

// Clamp brings both axes of s into range.
func (l Limits) Clamp(s State) State {
	return State{Scale: l.Scale.Clamp(s.Scale), Rotation: l.Rotation.Clamp(s.Rotation)}
}

// WithScale returns s with the scale replaced and clamped.
func (l Limits) WithScale(s State, scale int) State {
	s.Scale = l.Scale.Clamp(scale)
	return s
}

// WithRotation returns s with the rotation replaced and clamped.
func (l Limits) WithRotation(s State, deg int) State {
	s.Rotation = l.Rotation.Clamp(deg)
	return s
}

// Default returns {100, 0}.
func Default() State {
	return DefaultLimits.Default()
}

// WithScale clamps to [50,150].
func (s State) WithScale(scale int) State {
	return DefaultLimits.WithScale(s, scale)
}

// WithRotation clamps to [-180,180].
func (s State) WithRotation(deg int) State {
	return DefaultLimits.WithRotation(s, deg)
}

// Ratio is the scale as a multiplier.
func (s State) Ratio() float64 {
	return float64(s.Scale) / 100
}

// Radians is the rotation in radians.
func (s State) Radians() float64 {
	return mathutil.Deg2Rad(float64(s.Rotation))
}

// ScaleLabel formats the scale for the slider readout, e.g. "120%".
func (s State) ScaleLabel() string {
	return fmt.Sprintf("%d%%", s.Scale)
}

// RotationLabel formats the rotation for the slider readout, e.g. "45°".
func (s State) RotationLabel() string {
	return fmt.Sprintf("%d°", s.Rotation)
}

func (s State) String() string {
	return s.ScaleLabel() + " / " + s.RotationLabel()
}
