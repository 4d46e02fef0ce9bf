package configurator

import (
	"image"

	"umbrella-configurator/internal/orbit"
	"umbrella-configurator/internal/transform"
)

// View receives state pushed by the controller. The controller never calls a
// View method while holding its own lock, so implementations may call back
// into the controller.
type View interface {
	// SetLoading shows or hides the transition loader. The logo overlay is
	// hidden while loading.
	SetLoading(loading bool)
	SetBaseImage(variant string, img image.Image)
	SetTheme(variant string)
	// SetLogo replaces the logo overlay. nil removes it.
	SetLogo(img image.Image)
	SetTransform(st transform.State)
	SetLogoControls(enabled bool)
	SetHistory(canUndo, canRedo bool)
	SetOrbit(a orbit.Angles)
}

// NopView discards every update. Headless callers use it.
type NopView struct{}

func (NopView) SetLoading(bool)                  {}
func (NopView) SetBaseImage(string, image.Image) {}
func (NopView) SetTheme(string)                  {}
func (NopView) SetLogo(image.Image)              {}
func (NopView) SetTransform(transform.State)     {}
func (NopView) SetLogoControls(bool)             {}
func (NopView) SetHistory(bool, bool)            {}
func (NopView) SetOrbit(orbit.Angles)            {}

// update is a deferred View call, queued under the lock and run after it.
type update func(View)

func setTransform(st transform.State) update {
	return func(v View) { v.SetTransform(st) }
}

func setHistory(canUndo, canRedo bool) update {
	return func(v View) { v.SetHistory(canUndo, canRedo) }
}
