package mainwindow

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"umbrella-configurator/internal/orbit"
	"umbrella-configurator/internal/preview"
	"umbrella-configurator/internal/transform"
)

// Pointer receives orbit drag events from the stage.
type Pointer interface {
	PointerDown(x, y float64) bool
	PointerMove(x, y float64) (orbit.Angles, bool)
	PointerUp() (<-chan orbit.Angles, bool)
}

// stage shows the live preview and turns drags into orbit gestures. Fyne
// keeps delivering drag events to it after the pointer leaves its bounds.
type stage struct {
	widget.BaseWidget

	pointer  Pointer
	renderer *preview.Renderer
	image    *canvas.Image
	loader   *widget.ProgressBarInfinite
	content  *fyne.Container

	mu       sync.Mutex
	dragging bool
	frame    preview.Frame
	logo     image.Image
	loading  bool
}

func newStage(maxW, maxH int) *stage {
	s := &stage{renderer: preview.New(maxW, maxH)}
	s.image = canvas.NewImageFromImage(nil)
	s.image.FillMode = canvas.ImageFillContain
	s.image.SetMinSize(fyne.NewSize(float32(maxW)/2, float32(maxH)/2))
	s.loader = widget.NewProgressBarInfinite()
	s.loader.Hide()
	s.content = container.NewStack(s.image, container.NewCenter(s.loader))
	s.ExtendBaseWidget(s)
	return s
}

func (s *stage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.content)
}

func (s *stage) Dragged(ev *fyne.DragEvent) {
	if s.pointer == nil {
		return
	}
	s.mu.Lock()
	start := !s.dragging
	s.dragging = true
	s.mu.Unlock()

	if start {
		from := ev.Position.Subtract(ev.Dragged)
		s.pointer.PointerDown(float64(from.X), float64(from.Y))
	}
	s.pointer.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
}

func (s *stage) DragEnd() {
	s.mu.Lock()
	was := s.dragging
	s.dragging = false
	s.mu.Unlock()

	if was && s.pointer != nil {
		s.pointer.PointerUp()
	}
}

func (s *stage) setBase(img image.Image) {
	s.update(func() { s.frame.Base = img })
}

func (s *stage) setLogo(img image.Image) {
	s.update(func() {
		s.logo = img
		if !s.loading {
			s.frame.Logo = img
		}
	})
}

func (s *stage) setTransform(st transform.State) {
	s.update(func() { s.frame.Transform = st })
}

func (s *stage) setOrbit(a orbit.Angles) {
	s.update(func() { s.frame.Orbit = a })
}

// setLoading shows the loader and hides the logo overlay until the
// transition ends.
func (s *stage) setLoading(loading bool) {
	s.update(func() {
		s.loading = loading
		if loading {
			s.frame.Logo = nil
		} else {
			s.frame.Logo = s.logo
		}
	})
	if loading {
		s.loader.Show()
		s.loader.Start()
	} else {
		s.loader.Stop()
		s.loader.Hide()
	}
}

// update mutates the frame and re-renders it. Renders are serialized so a
// stale frame never replaces a newer one.
func (s *stage) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()

	out := s.renderer.Render(s.frame)
	if out == nil {
		return
	}
	s.image.Image = out
	s.image.Refresh()
}
