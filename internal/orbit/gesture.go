// Package orbit turns pointer drags into a bounded 3D-look tilt that springs
// back to rest after release.
package orbit

import (
	"sync"
	"time"

	"umbrella-configurator/internal/mathutil"
)

// Phase is the gesture state.
type Phase int

const (
	Idle Phase = iota
	Dragging
	SpringingBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case SpringingBack:
		return "springing-back"
	default:
		return "unknown"
	}
}

// Limits bounds the tilt and scales pointer deltas into degrees.
type Limits struct {
	MaxX, MaxY                 float64 // degrees
	SensitivityX, SensitivityY float64 // degrees per pixel
	SpringBack                 time.Duration
}

// DefaultLimits: ±15° about X, ±30° about Y, 100ms spring-back.
var DefaultLimits = Limits{
	MaxX:         15,
	MaxY:         30,
	SensitivityX: 0.1,
	SensitivityY: 0.2,
	SpringBack:   100 * time.Millisecond,
}

// Point is a pointer position in view pixels.
type Point struct {
	X, Y float64
}

// State is a snapshot of the gesture.
type State struct {
	Angles
	Phase    Phase
	Dragging bool
	Anchor   *Point // set only while dragging
}

// Gesture is the drag-to-orbit state machine. Methods are safe for
// concurrent use; the spring-back timer fires on its own goroutine.
type Gesture struct {
	mu     sync.Mutex
	limits Limits
	phase  Phase
	angles Angles
	anchor Point
	timer  *time.Timer
	settle chan Angles
}

// New returns an idle gesture.
func New(limits Limits) *Gesture {
	return &Gesture{limits: limits}
}

// PointerDown starts a drag anchored at (x, y). A pending spring-back is
// cancelled and the tilt restarts from rest. Returns false if a drag is
// already in progress.
func (g *Gesture) PointerDown(x, y float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == Dragging {
		return false
	}
	g.cancelLocked()
	g.phase = Dragging
	g.anchor = Point{x, y}
	g.angles = Angles{}
	return true
}

// PointerMove updates the tilt from the delta to the anchor. Dragging down
// tilts the top toward the viewer, hence the inverted dy. ok is false when no
// drag is in progress.
func (g *Gesture) PointerMove(x, y float64) (a Angles, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != Dragging {
		return g.angles, false
	}
	dx := x - g.anchor.X
	dy := y - g.anchor.Y
	l := g.limits
	g.angles = Angles{
		X: mathutil.Clamp(-dy*l.SensitivityX, -l.MaxX, l.MaxX),
		Y: mathutil.Clamp(dx*l.SensitivityY, -l.MaxY, l.MaxY),
	}
	return g.angles, true
}

// PointerUp ends the drag and schedules the return to rest. The returned
// channel receives the rest angles once the spring-back delay has elapsed and
// is then closed; it is closed without a value if a new drag cancels the
// spring-back. ok is false when no drag was in progress.
func (g *Gesture) PointerUp() (settled <-chan Angles, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != Dragging {
		return nil, false
	}
	g.phase = SpringingBack
	g.anchor = Point{}

	ch := make(chan Angles, 1)
	g.settle = ch
	g.timer = time.AfterFunc(g.limits.SpringBack, func() { g.springBack(ch) })
	return ch, true
}

func (g *Gesture) springBack(ch chan Angles) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// A newer gesture already took over this channel.
	if g.settle != ch {
		return
	}
	g.angles = Angles{}
	g.phase = Idle
	g.timer = nil
	g.settle = nil
	ch <- g.angles
	close(ch)
}

// cancelLocked stops a pending spring-back. Caller holds g.mu.
func (g *Gesture) cancelLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	if g.settle != nil {
		close(g.settle)
		g.settle = nil
	}
}

// Stop cancels any pending spring-back and returns the gesture to rest.
func (g *Gesture) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
	g.phase = Idle
	g.angles = Angles{}
	g.anchor = Point{}
}

// State returns a snapshot of the gesture.
func (g *Gesture) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := State{Angles: g.angles, Phase: g.phase, Dragging: g.phase == Dragging}
	if s.Dragging {
		anchor := g.anchor
		s.Anchor = &anchor
	}
	return s
}

// Limits returns the configured limits.
func (g *Gesture) Limits() Limits {
	return g.limits
}
