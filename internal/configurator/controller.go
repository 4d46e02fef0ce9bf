// Package configurator owns the product configurator state: the selected
// variant, the uploaded logo, the transform and its history, and the orbit
// gesture. User intents come in as method calls and state goes out through
// a View.
package configurator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"umbrella-configurator/internal/asset"
	"umbrella-configurator/internal/composite"
	"umbrella-configurator/internal/config"
	"umbrella-configurator/internal/logging"
	"umbrella-configurator/internal/orbit"
	"umbrella-configurator/internal/transform"
	"umbrella-configurator/internal/upload"
)

// Option configures a Controller.
type Option func(*Controller)

// WithDelay overrides the transition delay from config.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithLogger overrides the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithGate overrides the upload gate built from config.
func WithGate(g *upload.Gate) Option {
	return func(c *Controller) { c.gate = g }
}

// Controller serializes intents behind one mutex. Variant switches and logo
// loads run asynchronously and hold the lock flag until they finish.
type Controller struct {
	cfg    config.Config
	assets asset.Resolver
	view   View
	gate   *upload.Gate
	limits transform.Limits
	format composite.Format
	delay  time.Duration
	orbit  *orbit.Gesture
	log    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	locked  bool
	variant string
	base    image.Image
	logo    *Logo
	current transform.State
	history transform.History
}

// New builds a controller and shows the configured default variant. The
// initial base image is resolved synchronously.
func New(cfg config.Config, assets asset.Resolver, view View, opts ...Option) (*Controller, error) {
	if view == nil {
		view = NopView{}
	}
	format, err := composite.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return nil, fmt.Errorf("configurator: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:    cfg,
		assets: assets,
		view:   view,
		gate:   upload.NewGate(cfg.AllowedMIMETypes, cfg.MaxUploadBytes),
		limits: transform.Limits{
			Scale:    transform.Range(cfg.Scale),
			Rotation: transform.Range(cfg.Rotation),
		},
		format: format,
		delay:  cfg.TransitionDelay(),
		orbit: orbit.New(orbit.Limits{
			MaxX:         cfg.Orbit.MaxX,
			MaxY:         cfg.Orbit.MaxY,
			SensitivityX: cfg.Orbit.SensitivityX,
			SensitivityY: cfg.Orbit.SensitivityY,
			SpringBack:   cfg.SpringBackDelay(),
		}),
		log:    logging.Component("configurator"),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(c)
	}

	v, ok := cfg.Variant(cfg.DefaultVariant)
	if !ok {
		cancel()
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, cfg.DefaultVariant)
	}
	base, err := assets.Resolve(v.ID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("configurator: initial variant %q: %w", v.ID, err)
	}
	c.variant = v.ID
	c.base = base
	c.current = c.limits.Default()

	c.flush([]update{
		func(v View) { v.SetBaseImage(c.variant, base) },
		func(v View) { v.SetTheme(c.variant) },
		setTransform(c.current),
		func(v View) { v.SetLogoControls(false) },
		setHistory(false, false),
		func(v View) { v.SetLoading(false) },
	})
	c.log.Info("configurator ready", "variant", c.variant, "delay", c.delay)
	return c, nil
}

// flush runs queued View calls. Callers must not hold c.mu.
func (c *Controller) flush(ups []update) {
	for _, u := range ups {
		u(c.view)
	}
}

// acquire takes the busy flag for an async operation.
func (c *Controller) acquire(intent string) error {
	if c.closed {
		return ErrClosed
	}
	if c.locked {
		c.log.Debug("intent dropped while locked", "intent", intent)
		return ErrLocked
	}
	c.locked = true
	return nil
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// wait blocks for the transition delay or until ctx is done.
func (c *Controller) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Controller) finish(done chan<- error, err error) {
	done <- err
	close(done)
	c.wg.Done()
}

// SelectVariant switches the product variant. The returned channel receives
// the outcome once the transition completes, then closes. Selecting the
// current variant returns ErrSameVariant and an intent during another
// transition returns ErrLocked.
func (c *Controller) SelectVariant(id string) (<-chan error, error) {
	v, ok := c.cfg.Variant(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, id)
	}

	c.mu.Lock()
	if v.ID == c.variant && !c.locked {
		c.mu.Unlock()
		return nil, ErrSameVariant
	}
	if err := c.acquire("select-variant"); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Debug("variant switch started", "variant", v.ID)
	c.flush([]update{func(v View) { v.SetLoading(true) }})

	done := make(chan error, 1)
	go c.switchVariant(c.ctx, v.ID, done)
	return done, nil
}

func (c *Controller) switchVariant(ctx context.Context, id string, done chan<- error) {
	if err := c.wait(ctx); err != nil {
		c.release()
		c.finish(done, err)
		return
	}
	base, err := c.assets.Resolve(id)

	c.mu.Lock()
	c.locked = false
	ups := []update{func(v View) { v.SetLoading(false) }}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("variant asset unavailable", "variant", id, "err", err)
		c.flush(ups)
		c.finish(done, fmt.Errorf("configurator: variant %q: %w", id, err))
		return
	}
	c.variant = id
	c.base = base
	c.mu.Unlock()

	ups = append([]update{
		func(v View) { v.SetBaseImage(id, base) },
		func(v View) { v.SetTheme(id) },
	}, ups...)
	c.flush(ups)
	c.log.Info("variant switched", "variant", id)
	c.finish(done, nil)
}

// release clears the busy flag without touching anything else.
func (c *Controller) release() {
	c.mu.Lock()
	c.locked = false
	c.mu.Unlock()
}

// UploadLogo validates and loads a logo. Validation is synchronous and never
// takes the lock; a rejected file returns an *upload.Error. An empty
// mimeType is sniffed from data. The returned channel receives the load
// outcome, which wraps composite.ErrDecodeFailure when data is not an image.
func (c *Controller) UploadLogo(name, mimeType string, data []byte) (<-chan error, error) {
	if mimeType == "" {
		mimeType = upload.Sniff(data)
	}
	f := upload.File{Name: name, MIMEType: mimeType, Size: int64(len(data))}
	if err := c.gate.Validate(f); err != nil {
		c.log.Debug("upload rejected", "file", name, "err", err)
		return nil, err
	}

	c.mu.Lock()
	if err := c.acquire("upload-logo"); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.wg.Add(1)
	c.mu.Unlock()

	c.flush([]update{func(v View) { v.SetLoading(true) }})

	done := make(chan error, 1)
	go c.loadLogo(c.ctx, f, data, done)
	return done, nil
}

func (c *Controller) loadLogo(ctx context.Context, f upload.File, data []byte, done chan<- error) {
	img, err := asset.DecodeBytes(data)
	if err != nil {
		c.release()
		c.log.Warn("logo decode failed", "file", f.Name, "err", err)
		c.flush([]update{func(v View) { v.SetLoading(false) }})
		c.finish(done, fmt.Errorf("configurator: %s: %w: %w", f.Name, composite.ErrDecodeFailure, err))
		return
	}
	if err := c.wait(ctx); err != nil {
		c.release()
		c.finish(done, err)
		return
	}

	logo := &Logo{img: img, Name: f.Name, MIMEType: f.MIMEType, Size: f.Size}

	c.mu.Lock()
	c.locked = false
	c.logo = logo
	c.current = c.limits.Default()
	c.history.Reset(c.current)
	st := c.current
	c.mu.Unlock()

	c.flush([]update{
		func(v View) { v.SetLogo(img) },
		setTransform(st),
		func(v View) { v.SetLogoControls(true) },
		setHistory(false, false),
		func(v View) { v.SetLoading(false) },
	})
	b := img.Bounds()
	c.log.Info("logo loaded", "file", f.Name, "width", b.Dx(), "height", b.Dy())
	c.finish(done, nil)
}

// adjust applies a live, uncommitted transform change.
func (c *Controller) adjust(fn func(transform.State) transform.State) (transform.State, bool) {
	c.mu.Lock()
	if c.closed || c.logo == nil {
		st := c.current
		c.mu.Unlock()
		return st, false
	}
	c.current = fn(c.current)
	st := c.current
	c.mu.Unlock()

	c.flush([]update{setTransform(st)})
	return st, true
}

// AdjustScale sets the live scale in percent, clamped to the configured
// range. It does not touch history. ok is false when no logo is loaded.
func (c *Controller) AdjustScale(scale int) (st transform.State, ok bool) {
	return c.adjust(func(s transform.State) transform.State {
		return c.limits.WithScale(s, scale)
	})
}

// AdjustRotation sets the live rotation in degrees, clamped to the
// configured range.
func (c *Controller) AdjustRotation(deg int) (st transform.State, ok bool) {
	return c.adjust(func(s transform.State) transform.State {
		return c.limits.WithRotation(s, deg)
	})
}

// CommitAdjustment records the live transform in history. A transform equal
// to the current history entry is not committed again.
func (c *Controller) CommitAdjustment() bool {
	c.mu.Lock()
	if c.closed || c.logo == nil {
		c.mu.Unlock()
		return false
	}
	if cur, ok := c.history.Current(); ok && cur == c.current {
		c.mu.Unlock()
		return false
	}
	c.history.Commit(c.current)
	ups := []update{setHistory(c.history.CanUndo(), c.history.CanRedo())}
	st := c.current
	c.mu.Unlock()

	c.log.Debug("transform committed", "transform", st)
	c.flush(ups)
	return true
}

// step moves through history with fn (Undo or Redo).
func (c *Controller) step(fn func() (transform.State, bool)) (transform.State, bool) {
	c.mu.Lock()
	if c.closed || c.logo == nil {
		st := c.current
		c.mu.Unlock()
		return st, false
	}
	st, ok := fn()
	if !ok {
		st = c.current
		c.mu.Unlock()
		return st, false
	}
	c.current = st
	ups := []update{setTransform(st), setHistory(c.history.CanUndo(), c.history.CanRedo())}
	c.mu.Unlock()

	c.flush(ups)
	return st, true
}

// Undo restores the previous committed transform. At the first entry it is a
// no-op and ok is false.
func (c *Controller) Undo() (transform.State, bool) {
	return c.step(c.history.Undo)
}

// Redo re-applies the next committed transform. At the tail it is a no-op.
func (c *Controller) Redo() (transform.State, bool) {
	return c.step(c.history.Redo)
}

// Reset returns the logo to the default transform and commits that as a new
// history entry, so a reset can itself be undone.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	if c.closed || c.logo == nil {
		c.mu.Unlock()
		return false
	}
	c.current = c.limits.Default()
	c.history.Commit(c.current)
	st := c.current
	ups := []update{setTransform(st), setHistory(c.history.CanUndo(), c.history.CanRedo())}
	c.mu.Unlock()

	c.flush(ups)
	return true
}

// Export is an encoded composite ready to save.
type Export struct {
	FileName      string
	Format        composite.Format
	Width, Height int
	Data          []byte
	Image         *image.NRGBA
}

// Save writes the export into dir under its file name and returns the path.
func (e *Export) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("configurator: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, e.FileName)
	if err := os.WriteFile(path, e.Data, 0644); err != nil {
		return "", fmt.Errorf("configurator: write %s: %w", path, err)
	}
	return path, nil
}

// Export composites the current logo and transform onto the current base at
// its natural size. If the logo fails to render, the base-only export is
// returned together with an error wrapping composite.ErrDecodeFailure.
func (c *Controller) Export() (*Export, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	base, logo, st := c.base, c.logo, c.current
	c.mu.Unlock()

	var overlay composite.Overlay
	if logo != nil {
		overlay = logo
	}
	return c.render(base, overlay, st)
}

func (c *Controller) render(base image.Image, overlay composite.Overlay, st transform.State) (*Export, error) {
	if base == nil {
		return nil, errors.New("configurator: no base image")
	}
	img, renderErr := composite.Render(base, overlay, st)

	var buf bytes.Buffer
	if err := composite.Encode(&buf, img, c.format); err != nil {
		return nil, fmt.Errorf("configurator: export: %w", err)
	}
	exp := &Export{
		FileName: composite.FileName(c.cfg.ExportFileName, c.format),
		Format:   c.format,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Data:     buf.Bytes(),
		Image:    img,
	}
	if renderErr != nil {
		c.log.Warn("export without logo", "err", renderErr)
		return exp, fmt.Errorf("configurator: export: %w", renderErr)
	}
	c.log.Info("export done", "file", exp.FileName, "width", exp.Width, "height", exp.Height, "transform", st)
	return exp, nil
}

// ExportVariant renders the current logo and transform onto another
// variant's base without switching to it.
func (c *Controller) ExportVariant(id string) (*Export, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	v, ok := c.cfg.Variant(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, id)
	}
	base, err := c.assets.Resolve(v.ID)
	if err != nil {
		return nil, fmt.Errorf("configurator: variant %q: %w", v.ID, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	logo, st := c.logo, c.current
	c.mu.Unlock()

	var overlay composite.Overlay
	if logo != nil {
		overlay = logo
	}
	return c.render(base, overlay, st)
}

// PointerDown starts an orbit drag.
func (c *Controller) PointerDown(x, y float64) bool {
	if c.isClosed() || !c.orbit.PointerDown(x, y) {
		return false
	}
	c.flush([]update{func(v View) { v.SetOrbit(orbit.Angles{}) }})
	return true
}

// PointerMove updates the orbit tilt while dragging.
func (c *Controller) PointerMove(x, y float64) (orbit.Angles, bool) {
	if c.isClosed() {
		return orbit.Angles{}, false
	}
	a, ok := c.orbit.PointerMove(x, y)
	if ok {
		c.flush([]update{func(v View) { v.SetOrbit(a) }})
	}
	return a, ok
}

// PointerUp ends the drag. The returned channel receives the rest angles
// after the spring-back has been pushed to the view, then closes. It closes
// without a value if a new drag interrupts the spring-back.
func (c *Controller) PointerUp() (<-chan orbit.Angles, bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, false
	}
	c.wg.Add(1)
	c.mu.Unlock()

	settle, ok := c.orbit.PointerUp()
	if !ok {
		c.wg.Done()
		return nil, false
	}
	out := make(chan orbit.Angles, 1)
	go func() {
		defer c.wg.Done()
		defer close(out)
		a, ok := <-settle
		if !ok {
			return
		}
		c.flush([]update{func(v View) { v.SetOrbit(a) }})
		out <- a
	}()
	return out, true
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Variant   string
	Locked    bool
	Logo      *LogoInfo
	Transform transform.State
	History   []transform.State
	Cursor    int
	CanUndo   bool
	CanRedo   bool
	Orbit     orbit.State
}

// HasLogo reports whether a logo is loaded.
func (s Snapshot) HasLogo() bool { return s.Logo != nil }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	s := Snapshot{
		Variant:   c.variant,
		Locked:    c.locked,
		Logo:      c.logo.info(),
		Transform: c.current,
		History:   c.history.Entries(),
		Cursor:    c.history.Cursor(),
		CanUndo:   c.history.CanUndo(),
		CanRedo:   c.history.CanRedo(),
	}
	c.mu.Unlock()
	s.Orbit = c.orbit.State()
	return s
}

// Base returns the current variant's base image.
func (c *Controller) Base() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

// Logo returns the loaded logo image, or nil.
func (c *Controller) Logo() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logo == nil {
		return nil
	}
	return c.logo.img
}

// Variants lists the configured variants.
func (c *Controller) Variants() []config.Variant {
	return c.cfg.Variants
}

// Limits returns the transform limits in effect.
func (c *Controller) Limits() transform.Limits {
	return c.limits
}

// Close cancels in-flight transitions and the orbit spring-back, then waits
// for them to finish. Their channels report context.Canceled.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.orbit.Stop()
	c.wg.Wait()
}
