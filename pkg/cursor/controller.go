// Package cursor implements the DPAD remote pointer engine.
//
// A [Controller] owns the pointer physics, the Focus/Cursor mode machine,
// remote key routing and the snap-to-nearest round trip. It lives on a
// single UI thread driven by a [frame.Scheduler]. Content-engine
// notifications may arrive on any goroutine; the controller posts them to
// the scheduler's dispatch queue and applies them at the start of the next
// frame.
package cursor

import (
	"time"

	"github.com/go-drift/tvcursor/pkg/config"
	"github.com/go-drift/tvcursor/pkg/errors"
	"github.com/go-drift/tvcursor/pkg/frame"
	"github.com/go-drift/tvcursor/pkg/geometry"
	"github.com/go-drift/tvcursor/pkg/overlay"
)

// Scroller scrolls the host surface by whole pixels.
type Scroller interface {
	ScrollBy(dx, dy int) error
}

// AnimationAborter is implemented by scrollers with fling or smooth-scroll
// animations that must be cancelled on teardown.
type AnimationAborter interface {
	AbortAnimation()
}

// PointerAction is the phase of a synthetic pointer event.
type PointerAction int

const (
	ActionDown PointerAction = iota
	ActionUp
)

func (a PointerAction) String() string {
	if a == ActionUp {
		return "up"
	}
	return "down"
}

// PointerEvent is a synthetic touch delivered to the content surface.
type PointerEvent struct {
	Action    PointerAction
	X, Y      float32
	DownTime  time.Time
	EventTime time.Time
}

// PointerInjector delivers synthetic pointer events.
type PointerInjector interface {
	Inject(ev PointerEvent) error
}

// GeometryQuery finds the nearest clickable element. The result callback
// may be invoked later and on any goroutine. ok is false when no candidate
// exists or the query failed; implementations report failures themselves.
type GeometryQuery interface {
	NearestClickable(x, y float32, result func(pt geometry.Point, ok bool))
}

// TapAssist is an optional content-engine hint run after each tap.
type TapAssist interface {
	FocusEditableAt(x, y float32) error
}

// Host bundles the collaborators a Controller drives. Scheduler and Overlay
// are required; the rest may be nil.
type Host struct {
	Scheduler *frame.Scheduler
	Overlay   *overlay.Overlay
	Scroller  Scroller
	Injector  PointerInjector
	Query     GeometryQuery
	Assist    TapAssist
}

// Logger receives debug traces.
type Logger func(format string, args ...any)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger enables debug traces of mode changes and lifecycle events.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.logf = l }
}

// Controller is the cursor engine. Methods other than the On*Changed and
// OnSnapResult notifications must be called on the scheduler's thread.
type Controller struct {
	cfg     config.Config
	host    Host
	sched   *frame.Scheduler
	overlay *overlay.Overlay
	logf    Logger

	motion     *Motion
	mode       modeState
	interrupts Interrupts

	tick      frame.FrameFunc
	scheduled bool
	paused    bool
	destroyed bool

	idleTimer  *frame.Timer
	tapRelease *frame.Timer
	tapPending func()

	snapOutstanding int
	snapEpoch       uint64
}

// New creates a controller centered on the configured viewport and enters
// Cursor mode.
func New(cfg config.Config, host Host, opts ...Option) *Controller {
	if host.Scheduler == nil {
		host.Scheduler = frame.NewScheduler(nil)
	}
	if host.Overlay == nil {
		host.Overlay = overlay.New(nil)
	}
	c := &Controller{
		cfg:     cfg,
		host:    host,
		sched:   host.Scheduler,
		overlay: host.Overlay,
		motion:  NewMotion(cfg),
		mode:    modeState{current: ModeFocus},
	}
	c.tick = c.doFrame
	for _, opt := range opts {
		opt(c)
	}
	pos := c.motion.Position()
	c.overlay.SetPosition(pos.X, pos.Y)
	c.setMode(ModeCursor)
	return c
}

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode {
	return c.mode.current
}

// Position returns the pointer position in viewport pixels.
func (c *Controller) Position() geometry.Point {
	return c.motion.Position()
}

// Velocity returns the pointer velocity in px/s.
func (c *Controller) Velocity() geometry.Point {
	return c.motion.Velocity()
}

// Flags returns the held directions.
func (c *Controller) Flags() InputFlags {
	return c.motion.Flags()
}

// Interrupts returns the current interrupt flags.
func (c *Controller) Interrupts() Interrupts {
	return c.interrupts
}

// Running reports whether a tick is scheduled for the next frame.
func (c *Controller) Running() bool {
	return c.scheduled
}

// Destroyed reports whether Destroy has been called.
func (c *Controller) Destroyed() bool {
	return c.destroyed
}

// SetViewport resizes the surface and re-clamps the pointer.
func (c *Controller) SetViewport(width, height float32) {
	c.motion.SetBounds(width, height)
	c.syncOverlay()
}

// OnDomFocusChanged records whether an editable page element has focus.
// Safe for concurrent use.
func (c *Controller) OnDomFocusChanged(hasFocus bool) {
	c.post(func() {
		c.interrupts.DOMEditableFocused = hasFocus
		c.updateSuppression()
	})
}

// OnIMEVisibilityChanged records whether the soft keyboard is shown.
// Safe for concurrent use.
func (c *Controller) OnIMEVisibilityChanged(visible bool) {
	c.post(func() {
		c.interrupts.IMEVisible = visible
		c.updateSuppression()
	})
}

// OnVideoStateChanged records the page's video state. Leaving fullscreen
// shows the pointer in either mode. Safe for concurrent use.
func (c *Controller) OnVideoStateChanged(fullscreen, playing bool) {
	c.post(func() {
		c.interrupts.FullscreenVideo = fullscreen
		c.interrupts.VideoPlaying = playing
		if !fullscreen {
			c.overlay.Show()
		}
	})
}

// OnSnapResult applies a snap position pushed by the content engine.
// Safe for concurrent use.
func (c *Controller) OnSnapResult(x, y float32) {
	c.post(func() { c.applyPushedSnap(geometry.Point{X: x, Y: y}) })
}

// post marshals fn onto the UI thread. Nothing runs after Destroy.
func (c *Controller) post(fn func()) {
	c.sched.Dispatch(func() {
		if c.destroyed {
			return
		}
		fn()
	})
}

// Pause halts the tick loop and forgets the tick baseline.
func (c *Controller) Pause() {
	c.paused = true
	c.stopLoop()
	c.motion.ResetBaseline()
}

// Resume restarts the tick loop in Cursor mode with a fresh baseline.
func (c *Controller) Resume() {
	if c.destroyed {
		return
	}
	c.paused = false
	c.motion.ResetBaseline()
	c.startLoop()
}

// Destroy stops all scheduled work and cancels scroll animation. Later
// notifications are ignored.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.stopLoop()
	c.idleTimer.Stop()
	c.idleTimer = nil
	c.tapRelease.Stop()
	c.tapRelease, c.tapPending = nil, nil
	if a, ok := c.host.Scroller.(AnimationAborter); ok {
		errors.Guard("cursor.destroy", errors.KindScroll, func() error {
			a.AbortAnimation()
			return nil
		})
	}
	c.debugf("destroyed")
}

func (c *Controller) startLoop() {
	if c.scheduled || !c.ticking() {
		return
	}
	c.scheduled = true
	c.sched.PostFrameCallback(&c.tick)
}

// ticking reports whether frames may run physics.
func (c *Controller) ticking() bool {
	return !c.destroyed && !c.paused && c.mode.current == ModeCursor && !c.interrupts.Suppressing()
}

func (c *Controller) stopLoop() {
	c.sched.RemoveFrameCallback(&c.tick)
	c.scheduled = false
}

func (c *Controller) doFrame(frameTimeNanos int64) {
	c.scheduled = false
	if !c.ticking() {
		c.motion.ResetBaseline()
		return
	}
	step := c.motion.Tick(frameTimeNanos)
	c.syncOverlay()
	if step.Scrolls() {
		c.scroll(step.ScrollX, step.ScrollY)
	}
	if step.Continue {
		c.startLoop()
	}
}

func (c *Controller) scroll(dx, dy int) {
	if c.host.Scroller == nil {
		return
	}
	errors.Guard("cursor.scroll", errors.KindScroll, func() error {
		return c.host.Scroller.ScrollBy(dx, dy)
	})
}

func (c *Controller) syncOverlay() {
	pos := c.motion.Position()
	c.overlay.SetPosition(pos.X, pos.Y)
}

func (c *Controller) debugf(format string, args ...any) {
	if c.logf != nil {
		c.logf(format, args...)
	}
}
