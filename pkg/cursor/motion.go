package cursor

import (
	"math"

	"github.com/go-drift/tvcursor/pkg/config"
	"github.com/go-drift/tvcursor/pkg/geometry"
)

const (
	// maxStep bounds a single tick so a stalled frame cannot launch the
	// pointer across the screen.
	maxStep = 0.05
	// restEpsilon is the speed in px/s below which the pointer is at rest.
	restEpsilon = 0.1
)

// InputFlags holds the directional keys currently held.
type InputFlags struct {
	Up, Down, Left, Right bool
}

// Any reports whether any direction is held.
func (f InputFlags) Any() bool {
	return f.Up || f.Down || f.Left || f.Right
}

func (f InputFlags) axisX() float32 { return axis(f.Right, f.Left) }
func (f InputFlags) axisY() float32 { return axis(f.Down, f.Up) }

func axis(pos, neg bool) float32 {
	var v float32
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

// Step is the outcome of one Motion tick.
type Step struct {
	// Continue is true while a direction is held or the pointer is still
	// coasting. When false the tick loop should stop.
	Continue bool
	// ScrollX and ScrollY are the edge-scroll deltas in whole pixels.
	ScrollX, ScrollY int
}

// Scrolls reports whether the step requests a page scroll.
func (s Step) Scrolls() bool {
	return s.ScrollX != 0 || s.ScrollY != 0
}

// Motion integrates pointer velocity and position.
//
// Motion has no knowledge of modes or frame scheduling. The controller
// decides when Tick runs and forwards the scroll deltas it returns.
type Motion struct {
	cfg    config.Config
	width  float32
	height float32

	pos   geometry.Point
	vel   geometry.Point
	flags InputFlags

	lastNs  int64
	hasLast bool
}

// NewMotion creates a motion engine centered on the configured viewport.
func NewMotion(cfg config.Config) *Motion {
	m := &Motion{cfg: cfg}
	m.SetBounds(cfg.Viewport.Width, cfg.Viewport.Height)
	m.pos = geometry.Point{X: m.width / 2, Y: m.height / 2}
	return m
}

// Tick advances the simulation to nowNs.
func (m *Motion) Tick(nowNs int64) Step {
	var dt float32
	if m.hasLast {
		dt = float32(nowNs-m.lastNs) / 1e9
	}
	m.lastNs, m.hasLast = nowNs, true
	dt = clampf(dt, 0, maxStep)

	m.vel.X = m.integrate(m.vel.X, m.flags.axisX(), dt)
	m.vel.Y = m.integrate(m.vel.Y, m.flags.axisY(), dt)

	m.pos.X = clampf(m.pos.X+m.vel.X*dt, 0, m.width)
	m.pos.Y = clampf(m.pos.Y+m.vel.Y*dt, 0, m.height)

	step := m.edgeScroll(dt)
	step.Continue = m.flags.Any() || abs32(m.vel.X) > restEpsilon || abs32(m.vel.Y) > restEpsilon
	if !step.Continue {
		m.hasLast = false
	}
	return step
}

func (m *Motion) integrate(v, input, dt float32) float32 {
	if input != 0 {
		v += input * m.cfg.Acceleration * dt
	} else {
		f := m.cfg.Friction * dt
		if abs32(v) <= f {
			v = 0
		} else if v > 0 {
			v -= f
		} else {
			v += f
		}
	}
	return clampf(v, -m.cfg.MaxSpeed, m.cfg.MaxSpeed)
}

// edgeScroll computes scroll deltas for edges the held directions push
// toward.
func (m *Motion) edgeScroll(dt float32) Step {
	e := m.cfg.Edge
	var step Step
	if e.Margin <= 0 || dt == 0 {
		return step
	}
	speedX := min(abs32(m.vel.X)*e.VelocityBlend+e.FloorX, e.MaxX)
	speedY := min(abs32(m.vel.Y)*e.VelocityBlend+e.FloorY, e.MaxY)

	switch {
	case m.flags.Left && m.pos.X <= e.Margin:
		step.ScrollX = -scrollDelta((e.Margin-m.pos.X)/e.Margin, speedX, dt)
	case m.flags.Right && m.pos.X >= m.width-e.Margin:
		step.ScrollX = scrollDelta((m.pos.X-(m.width-e.Margin))/e.Margin, speedX, dt)
	}
	switch {
	case m.flags.Up && m.pos.Y <= e.Margin:
		step.ScrollY = -scrollDelta((e.Margin-m.pos.Y)/e.Margin, speedY, dt)
	case m.flags.Down && m.pos.Y >= m.height-e.Margin:
		step.ScrollY = scrollDelta((m.pos.Y-(m.height-e.Margin))/e.Margin, speedY, dt)
	}
	return step
}

// scrollDelta returns the unsigned scroll distance for penetration t into
// the margin. Any non-zero penetration scrolls at least one pixel.
func scrollDelta(t, speed, dt float32) int {
	t = clampf(t, 0, 1)
	if t == 0 {
		return 0
	}
	d := int(math.Round(float64(ease(t) * speed * dt)))
	return max(d, 1)
}

func ease(t float32) float32 {
	return t * t
}

// SetFlags replaces the held directions.
func (m *Motion) SetFlags(f InputFlags) {
	m.flags = f
}

// Flags returns the held directions.
func (m *Motion) Flags() InputFlags {
	return m.flags
}

// Stop clears the held directions and zeroes velocity.
func (m *Motion) Stop() {
	m.flags = InputFlags{}
	m.vel = geometry.Point{}
}

// ResetBaseline makes the next tick use dt=0.
func (m *Motion) ResetBaseline() {
	m.hasLast = false
}

// Position returns the pointer position.
func (m *Motion) Position() geometry.Point {
	return m.pos
}

// SetPosition moves the pointer, clamped to the bounds, and returns the
// clamped position.
func (m *Motion) SetPosition(p geometry.Point) geometry.Point {
	m.pos = geometry.Point{X: clampf(p.X, 0, m.width), Y: clampf(p.Y, 0, m.height)}
	return m.pos
}

// Velocity returns the velocity in px/s.
func (m *Motion) Velocity() geometry.Point {
	return m.vel
}

// Bounds returns the viewport size.
func (m *Motion) Bounds() (width, height float32) {
	return m.width, m.height
}

// SetBounds resizes the viewport and re-clamps the position. Non-positive
// sizes keep the current value.
func (m *Motion) SetBounds(width, height float32) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.SetPosition(m.pos)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
