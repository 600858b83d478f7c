// Package overlay holds the on-screen pointer's rendered state.
//
// The overlay has no physics. It stores a position and a visibility flag and
// forwards changes to a Renderer, which paints synchronously or on the next
// frame.
package overlay

import "github.com/go-drift/tvcursor/pkg/geometry"

// Renderer paints the pointer.
type Renderer interface {
	Render(pos geometry.Point, visible bool)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(pos geometry.Point, visible bool)

// Render calls f.
func (f RenderFunc) Render(pos geometry.Point, visible bool) { f(pos, visible) }

// Overlay is the pointer's position and visibility. It is confined to the UI
// thread.
type Overlay struct {
	pos      geometry.Point
	visible  bool
	renderer Renderer
}

// New creates a hidden overlay at the origin. A nil renderer is allowed.
func New(r Renderer) *Overlay {
	return &Overlay{renderer: r}
}

// Show makes the pointer visible. Showing a visible pointer does nothing.
func (o *Overlay) Show() {
	if o.visible {
		return
	}
	o.visible = true
	o.render()
}

// Hide hides the pointer. Hiding a hidden pointer does nothing.
func (o *Overlay) Hide() {
	if !o.visible {
		return
	}
	o.visible = false
	o.render()
}

// Invalidate repaints the pointer in its current state.
func (o *Overlay) Invalidate() {
	o.render()
}

// IsVisible reports whether the pointer is shown.
func (o *Overlay) IsVisible() bool {
	return o.visible
}

// SetPosition moves the pointer. A hidden pointer is not repainted.
func (o *Overlay) SetPosition(x, y float32) {
	o.pos = geometry.Point{X: x, Y: y}
	if o.visible {
		o.render()
	}
}

// Position returns a copy of the pointer position.
func (o *Overlay) Position() geometry.Point {
	return o.pos
}

func (o *Overlay) render() {
	if o.renderer != nil {
		o.renderer.Render(o.pos, o.visible)
	}
}
