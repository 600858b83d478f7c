package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/go-drift/tvcursor/pkg/geometry"
	"golang.org/x/image/vector"
)

// Reticle describes the pointer shape: a filled inner dot and a thin ring.
type Reticle struct {
	DotRadius  float32
	RingRadius float32
	RingWidth  float32
	DotColor   color.NRGBA
	RingColor  color.NRGBA
}

// DefaultReticle is a semi-transparent white dot inside a 2px ring.
var DefaultReticle = Reticle{
	DotRadius:  6,
	RingRadius: 14,
	RingWidth:  2,
	DotColor:   color.NRGBA{R: 255, G: 255, B: 255, A: 200},
	RingColor:  color.NRGBA{R: 255, G: 255, B: 255, A: 180},
}

// Extent returns the radius of the smallest circle enclosing the reticle.
func (r Reticle) Extent() float32 {
	return max(r.DotRadius, r.RingRadius+r.RingWidth/2)
}

// Draw composites the reticle centered at c onto dst.
func (r Reticle) Draw(dst draw.Image, c geometry.Point) {
	ext := r.Extent()
	bounds := image.Rect(
		int(math.Floor(float64(c.X-ext))), int(math.Floor(float64(c.Y-ext))),
		int(math.Ceil(float64(c.X+ext))), int(math.Ceil(float64(c.Y+ext))),
	).Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}
	// Rasterizer coordinates are relative to bounds.Min.
	local := geometry.Point{X: c.X - float32(bounds.Min.X), Y: c.Y - float32(bounds.Min.Y)}

	if r.RingWidth > 0 && r.RingRadius > 0 {
		z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
		circle(z, local, r.RingRadius+r.RingWidth/2, false)
		circle(z, local, max(r.RingRadius-r.RingWidth/2, 0), true)
		z.Draw(dst, bounds, image.NewUniform(r.RingColor), image.Point{})
	}
	if r.DotRadius > 0 {
		z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
		circle(z, local, r.DotRadius, false)
		z.Draw(dst, bounds, image.NewUniform(r.DotColor), image.Point{})
	}
}

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// circle adds a closed circle path. Reverse winding cuts a hole in a
// previously added shape.
func circle(z *vector.Rasterizer, c geometry.Point, radius float32, reverse bool) {
	if radius <= 0 {
		return
	}
	k := radius * kappa
	x, y := c.X, c.Y
	z.MoveTo(x+radius, y)
	if !reverse {
		z.CubeTo(x+radius, y+k, x+k, y+radius, x, y+radius)
		z.CubeTo(x-k, y+radius, x-radius, y+k, x-radius, y)
		z.CubeTo(x-radius, y-k, x-k, y-radius, x, y-radius)
		z.CubeTo(x+k, y-radius, x+radius, y-k, x+radius, y)
	} else {
		z.CubeTo(x+radius, y-k, x+k, y-radius, x, y-radius)
		z.CubeTo(x-k, y-radius, x-radius, y-k, x-radius, y)
		z.CubeTo(x-radius, y+k, x-k, y+radius, x, y+radius)
		z.CubeTo(x+k, y+radius, x+radius, y+k, x+radius, y)
	}
	z.ClosePath()
}

// ImageRenderer is a Renderer that paints the reticle into an RGBA frame.
// It is used by software hosts and snapshot tests.
type ImageRenderer struct {
	Reticle Reticle
	frame   *image.RGBA
	renders int
}

// NewImageRenderer creates a renderer for a width×height surface.
func NewImageRenderer(width, height int, r Reticle) *ImageRenderer {
	return &ImageRenderer{Reticle: r, frame: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Render clears the frame and draws the reticle when visible.
func (ir *ImageRenderer) Render(pos geometry.Point, visible bool) {
	ir.renders++
	draw.Draw(ir.frame, ir.frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if visible {
		ir.Reticle.Draw(ir.frame, pos)
	}
}

// Frame returns the painted frame.
func (ir *ImageRenderer) Frame() *image.RGBA {
	return ir.frame
}

// Renders returns how many times Render was called.
func (ir *ImageRenderer) Renders() int {
	return ir.renders
}
