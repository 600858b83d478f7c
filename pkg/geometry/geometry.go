// Package geometry answers "nearest clickable element" queries over element
// bounding boxes.
//
// It is the reference implementation of the geometry query the cursor engine
// sends to the content engine. The injected page script implements the same
// rules in the page; the simulator and tests use this package directly.
package geometry

import "math"

// Point is a position in viewport pixels.
type Point struct {
	X float32
	Y float32
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned box using left, top, right, bottom coordinates.
type Rect struct {
	Left   float32
	Top    float32
	Right  float32
	Bottom float32
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float32) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float32 { return r.Right - r.Left }

// Height returns the height of the rectangle.
func (r Rect) Height() float32 { return r.Bottom - r.Top }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width()/2, Y: r.Top + r.Height()/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Left: r.Left + d.X, Top: r.Top + d.Y, Right: r.Right + d.X, Bottom: r.Bottom + d.Y}
}
