package geometry

import (
	"math"
	"sort"
)

// Candidate is a clickable element matched by a query.
type Candidate struct {
	// Center is the box center in viewport coordinates.
	Center Point
	// Distance is the Euclidean distance from the query point.
	Distance float64
	// Index is the element's position in document order.
	Index int
}

// Page is a scrollable document of elements. Element bounds are in document
// coordinates; queries take and return viewport coordinates.
type Page struct {
	Elements []Element
	// Scroll is the document offset of the viewport's top-left corner.
	Scroll Point
	// Size is the document size. Zero disables scroll clamping.
	Size Point
	// Viewport is the visible area size.
	Viewport Point
}

// ScreenToViewport converts document coordinates to viewport coordinates.
func (p *Page) ScreenToViewport(pt Point) Point {
	return pt.Sub(p.Scroll)
}

// ViewportToScreen converts viewport coordinates to document coordinates.
func (p *Page) ViewportToScreen(pt Point) Point {
	return pt.Add(p.Scroll)
}

// ViewportBounds returns e's box in viewport coordinates.
func (p *Page) ViewportBounds(e Element) Rect {
	return e.Bounds.Translate(Point{X: -p.Scroll.X, Y: -p.Scroll.Y})
}

// ScrollBy moves the viewport by whole pixels, clamped to the document when
// Size is set. It returns the applied delta.
func (p *Page) ScrollBy(dx, dy int) (int, int) {
	before := p.Scroll
	p.Scroll.X += float32(dx)
	p.Scroll.Y += float32(dy)
	if p.Size.X > 0 || p.Size.Y > 0 {
		p.Scroll.X = clamp(p.Scroll.X, 0, max(p.Size.X-p.Viewport.X, 0))
		p.Scroll.Y = clamp(p.Scroll.Y, 0, max(p.Size.Y-p.Viewport.Y, 0))
	}
	return int(p.Scroll.X - before.X), int(p.Scroll.Y - before.Y)
}

// NearestClickable returns the center of the clickable element closest to
// pt. Elements are scanned in document order and a candidate replaces the
// current best only when strictly closer, so the first of several
// equidistant elements wins.
func (p *Page) NearestClickable(pt Point) (Point, bool) {
	best := -1
	bestDist := math.Inf(1)
	var bestCenter Point
	for i, e := range p.Elements {
		if !IsInteractive(e) || !IsClickable(e) {
			continue
		}
		center := p.ViewportBounds(e).Center()
		if d := center.Distance(pt); d < bestDist {
			best, bestDist, bestCenter = i, d, center
		}
	}
	if best < 0 {
		return Point{}, false
	}
	return bestCenter, true
}

// ClickablesInRadius returns every clickable element whose center lies
// within radius of pt, nearest first. Ties keep document order.
func (p *Page) ClickablesInRadius(pt Point, radius float64) []Candidate {
	var out []Candidate
	for i, e := range p.Elements {
		if !IsInteractive(e) || !IsClickable(e) {
			continue
		}
		center := p.ViewportBounds(e).Center()
		if d := center.Distance(pt); d <= radius {
			out = append(out, Candidate{Center: center, Distance: d, Index: i})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// ElementAt returns the topmost visible element under pt, the last one in
// document order whose box contains it.
func (p *Page) ElementAt(pt Point) (int, bool) {
	for i := len(p.Elements) - 1; i >= 0; i-- {
		e := p.Elements[i]
		if IsClickable(e) && p.ViewportBounds(e).Contains(pt) {
			return i, true
		}
	}
	return -1, false
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
