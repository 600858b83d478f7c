package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func button(id string, cx, cy float32) Element {
	return Element{
		ID:              id,
		Tag:             "button",
		Bounds:          RectFromLTWH(cx-10, cy-10, 20, 20),
		HasOffsetParent: true,
	}
}

func TestNearestClickable_PicksCloser(t *testing.T) {
	page := &Page{Elements: []Element{
		button("far", 130, 100),
		button("near", 80, 100),
	}}
	got, ok := page.NearestClickable(Point{X: 100, Y: 100})
	if !ok {
		t.Fatal("expected a candidate")
	}
	if want := (Point{X: 80, Y: 100}); got != want {
		t.Errorf("NearestClickable = %+v, want %+v", got, want)
	}
}

func TestNearestClickable_TieFirstWins(t *testing.T) {
	page := &Page{Elements: []Element{
		button("right", 120, 100),
		button("left", 80, 100),
	}}
	got, ok := page.NearestClickable(Point{X: 100, Y: 100})
	if !ok {
		t.Fatal("expected a candidate")
	}
	if want := (Point{X: 120, Y: 100}); got != want {
		t.Errorf("NearestClickable = %+v, want first-in-order %+v", got, want)
	}
}

func TestNearestClickable_NoCandidate(t *testing.T) {
	page := &Page{Elements: []Element{
		{Tag: "div", Bounds: RectFromLTWH(0, 0, 50, 50), HasOffsetParent: true},
	}}
	if _, ok := page.NearestClickable(Point{X: 10, Y: 10}); ok {
		t.Error("expected no candidate for a non-interactive element")
	}
	if _, ok := (&Page{}).NearestClickable(Point{}); ok {
		t.Error("expected no candidate on an empty page")
	}
}

func TestNearestClickable_UsesScroll(t *testing.T) {
	page := &Page{
		Elements: []Element{button("b", 500, 900)},
		Scroll:   Point{X: 0, Y: 800},
	}
	got, ok := page.NearestClickable(Point{X: 0, Y: 0})
	if !ok {
		t.Fatal("expected a candidate")
	}
	if want := (Point{X: 500, Y: 100}); got != want {
		t.Errorf("NearestClickable = %+v, want viewport %+v", got, want)
	}
}

func TestIsInteractive(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want bool
	}{
		{"anchor", Element{Tag: "A"}, true},
		{"input", Element{Tag: "input"}, true},
		{"textarea", Element{Tag: "textarea"}, true},
		{"select", Element{Tag: "select"}, true},
		{"role button", Element{Tag: "div", Role: "button"}, true},
		{"tabindex zero", Element{Tag: "div", TabIndex: TabIndexOf(0)}, true},
		{"tabindex minus one", Element{Tag: "div", TabIndex: TabIndexOf(-1)}, false},
		{"plain div", Element{Tag: "div"}, false},
		{"role link", Element{Tag: "span", Role: "link"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInteractive(tt.el); got != tt.want {
				t.Errorf("IsInteractive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsClickable(t *testing.T) {
	base := button("b", 50, 50)
	tests := []struct {
		name   string
		mutate func(*Element)
		want   bool
	}{
		{"visible", func(*Element) {}, true},
		{"zero width", func(e *Element) { e.Bounds.Right = e.Bounds.Left }, false},
		{"zero height", func(e *Element) { e.Bounds.Bottom = e.Bounds.Top }, false},
		{"display none", func(e *Element) { e.Style.Display = "none" }, false},
		{"visibility hidden", func(e *Element) { e.Style.Visibility = "hidden" }, false},
		{"opacity zero", func(e *Element) { e.Style.Opacity = "0" }, false},
		{"opacity half", func(e *Element) { e.Style.Opacity = "0.5" }, true},
		{"no offset parent", func(e *Element) { e.HasOffsetParent = false }, false},
		{"body", func(e *Element) { e.HasOffsetParent, e.IsBody = false, true }, true},
		{"pointer events none", func(e *Element) { e.Style.PointerEvents = "none" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.mutate(&e)
			if got := IsClickable(e); got != tt.want {
				t.Errorf("IsClickable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClickablesInRadius(t *testing.T) {
	page := &Page{Elements: []Element{
		button("a", 130, 100),
		button("b", 80, 100),
		button("c", 400, 400),
		button("d", 100, 130),
	}}
	got := page.ClickablesInRadius(Point{X: 100, Y: 100}, 35)
	want := []Candidate{
		{Center: Point{X: 80, Y: 100}, Distance: 20, Index: 1},
		{Center: Point{X: 130, Y: 100}, Distance: 30, Index: 0},
		{Center: Point{X: 100, Y: 130}, Distance: 30, Index: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClickablesInRadius mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_ScrollByClamps(t *testing.T) {
	page := &Page{Size: Point{X: 1920, Y: 3000}, Viewport: Point{X: 1920, Y: 1080}}

	dx, dy := page.ScrollBy(10, -50)
	if dx != 0 || dy != 0 {
		t.Errorf("ScrollBy at origin applied (%d,%d), want (0,0)", dx, dy)
	}
	_, dy = page.ScrollBy(0, 5000)
	if dy != 1920 {
		t.Errorf("ScrollBy applied dy=%d, want 1920", dy)
	}
	if page.Scroll.Y != 1920 {
		t.Errorf("Scroll.Y = %v, want 1920", page.Scroll.Y)
	}
}

func TestPage_CoordinateConversion(t *testing.T) {
	page := &Page{Scroll: Point{X: 10, Y: 200}}
	doc := Point{X: 50, Y: 250}
	vp := page.ScreenToViewport(doc)
	if vp != (Point{X: 40, Y: 50}) {
		t.Errorf("ScreenToViewport = %+v", vp)
	}
	if back := page.ViewportToScreen(vp); back != doc {
		t.Errorf("ViewportToScreen = %+v, want %+v", back, doc)
	}
}

func TestPage_ElementAtTopmost(t *testing.T) {
	page := &Page{Elements: []Element{
		{ID: "under", Tag: "div", Bounds: RectFromLTWH(0, 0, 100, 100), HasOffsetParent: true},
		{ID: "over", Tag: "input", Bounds: RectFromLTWH(20, 20, 40, 20), HasOffsetParent: true},
	}}
	i, ok := page.ElementAt(Point{X: 30, Y: 30})
	if !ok || page.Elements[i].ID != "over" {
		t.Errorf("ElementAt = %d,%v, want over", i, ok)
	}
	i, ok = page.ElementAt(Point{X: 90, Y: 90})
	if !ok || page.Elements[i].ID != "under" {
		t.Errorf("ElementAt = %d,%v, want under", i, ok)
	}
	if _, ok := page.ElementAt(Point{X: 500, Y: 500}); ok {
		t.Error("expected no element outside all boxes")
	}
}
