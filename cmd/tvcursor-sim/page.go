package main

import (
	"fmt"
	"time"

	"github.com/go-drift/tvcursor/pkg/cursor"
	"github.com/go-drift/tvcursor/pkg/geometry"
)

// flashFor is how long a clicked element stays highlighted.
const flashFor = 300 * time.Millisecond

// demoPage builds a document taller and wider than the viewport: a search
// box, a few rows of tiles and some non-interactive text blocks.
func demoPage(viewport geometry.Point) *geometry.Page {
	p := &geometry.Page{
		Viewport: viewport,
		Size:     geometry.Point{X: viewport.X * 1.5, Y: viewport.Y * 3},
	}
	p.Elements = append(p.Elements, geometry.Element{
		Tag:             "input",
		ID:              "search",
		Bounds:          geometry.RectFromLTWH(viewport.X/2-400, 60, 800, 80),
		HasOffsetParent: true,
		Editable:        true,
	})

	const cols, tileW, tileH, gap = 6, 300, 180, 60
	for row := 0; row < 8; row++ {
		top := 240 + float32(row)*(tileH+gap+120)
		p.Elements = append(p.Elements, geometry.Element{
			Tag:             "h2",
			ID:              fmt.Sprintf("Row %d", row+1),
			Bounds:          geometry.RectFromLTWH(60, top, 600, 60),
			HasOffsetParent: true,
		})
		for col := 0; col < cols; col++ {
			p.Elements = append(p.Elements, geometry.Element{
				Tag:             "a",
				ID:              fmt.Sprintf("Tile %d.%d", row+1, col+1),
				Bounds:          geometry.RectFromLTWH(60+float32(col)*(tileW+gap), top+100, tileW, tileH),
				HasOffsetParent: true,
			})
		}
	}
	return p
}

// focusReceiver is the part of the controller the page notifies.
type focusReceiver interface {
	OnDomFocusChanged(hasFocus bool)
}

// pageSurface plays the content engine for a geometry.Page. It implements
// every cursor host interface and must be used on the scheduler's thread.
type pageSurface struct {
	page   *geometry.Page
	recv   focusReceiver
	status func(format string, args ...any)

	pressed  int
	focused  int
	flashed  int
	flashEnd time.Time
}

func newPageSurface(page *geometry.Page, status func(string, ...any)) *pageSurface {
	if status == nil {
		status = func(string, ...any) {}
	}
	return &pageSurface{page: page, status: status, pressed: -1, focused: -1, flashed: -1}
}

func (s *pageSurface) ScrollBy(dx, dy int) error {
	s.page.ScrollBy(dx, dy)
	return nil
}

// Inject clicks the element under the pointer when press and release land
// on the same one. Clicking elsewhere blurs the focused input.
func (s *pageSurface) Inject(ev cursor.PointerEvent) error {
	idx, ok := s.page.ElementAt(geometry.Point{X: ev.X, Y: ev.Y})
	if !ok {
		idx = -1
	}
	switch ev.Action {
	case cursor.ActionDown:
		s.pressed = idx
	case cursor.ActionUp:
		if idx >= 0 && idx == s.pressed {
			s.flashed, s.flashEnd = idx, ev.EventTime.Add(flashFor)
			s.status("clicked %s", s.page.Elements[idx].ID)
		}
		if s.focused >= 0 && idx != s.focused {
			s.setFocus(-1)
		}
		s.pressed = -1
	}
	return nil
}

func (s *pageSurface) NearestClickable(x, y float32, result func(geometry.Point, bool)) {
	result(s.page.NearestClickable(geometry.Point{X: x, Y: y}))
}

// FocusEditableAt focuses the editable element under x, y, if any.
func (s *pageSurface) FocusEditableAt(x, y float32) error {
	idx, ok := s.page.ElementAt(geometry.Point{X: x, Y: y})
	if ok && s.page.Elements[idx].Editable && idx != s.focused {
		s.setFocus(idx)
	}
	return nil
}

func (s *pageSurface) setFocus(idx int) {
	s.focused = idx
	if s.recv != nil {
		s.recv.OnDomFocusChanged(idx >= 0)
	}
}

// flashing reports whether element idx was clicked recently.
func (s *pageSurface) flashing(idx int, now time.Time) bool {
	return idx == s.flashed && now.Before(s.flashEnd)
}

var (
	_ cursor.Scroller        = (*pageSurface)(nil)
	_ cursor.PointerInjector = (*pageSurface)(nil)
	_ cursor.GeometryQuery   = (*pageSurface)(nil)
	_ cursor.TapAssist       = (*pageSurface)(nil)
)
