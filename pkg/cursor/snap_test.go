package cursor

import (
	"testing"

	"github.com/go-drift/tvcursor/pkg/geometry"
)

func TestSnap_MovesToResult(t *testing.T) {
	h := newHarness(t)
	h.c.SnapToNearest()
	if len(h.query.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(h.query.requests))
	}
	if got := h.query.requests[0]; got != h.overlay.Position() {
		t.Errorf("query at %+v, want overlay position %+v", got, h.overlay.Position())
	}
	if h.c.SnapPending() != 1 {
		t.Errorf("SnapPending = %d, want 1", h.c.SnapPending())
	}

	target := geometry.Point{X: 80, Y: 100}
	h.query.respond(0, target, true)
	if h.c.Position() == target {
		t.Fatal("result applied before being marshalled onto the UI thread")
	}
	h.frame()
	if h.c.Position() != target || h.overlay.Position() != target {
		t.Errorf("after snap engine=%+v overlay=%+v, want %+v", h.c.Position(), h.overlay.Position(), target)
	}
	if h.c.SnapPending() != 0 {
		t.Errorf("SnapPending = %d after response", h.c.SnapPending())
	}
}

func TestSnap_NoResultKeepsPosition(t *testing.T) {
	h := newHarness(t)
	before := h.c.Position()
	h.c.SnapToNearest()
	h.query.respond(0, geometry.Point{}, false)
	h.frame()
	if h.c.Position() != before {
		t.Errorf("Position = %+v, want unchanged %+v", h.c.Position(), before)
	}
}

func TestSnap_ClampsToViewport(t *testing.T) {
	h := newHarness(t)
	h.c.SnapToNearest()
	h.query.respond(0, geometry.Point{X: 5000, Y: -20}, true)
	h.frame()
	if got := h.c.Position(); got != (geometry.Point{X: 1920, Y: 0}) {
		t.Errorf("Position = %+v, want clamped", got)
	}
}

func TestSnap_OutsideCursorModeIsNoop(t *testing.T) {
	h := newHarness(t)
	h.c.ForceFocusMode()
	h.c.SnapToNearest()
	if len(h.query.requests) != 0 {
		t.Error("snap queried in focus mode")
	}
}

func TestSnap_StaleAfterModeChange(t *testing.T) {
	h := newHarness(t)
	before := h.c.Position()
	h.c.SnapToNearest()
	h.c.Toggle()
	h.c.Toggle()
	h.query.respond(0, geometry.Point{X: 10, Y: 10}, true)
	h.frame()
	if h.c.Position() != before {
		t.Errorf("stale response applied: %+v", h.c.Position())
	}
}

func TestSnap_IgnoredAfterDestroy(t *testing.T) {
	h := newHarness(t)
	before := h.c.Position()
	h.c.SnapToNearest()
	h.c.Destroy()
	h.query.respond(0, geometry.Point{X: 10, Y: 10}, true)
	h.frame()
	if h.c.Position() != before {
		t.Errorf("response applied after Destroy: %+v", h.c.Position())
	}
}

func TestSnap_LateResponseSameModeApplied(t *testing.T) {
	h := newHarness(t)
	h.c.SnapToNearest()
	h.c.SnapToNearest()
	first := geometry.Point{X: 100, Y: 100}
	second := geometry.Point{X: 200, Y: 200}
	h.query.respond(1, second, true)
	h.query.respond(0, first, true)
	h.frame()
	if h.c.Position() != first {
		t.Errorf("Position = %+v, want the late response %+v", h.c.Position(), first)
	}
}

func TestSnap_SnapKeys(t *testing.T) {
	for _, key := range []KeyCode{KeyInfo, KeyButtonY} {
		t.Run(key.String(), func(t *testing.T) {
			h := newHarness(t)
			if !h.c.OnKeyDown(key) {
				t.Error("snap key should be consumed")
			}
			if len(h.query.requests) != 1 {
				t.Errorf("requests = %d, want 1", len(h.query.requests))
			}
			if !h.c.OnKeyUp(key) {
				t.Error("snap key release should be consumed")
			}
		})
	}
}

func TestSnap_PushedResult(t *testing.T) {
	h := newHarness(t)
	before := h.c.Position()

	h.c.OnSnapResult(300, 300)
	h.frame()
	if h.c.Position() != before {
		t.Fatal("pushed result applied with no query outstanding")
	}

	h.c.SnapToNearest()
	h.c.OnSnapResult(300, 300)
	h.frame()
	if got := h.c.Position(); got != (geometry.Point{X: 300, Y: 300}) {
		t.Errorf("Position = %+v, want pushed result", got)
	}
}

func TestSnap_PushedResultStaleAfterModeChange(t *testing.T) {
	h := newHarness(t)
	before := h.c.Position()
	h.c.SnapToNearest()
	h.c.Toggle()
	h.c.Toggle()
	h.c.OnSnapResult(300, 300)
	h.frame()
	if h.c.Position() != before {
		t.Errorf("stale pushed result applied: %+v", h.c.Position())
	}
}
