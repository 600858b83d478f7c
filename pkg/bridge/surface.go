package bridge

import (
	"fmt"

	"github.com/go-drift/tvcursor/pkg/cursor"
)

// ScrollBy scrolls the page by device pixels. It satisfies cursor.Scroller
// for hosts whose surface is only reachable through scripts.
func (b *Bridge) ScrollBy(dx, dy int) error {
	if b.eval == nil {
		return ErrNotConnected
	}
	if dx == 0 && dy == 0 {
		return nil
	}
	b.evaluate("bridge.scroll", fmt.Sprintf("window.TVCursor && window.TVCursor.scrollBy(%d, %d)", dx, dy), nil)
	return nil
}

// Inject delivers a tap as a page-level click on release. Press events are
// accepted and dropped since the page synthesizes the whole gesture.
func (b *Bridge) Inject(ev cursor.PointerEvent) error {
	if b.eval == nil {
		return ErrNotConnected
	}
	if ev.Action != cursor.ActionUp {
		return nil
	}
	script := fmt.Sprintf("window.TVCursor ? window.TVCursor.clickAt(%s, %s) : false",
		formatFloat(ev.X), formatFloat(ev.Y))
	b.evaluate("bridge.click", script, nil)
	return nil
}

var (
	_ cursor.Scroller        = (*Bridge)(nil)
	_ cursor.PointerInjector = (*Bridge)(nil)
	_ cursor.GeometryQuery   = (*Bridge)(nil)
	_ cursor.TapAssist       = (*Bridge)(nil)
)
