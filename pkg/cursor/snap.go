package cursor

import (
	"github.com/go-drift/tvcursor/pkg/errors"
	"github.com/go-drift/tvcursor/pkg/geometry"
)

// SnapToNearest asks the geometry query for the clickable element nearest
// the pointer and moves the pointer there when it answers. It does nothing
// outside Cursor mode.
//
// A response is dropped if the controller was destroyed or the mode changed
// since the request. An older response arriving after a newer request in
// the same mode is still applied.
func (c *Controller) SnapToNearest() {
	if c.destroyed || c.mode.current != ModeCursor || c.host.Query == nil {
		return
	}
	pos := c.overlay.Position()
	epoch := c.mode.epoch
	c.snapOutstanding++
	c.snapEpoch = epoch
	ok := errors.Guard("cursor.snap", errors.KindQuery, func() error {
		c.host.Query.NearestClickable(pos.X, pos.Y, func(pt geometry.Point, found bool) {
			c.post(func() { c.applySnap(epoch, pt, found) })
		})
		return nil
	})
	if !ok {
		c.snapOutstanding = max(c.snapOutstanding-1, 0)
	}
}

// SnapPending reports how many snap queries are unanswered.
func (c *Controller) SnapPending() int {
	return c.snapOutstanding
}

func (c *Controller) applySnap(epoch uint64, pt geometry.Point, found bool) {
	c.snapOutstanding = max(c.snapOutstanding-1, 0)
	if !found || epoch != c.mode.epoch || c.mode.current != ModeCursor {
		return
	}
	c.moveTo(pt)
}

// applyPushedSnap handles a snap result the content engine pushed on its
// own. It only counts while a query is outstanding.
func (c *Controller) applyPushedSnap(pt geometry.Point) {
	if c.snapOutstanding == 0 || c.snapEpoch != c.mode.epoch || c.mode.current != ModeCursor {
		return
	}
	c.moveTo(pt)
}

func (c *Controller) moveTo(pt geometry.Point) {
	c.motion.SetPosition(pt)
	c.syncOverlay()
	c.debugf("snapped to (%.0f, %.0f)", pt.X, pt.Y)
}
