package cursor

import "github.com/go-drift/tvcursor/pkg/errors"

// OnKeyDown routes a key press and reports whether it was consumed.
// Unconsumed keys should fall through to native focus navigation.
func (c *Controller) OnKeyDown(code KeyCode) bool {
	if c.destroyed {
		return false
	}
	switch {
	case code.IsDirectional():
		c.setDirection(code, true)
		return c.mode.current == ModeCursor
	case code.IsConfirm():
		if c.mode.current != ModeCursor {
			return false
		}
		c.tap()
		return true
	case code == KeyMediaPlayPause:
		c.Toggle()
		return true
	case code.IsSnap():
		c.SnapToNearest()
		return true
	case code == KeyMenu:
		c.ForceCursorVisible()
		return true
	case code == KeyBack:
		return c.OnBack()
	}
	return false
}

// OnKeyUp routes a key release and reports whether it was consumed.
func (c *Controller) OnKeyUp(code KeyCode) bool {
	if c.destroyed {
		return false
	}
	switch {
	case code.IsDirectional():
		c.setDirection(code, false)
		return c.mode.current == ModeCursor
	case code == KeyMediaPlayPause, code.IsSnap(), code == KeyMenu:
		// The press was handled; swallow the matching release.
		return true
	}
	return false
}

// setDirection records a directional key. Presses outside Cursor mode belong
// to native focus navigation and are not recorded; releases always are.
func (c *Controller) setDirection(code KeyCode, held bool) {
	if held && c.mode.current != ModeCursor {
		c.onInputChanged()
		return
	}
	f := c.motion.Flags()
	switch code {
	case KeyDPadUp:
		f.Up = held
	case KeyDPadDown:
		f.Down = held
	case KeyDPadLeft:
		f.Left = held
	case KeyDPadRight:
		f.Right = held
	}
	c.motion.SetFlags(f)
	c.onInputChanged()
}

// onInputChanged refreshes the idle timer, brings back a pointer hidden by
// the idle timeout and wakes the tick loop.
func (c *Controller) onInputChanged() {
	c.idleTimer.Stop()
	c.idleTimer = c.sched.PostDelayed(c.cfg.IdleTimeout, c.onIdle)
	if c.mode.current == ModeCursor {
		c.overlay.Show()
	}
	c.startLoop()
}

func (c *Controller) onIdle() {
	c.idleTimer = nil
	if c.destroyed {
		return
	}
	if c.interrupts.FullscreenVideo {
		c.overlay.Hide()
	}
}

// tap presses at the pointer and releases after the configured gap.
func (c *Controller) tap() {
	if c.tapPending != nil {
		// A release is still queued; deliver it before the next press.
		c.tapRelease.Stop()
		c.tapPending()
	}
	if c.host.Injector == nil {
		return
	}
	pos := c.overlay.Position()
	downTime := c.sched.Now()
	down := PointerEvent{Action: ActionDown, X: pos.X, Y: pos.Y, DownTime: downTime, EventTime: downTime}
	if !c.inject(down) {
		return
	}
	c.tapPending = func() {
		c.tapRelease, c.tapPending = nil, nil
		up := down
		up.Action = ActionUp
		up.EventTime = c.sched.Now()
		c.inject(up)
		c.assist(pos.X, pos.Y)
	}
	c.tapRelease = c.sched.PostDelayed(c.cfg.TapGap, func() {
		if c.destroyed || c.tapPending == nil {
			return
		}
		c.tapPending()
	})
}

func (c *Controller) inject(ev PointerEvent) bool {
	return errors.Guard("cursor.inject."+ev.Action.String(), errors.KindInjection, func() error {
		return c.host.Injector.Inject(ev)
	})
}

func (c *Controller) assist(x, y float32) {
	if c.host.Assist == nil {
		return
	}
	errors.Guard("cursor.tap_assist", errors.KindPlatform, func() error {
		return c.host.Assist.FocusEditableAt(x, y)
	})
}
