package cursor

// Mode is the interaction mode.
type Mode int

const (
	// ModeFocus routes directional keys to the page's native focus
	// navigation. The pointer is hidden and no ticks run.
	ModeFocus Mode = iota
	// ModeCursor moves the on-screen pointer with directional keys.
	ModeCursor
)

func (m Mode) String() string {
	switch m {
	case ModeFocus:
		return "focus"
	case ModeCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// Interrupts are content-engine states that can override the mode.
type Interrupts struct {
	IMEVisible         bool
	DOMEditableFocused bool
	FullscreenVideo    bool
	VideoPlaying       bool
}

// Suppressing reports whether text input is active, which forces Focus mode.
func (i Interrupts) Suppressing() bool {
	return i.IMEVisible || i.DOMEditableFocused
}

type modeState struct {
	current Mode
	// restore is the mode to return to once suppression clears. It is only
	// meaningful when hasRestore is set.
	restore    Mode
	hasRestore bool
	// epoch increments on every mode change. Asynchronous results carry the
	// epoch they were requested in.
	epoch uint64
}

// Toggle flips between Focus and Cursor mode. While suppressed it flips the
// mode that will be restored instead.
func (c *Controller) Toggle() {
	if c.mode.current == ModeCursor || c.restoringCursor() {
		c.request(ModeFocus)
	} else {
		c.request(ModeCursor)
	}
}

// ForceFocusMode switches to Focus mode.
func (c *Controller) ForceFocusMode() {
	c.request(ModeFocus)
}

// ForceCursorMode switches to Cursor mode.
func (c *Controller) ForceCursorMode() {
	c.request(ModeCursor)
}

// ForceCursorVisible shows the pointer without changing mode.
func (c *Controller) ForceCursorVisible() {
	if c.destroyed {
		return
	}
	c.overlay.Show()
	c.overlay.Invalidate()
	c.debugf("cursor forced visible")
}

// OnBack handles the back key. In Cursor mode it returns to Focus mode and
// reports the key consumed.
func (c *Controller) OnBack() bool {
	if c.destroyed || c.mode.current != ModeCursor {
		return false
	}
	c.request(ModeFocus)
	return true
}

// request is an explicit user mode change. It drops any pending restore.
// Cursor mode requested while suppressed is deferred until suppression
// clears.
func (c *Controller) request(m Mode) {
	if c.destroyed {
		return
	}
	c.mode.hasRestore = false
	if m == ModeCursor && c.interrupts.Suppressing() {
		c.mode.restore, c.mode.hasRestore = ModeCursor, true
		c.debugf("cursor mode deferred while suppressed")
		return
	}
	c.setMode(m)
}

// restoringCursor reports whether Cursor mode is waiting on suppression.
func (c *Controller) restoringCursor() bool {
	return c.mode.hasRestore && c.mode.restore == ModeCursor && c.interrupts.Suppressing()
}

// updateSuppression reconciles the mode with the interrupt flags.
func (c *Controller) updateSuppression() {
	if c.interrupts.Suppressing() {
		if c.mode.current == ModeCursor {
			c.mode.restore, c.mode.hasRestore = ModeCursor, true
			c.setMode(ModeFocus)
		}
		return
	}
	if c.mode.hasRestore && c.mode.current == ModeFocus {
		restore := c.mode.restore
		c.mode.hasRestore = false
		c.setMode(restore)
	}
}

// setMode applies the entry actions of m. Setting the current mode again
// does nothing.
func (c *Controller) setMode(m Mode) {
	if c.mode.current == m {
		return
	}
	prev := c.mode.current
	c.mode.current = m
	c.mode.epoch++

	switch m {
	case ModeFocus:
		c.overlay.Hide()
		c.motion.Stop()
		c.stopLoop()
		c.motion.ResetBaseline()
	case ModeCursor:
		c.overlay.Show()
		c.overlay.Invalidate()
		c.startLoop()
	}
	c.debugf("mode %s -> %s (visible=%t)", prev, m, c.overlay.IsVisible())
}
