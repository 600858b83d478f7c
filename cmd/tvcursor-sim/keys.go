package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-drift/tvcursor/pkg/cursor"
	"github.com/go-drift/tvcursor/pkg/frame"
)

// Terminals report presses and auto-repeats but never releases. A held arrow
// is released once no repeat arrived within the window; the first window
// covers the terminal's initial repeat delay.
const (
	firstHold  = 550 * time.Millisecond
	repeatHold = 120 * time.Millisecond
)

type action int

const (
	actNone action = iota
	actKey
	actIME
	actVideo
	actPause
	actQuit
)

// translate maps a terminal key to a simulator action and, for actKey, the
// remote key it stands for.
func translate(key tcell.Key, r rune) (action, cursor.KeyCode) {
	switch key {
	case tcell.KeyUp:
		return actKey, cursor.KeyDPadUp
	case tcell.KeyDown:
		return actKey, cursor.KeyDPadDown
	case tcell.KeyLeft:
		return actKey, cursor.KeyDPadLeft
	case tcell.KeyRight:
		return actKey, cursor.KeyDPadRight
	case tcell.KeyEnter:
		return actKey, cursor.KeyEnter
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return actKey, cursor.KeyBack
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit, 0
	case tcell.KeyRune:
	default:
		return actNone, 0
	}
	switch r {
	case ' ', 'm':
		return actKey, cursor.KeyMediaPlayPause
	case 's':
		return actKey, cursor.KeyInfo
	case 'y':
		return actKey, cursor.KeyButtonY
	case 'c':
		return actKey, cursor.KeyDPadCenter
	case 'r':
		return actKey, cursor.KeyMenu
	case 'b':
		return actKey, cursor.KeyBack
	case 'i':
		return actIME, 0
	case 'v':
		return actVideo, 0
	case 'p':
		return actPause, 0
	case 'q':
		return actQuit, 0
	}
	return actNone, 0
}

// keyTarget is the controller's key routing surface.
type keyTarget interface {
	OnKeyDown(code cursor.KeyCode) bool
	OnKeyUp(code cursor.KeyCode) bool
}

// keyRouter turns terminal key presses into down/up pairs.
type keyRouter struct {
	target keyTarget
	sched  *frame.Scheduler
	held   map[cursor.KeyCode]*frame.Timer
}

func newKeyRouter(target keyTarget, sched *frame.Scheduler) *keyRouter {
	return &keyRouter{target: target, sched: sched, held: make(map[cursor.KeyCode]*frame.Timer)}
}

// press handles one press or auto-repeat of code. It reports whether the
// controller consumed it.
func (r *keyRouter) press(code cursor.KeyCode) bool {
	if !code.IsDirectional() {
		consumed := r.target.OnKeyDown(code)
		r.target.OnKeyUp(code)
		return consumed
	}
	if t, ok := r.held[code]; ok {
		t.Stop()
		r.held[code] = r.sched.PostDelayed(repeatHold, func() { r.release(code) })
		return true
	}
	consumed := r.target.OnKeyDown(code)
	r.held[code] = r.sched.PostDelayed(firstHold, func() { r.release(code) })
	return consumed
}

func (r *keyRouter) release(code cursor.KeyCode) {
	delete(r.held, code)
	r.target.OnKeyUp(code)
}

// releaseAll lifts every held arrow.
func (r *keyRouter) releaseAll() {
	for code, t := range r.held {
		t.Stop()
		r.release(code)
	}
}

// holding reports whether code is currently held down.
func (r *keyRouter) holding(code cursor.KeyCode) bool {
	_, ok := r.held[code]
	return ok
}
