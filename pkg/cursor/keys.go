package cursor

import "strconv"

// KeyCode identifies a remote key. Values match the Android key codes
// reported by TV remotes.
type KeyCode int

const (
	KeyBack           KeyCode = 4
	KeyDPadUp         KeyCode = 19
	KeyDPadDown       KeyCode = 20
	KeyDPadLeft       KeyCode = 21
	KeyDPadRight      KeyCode = 22
	KeyDPadCenter     KeyCode = 23
	KeyButtonY        KeyCode = 53
	KeyEnter          KeyCode = 66
	KeyMenu           KeyCode = 82
	KeyMediaPlayPause KeyCode = 85
	KeyInfo           KeyCode = 165
)

var keyNames = map[KeyCode]string{
	KeyBack:           "back",
	KeyDPadUp:         "dpad_up",
	KeyDPadDown:       "dpad_down",
	KeyDPadLeft:       "dpad_left",
	KeyDPadRight:      "dpad_right",
	KeyDPadCenter:     "dpad_center",
	KeyButtonY:        "button_y",
	KeyEnter:          "enter",
	KeyMenu:           "menu",
	KeyMediaPlayPause: "media_play_pause",
	KeyInfo:           "info",
}

func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// IsDirectional reports whether k is one of the four DPAD arrows.
func (k KeyCode) IsDirectional() bool {
	return k >= KeyDPadUp && k <= KeyDPadRight
}

// IsConfirm reports whether k activates the element under the pointer.
func (k KeyCode) IsConfirm() bool {
	return k == KeyDPadCenter || k == KeyEnter
}

// IsSnap reports whether k requests snap-to-nearest.
func (k KeyCode) IsSnap() bool {
	return k == KeyInfo || k == KeyButtonY
}
