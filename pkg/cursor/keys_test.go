package cursor

import "testing"

func TestKeyCode_Classes(t *testing.T) {
	tests := []struct {
		key         KeyCode
		directional bool
		confirm     bool
		snap        bool
	}{
		{KeyDPadUp, true, false, false},
		{KeyDPadDown, true, false, false},
		{KeyDPadLeft, true, false, false},
		{KeyDPadRight, true, false, false},
		{KeyDPadCenter, false, true, false},
		{KeyEnter, false, true, false},
		{KeyInfo, false, false, true},
		{KeyButtonY, false, false, true},
		{KeyMediaPlayPause, false, false, false},
		{KeyBack, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			if got := tt.key.IsDirectional(); got != tt.directional {
				t.Errorf("IsDirectional = %v", got)
			}
			if got := tt.key.IsConfirm(); got != tt.confirm {
				t.Errorf("IsConfirm = %v", got)
			}
			if got := tt.key.IsSnap(); got != tt.snap {
				t.Errorf("IsSnap = %v", got)
			}
		})
	}
}

func TestKeyCode_String(t *testing.T) {
	if got := KeyMediaPlayPause.String(); got != "media_play_pause" {
		t.Errorf("String = %q", got)
	}
	if got := KeyCode(999).String(); got != "key(999)" {
		t.Errorf("String = %q", got)
	}
}

func TestMode_String(t *testing.T) {
	if ModeFocus.String() != "focus" || ModeCursor.String() != "cursor" || Mode(7).String() != "unknown" {
		t.Error("unexpected Mode strings")
	}
}
