package bridge

import (
	"fmt"

	"github.com/go-drift/tvcursor/pkg/errors"
)

// Notification names sent by the page.
const (
	NotifyDomFocus   = "domFocusChanged"
	NotifyVideoState = "videoStateChanged"
	NotifySnapResult = "snapResult"
	NotifyReady      = "bridgeReady"
)

// DomFocusChanged reports whether an editable element has focus.
type DomFocusChanged struct {
	HasFocus bool `json:"hasFocus"`
}

// VideoStateChanged reports the dominant video's state.
type VideoStateChanged struct {
	Fullscreen bool `json:"fullscreen"`
	Playing    bool `json:"playing"`
}

// SnapResult is a snap target in viewport pixels.
type SnapResult struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// BridgeReady is sent once the helper script has installed itself.
type BridgeReady struct {
	Version string `json:"version"`
}

// Decode parses a notification payload into its typed value:
// DomFocusChanged, VideoStateChanged, SnapResult or BridgeReady.
// Malformed payloads return a *errors.ParseError.
func Decode(name string, payload []byte) (any, error) {
	switch name {
	case NotifyDomFocus:
		return decodeAs[DomFocusChanged](name, payload)
	case NotifyVideoState:
		return decodeAs[VideoStateChanged](name, payload)
	case NotifySnapResult:
		return decodeAs[SnapResult](name, payload)
	case NotifyReady:
		return decodeAs[BridgeReady](name, payload)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNotification, name)
}

func decodeAs[T any](name string, payload []byte) (any, error) {
	var v T
	if len(payload) == 0 {
		return nil, &errors.ParseError{Channel: name, DataType: fmt.Sprintf("%T", v), Got: nil}
	}
	if err := DefaultCodec.DecodeInto(payload, &v); err != nil {
		return nil, &errors.ParseError{Channel: name, DataType: fmt.Sprintf("%T", v), Got: string(payload)}
	}
	return v, nil
}
