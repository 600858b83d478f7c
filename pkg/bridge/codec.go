// Package bridge connects the cursor engine to a page's script environment.
//
// The bridge injects a helper script into the page, answers geometry
// queries by evaluating it, and decodes the notifications the page sends
// back (editable focus, video state, snap results, readiness). Transport is
// abstracted behind [ScriptEvaluator]; [WSServer] provides one over a
// websocket for development against a desktop browser.
package bridge

import (
	"encoding/json"
	"errors"
)

// Codec encodes and decodes bridge messages.
type Codec interface {
	// Encode converts a Go value to bytes for transmission to the page.
	Encode(value any) ([]byte, error)

	// DecodeInto decodes bytes received from the page into v.
	DecodeInto(data []byte, v any) error
}

// JSONCodec implements Codec using JSON encoding.
type JSONCodec struct{}

// Encode serializes the value to JSON bytes.
func (JSONCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// DecodeInto deserializes JSON bytes into v.
func (JSONCodec) DecodeInto(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DefaultCodec is the codec used by the bridge and its transports.
var DefaultCodec Codec = JSONCodec{}

// Message types exchanged with the page.
const (
	// TypeEvaluate asks the page to run Script and reply with a result.
	TypeEvaluate = "evaluate"
	// TypeResult carries the JSON completion value of an evaluate request.
	TypeResult = "result"
	// TypeNotify carries a notification named Name.
	TypeNotify = "notify"
)

// Message is the envelope for every transport frame.
type Message struct {
	Type    string          `json:"type"`
	ID      int64           `json:"id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Script  string          `json:"script,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Standard errors for bridge operations.
var (
	// ErrNotConnected indicates no page is attached to the transport.
	ErrNotConnected = errors.New("bridge: no page connected")

	// ErrDisconnected indicates the page went away before replying.
	ErrDisconnected = errors.New("bridge: page disconnected")

	// ErrClosed indicates the transport was shut down.
	ErrClosed = errors.New("bridge: closed")

	// ErrUnknownNotification indicates a notification name the bridge does
	// not handle.
	ErrUnknownNotification = errors.New("bridge: unknown notification")
)

// ScriptError is an exception raised by the page while evaluating a script.
type ScriptError struct {
	Message string
}

func (e *ScriptError) Error() string {
	return "script error: " + e.Message
}
