// Package errors provides structured error reporting for the cursor engine.
//
// Nothing in the cursor subsystem is fatal to the host. Failures from the
// content engine, the scroll primitive or the pointer injector are reported
// here and then swallowed at the call site, so the worst outcome is a single
// missed interaction.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind says which host collaborator or stage failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindPlatform is a bridge transport or content-engine failure.
	KindPlatform
	// KindParsing is a notification or query result that did not decode.
	KindParsing
	// KindConfig is a configuration file that could not be loaded.
	KindConfig
	// KindQuery is a geometry query that failed outright.
	KindQuery
	// KindScroll is a rejected scroll request.
	KindScroll
	// KindInjection is a synthetic pointer event the host refused.
	KindInjection
	// KindPanic is a panic recovered on the UI thread.
	KindPanic
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindPlatform:  "platform",
	KindParsing:   "parsing",
	KindConfig:    "config",
	KindQuery:     "query",
	KindScroll:    "scroll",
	KindInjection: "injection",
	KindPanic:     "panic",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// CursorError is a failure reported by an engine operation.
type CursorError struct {
	// Op names the failing operation, e.g. "cursor.scrollBy".
	Op   string
	Kind ErrorKind
	Err  error
	// Channel is the bridge notification or script the data came from.
	Channel string
	// StackTrace is optional and printed only by verbose handlers.
	StackTrace string
	// Timestamp is filled in by Report when zero.
	Timestamp time.Time
}

func (e *CursorError) Error() string {
	if e.Channel == "" {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s] channel=%s: %v", e.Op, e.Kind, e.Channel, e.Err)
}

func (e *CursorError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first CursorError in err's chain, or
// KindPanic for a PanicError.
func KindOf(err error) ErrorKind {
	var ce *CursorError
	if stderrors.As(err, &ce) {
		return ce.Kind
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return KindPanic
	}
	return KindUnknown
}

// PanicError is a recovered panic.
type PanicError struct {
	Op         string
	Value      any
	StackTrace string
	Timestamp  time.Time
}

func (e *PanicError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
}

// ParseError is content-engine data that did not match the expected shape.
type ParseError struct {
	// Channel is the notification or result that carried the data.
	Channel string
	// DataType is the type the data should have decoded into.
	DataType string
	// Got is the raw value received.
	Got any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s from %s: got %T", e.DataType, e.Channel, e.Got)
}

// ErrorHandler receives every report. Implementations must be safe for
// concurrent use since bridge goroutines report too.
type ErrorHandler interface {
	HandleError(err *CursorError)
	HandlePanic(err *PanicError)
}
