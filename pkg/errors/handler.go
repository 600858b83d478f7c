package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerSlot wraps the installed handler so it can live in an
// atomic.Pointer. Reports come from the UI thread and from bridge
// goroutines alike.
type handlerSlot struct {
	h ErrorHandler
}

var current atomic.Pointer[handlerSlot]

func init() {
	current.Store(&handlerSlot{h: &LogHandler{}})
}

// SetHandler installs the process-wide error handler. Nil restores the
// default, a non-verbose LogHandler on stderr.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(&handlerSlot{h: h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// Report stamps err and hands it to the installed handler.
func Report(err *CursorError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic stamps err and hands it to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in flight under op. Use it deferred:
//
//	defer errors.Recover("frame.callback")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// Guard runs a host primitive and reports a returned error under kind or a
// panic as a PanicError. It reports whether fn succeeded. Callers carry on
// either way.
func Guard(op string, kind ErrorKind, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
			ok = false
		}
	}()
	if err := fn(); err != nil {
		Report(&CursorError{Op: op, Kind: kind, Err: err})
		return false
	}
	return true
}

// CaptureStack formats the caller's stack, excluding CaptureStack and the
// function that called it.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
