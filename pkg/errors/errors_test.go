package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestCursorErrorString(t *testing.T) {
	err := &CursorError{
		Op:   "cursor.scrollBy",
		Kind: KindScroll,
		Err:  fmt.Errorf("surface detached"),
	}
	got := err.Error()
	want := "cursor.scrollBy [scroll]: surface detached"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCursorErrorWithChannel(t *testing.T) {
	err := &CursorError{
		Op:      "bridge.decode",
		Kind:    KindParsing,
		Channel: "videoStateChanged",
		Err:     &ParseError{Channel: "videoStateChanged", DataType: "VideoState", Got: nil},
	}
	got := err.Error()
	if !strings.Contains(got, "channel=videoStateChanged") {
		t.Errorf("error string %q should contain channel", got)
	}
}

func TestCursorErrorUnwrap(t *testing.T) {
	inner := &ParseError{Channel: "snapResult", DataType: "Point", Got: "x"}
	err := &CursorError{Op: "bridge.decode", Kind: KindParsing, Err: inner}
	if err.Unwrap() != inner {
		t.Error("Unwrap should return the wrapped error")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindPlatform, "platform"},
		{KindParsing, "parsing"},
		{KindConfig, "config"},
		{KindQuery, "query"},
		{KindScroll, "scroll"},
		{KindInjection, "injection"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err.Op = "cursor.inject"
	if got, want := err.Error(), "panic in cursor.inject: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseErrorString(t *testing.T) {
	err := &ParseError{Channel: "domFocusChanged", DataType: "bool", Got: 12}
	want := "failed to parse bool from domFocusChanged: got int"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	h := &testHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	Report(&CursorError{Op: "config.Load", Kind: KindConfig, Err: fmt.Errorf("missing")})
	Report(nil)

	if len(h.errs) != 1 {
		t.Fatalf("captured %d errors, want 1", len(h.errs))
	}
	if h.errs[0].Op != "config.Load" {
		t.Errorf("Op = %q, want %q", h.errs[0].Op, "config.Load")
	}
	if h.errs[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	h := &testHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if len(h.panics) != 1 {
		t.Fatalf("captured %d panics, want 1", len(h.panics))
	}
	if h.panics[0].Op != "test.recover" {
		t.Errorf("Op = %q, want %q", h.panics[0].Op, "test.recover")
	}
	if h.panics[0].StackTrace == "" {
		t.Error("expected stack trace")
	}
}

func TestGuard(t *testing.T) {
	h := &testHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	if !Guard("ok", KindScroll, func() error { return nil }) {
		t.Error("Guard should report success for nil error")
	}
	if Guard("failing", KindScroll, func() error { return fmt.Errorf("nope") }) {
		t.Error("Guard should report failure for an error")
	}
	if Guard("panicking", KindInjection, func() error { panic("bad") }) {
		t.Error("Guard should report failure for a panic")
	}

	if len(h.errs) != 1 || h.errs[0].Kind != KindScroll {
		t.Errorf("errors = %+v, want one scroll error", h.errs)
	}
	if len(h.panics) != 1 || h.panics[0].Op != "panicking" {
		t.Errorf("panics = %+v, want one from panicking", h.panics)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}
	h.HandleError(&CursorError{Op: "cursor.scrollBy", Kind: KindScroll, Err: fmt.Errorf("x")})
	if got, want := buf.String(), "[tvcursor error] cursor.scrollBy: x\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	buf.Reset()
	h.Verbose = true
	h.HandleError(&CursorError{Op: "bridge.decode", Kind: KindParsing, Channel: "snapResult", Err: fmt.Errorf("y")})
	if got := buf.String(); !strings.Contains(got, "[parsing] channel=snapResult: y") {
		t.Errorf("verbose output = %q", got)
	}

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "cursor.inject", Value: "z"})
	if got := buf.String(); !strings.HasPrefix(got, "[tvcursor panic] cursor.inject: z") {
		t.Errorf("panic output = %q", got)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := Handler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", Handler())
	}
}

type testHandler struct {
	errs   []*CursorError
	panics []*PanicError
}

func (h *testHandler) HandleError(err *CursorError) { h.errs = append(h.errs, err) }
func (h *testHandler) HandlePanic(err *PanicError)  { h.panics = append(h.panics, err) }

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("tap: %w", &CursorError{Op: "cursor.inject.down", Kind: KindInjection, Err: fmt.Errorf("denied")})
	if got := KindOf(wrapped); got != KindInjection {
		t.Errorf("KindOf(wrapped) = %v", got)
	}
	if got := KindOf(&PanicError{Value: 1}); got != KindPanic {
		t.Errorf("KindOf(panic) = %v", got)
	}
	if got := KindOf(fmt.Errorf("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v", got)
	}
}

