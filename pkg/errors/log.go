package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// LogHandler writes one line per report. It is safe for concurrent use.
type LogHandler struct {
	// Verbose adds the error kind, the bridge channel and stack traces.
	Verbose bool
	// Out is the destination. Nil means os.Stderr.
	Out io.Writer

	mu sync.Mutex
}

func (h *LogHandler) HandleError(err *CursorError) {
	if err == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString("[tvcursor error] ")
	sb.WriteString(err.Op)
	if h.Verbose {
		fmt.Fprintf(&sb, " [%s]", err.Kind)
		if err.Channel != "" {
			sb.WriteString(" channel=" + err.Channel)
		}
	}
	fmt.Fprintf(&sb, ": %v\n", err.Err)
	h.write(sb.String(), err.StackTrace)
}

func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	line := fmt.Sprintf("[tvcursor panic] %v\n", err.Value)
	if err.Op != "" {
		line = fmt.Sprintf("[tvcursor panic] %s: %v\n", err.Op, err.Value)
	}
	h.write(line, err.StackTrace)
}

func (h *LogHandler) write(line, stack string) {
	w := h.Out
	if w == nil {
		w = os.Stderr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	io.WriteString(w, line)
	if h.Verbose && stack != "" {
		fmt.Fprintf(w, "Stack trace:\n%s\n", stack)
	}
}
