package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-drift/tvcursor/pkg/geometry"
)

var (
	styleHeading = tcell.StyleDefault.Foreground(tcell.ColorSilver).Bold(true)
	styleTile    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleHover   = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleClick   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleInput   = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorBlack)
	styleFocus   = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	stylePointer = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

// grid maps viewport pixels onto terminal cells. The last row is reserved
// for the status line.
type grid struct {
	cols, rows int
	vw, vh     float32
}

func newGrid(cols, rows int, viewport geometry.Point) grid {
	return grid{cols: cols, rows: max(rows-1, 1), vw: viewport.X, vh: viewport.Y}
}

// cell returns the cell containing viewport point p, clamped to the grid.
func (g grid) cell(p geometry.Point) (int, int) {
	x := int(p.X * float32(g.cols) / g.vw)
	y := int(p.Y * float32(g.rows) / g.vh)
	return min(max(x, 0), g.cols-1), min(max(y, 0), g.rows-1)
}

// span returns the cells covered by r, exclusive of x1 and y1. ok is false
// when r lies outside the grid.
func (g grid) span(r geometry.Rect) (x0, y0, x1, y1 int, ok bool) {
	x0 = int(r.Left * float32(g.cols) / g.vw)
	y0 = int(r.Top * float32(g.rows) / g.vh)
	x1 = int(r.Right * float32(g.cols) / g.vw)
	y1 = int(r.Bottom * float32(g.rows) / g.vh)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(max(x1, x0+1), g.cols), min(max(y1, y0+1), g.rows)
	return x0, y0, x1, y1, x0 < g.cols && y0 < g.rows && x1 > 0 && y1 > 0 && r.Right > 0 && r.Bottom > 0
}

// statusLine keeps the latest message for the bottom row. Error reports
// arrive on any goroutine.
type statusLine struct {
	mu   sync.Mutex
	text string
	at   time.Time
}

func (s *statusLine) Write(p []byte) (int, error) {
	lines := strings.Split(strings.TrimSpace(string(p)), "\n")
	s.set(lines[len(lines)-1])
	return len(p), nil
}

func (s *statusLine) set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.at = text, time.Now()
}

func (s *statusLine) printf(format string, args ...any) {
	s.set(fmt.Sprintf(format, args...))
}

// message returns the latest text if it is younger than ttl.
func (s *statusLine) message(now time.Time, ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.at) > ttl {
		return ""
	}
	return s.text
}

func drawText(screen tcell.Screen, x, y, maxX int, style tcell.Style, text string) {
	for _, r := range text {
		if x >= maxX {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func fill(screen tcell.Screen, x0, y0, x1, y1 int, style tcell.Style) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}
