// Command tvcursor-sim drives the cursor engine from a terminal.
//
// Arrow keys move the pointer over a demo page drawn with tcell. Enter taps,
// space or m toggles Focus/Cursor mode and s snaps to the nearest tile.
// r reveals the pointer, i and v fake the on-screen keyboard and fullscreen
// video, p pauses, b or Backspace is Back and q quits.
//
// With -ws the controller talks to a real page instead: load
// http://<addr>/bridge.js into the page and it connects back over a
// websocket. The terminal then only shows the pointer.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-drift/tvcursor/pkg/bridge"
	"github.com/go-drift/tvcursor/pkg/config"
	"github.com/go-drift/tvcursor/pkg/cursor"
	"github.com/go-drift/tvcursor/pkg/errors"
	"github.com/go-drift/tvcursor/pkg/frame"
	"github.com/go-drift/tvcursor/pkg/geometry"
	"github.com/go-drift/tvcursor/pkg/overlay"
)

const statusTTL = 3 * time.Second

func main() {
	configPath := flag.String("config", "", "config file (default ./"+config.FileName+" when present)")
	wsAddr := flag.String("ws", "", "serve the page bridge on this address, e.g. localhost:8765")
	logPath := flag.String("log", "", "append debug traces and errors to this file")
	flag.Parse()

	if err := run(*configPath, *wsAddr, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "tvcursor-sim: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, wsAddr, logPath string) error {
	status := &statusLine{}
	var logOut io.Writer = status
	var logFile *os.File
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logFile = f
		logOut = io.MultiWriter(status, f)
	}
	errors.SetHandler(&errors.LogHandler{Out: logOut, Verbose: logFile != nil})

	var cfg config.Config
	if configPath != "" {
		cfg = config.Load(configPath)
	} else {
		cfg = config.LoadOptional(".")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	sched := frame.NewScheduler(nil)
	viewport := geometry.Point{X: cfg.Viewport.Width, Y: cfg.Viewport.Height}
	sim := &simulator{
		screen: screen,
		sched:  sched,
		status: status,
	}

	host := cursor.Host{Scheduler: sched, Overlay: overlay.New(nil)}
	var opts []cursor.Option
	if logFile != nil {
		opts = append(opts, cursor.WithLogger(func(format string, args ...any) {
			fmt.Fprintf(logFile, "[tvcursor] "+format+"\n", args...)
		}))
	}

	var srv *bridge.WSServer
	var httpSrv *http.Server
	var b *bridge.Bridge
	if wsAddr != "" {
		srv = bridge.NewWSServer()
		b = bridge.New(srv, nil)
		srv.SetHandler(b.Handle)
		srv.OnConnect(func() {
			status.printf("page connected")
			b.InjectScripts()
		})
		host.Scroller, host.Injector, host.Query, host.Assist = b, b, b, b
		httpSrv = &http.Server{Addr: wsAddr, Handler: srv}
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				errors.Report(&errors.CursorError{Op: "sim.listen", Kind: errors.KindPlatform, Err: err})
			}
		}()
		status.printf("waiting for a page: load http://%s%s", wsAddr, bridge.ShimPath)
	} else {
		sim.page = demoPage(viewport)
		sim.surface = newPageSurface(sim.page, status.printf)
		host.Scroller, host.Injector, host.Query, host.Assist = sim.surface, sim.surface, sim.surface, sim.surface
	}

	sim.ctrl = cursor.New(cfg, host, opts...)
	sim.overlay = host.Overlay
	sim.keys = newKeyRouter(sim.ctrl, sched)
	sim.bridge = srv
	if sim.surface != nil {
		sim.surface.recv = sim.ctrl
	}
	if b != nil {
		b.SetReceiver(sim.ctrl)
	}
	cols, rows := screen.Size()
	sim.grid = newGrid(cols, rows, viewport)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sim.quit = cancel

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			sched.Dispatch(func() { sim.handle(ev) })
		}
	}()

	var redraw frame.FrameFunc
	redraw = func(int64) {
		sim.draw()
		sched.PostFrameCallback(&redraw)
	}
	sched.PostFrameCallback(&redraw)

	frame.NewLoop(sched, cfg.FrameRate).Run(ctx)

	sim.ctrl.Destroy()
	if httpSrv != nil {
		shutdown, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		httpSrv.Shutdown(shutdown)
		srv.Close()
	}
	return nil
}

// simulator owns the terminal side. All methods run on the scheduler's
// thread.
type simulator struct {
	screen  tcell.Screen
	sched   *frame.Scheduler
	ctrl    *cursor.Controller
	overlay *overlay.Overlay
	keys    *keyRouter
	grid    grid
	status  *statusLine
	quit    func()

	// Demo mode.
	page    *geometry.Page
	surface *pageSurface
	// Page mode.
	bridge *bridge.WSServer

	ime, video, paused bool
}

func (s *simulator) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		s.grid = newGrid(cols, rows, geometry.Point{X: s.grid.vw, Y: s.grid.vh})
		s.screen.Sync()
	case *tcell.EventKey:
		act, code := translate(ev.Key(), ev.Rune())
		s.apply(act, code)
	}
}

func (s *simulator) apply(act action, code cursor.KeyCode) {
	switch act {
	case actKey:
		if s.paused {
			return
		}
		if !s.keys.press(code) && code == cursor.KeyBack {
			s.status.printf("back: passed to the page")
		}
	case actIME:
		s.ime = !s.ime
		s.ctrl.OnIMEVisibilityChanged(s.ime)
	case actVideo:
		s.video = !s.video
		s.ctrl.OnVideoStateChanged(s.video, s.video)
	case actPause:
		s.paused = !s.paused
		if s.paused {
			s.keys.releaseAll()
			s.ctrl.Pause()
		} else {
			s.ctrl.Resume()
		}
	case actQuit:
		s.quit()
	}
}

func (s *simulator) draw() {
	s.screen.Clear()
	now := s.sched.Now()
	pointer := s.ctrl.Position()
	if s.page != nil {
		s.drawPage(pointer, now)
	}
	if s.overlay.IsVisible() {
		x, y := s.grid.cell(s.overlay.Position())
		s.screen.SetContent(x, y, '+', nil, stylePointer)
	}
	s.drawStatus(now)
	s.screen.Show()
}

func (s *simulator) drawPage(pointer geometry.Point, now time.Time) {
	for i, e := range s.page.Elements {
		vb := s.page.ViewportBounds(e)
		x0, y0, x1, y1, ok := s.grid.span(vb)
		if !ok {
			continue
		}
		if !geometry.IsInteractive(e) {
			drawText(s.screen, x0, y0, x1, styleHeading, e.ID)
			continue
		}
		style := styleTile
		switch {
		case s.surface.flashing(i, now):
			style = styleClick
		case e.Editable && i == s.surface.focused:
			style = styleFocus
		case e.Editable:
			style = styleInput
		case s.overlay.IsVisible() && vb.Contains(pointer):
			style = styleHover
		}
		fill(s.screen, x0, y0, x1, y1, style)
		drawText(s.screen, x0+1, y0+(y1-y0)/2, x1, style, e.ID)
	}
}

func (s *simulator) drawStatus(now time.Time) {
	y := s.grid.rows
	pos := s.ctrl.Position()
	line := fmt.Sprintf(" %-6s %5.0f,%-5.0f", s.ctrl.Mode(), pos.X, pos.Y)
	if s.page != nil {
		line += fmt.Sprintf(" scroll %4.0f,%-5.0f", s.page.Scroll.X, s.page.Scroll.Y)
	} else if s.bridge != nil {
		line += fmt.Sprintf(" page=%t", s.bridge.Connected())
	}
	if s.ime {
		line += " [ime]"
	}
	if s.video {
		line += " [video]"
	}
	if s.paused {
		line += " [paused]"
	}
	if msg := s.status.message(now, statusTTL); msg != "" {
		line += " | " + msg
	} else {
		line += " | arrows move, enter tap, space mode, s snap, q quit"
	}
	fill(s.screen, 0, y, s.grid.cols, y+1, styleStatus)
	drawText(s.screen, 0, y, s.grid.cols, styleStatus, line)
}
