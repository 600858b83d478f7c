package bridge

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-drift/tvcursor/pkg/errors"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	maxMessage = 1 << 20
	sendQueue  = 64
)

// ShimPath serves the page-side shim that connects back to the server.
const ShimPath = "/bridge.js"

// WSServer is a ScriptEvaluator that talks to one page over a websocket.
// The page loads the shim from ShimPath, connects, runs evaluate requests
// and pushes notifications. A new connection replaces the previous one.
type WSServer struct {
	upgrader websocket.Upgrader

	mu        sync.Mutex
	handle    func(name string, payload []byte) error
	onConnect func()
	conn      *pageConn
	nextID    int64
	pending   map[int64]pendingCall
	closed    bool
}

type pendingCall struct {
	conn *pageConn
	fn   func(string, error)
}

type pageConn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *pageConn) close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// NewWSServer creates a server with no page attached.
func NewWSServer() *WSServer {
	return &WSServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Development transport for local pages.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pending: make(map[int64]pendingCall),
	}
}

// SetHandler sets the function receiving page notifications, typically
// Bridge.Handle.
func (s *WSServer) SetHandler(handle func(name string, payload []byte) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = handle
}

// OnConnect sets a function run each time a page attaches, typically
// Bridge.InjectScripts.
func (s *WSServer) OnConnect(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnect = fn
}

// Connected reports whether a page is attached.
func (s *WSServer) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// ServeHTTP serves the shim at ShimPath and upgrades every other request.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == ShimPath {
		s.serveShim(w, r)
		return
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		errors.Report(&errors.CursorError{Op: "bridge.ws.upgrade", Kind: errors.KindPlatform, Err: err})
		return
	}
	c := &pageConn{ws: ws, send: make(chan []byte, sendQueue), done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.close()
		return
	}
	old := s.conn
	s.conn = c
	onConnect := s.onConnect
	s.mu.Unlock()
	if old != nil {
		s.drop(old)
	}

	go s.writePump(c)
	go s.readPump(c)
	if onConnect != nil {
		onConnect()
	}
}

func (s *WSServer) serveShim(w http.ResponseWriter, r *http.Request) {
	data, err := scripts.ReadFile("scripts/ws_shim.js")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	url := "ws://" + r.Host + "/ws"
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write([]byte(strings.ReplaceAll(string(data), "{{WS_URL}}", url)))
}

// Evaluate sends script to the attached page.
func (s *WSServer) Evaluate(script string, result func(value string, err error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fail(result, ErrClosed)
		return
	}
	c := s.conn
	if c == nil {
		s.mu.Unlock()
		fail(result, ErrNotConnected)
		return
	}
	s.nextID++
	id := s.nextID
	data, err := DefaultCodec.Encode(Message{Type: TypeEvaluate, ID: id, Script: script})
	if err != nil {
		s.mu.Unlock()
		fail(result, err)
		return
	}
	if result != nil {
		s.pending[id] = pendingCall{conn: c, fn: result}
	}
	select {
	case c.send <- data:
		s.mu.Unlock()
	default:
		delete(s.pending, id)
		s.mu.Unlock()
		fail(result, ErrDisconnected)
	}
}

func fail(result func(string, error), err error) {
	if result != nil {
		result("", err)
	}
}

// Close detaches the page and fails outstanding evaluations.
func (s *WSServer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	c := s.conn
	s.conn = nil
	calls := s.pending
	s.pending = make(map[int64]pendingCall)
	s.mu.Unlock()

	if c != nil {
		c.close()
	}
	for _, call := range calls {
		call.fn("", ErrClosed)
	}
	return nil
}

// drop detaches c and fails the evaluations waiting on it.
func (s *WSServer) drop(c *pageConn) {
	c.close()
	s.mu.Lock()
	if s.conn == c {
		s.conn = nil
	}
	var failed []func(string, error)
	for id, call := range s.pending {
		if call.conn == c {
			failed = append(failed, call.fn)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()
	for _, fn := range failed {
		fn("", ErrDisconnected)
	}
}

func (s *WSServer) readPump(c *pageConn) {
	defer s.drop(c)

	c.ws.SetReadLimit(maxMessage)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				errors.Report(&errors.CursorError{Op: "bridge.ws.read", Kind: errors.KindPlatform, Err: err})
			}
			return
		}
		s.dispatch(c, data)
	}
}

func (s *WSServer) dispatch(c *pageConn, data []byte) {
	var msg Message
	if err := DefaultCodec.DecodeInto(data, &msg); err != nil {
		errors.Report(&errors.CursorError{
			Op:   "bridge.ws.read",
			Kind: errors.KindParsing,
			Err:  &errors.ParseError{Channel: "ws", DataType: "Message", Got: string(data)},
		})
		return
	}
	switch msg.Type {
	case TypeResult:
		s.mu.Lock()
		call, ok := s.pending[msg.ID]
		if ok && call.conn == c {
			delete(s.pending, msg.ID)
		}
		s.mu.Unlock()
		if !ok || call.conn != c {
			return
		}
		if msg.Error != "" {
			call.fn("", &ScriptError{Message: msg.Error})
			return
		}
		value := string(msg.Payload)
		if value == "" {
			value = "null"
		}
		call.fn(value, nil)
	case TypeNotify:
		s.mu.Lock()
		handle := s.handle
		s.mu.Unlock()
		if handle != nil {
			handle(msg.Name, msg.Payload)
		}
	default:
		errors.Report(&errors.CursorError{
			Op:      "bridge.ws.read",
			Kind:    errors.KindParsing,
			Err:     &errors.ParseError{Channel: "ws", DataType: "message type", Got: msg.Type},
			Channel: msg.Type,
		})
	}
}

func (s *WSServer) writePump(c *pageConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
