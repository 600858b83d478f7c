package bridge

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-drift/tvcursor/pkg/errors"
	"github.com/go-drift/tvcursor/pkg/geometry"
	"golang.org/x/mod/semver"
)

// ScriptVersion is the version of the embedded helper script. Pages that
// report an older version are re-injected.
const ScriptVersion = "v1.2.0"

//go:embed scripts/*.js
var scripts embed.FS

// Script returns an embedded script by file name with its version
// placeholder filled in.
func Script(name string) (string, error) {
	data, err := scripts.ReadFile("scripts/" + name)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "{{VERSION}}", ScriptVersion), nil
}

// ScriptEvaluator runs a script in the page. result receives the JSON
// encoding of the script's completion value, or an error. It may be called
// on any goroutine, possibly before Evaluate returns.
type ScriptEvaluator interface {
	Evaluate(script string, result func(value string, err error))
}

// Receiver consumes decoded page notifications. *cursor.Controller
// satisfies it.
type Receiver interface {
	OnDomFocusChanged(hasFocus bool)
	OnVideoStateChanged(fullscreen, playing bool)
	OnSnapResult(x, y float32)
}

// Bridge binds a page's script environment to a Receiver.
type Bridge struct {
	eval ScriptEvaluator
	recv Receiver

	mu          sync.Mutex
	pageVersion string
	injections  int
}

// New creates a bridge evaluating scripts through eval and forwarding
// notifications to recv. recv may be nil.
func New(eval ScriptEvaluator, recv Receiver) *Bridge {
	return &Bridge{eval: eval, recv: recv}
}

// SetReceiver replaces the notification receiver. Hosts that build the
// controller from the bridge's query and assist attach it afterwards.
func (b *Bridge) SetReceiver(recv Receiver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recv = recv
}

func (b *Bridge) receiver() Receiver {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recv
}

// Handle decodes a notification from the page and forwards it. Decode
// failures are reported and returned.
func (b *Bridge) Handle(name string, payload []byte) error {
	n, err := Decode(name, payload)
	if err != nil {
		errors.Report(&errors.CursorError{
			Op:      "bridge.handle",
			Kind:    errors.KindParsing,
			Err:     err,
			Channel: name,
		})
		return err
	}
	if ready, ok := n.(BridgeReady); ok {
		b.onReady(ready.Version)
		return nil
	}
	recv := b.receiver()
	if recv == nil {
		return nil
	}
	switch n := n.(type) {
	case DomFocusChanged:
		recv.OnDomFocusChanged(n.HasFocus)
	case VideoStateChanged:
		recv.OnVideoStateChanged(n.Fullscreen, n.Playing)
	case SnapResult:
		recv.OnSnapResult(n.X, n.Y)
	}
	return nil
}

// onReady re-injects when the page runs an older or unversioned helper.
func (b *Bridge) onReady(version string) {
	b.mu.Lock()
	b.pageVersion = version
	b.mu.Unlock()
	if !semver.IsValid(version) || semver.Compare(version, ScriptVersion) < 0 {
		b.InjectScripts()
	}
}

// PageVersion returns the helper version last reported by the page.
func (b *Bridge) PageVersion() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pageVersion
}

// Injections returns how many times the scripts were injected.
func (b *Bridge) Injections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.injections
}

// InjectScripts installs the helper and the focus and video watchers.
func (b *Bridge) InjectScripts() {
	helper, err := Script("tv_cursor.js")
	if err != nil {
		errors.Report(&errors.CursorError{Op: "bridge.inject", Kind: errors.KindPlatform, Err: err})
		return
	}
	watchers, err := Script("watchers.js")
	if err != nil {
		errors.Report(&errors.CursorError{Op: "bridge.inject", Kind: errors.KindPlatform, Err: err})
		return
	}
	b.mu.Lock()
	b.injections++
	b.mu.Unlock()
	b.evaluate("bridge.inject", helper+"\n"+watchers, nil)
}

// NearestClickable asks the page for the clickable element nearest x, y.
// It satisfies cursor.GeometryQuery.
func (b *Bridge) NearestClickable(x, y float32, result func(pt geometry.Point, ok bool)) {
	script := fmt.Sprintf("window.TVCursor ? window.TVCursor.nearestClickable(%s, %s) : null",
		formatFloat(x), formatFloat(y))
	b.evaluate("bridge.nearest_clickable", script, func(value string, err error) {
		if err != nil {
			errors.Report(&errors.CursorError{Op: "bridge.nearest_clickable", Kind: errors.KindQuery, Err: err})
			result(geometry.Point{}, false)
			return
		}
		pt, ok, err := decodePoint(value)
		if err != nil {
			errors.Report(&errors.CursorError{
				Op:      "bridge.nearest_clickable",
				Kind:    errors.KindParsing,
				Err:     err,
				Channel: "nearestClickable",
			})
		}
		result(pt, ok)
	})
}

// FocusEditableAt asks the page to focus an editable element under the
// given surface pixels. It satisfies cursor.TapAssist.
func (b *Bridge) FocusEditableAt(x, y float32) error {
	if b.eval == nil {
		return ErrNotConnected
	}
	script := fmt.Sprintf("window.TVCursor ? window.TVCursor.focusEditableAt(%s, %s) : false",
		formatFloat(x), formatFloat(y))
	b.evaluate("bridge.focus_editable", script, nil)
	return nil
}

// evaluate runs script and reports transport failures under op. done, if
// set, receives the outcome.
func (b *Bridge) evaluate(op, script string, done func(string, error)) {
	if b.eval == nil {
		if done != nil {
			done("", ErrNotConnected)
		}
		return
	}
	b.eval.Evaluate(script, func(value string, err error) {
		if done != nil {
			done(value, err)
			return
		}
		if err != nil {
			errors.Report(&errors.CursorError{Op: op, Kind: errors.KindPlatform, Err: err})
		}
	})
}

func decodePoint(value string) (geometry.Point, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "null" || value == "undefined" {
		return geometry.Point{}, false, nil
	}
	var res SnapResult
	if err := DefaultCodec.DecodeInto([]byte(value), &res); err != nil {
		return geometry.Point{}, false, &errors.ParseError{Channel: "nearestClickable", DataType: "SnapResult", Got: value}
	}
	return geometry.Point{X: res.X, Y: res.Y}, true, nil
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
