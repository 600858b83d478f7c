// Package config loads the cursor engine configuration.
//
// Configuration is read once, resolved against documented defaults and then
// passed by value into the engine. It is never mutated during a session.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cerrors "github.com/go-drift/tvcursor/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "tvcursor.yaml"

// Documented defaults. Speeds are in pixels per second, accelerations in
// pixels per second squared, distances in pixels.
const (
	DefaultMaxSpeed      = 1320
	DefaultAcceleration  = 4400
	DefaultFriction      = 6000
	DefaultEdgeMargin    = 40
	DefaultVelocityBlend = 0.6
	DefaultFloorX        = 250
	DefaultMaxX          = 900
	DefaultFloorY        = 220
	DefaultMaxY          = 600
	DefaultIdleTimeout   = 8000 * time.Millisecond
	DefaultTapGap        = 70 * time.Millisecond
	DefaultWidth         = 1920
	DefaultHeight        = 1080
	DefaultFrameRate     = 60
)

// Config is the resolved engine configuration.
type Config struct {
	MaxSpeed     float32
	Acceleration float32
	Friction     float32
	Edge         EdgeScroll
	IdleTimeout  time.Duration
	TapGap       time.Duration
	Viewport     Viewport
	FrameRate    int
}

// EdgeScroll holds the edge-scroll ramp parameters.
type EdgeScroll struct {
	// Margin is the distance from a viewport edge where scrolling begins.
	Margin float32
	// VelocityBlend scales the cursor speed mixed into the scroll speed.
	VelocityBlend float32
	FloorX, MaxX  float32
	FloorY, MaxY  float32
}

// Viewport is the initial surface size in pixels.
type Viewport struct {
	Width, Height float32
}

// File mirrors the YAML layout. Zero values mean "use the default".
type File struct {
	Motion struct {
		MaxSpeed     float32 `yaml:"max_speed,omitempty"`
		Acceleration float32 `yaml:"acceleration,omitempty"`
		Friction     float32 `yaml:"friction,omitempty"`
	} `yaml:"motion"`
	Edge struct {
		Margin        float32 `yaml:"margin,omitempty"`
		VelocityBlend float32 `yaml:"velocity_blend,omitempty"`
		FloorX        float32 `yaml:"floor_x,omitempty"`
		MaxX          float32 `yaml:"max_x,omitempty"`
		FloorY        float32 `yaml:"floor_y,omitempty"`
		MaxY          float32 `yaml:"max_y,omitempty"`
	} `yaml:"edge"`
	IdleTimeoutMs int `yaml:"idle_timeout_ms,omitempty"`
	TapGapMs      int `yaml:"tap_gap_ms,omitempty"`
	Viewport      struct {
		Width  float32 `yaml:"width,omitempty"`
		Height float32 `yaml:"height,omitempty"`
	} `yaml:"viewport"`
	FrameRate int `yaml:"frame_rate,omitempty"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		MaxSpeed:     DefaultMaxSpeed,
		Acceleration: DefaultAcceleration,
		Friction:     DefaultFriction,
		Edge: EdgeScroll{
			Margin:        DefaultEdgeMargin,
			VelocityBlend: DefaultVelocityBlend,
			FloorX:        DefaultFloorX,
			MaxX:          DefaultMaxX,
			FloorY:        DefaultFloorY,
			MaxY:          DefaultMaxY,
		},
		IdleTimeout: DefaultIdleTimeout,
		TapGap:      DefaultTapGap,
		Viewport:    Viewport{Width: DefaultWidth, Height: DefaultHeight},
		FrameRate:   DefaultFrameRate,
	}
}

// Parse decodes YAML and resolves it against the defaults. Unknown keys are
// rejected so typos do not silently fall back.
func Parse(data []byte) (Config, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return f.Resolve(), nil
}

// Resolve applies defaults to every missing or non-positive value.
func (f *File) Resolve() Config {
	cfg := Default()
	pick(&cfg.MaxSpeed, f.Motion.MaxSpeed)
	pick(&cfg.Acceleration, f.Motion.Acceleration)
	pick(&cfg.Friction, f.Motion.Friction)
	pick(&cfg.Edge.Margin, f.Edge.Margin)
	pick(&cfg.Edge.VelocityBlend, f.Edge.VelocityBlend)
	pick(&cfg.Edge.FloorX, f.Edge.FloorX)
	pick(&cfg.Edge.MaxX, f.Edge.MaxX)
	pick(&cfg.Edge.FloorY, f.Edge.FloorY)
	pick(&cfg.Edge.MaxY, f.Edge.MaxY)
	pick(&cfg.Viewport.Width, f.Viewport.Width)
	pick(&cfg.Viewport.Height, f.Viewport.Height)
	if f.IdleTimeoutMs > 0 {
		cfg.IdleTimeout = time.Duration(f.IdleTimeoutMs) * time.Millisecond
	}
	if f.TapGapMs > 0 {
		cfg.TapGap = time.Duration(f.TapGapMs) * time.Millisecond
	}
	if f.FrameRate > 0 {
		cfg.FrameRate = f.FrameRate
	}
	return cfg
}

func pick(dst *float32, v float32) {
	if v > 0 {
		*dst = v
	}
}

// Load reads the configuration file at path. Any failure is reported as a
// config error and the defaults are returned, so construction never fails.
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cerrors.Report(&cerrors.CursorError{
			Op:   "config.Load",
			Kind: cerrors.KindConfig,
			Err:  fmt.Errorf("failed to read %s: %w", path, err),
		})
		return Default()
	}
	cfg, err := Parse(data)
	if err != nil {
		cerrors.Report(&cerrors.CursorError{
			Op:   "config.Load",
			Kind: cerrors.KindConfig,
			Err:  err,
		})
		return Default()
	}
	return cfg
}

// LoadOptional reads tvcursor.yaml from dir if present. A missing file is
// not an error and yields the defaults.
func LoadOptional(dir string) Config {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	return Load(path)
}
