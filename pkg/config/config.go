// Package config loads snapcursor settings from a TOML file with
// SNAPCURSOR_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chazu/snapcursor/pkg/snap"
)

// Config is the full application configuration.
type Config struct {
	Snap   SnapConfig   `toml:"snap"`
	Curve  CurveConfig  `toml:"curve"`
	Kernel KernelConfig `toml:"kernel"`
	View   ViewConfig   `toml:"view"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// SnapConfig holds the resolver radii in pixels and the free-space depth.
type SnapConfig struct {
	VertexRadius      float64 `toml:"vertex_radius"`
	EdgeRadius        float64 `toml:"edge_radius"`
	FaceRadius        float64 `toml:"face_radius"`
	CurveRadius       float64 `toml:"curve_radius"`
	FreeDepth         float64 `toml:"free_depth"`
	VisibilityEpsilon float64 `toml:"visibility_epsilon"`
}

// CurveConfig controls curve evaluation.
type CurveConfig struct {
	Resolution int `toml:"resolution"` // samples per Bezier segment
}

// KernelConfig controls solid meshing.
type KernelConfig struct {
	Cells int `toml:"cells"` // marching cubes cells along the longest axis
}

// ViewConfig is the default viewport.
type ViewConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	FOV    float64 `toml:"fov"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() Config {
	s := snap.DefaultSettings()
	return Config{
		Snap: SnapConfig{
			VertexRadius:      s.VertexRadius,
			EdgeRadius:        s.EdgeRadius,
			FaceRadius:        s.FaceRadius,
			CurveRadius:       s.CurveRadius,
			FreeDepth:         s.FreeDepth,
			VisibilityEpsilon: s.VisibilityEpsilon,
		},
		Curve:  CurveConfig{Resolution: 12},
		Kernel: KernelConfig{Cells: 64},
		View:   ViewConfig{Width: 800, Height: 600, FOV: 50},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// SnapSettings converts the [snap] section for the resolver.
func (c Config) SnapSettings() snap.Settings {
	return snap.Settings{
		VertexRadius:      c.Snap.VertexRadius,
		EdgeRadius:        c.Snap.EdgeRadius,
		FaceRadius:        c.Snap.FaceRadius,
		CurveRadius:       c.Snap.CurveRadius,
		FreeDepth:         c.Snap.FreeDepth,
		VisibilityEpsilon: c.Snap.VisibilityEpsilon,
	}
}

// Validate checks every section and joins all problems into one error.
func (c Config) Validate() error {
	var errs []error
	if err := c.SnapSettings().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Curve.Resolution < 1 {
		errs = append(errs, fmt.Errorf("curve resolution must be at least 1, got %d", c.Curve.Resolution))
	}
	if c.Kernel.Cells < 8 {
		errs = append(errs, fmt.Errorf("kernel cells must be at least 8, got %d", c.Kernel.Cells))
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		errs = append(errs, fmt.Errorf("view size must be positive, got %dx%d", c.View.Width, c.View.Height))
	}
	if c.View.FOV <= 0 || c.View.FOV >= 180 {
		errs = append(errs, fmt.Errorf("view fov must be in (0, 180), got %g", c.View.FOV))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

// SlogLevel parses Level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Level)
}
