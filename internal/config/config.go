// Package config handles configuration loading and validation for the
// chromakey command.
package config

import (
	"log/slog"
	"time"

	"github.com/gogpu/chromakey"
	"github.com/gogpu/chromakey/compositor"
)

// Config is the full command configuration.
type Config struct {
	Input      InputConfig      `toml:"input" json:"input" yaml:"input"`
	Output     OutputConfig     `toml:"output" json:"output" yaml:"output"`
	Key        KeyConfig        `toml:"key" json:"key" yaml:"key"`
	Background BackgroundConfig `toml:"background" json:"background" yaml:"background"`
	Render     RenderConfig     `toml:"render" json:"render" yaml:"render"`
	Log        LogConfig        `toml:"log" json:"log" yaml:"log"`
}

// InputConfig selects the frames to key.
type InputConfig struct {
	// Path is a directory, a single image or a glob pattern.
	Path string `toml:"path" json:"path" yaml:"path"`
	Loop bool   `toml:"loop" json:"loop" yaml:"loop"`
}

// OutputConfig controls where composited frames are written.
type OutputConfig struct {
	// Dir receives numbered PNG files. Empty disables file output.
	Dir string `toml:"dir" json:"dir" yaml:"dir"`

	// Pattern is the fmt pattern for file names, given the frame number.
	Pattern string `toml:"pattern" json:"pattern" yaml:"pattern"`

	// Preview shows frames in the terminal.
	Preview bool `toml:"preview" json:"preview" yaml:"preview"`
}

// KeyConfig sets the key color and threshold.
type KeyConfig struct {
	Color     string  `toml:"color" json:"color" yaml:"color"`
	Threshold float64 `toml:"threshold" json:"threshold" yaml:"threshold"`
}

// BackgroundConfig selects a solid color or an image. Image wins when both
// are set.
type BackgroundConfig struct {
	Color string `toml:"color" json:"color" yaml:"color"`
	Image string `toml:"image" json:"image" yaml:"image"`
}

// RenderConfig controls the draw loop.
type RenderConfig struct {
	FPS           float64 `toml:"fps" json:"fps" yaml:"fps"`
	Frames        int     `toml:"frames" json:"frames" yaml:"frames"`
	Workers       int     `toml:"workers" json:"workers" yaml:"workers"`
	Interpolation string  `toml:"interpolation" json:"interpolation" yaml:"interpolation"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`
	Format string `toml:"format" json:"format" yaml:"format"`
}

// KeyColor returns the parsed key color.
func (c *Config) KeyColor() (chromakey.Color, error) {
	return chromakey.ParseColor(c.Key.Color)
}

// BackgroundColor returns the parsed background color.
func (c *Config) BackgroundColor() (chromakey.Color, error) {
	return chromakey.ParseColor(c.Background.Color)
}

// Interpolation returns the parsed background kernel.
func (c *Config) Interpolation() (compositor.Interpolation, error) {
	return compositor.ParseInterpolation(c.Render.Interpolation)
}

// FrameInterval returns the delay between cycles.
func (c *Config) FrameInterval() time.Duration {
	if c.Render.FPS <= 0 {
		return chromakey.DefaultFrameInterval
	}
	return time.Duration(float64(time.Second) / c.Render.FPS)
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}

// Settings converts the keying sections into session settings. The
// background image is not loaded; callers set it as media separately.
func (c *Config) Settings() (chromakey.Settings, error) {
	key, err := c.KeyColor()
	if err != nil {
		return chromakey.Settings{}, err
	}
	bg, err := c.BackgroundColor()
	if err != nil {
		return chromakey.Settings{}, err
	}
	return chromakey.Settings{
		TargetColor:     key,
		UserThreshold:   c.Key.Threshold,
		BackgroundColor: bg,
	}, nil
}
