package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalid matches every validation failure with errors.Is.
var ErrInvalid = errors.New("config: invalid configuration")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is reports whether target is ErrInvalid.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Input.Path == "" {
		add("input.path", "required")
	}
	if c.Output.Dir != "" && !strings.Contains(c.Output.Pattern, "%") {
		add("output.pattern", "%q has no frame number verb", c.Output.Pattern)
	}
	if _, err := c.KeyColor(); err != nil {
		add("key.color", "%v", err)
	}
	if math.IsNaN(c.Key.Threshold) {
		add("key.threshold", "not a number")
	}
	if _, err := c.BackgroundColor(); err != nil {
		add("background.color", "%v", err)
	}
	if c.Render.FPS < 0 || math.IsNaN(c.Render.FPS) || math.IsInf(c.Render.FPS, 0) {
		add("render.fps", "must be a positive number, got %v", c.Render.FPS)
	}
	if c.Render.Frames < 0 {
		add("render.frames", "must not be negative, got %d", c.Render.Frames)
	}
	if c.Render.Workers < 0 {
		add("render.workers", "must not be negative, got %d", c.Render.Workers)
	}
	if _, err := c.Interpolation(); err != nil {
		add("render.interpolation", "%v", err)
	}
	if _, err := c.LogLevel(); err != nil {
		add("log.level", "unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format", "must be text or json, got %q", c.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
