package domain

import "errors"

// Sentinel errors used across layers.
var (
	// ErrCompile marks a template that could not be compiled
	ErrCompile = errors.New("template compile error")
	// ErrEvaluate marks a runtime failure while rendering a compiled template
	ErrEvaluate = errors.New("template evaluation error")
	// ErrInvalidConfig marks a configuration value that had to be clamped
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoPlayer is returned by state sources that cannot reach any player
	ErrNoPlayer = errors.New("no media player available")
	// ErrClosed is returned after the controller has been shut down
	ErrClosed = errors.New("controller is shut down")
)
