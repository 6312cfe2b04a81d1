package editor

import "errors"

var (
	// ErrAborted signals the admin interrupted a prompt (Ctrl+C).
	ErrAborted = errors.New("editor: aborted")
	// ErrWrongVariant is returned when an editor receives a section of a
	// different type than it was registered for.
	ErrWrongVariant = errors.New("editor: section variant does not match editor")
)
