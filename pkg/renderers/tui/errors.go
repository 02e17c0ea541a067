package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnsupportedRole is returned for roles the terminal cannot serve,
	// such as the drag-and-drop properties editor.
	ErrUnsupportedRole = errors.New("tui: unsupported render role")
)
