package action

import "errors"

// ErrMove is returned when the platform refuses to move the cursor.
var ErrMove = errors.New("failed to move mouse")

// Mouse warps the OS cursor to absolute screen coordinates.
type Mouse interface {
	MoveMouse(x, y uint32) error
}

type systemMouse struct{}

// NewMouse returns the cursor back-end for the running platform.
func NewMouse() Mouse { return systemMouse{} }

func (systemMouse) MoveMouse(x, y uint32) error { return MoveCursor(x, y) }
