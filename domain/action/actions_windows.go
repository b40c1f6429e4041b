//go:build windows

package action

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	user32       = windows.NewLazySystemDLL("user32.dll")
	setCursorPos = user32.NewProc("SetCursorPos")
)

// MoveCursor moves the OS mouse pointer to (x, y) using SetCursorPos.
func MoveCursor(x, y uint32) error {
	if err := setCursorPos.Find(); err != nil {
		return fmt.Errorf("%w: %w", ErrMove, err)
	}
	r, _, callErr := setCursorPos.Call(uintptr(x), uintptr(y))
	if r == 0 {
		return fmt.Errorf("%w: SetCursorPos(%d, %d): %w", ErrMove, x, y, callErr)
	}
	return nil
}
