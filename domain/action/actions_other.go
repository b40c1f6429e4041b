//go:build !windows

package action

import (
	"fmt"
	"math"

	"github.com/go-vgo/robotgo"
)

// MoveCursor moves the OS mouse pointer to (x, y).
func MoveCursor(x, y uint32) error {
	if x > math.MaxInt32 || y > math.MaxInt32 {
		return fmt.Errorf("%w: (%d, %d) out of range", ErrMove, x, y)
	}
	robotgo.Move(int(x), int(y))
	return nil
}
