package raster

import (
	"errors"
	"fmt"
)

// ColorType identifies the byte order of the color channels inside a pixel.
type ColorType uint8

const (
	// RGBA stores R=0, G=1, B=2, A=3.
	RGBA ColorType = iota
	// BGRA stores B=0, G=1, R=2, A=3. Screen capture back-ends emit this order.
	BGRA
)

func (c ColorType) String() string {
	switch c {
	case RGBA:
		return "RGBA"
	case BGRA:
		return "BGRA"
	default:
		return fmt.Sprintf("ColorType(%d)", uint8(c))
	}
}

// MinChannels is the number of readable channels the search engine needs per pixel.
const MinChannels = 3

var (
	ErrPixelWidth     = errors.New("raster: pixel width too small")
	ErrLengthMismatch = errors.New("raster: data length does not match dimensions")
	ErrColorType      = errors.New("raster: unknown color type")
)

// Raster is a row-major pixel buffer. The pixel at (x, y) starts at
// Data[(y*Width+x)*PixelWidth].
type Raster struct {
	Data       []byte
	Width      uint32
	Height     uint32
	ColorType  ColorType
	PixelWidth uint8
}

// Point is a pixel position, origin top-left.
type Point struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

// New allocates a zeroed 4-byte-per-pixel raster.
func New(width, height uint32, ct ColorType) Raster {
	return Raster{
		Data:       make([]byte, int(width)*int(height)*4),
		Width:      width,
		Height:     height,
		ColorType:  ct,
		PixelWidth: 4,
	}
}

// Empty reports whether the raster has no pixels.
func (r Raster) Empty() bool { return r.Width == 0 || r.Height == 0 }

// Len is the byte length implied by the dimensions.
func (r Raster) Len() int { return int(r.Width) * int(r.Height) * int(r.PixelWidth) }

// Offset returns the byte offset of pixel (x, y).
func (r Raster) Offset(x, y uint32) int {
	return (int(y)*int(r.Width) + int(x)) * int(r.PixelWidth)
}

// Validate checks the structural invariants the search engine relies on.
func (r Raster) Validate() error {
	if r.ColorType != RGBA && r.ColorType != BGRA {
		return fmt.Errorf("%w: %d", ErrColorType, r.ColorType)
	}
	if r.PixelWidth < MinChannels {
		return fmt.Errorf("%w: %d < %d", ErrPixelWidth, r.PixelWidth, MinChannels)
	}
	if len(r.Data) != r.Len() {
		return fmt.Errorf("%w: have %d bytes, want %dx%dx%d=%d", ErrLengthMismatch,
			len(r.Data), r.Width, r.Height, r.PixelWidth, r.Len())
	}
	return nil
}

// Clone returns a deep copy.
func (r Raster) Clone() Raster {
	out := r
	out.Data = append([]byte(nil), r.Data...)
	return out
}
