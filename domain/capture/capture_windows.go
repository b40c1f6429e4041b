//go:build windows

package capture

// GDI capture of the primary screen. Each grab creates a temporary top-down
// 32-bit DIB, BitBlt's the screen into it and copies the pixels into a
// heap-owned raster. The DIB is already BGRA, so no channel reordering is
// needed.

import (
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/soocke/ultron-go/domain/raster"
)

const (
	smCxScreen   = 0
	smCyScreen   = 1
	srccopy      = 0x00CC0020
	dibRGBColors = 0
	biRgb        = 0
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	gdi32                  = windows.NewLazySystemDLL("gdi32.dll")
	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procGetSystemMetrics   = user32.NewProc("GetSystemMetrics")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
)

// BITMAPINFO structures (Win32 layout).
type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	_      [4]byte // one RGBQUAD placeholder (unused for 32-bit)
}

func grabPrimary(rect image.Rectangle) (raster.Raster, error) {
	w := int(getSystemMetric(smCxScreen))
	h := int(getSystemMetric(smCyScreen))
	if w <= 0 || h <= 0 {
		return raster.Raster{}, fmt.Errorf("%w: invalid screen size w=%d h=%d", ErrCapture, w, h)
	}
	r, err := clip(rect, image.Rect(0, 0, w, h))
	if err != nil {
		return raster.Raster{}, err
	}
	return captureRect(r)
}

func captureRect(r image.Rectangle) (raster.Raster, error) {
	w, h := r.Dx(), r.Dy()

	screenDC, _, callErr := procGetDC.Call(0)
	if screenDC == 0 {
		return raster.Raster{}, fmt.Errorf("%w: GetDC: %w", ErrCapture, callErr)
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, callErr := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return raster.Raster{}, fmt.Errorf("%w: CreateCompatibleDC: %w", ErrCapture, callErr)
	}
	defer procDeleteDC.Call(memDC)

	var bi bitmapInfo
	bi.Header.BiSize = uint32(unsafe.Sizeof(bi.Header))
	bi.Header.BiWidth = int32(w)
	bi.Header.BiHeight = -int32(h) // top-down
	bi.Header.BiPlanes = 1
	bi.Header.BiBitCount = 32
	bi.Header.BiCompression = biRgb
	bi.Header.BiSizeImage = uint32(w * h * 4)

	var bitsPtr unsafe.Pointer
	bmp, _, callErr := procCreateDIBSection.Call(memDC, uintptr(unsafe.Pointer(&bi)), dibRGBColors, uintptr(unsafe.Pointer(&bitsPtr)), 0, 0)
	if bmp == 0 {
		return raster.Raster{}, fmt.Errorf("%w: CreateDIBSection: %w", ErrCapture, callErr)
	}
	defer procDeleteObject.Call(bmp)

	prev, _, callErr := procSelectObject.Call(memDC, bmp)
	if prev == 0 || prev == ^uintptr(0) { // failure or GDI_ERROR
		return raster.Raster{}, fmt.Errorf("%w: SelectObject: %w", ErrCapture, callErr)
	}

	ok, _, callErr := procBitBlt.Call(memDC, 0, 0, uintptr(w), uintptr(h), screenDC, uintptr(r.Min.X), uintptr(r.Min.Y), srccopy)
	if ok == 0 {
		return raster.Raster{}, fmt.Errorf("%w: BitBlt %v: %w", ErrCapture, r, callErr)
	}

	pixLen := w * h * 4
	src := unsafe.Slice((*byte)(bitsPtr), pixLen)
	out := raster.New(uint32(w), uint32(h), raster.BGRA)
	copy(out.Data, src)
	// GDI leaves alpha undefined; force opaque.
	for i := 3; i < pixLen; i += 4 {
		out.Data[i] = 0xFF
	}
	return out, nil
}

func getSystemMetric(idx int) int32 {
	v, _, _ := procGetSystemMetrics.Call(uintptr(idx))
	return int32(v)
}
