package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// FromImage copies img into a 4-byte-per-pixel raster in the requested
// channel order. Alpha is non-premultiplied.
func FromImage(img image.Image, ct ColorType) Raster {
	if img == nil {
		return Raster{ColorType: ct, PixelWidth: 4}
	}
	// imaging.Clone always yields a tightly packed NRGBA anchored at (0,0).
	n := imaging.Clone(img)
	b := n.Bounds()
	r := Raster{
		Data:       n.Pix,
		Width:      uint32(b.Dx()),
		Height:     uint32(b.Dy()),
		ColorType:  RGBA,
		PixelWidth: 4,
	}
	if ct == BGRA {
		swapInPlace(r.Data, 4)
		r.ColorType = BGRA
	}
	return r
}

// FromRGBA wraps a tightly packed *image.RGBA without color conversion,
// which keeps screen pixels byte-exact. Padded strides are compacted.
func FromRGBA(img *image.RGBA, ct ColorType) Raster {
	if img == nil {
		return Raster{ColorType: ct, PixelWidth: 4}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(data[y*w*4:], src)
	}
	r := Raster{Data: data, Width: uint32(w), Height: uint32(h), ColorType: RGBA, PixelWidth: 4}
	if ct == BGRA {
		swapInPlace(r.Data, 4)
		r.ColorType = BGRA
	}
	return r
}

// ToNRGBA builds an RGBA-ordered image for encoders. Three-byte pixels get an
// opaque alpha; other pixel widths cannot be represented.
func (r Raster) ToNRGBA() (*image.NRGBA, error) {
	if len(r.Data) != r.Len() {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrLengthMismatch, len(r.Data), r.Len())
	}
	norm := NormalizeToRGBA(r)
	w, h := int(r.Width), int(r.Height)
	switch r.PixelWidth {
	case 4:
		return &image.NRGBA{Pix: norm.Data, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
	case 3:
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i, j := 0, 0; i < len(norm.Data); i, j = i+3, j+4 {
			out.Pix[j], out.Pix[j+1], out.Pix[j+2], out.Pix[j+3] = norm.Data[i], norm.Data[i+1], norm.Data[i+2], 0xFF
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d bytes per pixel", ErrPixelWidth, r.PixelWidth)
	}
}

func swapInPlace(buf []byte, pw int) {
	for i := 0; i+2 < len(buf); i += pw {
		buf[i], buf[i+2] = buf[i+2], buf[i]
	}
}
