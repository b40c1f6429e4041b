package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Raster
		want error
	}{
		{"ok", New(2, 3, RGBA), nil},
		{"empty is structurally fine", Raster{ColorType: BGRA, PixelWidth: 4}, nil},
		{"short buffer", Raster{Data: make([]byte, 7), Width: 2, Height: 1, PixelWidth: 4}, ErrLengthMismatch},
		{"two channels", Raster{Data: make([]byte, 4), Width: 2, Height: 1, PixelWidth: 2}, ErrPixelWidth},
		{"zero pixel width", Raster{Width: 1, Height: 1}, ErrPixelWidth},
		{"bad color type", Raster{Data: make([]byte, 4), Width: 1, Height: 1, PixelWidth: 4, ColorType: 9}, ErrColorType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeToRGBA_SwapsRedAndBlue(t *testing.T) {
	in := Raster{
		Data:       []byte{1, 2, 3, 4, 5, 6, 7, 8},
		Width:      2,
		Height:     1,
		ColorType:  BGRA,
		PixelWidth: 4,
	}
	out := NormalizeToRGBA(in)
	assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, out.Data)
	assert.Equal(t, RGBA, out.ColorType)
	assert.Equal(t, uint8(4), out.PixelWidth)
	// input untouched
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, in.Data)
}

func TestNormalizeToRGBA_CopiesRGBA(t *testing.T) {
	in := Raster{Data: []byte{1, 2, 3, 4}, Width: 1, Height: 1, ColorType: RGBA, PixelWidth: 4}
	out := NormalizeToRGBA(in)
	require.Equal(t, in.Data, out.Data)
	out.Data[0] = 99
	assert.Equal(t, byte(1), in.Data[0], "normalized raster must not alias input")
}

func TestToBGRA_RoundTrip(t *testing.T) {
	in := Raster{Data: []byte{10, 20, 30, 255, 40, 50, 60, 128}, Width: 1, Height: 2, ColorType: RGBA, PixelWidth: 4}
	bgra := ToBGRA(in)
	assert.Equal(t, BGRA, bgra.ColorType)
	assert.Equal(t, []byte{30, 20, 10, 255, 60, 50, 40, 128}, bgra.Data)
	assert.Equal(t, in.Data, NormalizeToRGBA(bgra).Data)
}

func TestNormalize_ThreeBytePixels(t *testing.T) {
	in := Raster{Data: []byte{1, 2, 3, 4, 5, 6}, Width: 2, Height: 1, ColorType: BGRA, PixelWidth: 3}
	out := NormalizeToRGBA(in)
	assert.Equal(t, []byte{3, 2, 1, 6, 5, 4}, out.Data)
}

func TestFromImage_ChannelOrder(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	rgba := FromImage(img, RGBA)
	require.NoError(t, rgba.Validate())
	assert.Equal(t, []byte{200, 100, 50, 255, 1, 2, 3, 255}, rgba.Data)

	bgra := FromImage(img, BGRA)
	assert.Equal(t, BGRA, bgra.ColorType)
	assert.Equal(t, []byte{50, 100, 200, 255, 3, 2, 1, 255}, bgra.Data)
}

func TestFromRGBA_CompactsSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(2, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	sub := img.SubImage(image.Rect(2, 1, 4, 3)).(*image.RGBA)

	r := FromRGBA(sub, BGRA)
	require.NoError(t, r.Validate())
	assert.Equal(t, uint32(2), r.Width)
	assert.Equal(t, uint32(2), r.Height)
	assert.Equal(t, []byte{7, 8, 9, 255}, r.Data[:4])
}

func TestToNRGBA(t *testing.T) {
	bgra := Raster{Data: []byte{3, 2, 1, 255}, Width: 1, Height: 1, ColorType: BGRA, PixelWidth: 4}
	img, err := bgra.ToNRGBA()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, img.NRGBAAt(0, 0))

	rgb := Raster{Data: []byte{1, 2, 3}, Width: 1, Height: 1, ColorType: RGBA, PixelWidth: 3}
	img, err = rgb.ToNRGBA()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, img.NRGBAAt(0, 0))

	_, err = Raster{Data: make([]byte, 3), Width: 1, Height: 1, PixelWidth: 4}.ToNRGBA()
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
