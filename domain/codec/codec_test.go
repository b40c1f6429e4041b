package codec

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/ultron-go/domain/raster"
)

func checker(w, h uint32) raster.Raster {
	r := raster.New(w, h, raster.RGBA)
	for i := 0; i < len(r.Data); i += 4 {
		p := byte(i / 4)
		r.Data[i], r.Data[i+1], r.Data[i+2], r.Data[i+3] = p, 255-p, p/2, 255
	}
	return r
}

func TestSaveLoad_RoundTripPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	in := checker(5, 3)
	require.NoError(t, Save(in, path, DefaultOptions()))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, raster.RGBA, out.ColorType)
	assert.Equal(t, uint8(4), out.PixelWidth)
	assert.Equal(t, in.Width, out.Width)
	assert.Equal(t, in.Height, out.Height)
	assert.Equal(t, in.Data, out.Data)
}

func TestSave_BGRAIsNormalized(t *testing.T) {
	dir := t.TempDir()
	rgba := checker(4, 4)
	bgra := raster.ToBGRA(rgba)

	require.NoError(t, Save(rgba, filepath.Join(dir, "a.png"), DefaultOptions()))
	require.NoError(t, Save(bgra, filepath.Join(dir, "b.png"), DefaultOptions()))

	a, err := Load(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	b, err := Load(filepath.Join(dir, "b.png"))
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
	// the caller's raster is left alone
	assert.Equal(t, raster.ToBGRA(rgba).Data, bgra.Data)
}

func TestSaveLoad_OtherFormats(t *testing.T) {
	for _, name := range []string{"x.bmp", "x.tiff", "x.gif", "x.jpg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(checker(8, 6), path, Options{JPEGQuality: 80}))
			out, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, uint32(8), out.Width)
			assert.Equal(t, uint32(6), out.Height)
			assert.NoError(t, out.Validate())
		})
	}
}

func TestLoad_GrayBecomesFourChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	g := image.NewGray(image.Rect(0, 0, 2, 1))
	g.SetGray(0, 0, color.Gray{Y: 10})
	g.SetGray(1, 0, color.Gray{Y: 200})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, g))
	require.NoError(t, f.Close())

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), out.PixelWidth)
	assert.Equal(t, []byte{10, 10, 10, 255, 200, 200, 200, 255}, out.Data)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrOpen)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestSave_Errors(t *testing.T) {
	dir := t.TempDir()

	short := raster.Raster{Data: make([]byte, 5), Width: 2, Height: 1, ColorType: raster.RGBA, PixelWidth: 4}
	err := Save(short, filepath.Join(dir, "short.png"), DefaultOptions())
	assert.ErrorIs(t, err, ErrBuffer)

	err = Save(checker(1, 1), filepath.Join(dir, "out.unknown"), DefaultOptions())
	assert.ErrorIs(t, err, ErrSave)

	err = Save(checker(1, 1), filepath.Join(dir, "no", "such", "dir.png"), DefaultOptions())
	assert.ErrorIs(t, err, ErrSave)
}
