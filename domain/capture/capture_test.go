package capture

import (
	"errors"
	"image"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/ultron-go/domain/raster"
)

func TestRegion_Rect(t *testing.T) {
	tests := []struct {
		name string
		in   Region
		want image.Rectangle
		err  bool
	}{
		{"integral", Region{X: 10, Y: 20, Width: 30, Height: 40}, image.Rect(10, 20, 40, 60), false},
		{"fractional widens", Region{X: 0.5, Y: 1.2, Width: 2, Height: 2.1}, image.Rect(0, 1, 3, 4), false},
		{"negative origin", Region{X: -5, Y: -5, Width: 5, Height: 5}, image.Rect(-5, -5, 0, 0), false},
		{"zero width", Region{Width: 0, Height: 10}, image.Rectangle{}, true},
		{"negative height", Region{Width: 10, Height: -1}, image.Rectangle{}, true},
		{"nan", Region{X: math.NaN(), Width: 1, Height: 1}, image.Rectangle{}, true},
		{"inf", Region{Width: math.Inf(1), Height: 1}, image.Rectangle{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Rect()
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidRegion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClip(t *testing.T) {
	screen := image.Rect(0, 0, 100, 50)
	got, err := clip(image.Rect(90, 40, 120, 80), screen)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(90, 40, 100, 50), got)

	_, err = clip(image.Rect(200, 200, 210, 210), screen)
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

type fakeScreen struct {
	calls atomic.Int64
	fail  atomic.Bool
}

func (f *fakeScreen) Capture(region Region, display *uint32) (raster.Raster, error) {
	f.calls.Add(1)
	if f.fail.Load() {
		return raster.Raster{}, errors.New("no x server")
	}
	return raster.New(uint32(region.Width), uint32(region.Height), raster.BGRA), nil
}

func (f *fakeScreen) ActiveDisplayCount() (uint32, error) { return 1, nil }

func TestCaptureService_PollsAndStops(t *testing.T) {
	screen := &fakeScreen{}
	svc := NewCaptureService(screen, Region{Width: 4, Height: 2}, nil, time.Millisecond, nil)
	assert.False(t, svc.Running())
	assert.Equal(t, FrameSnapshot{}, svc.LatestFrame())

	svc.Start()
	svc.Start() // idempotent
	require.Eventually(t, func() bool { return svc.LatestFrame().Sequence >= 3 }, time.Second, time.Millisecond)
	svc.Stop()
	svc.Stop()
	assert.False(t, svc.Running())

	snap := svc.LatestFrame()
	assert.Equal(t, uint32(4), snap.Frame.Width)
	assert.Equal(t, raster.BGRA, snap.Frame.ColorType)
	assert.False(t, snap.CapturedAt.IsZero())

	calls := screen.calls.Load()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, calls, screen.calls.Load(), "no captures after Stop")

	st := svc.Stats()
	assert.GreaterOrEqual(t, st.Captures, uint64(3))
	assert.Equal(t, uint64(0), st.Skipped)
	assert.Equal(t, snap.Sequence, st.Sequence)
}

func TestCaptureService_CountsFailures(t *testing.T) {
	screen := &fakeScreen{}
	screen.fail.Store(true)
	svc := NewCaptureService(screen, Region{Width: 1, Height: 1}, nil, time.Millisecond, nil)
	svc.Start()
	require.Eventually(t, func() bool { return svc.Stats().Skipped >= 2 }, time.Second, time.Millisecond)
	svc.Stop()
	assert.Equal(t, uint64(0), svc.Stats().Captures)
	assert.Equal(t, FrameSnapshot{}, svc.LatestFrame())
}

func TestCaptureService_Restart(t *testing.T) {
	screen := &fakeScreen{}
	svc := NewCaptureService(screen, Region{Width: 1, Height: 1}, nil, time.Millisecond, nil)
	svc.Start()
	svc.Stop()
	first := svc.LatestFrame().Sequence
	svc.Start()
	require.Eventually(t, func() bool { return svc.LatestFrame().Sequence > first }, time.Second, time.Millisecond)
	svc.Stop()
}
