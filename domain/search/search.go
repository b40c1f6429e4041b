package search

import (
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/soocke/ultron-go/domain/raster"
)

// Options configures SearchWithOptions.
type Options struct {
	// Workers is the number of goroutines rows are striped across. Values
	// below 2 select the serial scan.
	Workers int
	// MinParallelWork is the candidate-count times target-pixel-count below
	// which the serial scan is used even when Workers > 1.
	MinParallelWork int64
}

// DefaultOptions stripes large searches across GOMAXPROCS workers.
func DefaultOptions() Options {
	return Options{Workers: runtime.GOMAXPROCS(0), MinParallelWork: 1 << 18}
}

// Search returns the top-left position of the first occurrence of target in
// source, scanning rows top to bottom and each row left to right. A variant of
// 0 requires exact RGB equality; any other value accepts each channel within
// [max(0, s-variant), min(255, s+variant)], so negative variants never match.
//
// The source is read as B,G,R and the target as R,G,B: the usual pairing is a
// BGRA screen capture searched for an RGBA decoded image. ColorType is not
// consulted. Both rasters must carry at least three channels per pixel and a
// Data length consistent with their dimensions; callers validate that.
func Search(source, target raster.Raster, variant int32) (raster.Point, bool) {
	return SearchWithOptions(source, target, variant, Options{Workers: 1})
}

// SearchWithOptions is Search with optional row-striped parallelism. The
// result is identical to the serial scan.
func SearchWithOptions(source, target raster.Raster, variant int32, opts Options) (raster.Point, bool) {
	m, ok := newMatcher(source, target, variant)
	if !ok {
		return raster.Point{}, false
	}
	rows := m.sh - m.th + 1
	workers := min(opts.Workers, rows)
	if workers < 2 || m.work() < opts.MinParallelWork {
		idx := m.scanRows(0, 1, nil)
		return m.point(idx)
	}
	return m.point(m.parallel(workers))
}

type matcher struct {
	src, tgt []byte
	sw, sh   int
	tw, th   int
	spw, tpw int
	exact    bool
	v        int64
}

func newMatcher(source, target raster.Raster, variant int32) (*matcher, bool) {
	if source.Empty() || target.Empty() {
		return nil, false
	}
	if target.Width > source.Width || target.Height > source.Height {
		return nil, false
	}
	// The tolerance interval [s-v, s+v] is empty for every pixel.
	if variant < 0 {
		return nil, false
	}
	return &matcher{
		src:   source.Data,
		tgt:   target.Data,
		sw:    int(source.Width),
		sh:    int(source.Height),
		tw:    int(target.Width),
		th:    int(target.Height),
		spw:   int(source.PixelWidth),
		tpw:   int(target.PixelWidth),
		exact: variant == 0,
		v:     int64(variant),
	}, true
}

// work estimates the worst-case pixel comparisons.
func (m *matcher) work() int64 {
	candidates := int64(m.sw-m.tw+1) * int64(m.sh-m.th+1)
	return candidates * int64(m.tw) * int64(m.th)
}

func (m *matcher) point(idx int64) (raster.Point, bool) {
	if idx == math.MaxInt64 {
		return raster.Point{}, false
	}
	return raster.Point{X: uint32(idx % int64(m.sw)), Y: uint32(idx / int64(m.sw))}, true
}

// pixel compares the source pixel at byte offset so with the target pixel at to.
func (m *matcher) pixel(so, to int) bool {
	s, t := m.src, m.tgt
	if m.exact {
		return s[so+2] == t[to] && s[so+1] == t[to+1] && s[so] == t[to+2]
	}
	return within(s[so+2], t[to], m.v) &&
		within(s[so+1], t[to+1], m.v) &&
		within(s[so], t[to+2], m.v)
}

func within(s, t byte, v int64) bool {
	low := max(0, int64(s)-v)
	high := min(255, int64(s)+v)
	tc := int64(t)
	return low <= tc && tc <= high
}

// candidate reports whether the whole target matches with its top-left at (sx, sy).
func (m *matcher) candidate(sx, sy int) bool {
	for ty := 0; ty < m.th; ty++ {
		so := ((sy+ty)*m.sw + sx) * m.spw
		to := ty * m.tw * m.tpw
		for tx := 0; tx < m.tw; tx++ {
			if !m.pixel(so, to) {
				return false
			}
			so += m.spw
			to += m.tpw
		}
	}
	return true
}

// scanRows scans candidate rows start, start+step, ... and returns the
// row-major index sy*sw+sx of the first match, or math.MaxInt64. With a shared
// best it publishes its match and stops once every remaining candidate lies
// past the best index found so far.
func (m *matcher) scanRows(start, step int, best *atomic.Int64) int64 {
	lastX, lastY := m.sw-m.tw, m.sh-m.th
	for sy := start; sy <= lastY; sy += step {
		rowBase := int64(sy) * int64(m.sw)
		if best != nil && rowBase > best.Load() {
			break
		}
		so := sy * m.sw * m.spw
		for sx := 0; sx <= lastX; sx++ {
			// First-pixel screen before the full window scan.
			if m.pixel(so, 0) && m.candidate(sx, sy) {
				idx := rowBase + int64(sx)
				if best != nil {
					publish(best, idx)
				}
				return idx
			}
			so += m.spw
		}
	}
	return math.MaxInt64
}

func publish(best *atomic.Int64, idx int64) {
	for {
		cur := best.Load()
		if idx >= cur || best.CompareAndSwap(cur, idx) {
			return
		}
	}
}

// parallel stripes candidate rows across workers (row y goes to worker
// y%workers) and keeps the smallest row-major index any worker finds.
func (m *matcher) parallel(workers int) int64 {
	var best atomic.Int64
	best.Store(math.MaxInt64)
	var g errgroup.Group
	for k := range workers {
		g.Go(func() error {
			m.scanRows(k, workers, &best)
			return nil
		})
	}
	_ = g.Wait()
	return best.Load()
}
