package dispatch

import (
	"sync"

	"github.com/soocke/ultron-go/domain/raster"
)

// Rasters handed to a worker are copied into pooled buffers so the host can
// keep mutating its own slices. The copy belongs to the worker alone, which
// makes it safe to recycle once the task has returned. Buffers that are never
// released are simply collected.

var bufPool sync.Pool // stores *[]byte

func acquireBuf(n int) *[]byte {
	if v := bufPool.Get(); v != nil {
		buf := v.(*[]byte)
		if cap(*buf) >= n {
			*buf = (*buf)[:n]
			return buf
		}
	}
	buf := make([]byte, n)
	return &buf
}

// Snapshot returns a private copy of r and a release func that recycles its
// buffer. The copy must not be used after release.
func Snapshot(r raster.Raster) (raster.Raster, func()) {
	if len(r.Data) == 0 {
		return r, func() {}
	}
	buf := acquireBuf(len(r.Data))
	copy(*buf, r.Data)
	out := r
	out.Data = *buf
	var once sync.Once
	return out, func() {
		once.Do(func() { bufPool.Put(buf) })
	}
}
