package raster

// NormalizeToRGBA returns a copy of r in RGBA order. BGRA input has bytes 0
// and 2 of every pixel swapped; PixelWidth is kept.
func NormalizeToRGBA(r Raster) Raster {
	if r.ColorType == RGBA {
		return r.Clone()
	}
	out := swapRB(r)
	out.ColorType = RGBA
	return out
}

// ToBGRA is the inverse of NormalizeToRGBA.
func ToBGRA(r Raster) Raster {
	if r.ColorType == BGRA {
		return r.Clone()
	}
	out := swapRB(r)
	out.ColorType = BGRA
	return out
}

func swapRB(r Raster) Raster {
	out := r.Clone()
	if r.PixelWidth >= MinChannels {
		swapInPlace(out.Data, int(r.PixelWidth))
	}
	return out
}
