package depthmap

// smoothDepth applies a 5-point cross-shaped mean filter over a depth grid.
// A pixel keeps a value only if it and all four direct neighbors carry a
// measurement; pixels at the frame edge have an out-of-bounds neighbor and
// are therefore always zero. Smoothing never manufactures depth at the
// border of missing data.
func smoothDepth(depth []float64, width, height int) []float64 {
	out := make([]float64, len(depth))
	for x := 1; x < width-1; x++ {
		for y := 1; y < height-1; y++ {
			center := depth[x*height+y]
			left := depth[(x-1)*height+y]
			right := depth[(x+1)*height+y]
			up := depth[x*height+y-1]
			down := depth[x*height+y+1]
			if center == 0 || left == 0 || right == 0 || up == 0 || down == 0 {
				continue
			}
			out[x*height+y] = (center + left + right + up + down) / 5.0
		}
	}
	return out
}
