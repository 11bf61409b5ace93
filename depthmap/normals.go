package depthmap

import (
	"math"

	"github.com/golang/geo/r3"
)

// Normals estimates a per-pixel surface normal from finite differences: for
// every interior pixel the cross product of the edge vectors toward its
// (x-1, y) and (x, y-1) neighbors. The first row and column keep a zero
// normal.
//
// Normals are normalized under an L1 norm, |nx|+|ny|+|nz| = 1. The floor
// thresholds downstream are calibrated against this norm; do not switch it
// to Euclidean.
func (g *PointGrid) Normals() *PointGrid {
	out := NewPointGrid(g.width, g.height)
	for x := 1; x < g.width; x++ {
		for y := 1; y < g.height; y++ {
			center := g.At(x, y)
			u := center.Sub(g.At(x-1, y))
			v := center.Sub(g.At(x, y-1))
			out.Set(x, y, normalizeL1(u.Cross(v)))
		}
	}
	return out
}

func normalizeL1(v r3.Vector) r3.Vector {
	l := math.Abs(v.X) + math.Abs(v.Y) + math.Abs(v.Z)
	if l == 0 {
		return r3.Vector{}
	}
	return r3.Vector{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}
