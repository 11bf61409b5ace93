package depthmap

import (
	"github.com/golang/geo/r3"
)

// PointGrid is a pixel-indexed grid of 3D vectors, used both for oriented
// point clouds and for per-pixel surface normals.
type PointGrid struct {
	width  int
	height int
	pts    []r3.Vector
}

// NewPointGrid returns a zeroed grid of the given resolution.
func NewPointGrid(width, height int) *PointGrid {
	return &PointGrid{width: width, height: height, pts: make([]r3.Vector, width*height)}
}

// Width returns the pixel width of the grid.
func (g *PointGrid) Width() int {
	return g.width
}

// Height returns the pixel height of the grid.
func (g *PointGrid) Height() int {
	return g.height
}

// At returns the vector at a pixel.
func (g *PointGrid) At(x, y int) r3.Vector {
	return g.pts[x*g.height+y]
}

// Set stores a vector at a pixel.
func (g *PointGrid) Set(x, y int, v r3.Vector) {
	g.pts[x*g.height+y] = v
}

// ProjectPoint converts a pixel with depth into an unoriented metric point
// using the depth-sensor intrinsics, without applying the device pose.
func (m *Depthmap) ProjectPoint(x, y, depth float64) r3.Vector {
	tx := (x - m.cx) * depth / m.fx
	ty := (y - m.cy) * depth / m.fy
	return r3.Vector{X: tx, Y: ty, Z: depth}
}

// ProjectPoints converts every pixel into an oriented metric point: pinhole
// back-projection, then the device pose transform, then a perspective divide
// of x and y by |w|.
//
// The x component is negated before the pose transform and the y component
// is negated after the divide. The pixel grid is left-handed while the world
// frame is right-handed; both flips are required for the output orientation
// to match the sensor's pose convention.
func (m *Depthmap) ProjectPoints(smoothed bool) *PointGrid {
	depth := m.depth
	if smoothed {
		depth = m.depthSmooth
	}
	out := NewPointGrid(m.width, m.height)
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			d := depth[m.index(x, y)]
			tx := d * (float64(x) - m.cx) / m.fx
			ty := d * (float64(y) - m.cy) / m.fy
			px, py, pz, pw := m.pose.Apply(-tx, ty, d, 1)
			if pw < 0 {
				pw = -pw
			}
			px /= pw
			py /= pw
			out.Set(x, y, r3.Vector{X: px, Y: -py, Z: pz})
		}
	}
	return out
}

// UnprojectToPixel recovers the pixel coordinates of a metric point, the
// inverse of ProjectPoint. It is exposed for relating world or model points
// back to image space, e.g. for overlay rendering.
func (m *Depthmap) UnprojectToPixel(x, y, depth float64) (float64, float64, float64) {
	return m.calibration.Depth.PointToPixel(x, y, depth, m.width, m.height)
}
