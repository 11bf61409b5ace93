// Package pointcloud holds the point-cloud container the toolkit exports
// reconstructions into, and its PCD serialization for downstream model
// training.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// NewVector convenience method for creating a vector.
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	HasColor bool
	HasValue bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData returns a new MetaData.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64, MaxX: -math.MaxFloat64,
		MinY: math.MaxFloat64, MaxY: -math.MaxFloat64,
		MinZ: math.MaxFloat64, MaxZ: -math.MaxFloat64,
	}
}

// Merge merges in a point to the meta data.
func (meta *MetaData) Merge(v r3.Vector, data Data) {
	if data != nil {
		if data.HasColor() {
			meta.HasColor = true
		}
		if data.HasValue() {
			meta.HasValue = true
		}
	}
	if v.X > meta.MaxX {
		meta.MaxX = v.X
	}
	if v.Y > meta.MaxY {
		meta.MaxY = v.Y
	}
	if v.Z > meta.MaxZ {
		meta.MaxZ = v.Z
	}
	if v.X < meta.MinX {
		meta.MinX = v.X
	}
	if v.Y < meta.MinY {
		meta.MinY = v.Y
	}
	if v.Z < meta.MinZ {
		meta.MinZ = v.Z
	}
}

// PointAndData is a tuple of a point position and its data.
type PointAndData struct {
	P r3.Vector
	D Data
}

// PointCloud is a slice-backed container of points in capture order.
type PointCloud struct {
	points []PointAndData
	meta   MetaData
}

// New returns an empty PointCloud.
func New() *PointCloud {
	return NewWithPrealloc(0)
}

// NewWithPrealloc returns an empty, preallocated PointCloud.
func NewWithPrealloc(size int) *PointCloud {
	return &PointCloud{
		points: make([]PointAndData, 0, size),
		meta:   NewMetaData(),
	}
}

// Size returns the number of points in the cloud.
func (cloud *PointCloud) Size() int {
	return len(cloud.points)
}

// MetaData returns the meta data.
func (cloud *PointCloud) MetaData() MetaData {
	return cloud.meta
}

// Add appends the given point to the cloud.
func (cloud *PointCloud) Add(p r3.Vector, d Data) {
	cloud.points = append(cloud.points, PointAndData{P: p, D: d})
	cloud.meta.Merge(p, d)
}

// Iterate iterates over all points in the cloud and calls the given function
// for each point. If the supplied function returns false, iteration stops.
func (cloud *PointCloud) Iterate(fn func(p r3.Vector, d Data) bool) {
	for _, pd := range cloud.points {
		if !fn(pd.P, pd.D) {
			return
		}
	}
}
