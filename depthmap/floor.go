package depthmap

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

const (
	// floorNormalThreshold is the minimum |normal_y| for a pixel to count as
	// part of a horizontal surface, under the L1 normal normalization.
	floorNormalThreshold = 0.5
	// floorHeightThreshold is how far above the floor estimate (meters) a
	// horizontal pixel may sit and still be classified as floor.
	floorHeightThreshold = 0.1
)

// DetectFloor classifies every pixel against a floor estimate, the world
// height of the supporting surface in meters. Pixels with no smoothed depth
// measurement are INVALID; pixels whose surface normal is near-vertical and
// whose world height is close to the estimate are FLOOR. The floor test runs
// after the invalid marking, so a pixel next to missing data can still end
// as floor, but never as both.
func (m *Depthmap) DetectFloor(floor float64) *Mask {
	mask := NewMask(m.width, m.height)
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			if m.depthSmooth[m.index(x, y)] == 0 {
				mask.Set(x, y, MaskInvalid)
			}
		}
	}

	points := m.ProjectPoints(true)
	normals := points.Normals()
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			if math.Abs(normals.At(x, y).Y) > floorNormalThreshold &&
				points.At(x, y).Y-floor < floorHeightThreshold {
				mask.Set(x, y, MaskFloor)
			}
		}
	}
	return mask
}

// FloorLevel estimates the altitude of the floor in world coordinates as the
// median world height of every pixel with a near-vertical normal. The median
// keeps the estimate robust to partial floor visibility. An error is
// returned when no pixel qualifies, meaning the capture has no usable floor.
func (m *Depthmap) FloorLevel() (float64, error) {
	points := m.ProjectPoints(true)
	normals := points.Normals()

	var heights []float64
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			if math.Abs(normals.At(x, y).Y) > floorNormalThreshold {
				heights = append(heights, points.At(x, y).Y)
			}
		}
	}
	median, err := stats.Median(heights)
	if err != nil {
		return 0, errors.Wrap(err, "no floor candidates in capture")
	}
	return median, nil
}

// CameraFloorAngle returns the device tilt relative to a level floor in
// degrees, derived from the oriented projection of the center pixel.
func (m *Depthmap) CameraFloorAngle() float64 {
	points := m.ProjectPoints(false)
	center := points.At(m.width/2, m.height/2)
	return 90 + 180/math.Pi*math.Atan2(center.X, center.Y)
}
