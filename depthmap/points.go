package depthmap

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// HighestPoint returns the oriented 3D point with the greatest world height
// among the pixels labeled as the child subject. Callers must only ask after
// confirming the mask contains a child; an empty mask is a contract
// violation for the capture and is surfaced as an error.
func (m *Depthmap) HighestPoint(mask *Mask) (r3.Vector, error) {
	points := m.ProjectPoints(false)

	var best r3.Vector
	found := false
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			if mask.At(x, y) != MaskChild {
				continue
			}
			p := points.At(x, y)
			if !found || p.Y > best.Y {
				best = p
				found = true
			}
		}
	}
	if !found {
		return r3.Vector{}, errors.New("mask contains no child pixels")
	}
	return best, nil
}
