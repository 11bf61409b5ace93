package transform

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// DevicePose is the position and rotation of the capture device in world
// space, stored as a row-major 4x4 homogeneous transform.
type DevicePose struct {
	m *mat.Dense
}

// IdentityPose returns the pose of a device sitting at the world origin with
// no rotation. Captures without pose metadata use this.
func IdentityPose() *DevicePose {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return &DevicePose{m: m}
}

// NewDevicePose builds a pose from the capture header's rotation quaternion
// and translation. The quaternion is normalized before use.
func NewDevicePose(rotation quat.Number, position r3.Vector) *DevicePose {
	q := rotation
	if l := quat.Abs(q); l != 0 {
		q = quat.Scale(1/l, q)
	}
	x, y, z, w := q.Imag, q.Jmag, q.Kmag, q.Real

	m := mat.NewDense(4, 4, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), position.X,
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), position.Y,
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), position.Z,
		0, 0, 0, 1,
	})
	return &DevicePose{m: m}
}

// NewDevicePoseFromMatrix builds a pose from an existing row-major 4x4
// transform.
func NewDevicePoseFromMatrix(m *mat.Dense) *DevicePose {
	out := mat.NewDense(4, 4, nil)
	out.Copy(m)
	return &DevicePose{m: out}
}

// Matrix returns a copy of the underlying transform.
func (p *DevicePose) Matrix() *mat.Dense {
	out := mat.NewDense(4, 4, nil)
	out.Copy(p.m)
	return out
}

// Apply multiplies the transform with a homogeneous point.
func (p *DevicePose) Apply(x, y, z, w float64) (float64, float64, float64, float64) {
	m := p.m
	ox := m.At(0, 0)*x + m.At(0, 1)*y + m.At(0, 2)*z + m.At(0, 3)*w
	oy := m.At(1, 0)*x + m.At(1, 1)*y + m.At(1, 2)*z + m.At(1, 3)*w
	oz := m.At(2, 0)*x + m.At(2, 1)*y + m.At(2, 2)*z + m.At(2, 3)*w
	ow := m.At(3, 0)*x + m.At(3, 1)*y + m.At(3, 2)*z + m.At(3, 3)*w
	return ox, oy, oz, ow
}

// Position returns the device translation in world space.
func (p *DevicePose) Position() r3.Vector {
	return r3.Vector{X: p.m.At(0, 3), Y: p.m.At(1, 3), Z: p.m.At(2, 3)}
}
