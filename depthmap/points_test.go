package depthmap

import (
	"testing"

	"go.viam.com/test"
)

func TestHighestPoint(t *testing.T) {
	grid := gridFromFunc(8, 8, func(x, y int) float64 { return 2.0 })
	m, err := NewFromArray(grid, 8, 8, centeredCalibration(), nil)
	test.That(t, err, test.ShouldBeNil)

	mask := NewMask(8, 8)
	mask.Set(3, 2, MaskChild)
	mask.Set(3, 5, MaskChild)

	// fx=fy=8, cx=cy=4; world y = -(y-4)*d/8, so the y=2 pixel is higher
	highest, err := m.HighestPoint(mask)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, highest.Y, test.ShouldAlmostEqual, 2.0*2.0/8)
	test.That(t, highest.Z, test.ShouldEqual, 2.0)

	// pixels outside the child mask never win, even when higher
	mask.Set(3, 2, MaskUnclassified)
	highest, err = m.HighestPoint(mask)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, highest.Y, test.ShouldAlmostEqual, -(5.0-4.0)*2.0/8)
}

func TestHighestPointEmptyMask(t *testing.T) {
	grid := gridFromFunc(4, 4, func(x, y int) float64 { return 2.0 })
	m, err := NewFromArray(grid, 4, 4, centeredCalibration(), nil)
	test.That(t, err, test.ShouldBeNil)

	_, err = m.HighestPoint(NewMask(4, 4))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no child")
}

func TestMaskLabels(t *testing.T) {
	mask := NewMask(3, 3)
	test.That(t, mask.Count(MaskUnclassified), test.ShouldEqual, 9)

	mask.Set(1, 1, MaskFloor)
	mask.Set(2, 2, -1)
	test.That(t, mask.At(1, 1), test.ShouldEqual, MaskFloor)
	test.That(t, mask.Count(MaskUnclassified), test.ShouldEqual, 7)

	changed := mask.Relabel(-1, MaskChild)
	test.That(t, changed, test.ShouldEqual, 1)
	test.That(t, mask.At(2, 2), test.ShouldEqual, MaskChild)
	test.That(t, mask.Relabel(-1, MaskChild), test.ShouldEqual, 0)
}
