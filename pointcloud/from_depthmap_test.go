package pointcloud

import (
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/childgrowthmonitor/depthmap-toolkit/depthmap"
	"github.com/childgrowthmonitor/depthmap-toolkit/transform"
)

func testCalibration() *transform.Calibration {
	in := transform.Intrinsics{Fx: 1, Fy: 1, Cx: 0.5, Cy: 0.5}
	return &transform.Calibration{Color: in, Depth: in}
}

func uniformGrid(width, height int, d float64) []float64 {
	grid := make([]float64, width*height)
	for i := range grid {
		grid[i] = d
	}
	return grid
}

func TestFromDepthmap(t *testing.T) {
	dm, err := depthmap.NewFromArray(uniformGrid(4, 4, 2.0), 4, 4, testCalibration(), nil)
	test.That(t, err, test.ShouldBeNil)

	cloud := FromDepthmap(dm)
	test.That(t, cloud.Size(), test.ShouldEqual, 16)
	test.That(t, cloud.MetaData().HasColor, test.ShouldBeFalse)
	test.That(t, cloud.MetaData().HasValue, test.ShouldBeFalse)
	test.That(t, cloud.MetaData().MaxZ, test.ShouldEqual, 2.0)
	test.That(t, cloud.MetaData().MinZ, test.ShouldEqual, 2.0)
}

func TestFromDepthmapSkipsUnmeasured(t *testing.T) {
	grid := uniformGrid(4, 4, 2.0)
	// grid layout is column major, index x*height+y
	grid[1*4+2] = 0
	grid[3*4+3] = 0
	dm, err := depthmap.NewFromArray(grid, 4, 4, testCalibration(), nil)
	test.That(t, err, test.ShouldBeNil)

	cloud := FromDepthmap(dm)
	test.That(t, cloud.Size(), test.ShouldEqual, 14)
}

func TestFromDepthmapWithConfidence(t *testing.T) {
	raw := make([]byte, 4*4*3)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			off := (y*4 + x) * 3
			raw[off] = 0x03 // 0x03e8 = 1000mm
			raw[off+1] = 0xe8
			raw[off+2] = 7
		}
	}
	dm, err := depthmap.New(depthmap.Config{
		Width: 4, Height: 4,
		Calibration: testCalibration(),
		Raw:         raw,
	})
	test.That(t, err, test.ShouldBeNil)

	cloud := FromDepthmap(dm)
	// the first row and column decode to zero depth and are skipped
	test.That(t, cloud.Size(), test.ShouldEqual, 9)
	test.That(t, cloud.MetaData().HasValue, test.ShouldBeTrue)
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		test.That(t, d.Value(), test.ShouldEqual, 100)
		return true
	})
}

func TestFromDepthmapWithRGB(t *testing.T) {
	rgb := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			rgb.SetNRGBA(x, y, color.NRGBA{200, 100, 50, 255})
		}
	}
	dm, err := depthmap.New(depthmap.Config{
		Width: 4, Height: 4,
		Calibration: testCalibration(),
		Depth:       uniformGrid(4, 4, 2.0),
		RGB:         rgb,
	})
	test.That(t, err, test.ShouldBeNil)

	cloud := FromDepthmap(dm)
	test.That(t, cloud.Size(), test.ShouldEqual, 16)
	test.That(t, cloud.MetaData().HasColor, test.ShouldBeTrue)
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		r, g, b := d.RGB255()
		test.That(t, r, test.ShouldEqual, 200)
		test.That(t, g, test.ShouldEqual, 100)
		test.That(t, b, test.ShouldEqual, 50)
		return true
	})
}

func TestChildCloud(t *testing.T) {
	dm, err := depthmap.NewFromArray(uniformGrid(4, 4, 2.0), 4, 4, testCalibration(), nil)
	test.That(t, err, test.ShouldBeNil)

	mask := depthmap.NewMask(4, 4)
	mask.Set(3, 1, depthmap.MaskChild)
	mask.Set(1, 1, depthmap.MaskChild)
	mask.Set(2, 2, depthmap.MaskFloor)

	cloud := ChildCloud(dm, mask)
	test.That(t, cloud.Size(), test.ShouldEqual, 2)

	// fx=fy=4, cx=cy=2 and an identity device pose
	found := false
	cloud.Iterate(func(p r3.Vector, d Data) bool {
		if p.X == -0.5 {
			found = true
			test.That(t, p.Y, test.ShouldAlmostEqual, 0.5)
			test.That(t, p.Z, test.ShouldEqual, 2.0)
		}
		return true
	})
	test.That(t, found, test.ShouldBeTrue)
}
