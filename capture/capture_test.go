package capture

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestParseHeader(t *testing.T) {
	header, err := ParseHeader("240x180_0.001_7")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, header.Width, test.ShouldEqual, 240)
	test.That(t, header.Height, test.ShouldEqual, 180)
	test.That(t, header.DepthScale, test.ShouldAlmostEqual, 0.001)
	test.That(t, header.MaxConfidence, test.ShouldEqual, 7.0)
	test.That(t, header.Pose, test.ShouldBeNil)
}

func TestParseHeaderWithPose(t *testing.T) {
	header, err := ParseHeader("240x180_0.001_7_0_0_0_1_0.1_0.2_0.3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, header.Pose, test.ShouldNotBeNil)

	pos := header.Pose.Position()
	test.That(t, pos.X, test.ShouldAlmostEqual, 0.1)
	test.That(t, pos.Y, test.ShouldAlmostEqual, 0.2)
	test.That(t, pos.Z, test.ShouldAlmostEqual, 0.3)

	// identity rotation plus translation
	x, y, z, w := header.Pose.Apply(1, 2, 3, 1)
	test.That(t, x, test.ShouldAlmostEqual, 1.1)
	test.That(t, y, test.ShouldAlmostEqual, 2.2)
	test.That(t, z, test.ShouldAlmostEqual, 3.3)
	test.That(t, w, test.ShouldEqual, 1.0)
}

func TestParseHeaderErrors(t *testing.T) {
	for _, line := range []string{
		"240x180_0.001",
		"240x180_0.001_7_0_0",
		"240_0.001_7",
		"240xABC_0.001_7",
		"0x180_0.001_7",
		"240x180_abc_7",
		"240x180_0.001_abc",
		"240x180_0.001_7_0_0_x_1_0.1_0.2_0.3",
	} {
		_, err := ParseHeader(line)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestSplitRaw(t *testing.T) {
	raw := append([]byte("2x2_0.001_7\n"), make([]byte, 2*2*3)...)
	header, body, err := SplitRaw(raw)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, header.Width, test.ShouldEqual, 2)
	test.That(t, len(body), test.ShouldEqual, 12)
}

func TestSplitRawErrors(t *testing.T) {
	_, _, err := SplitRaw([]byte("2x2_0.001_7"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no header")

	_, _, err = SplitRaw(append([]byte("2x2_0.001_7\n"), make([]byte, 5)...))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "want 12")
}

func writeDepthArchive(t *testing.T, dir string, contents []byte) string {
	t.Helper()
	depthDir := filepath.Join(dir, "depth")
	test.That(t, os.MkdirAll(depthDir, 0o755), test.ShouldBeNil)

	path := filepath.Join(depthDir, "depth_dog_1234.depth")
	f, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	zw := zip.NewWriter(f)
	entry, err := zw.Create("data")
	test.That(t, err, test.ShouldBeNil)
	_, err = entry.Write(contents)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, zw.Close(), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)
	return path
}

func TestExtractDepth(t *testing.T) {
	dir := t.TempDir()
	contents := []byte("4x4_0.001_7\nsome binary payload")
	path := writeDepthArchive(t, dir, contents)

	raw, err := ExtractDepth(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raw, test.ShouldResemble, contents)
}

func TestExtractDepthMissing(t *testing.T) {
	_, err := ExtractDepth(filepath.Join(t.TempDir(), "nope.depth"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot open capture archive")
}

const testCalibration = `Color camera intrinsic:
1 1 0.5 0.5
Depth camera intrinsic:
1 1 0.5 0.5
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	body := make([]byte, 4*4*3)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			off := (y*4 + x) * 3
			body[off] = 0x07 // 0x07d0 = 2000mm
			body[off+1] = 0xd0
			body[off+2] = 7
		}
	}
	raw := append([]byte("4x4_0.001_7\n"), body...)
	writeDepthArchive(t, dir, raw)

	calPath := filepath.Join(dir, "camera_calibration.txt")
	test.That(t, os.WriteFile(calPath, []byte(testCalibration), 0o644), test.ShouldBeNil)

	logger := golog.NewTestLogger(t)
	dm, err := Load(dir, "depth_dog_1234.depth", "", calPath, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm.Width(), test.ShouldEqual, 4)
	test.That(t, dm.Height(), test.ShouldEqual, 4)
	test.That(t, dm.DepthAt(2, 2), test.ShouldAlmostEqual, 2.0)
	test.That(t, dm.DepthAt(0, 2), test.ShouldEqual, 0.0)
	test.That(t, dm.HasConfidence(), test.ShouldBeTrue)
	test.That(t, dm.ConfidenceAt(1, 1), test.ShouldAlmostEqual, 1.0)
	test.That(t, dm.HasRGB(), test.ShouldBeFalse)
}

func TestLoadBadCalibration(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir, "x.depth", "", filepath.Join(dir, "missing.txt"), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "calibration")
}
