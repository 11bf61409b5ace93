// Package main is a command that reconstructs a single depth capture,
// segments the child subject, and writes out the point cloud plus visual
// diagnostics.
package main

import (
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/childgrowthmonitor/depthmap-toolkit/capture"
	"github.com/childgrowthmonitor/depthmap-toolkit/depthmap"
	"github.com/childgrowthmonitor/depthmap-toolkit/pointcloud"
)

func main() {
	captureDir := flag.String("capture", "", "capture directory containing depth/ and optionally rgb/")
	depthName := flag.String("depth", "", "name of the depth entry under <capture>/depth")
	rgbName := flag.String("rgb", "", "name of the rgb entry under <capture>/rgb (optional)")
	calibration := flag.String("calibration", "", "path to the calibration file")
	outDir := flag.String("out", ".", "output directory")
	binaryPCD := flag.Bool("binary-pcd", false, "write binary instead of ascii PCD")

	flag.Parse()

	logger := golog.NewLogger("depthtool")

	if *captureDir == "" || *depthName == "" || *calibration == "" {
		logger.Fatal("need -capture, -depth and -calibration")
	}

	if err := run(*captureDir, *depthName, *rgbName, *calibration, *outDir, *binaryPCD, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(captureDir, depthName, rgbName, calibration, outDir string, binaryPCD bool, logger golog.Logger) error {
	dm, err := capture.Load(captureDir, depthName, rgbName, calibration, logger)
	if err != nil {
		return err
	}

	floor, err := dm.FloorLevel()
	if err != nil {
		return errors.Wrap(err, "no usable reconstruction for this capture")
	}
	angle := dm.CameraFloorAngle()
	logger.Infow("floor detected", "level_m", floor, "camera_angle_deg", angle)

	mask := dm.SegmentChild(floor)
	childPixels := mask.Count(depthmap.MaskChild)
	if childPixels == 0 {
		return errors.New("no child subject found in capture")
	}
	highest, err := dm.HighestPoint(mask)
	if err != nil {
		return err
	}
	logger.Infow("child segmented",
		"pixels", childPixels,
		"highest_point", highest,
		"height_above_floor_m", highest.Y-floor,
	)

	pcdType := pointcloud.PCDAscii
	if binaryPCD {
		pcdType = pointcloud.PCDBinary
	}
	if err := pointcloud.WriteToPCDFile(
		pointcloud.FromDepthmap(dm), filepath.Join(outDir, "cloud.pcd"), pcdType); err != nil {
		return err
	}
	if err := pointcloud.WriteToPCDFile(
		pointcloud.ChildCloud(dm, mask), filepath.Join(outDir, "child.pcd"), pcdType); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(outDir, "depth.png"), dm.RenderDepth()); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(outDir, "mask.png"), depthmap.RenderMask(mask)); err != nil {
		return err
	}
	logger.Infow("capture processed", "out", outDir)
	return nil
}

func writePNG(fn string, img image.Image) (err error) {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return png.Encode(f, img)
}
