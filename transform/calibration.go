// Package transform holds the read-only value objects attached to a depth
// capture: camera calibration (normalized pinhole intrinsics for the color
// and depth sensors) and the device pose at capture time.
package transform

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Intrinsics are normalized pinhole parameters: focal lengths and optical
// center expressed as fractions of the image dimensions. They must be scaled
// by a concrete capture resolution before projecting.
type Intrinsics struct {
	Fx float64
	Fy float64
	Cx float64
	Cy float64
}

// Scaled returns the pixel-unit focal lengths and optical center for a
// capture of the given resolution.
func (i Intrinsics) Scaled(width, height int) (fx, fy, cx, cy float64) {
	fx = i.Fx * float64(width)
	fy = i.Fy * float64(height)
	cx = i.Cx * float64(width)
	cy = i.Cy * float64(height)
	return fx, fy, cx, cy
}

// CheckValid checks if the intrinsics can be used for projection.
func (i Intrinsics) CheckValid() error {
	if i.Fx <= 0 {
		return errors.Errorf("invalid focal length fx = %v", i.Fx)
	}
	if i.Fy <= 0 {
		return errors.Errorf("invalid focal length fy = %v", i.Fy)
	}
	return nil
}

// PointToPixel maps a metric point back into pixel coordinates for a capture
// of the given resolution. The depth component is passed through unchanged.
func (i Intrinsics) PointToPixel(x, y, depth float64, width, height int) (float64, float64, float64) {
	fx, fy, cx, cy := i.Scaled(width, height)
	tx := x*fx/depth + cx
	ty := y*fy/depth + cy
	return tx, ty, depth
}

// Calibration holds one intrinsic vector per sensor of the capture device.
type Calibration struct {
	Color Intrinsics
	Depth Intrinsics
}

// ParseCalibration reads a calibration file. The file carries two labeled
// intrinsic vectors, color sensor first:
//
//	Color camera intrinsic:
//	0.6786797 0.90489584 0.49585155 0.5035042
//	Depth camera intrinsic:
//	0.6786797 0.90489584 0.49585155 0.5035042
func ParseCalibration(path string) (*Calibration, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening calibration file")
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return ReadCalibration(f)
}

// ReadCalibration reads a calibration file from a stream.
func ReadCalibration(r io.Reader) (*Calibration, error) {
	br := bufio.NewReader(r)
	vectors := make([]Intrinsics, 0, 2)
	for i := 0; i < 2; i++ {
		// label line, discarded
		if _, err := br.ReadString('\n'); err != nil {
			return nil, errors.Wrap(err, "calibration file too short")
		}
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "calibration file too short")
		}
		in, err := parseIntrinsicLine(line)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, in)
	}
	return &Calibration{Color: vectors[0], Depth: vectors[1]}, nil
}

func parseIntrinsicLine(line string) (Intrinsics, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != 4 {
		return Intrinsics{}, errors.Errorf("expected 4 intrinsic values, got %d in %q", len(fields), line)
	}
	vals := make([]float64, 4)
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Intrinsics{}, errors.Wrapf(err, "cannot parse intrinsic value %q", field)
		}
		vals[i] = v
	}
	return Intrinsics{Fx: vals[0], Fy: vals[1], Cx: vals[2], Cy: vals[3]}, nil
}
