// Package capture ingests one on-disk depth capture: the zipped raw depth
// buffer under depth/, an optional aligned RGB image under rgb/, and the
// device calibration file, producing a ready-to-query Depthmap.
package capture

import (
	"archive/zip"
	"bytes"
	"image"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"

	"github.com/childgrowthmonitor/depthmap-toolkit/depthmap"
	"github.com/childgrowthmonitor/depthmap-toolkit/transform"
)

// Header is the decoded metadata line of a raw depth capture.
type Header struct {
	Width         int
	Height        int
	DepthScale    float64
	MaxConfidence float64
	// Pose is nil when the capture carried no pose fields.
	Pose *transform.DevicePose
}

// Load reads a capture directory and builds a Depthmap from it. depthName is
// the zip entry under dir/depth; rgbName may be empty when the capture has
// no color frame.
func Load(dir, depthName, rgbName, calibrationPath string, logger golog.Logger) (*depthmap.Depthmap, error) {
	cal, err := transform.ParseCalibration(calibrationPath)
	if err != nil {
		return nil, err
	}

	raw, err := ExtractDepth(filepath.Join(dir, "depth", depthName))
	if err != nil {
		return nil, err
	}
	header, body, err := SplitRaw(raw)
	if err != nil {
		return nil, err
	}

	var rgb image.Image
	if rgbName != "" {
		rgb, err = loadRGB(filepath.Join(dir, "rgb", rgbName), header.Width, header.Height)
		if err != nil {
			return nil, err
		}
	}

	logger.Debugw("decoded capture",
		"width", header.Width,
		"height", header.Height,
		"depth_scale", header.DepthScale,
		"has_pose", header.Pose != nil,
		"has_rgb", rgb != nil,
	)

	return depthmap.New(depthmap.Config{
		Width:         header.Width,
		Height:        header.Height,
		Calibration:   cal,
		DepthScale:    header.DepthScale,
		MaxConfidence: header.MaxConfidence,
		Pose:          header.Pose,
		Raw:           body,
		RGB:           rgb,
	})
}

// ExtractDepth opens the compressed capture archive and returns the raw
// header+binary stream of its single entry.
func ExtractDepth(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open capture archive %q", path)
	}
	defer utils.UncheckedErrorFunc(zr.Close)

	if len(zr.File) == 0 {
		return nil, errors.Errorf("capture archive %q is empty", path)
	}
	f, err := zr.File[0].Open()
	if err != nil {
		return nil, errors.Wrap(err, "cannot open capture archive entry")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, errors.Wrap(err, "cannot read capture archive entry")
	}
	return buf.Bytes(), nil
}

// SplitRaw splits a raw capture stream into its parsed header and binary
// body, validating the body length against the header dimensions.
func SplitRaw(raw []byte) (*Header, []byte, error) {
	idx := bytes.IndexByte(raw, '\n')
	if idx < 0 {
		return nil, nil, errors.New("capture has no header line")
	}
	header, err := ParseHeader(string(raw[:idx]))
	if err != nil {
		return nil, nil, err
	}
	body := raw[idx+1:]
	if len(body) != header.Width*header.Height*3 {
		return nil, nil, errors.Errorf("capture body has %d bytes, want %d",
			len(body), header.Width*header.Height*3)
	}
	return header, body, nil
}

// ParseHeader decodes a capture header line of the form
//
//	{width}x{height}_{depth_scale}_{max_confidence}
//
// optionally followed by seven pose fields, a rotation quaternion
// (x, y, z, w) and a position (x, y, z).
func ParseHeader(line string) (*Header, error) {
	fields := strings.Split(strings.TrimSpace(line), "_")
	if len(fields) != 3 && len(fields) != 10 {
		return nil, errors.Errorf("capture header has %d fields, want 3 or 10", len(fields))
	}

	res := strings.Split(fields[0], "x")
	if len(res) != 2 {
		return nil, errors.Errorf("malformed capture resolution %q", fields[0])
	}
	width, err := strconv.Atoi(res[0])
	if err != nil {
		return nil, errors.Wrapf(err, "malformed capture width %q", res[0])
	}
	height, err := strconv.Atoi(res[1])
	if err != nil {
		return nil, errors.Wrapf(err, "malformed capture height %q", res[1])
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid capture resolution %dx%d", width, height)
	}
	depthScale, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed depth scale %q", fields[1])
	}
	maxConfidence, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed max confidence %q", fields[2])
	}

	header := &Header{
		Width:         width,
		Height:        height,
		DepthScale:    depthScale,
		MaxConfidence: maxConfidence,
	}
	if len(fields) == 10 {
		pose := make([]float64, 7)
		for i := 0; i < 7; i++ {
			pose[i], err = strconv.ParseFloat(fields[3+i], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "malformed pose field %q", fields[3+i])
			}
		}
		rotation := quat.Number{Imag: pose[0], Jmag: pose[1], Kmag: pose[2], Real: pose[3]}
		position := r3.Vector{X: pose[4], Y: pose[5], Z: pose[6]}
		header.Pose = transform.NewDevicePose(rotation, position)
	}
	return header, nil
}

// loadRGB opens a color frame and resizes it to the depth resolution so the
// two grids stay pixel-aligned.
func loadRGB(path string, width, height int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open rgb image %q", path)
	}
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return img, nil
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}
