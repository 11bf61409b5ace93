// Package depthmap reconstructs an oriented 3D point cloud from a raw
// depth-sensor capture and segments the foreground subject from the
// supporting floor plane.
//
// A Depthmap is built once per capture, either from the decoded bytes of a
// sensor buffer or from an already-built depth grid. The derived smoothed
// grid is computed at construction; everything downstream (projection,
// normals, floor detection, segmentation, point queries) reads but never
// mutates the instance, so independent captures can be processed in parallel
// with no shared state.
package depthmap

import (
	"image"

	"github.com/pkg/errors"

	"github.com/childgrowthmonitor/depthmap-toolkit/transform"
)

const (
	// DefaultDepthScale converts raw fixed-point depth units to meters when
	// the capture header does not supply a scale.
	DefaultDepthScale = 0.001
	// DefaultMaxConfidence is the confidence normalization divisor when the
	// capture header does not supply one.
	DefaultMaxConfidence = 7.0
)

// Depthmap holds one decoded capture: per-pixel depth in meters, optional
// per-pixel confidence in [0,1], the sensor intrinsics and device pose, and
// an optional RGB image aligned to the depth resolution.
type Depthmap struct {
	width  int
	height int

	calibration *transform.Calibration
	// pixel-unit depth-sensor intrinsics
	fx, fy, cx, cy float64

	depthScale    float64
	maxConfidence float64
	pose          *transform.DevicePose

	depth       []float64
	depthSmooth []float64
	confidence  []float64
	rgb         image.Image
}

// Config collects everything needed to construct a Depthmap. Exactly one of
// Raw and Depth must be set.
type Config struct {
	Width  int
	Height int

	Calibration *transform.Calibration

	// DepthScale and MaxConfidence default to DefaultDepthScale and
	// DefaultMaxConfidence when zero.
	DepthScale    float64
	MaxConfidence float64

	// Pose is the device pose at capture time; nil means identity.
	Pose *transform.DevicePose

	// Raw is the binary capture body of Width*Height*3 bytes.
	Raw []byte

	// Depth is a pre-built depth grid in meters, indexed x*Height+y.
	Depth []float64

	// RGB is an optional color image already at the depth resolution.
	RGB image.Image
}

// New constructs a Depthmap from a single depth source, decoding the raw
// buffer if one is given and smoothing the result for normal estimation.
func New(cfg Config) (*Depthmap, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("invalid capture dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Calibration == nil {
		return nil, errors.New("calibration is required")
	}
	if err := cfg.Calibration.Depth.CheckValid(); err != nil {
		return nil, err
	}
	if cfg.Raw != nil && cfg.Depth != nil {
		return nil, errors.New("exactly one of a raw buffer and a depth array must be supplied, got both")
	}
	if cfg.Raw == nil && cfg.Depth == nil {
		return nil, errors.New("exactly one of a raw buffer and a depth array must be supplied, got neither")
	}

	m := &Depthmap{
		width:         cfg.Width,
		height:        cfg.Height,
		calibration:   cfg.Calibration,
		depthScale:    cfg.DepthScale,
		maxConfidence: cfg.MaxConfidence,
		pose:          cfg.Pose,
		rgb:           cfg.RGB,
	}
	if m.depthScale == 0 {
		m.depthScale = DefaultDepthScale
	}
	if m.maxConfidence == 0 {
		m.maxConfidence = DefaultMaxConfidence
	}
	if m.pose == nil {
		m.pose = transform.IdentityPose()
	}
	m.fx, m.fy, m.cx, m.cy = cfg.Calibration.Depth.Scaled(cfg.Width, cfg.Height)

	switch {
	case cfg.Raw != nil:
		if len(cfg.Raw) != cfg.Width*cfg.Height*3 {
			return nil, errors.Errorf("capture body has %d bytes, want %d",
				len(cfg.Raw), cfg.Width*cfg.Height*3)
		}
		m.depth = m.decodeDepth(cfg.Raw)
		m.confidence = m.decodeConfidence(cfg.Raw)
	case cfg.Depth != nil:
		if len(cfg.Depth) != cfg.Width*cfg.Height {
			return nil, errors.Errorf("depth array has %d entries, want %d",
				len(cfg.Depth), cfg.Width*cfg.Height)
		}
		m.depth = cfg.Depth
	}
	m.depthSmooth = smoothDepth(m.depth, m.width, m.height)
	return m, nil
}

// NewFromArray constructs a Depthmap from a pre-built depth grid in meters,
// using the default depth scale and confidence range. No confidence grid is
// attached.
func NewFromArray(depth []float64, width, height int, cal *transform.Calibration, rgb image.Image) (*Depthmap, error) {
	return New(Config{
		Width:       width,
		Height:      height,
		Calibration: cal,
		Depth:       depth,
		RGB:         rgb,
	})
}

func (m *Depthmap) index(x, y int) int {
	return x*m.height + y
}

// Width returns the pixel width of the capture.
func (m *Depthmap) Width() int {
	return m.width
}

// Height returns the pixel height of the capture.
func (m *Depthmap) Height() int {
	return m.height
}

// DepthAt returns the decoded depth in meters at a pixel. Zero means no
// measurement.
func (m *Depthmap) DepthAt(x, y int) float64 {
	return m.depth[m.index(x, y)]
}

// SmoothedDepthAt returns the denoised depth in meters at a pixel. It is
// zero wherever the pixel or any of its direct neighbors had no measurement.
func (m *Depthmap) SmoothedDepthAt(x, y int) float64 {
	return m.depthSmooth[m.index(x, y)]
}

// HasConfidence reports whether the capture carried per-pixel confidence.
// Depthmaps built from a pre-existing array do not.
func (m *Depthmap) HasConfidence() bool {
	return m.confidence != nil
}

// ConfidenceAt returns the normalized confidence in [0,1] at a pixel.
func (m *Depthmap) ConfidenceAt(x, y int) float64 {
	return m.confidence[m.index(x, y)]
}

// HasRGB reports whether an aligned color image is attached.
func (m *Depthmap) HasRGB() bool {
	return m.rgb != nil
}

// RGB returns the aligned color image, or nil.
func (m *Depthmap) RGB() image.Image {
	return m.rgb
}

// Pose returns the device pose used to orient projected points.
func (m *Depthmap) Pose() *transform.DevicePose {
	return m.pose
}

// DepthScale returns the raw-unit-to-meter conversion factor.
func (m *Depthmap) DepthScale() float64 {
	return m.depthScale
}

// Calibration returns the sensor calibration attached at construction.
func (m *Depthmap) Calibration() *transform.Calibration {
	return m.calibration
}
