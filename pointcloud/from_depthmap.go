package pointcloud

import (
	"image/color"

	"github.com/childgrowthmonitor/depthmap-toolkit/depthmap"
)

// FromDepthmap projects every measured pixel of a capture into an oriented
// point cloud. Pixels without a depth measurement are skipped. When the
// capture carries an aligned RGB image each point gets its pixel color; when
// it carries confidence, the confidence is attached as a 0-100 value.
func FromDepthmap(dm *depthmap.Depthmap) *PointCloud {
	return fromDepthmap(dm, nil)
}

// ChildCloud projects only the pixels labeled as the child subject in the
// given segmentation mask, for exporting the measurement target on its own.
func ChildCloud(dm *depthmap.Depthmap, mask *depthmap.Mask) *PointCloud {
	return fromDepthmap(dm, mask)
}

func fromDepthmap(dm *depthmap.Depthmap, mask *depthmap.Mask) *PointCloud {
	points := dm.ProjectPoints(false)
	cloud := NewWithPrealloc(dm.Width() * dm.Height())
	for x := 0; x < dm.Width(); x++ {
		for y := 0; y < dm.Height(); y++ {
			if dm.DepthAt(x, y) == 0 {
				continue
			}
			if mask != nil && mask.At(x, y) != depthmap.MaskChild {
				continue
			}
			var d Data
			if dm.HasRGB() {
				r, g, b, _ := dm.RGB().At(x, y).RGBA()
				d = NewColoredData(color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255})
			}
			if dm.HasConfidence() {
				v := int(dm.ConfidenceAt(x, y) * 100)
				if d == nil {
					d = NewValueData(v)
				} else {
					d = d.SetValue(v)
				}
			}
			cloud.Add(points.At(x, y), d)
		}
	}
	return cloud
}
