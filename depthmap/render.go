package depthmap

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// minMaxDepth returns the smallest and largest nonzero depths in the
// capture.
func (m *Depthmap) minMaxDepth() (float64, float64) {
	min, max := 0.0, 0.0
	for _, z := range m.depth {
		if z == 0 {
			continue
		}
		if min == 0 || z < min {
			min = z
		}
		if z > max {
			max = z
		}
	}
	return min, max
}

// RenderDepth maps the depth grid onto a hue ramp for visual inspection.
// Pixels with no measurement stay black.
func (m *Depthmap) RenderDepth() image.Image {
	min, max := m.minMaxDepth()
	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	span := max - min
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			z := m.DepthAt(x, y)
			if z == 0 || span == 0 {
				continue
			}
			ratio := (z - min) / span
			hue := 30 + 200*ratio
			r, g, b := colorful.Hsv(hue, 1.0, 1.0).RGB255()
			img.Set(x, y, color.NRGBA{r, g, b, 255})
		}
	}
	return img
}

// RenderMask draws a segmentation mask: green floor, red child, gray
// invalid, a rotating hue per remaining segment id, black background.
func RenderMask(mask *Mask) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, mask.Width(), mask.Height()))
	for x := 0; x < mask.Width(); x++ {
		for y := 0; y < mask.Height(); y++ {
			switch label := mask.At(x, y); {
			case label == MaskFloor:
				img.Set(x, y, color.NRGBA{0, 160, 0, 255})
			case label == MaskChild:
				img.Set(x, y, color.NRGBA{220, 40, 40, 255})
			case label == MaskInvalid:
				img.Set(x, y, color.NRGBA{90, 90, 90, 255})
			case label < 0:
				hue := float64((-label * 67) % 360)
				r, g, b := colorful.Hsv(hue, 0.8, 0.9).RGB255()
				img.Set(x, y, color.NRGBA{r, g, b, 255})
			}
		}
	}
	return img
}
