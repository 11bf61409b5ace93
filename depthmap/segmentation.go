package depthmap

// maxDepthStep is the largest raw-depth difference in meters between two
// 4-connected pixels that still counts as the same surface.
const maxDepthStep = 0.1

// AABB is an axis-aligned bounding box in pixel coordinates, corners
// inclusive.
type AABB struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

func (b AABB) extend(x, y int) AABB {
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	return b
}

// LargestDim returns the larger of the box's width and height in pixels.
func (b AABB) LargestDim() int {
	w := b.MaxX - b.MinX
	h := b.MaxY - b.MinY
	if w > h {
		return w
	}
	return h
}

// Segment is one maximal 4-connected region of depth-continuous, non-floor
// pixels: its (negative) mask id and its pixel bounds.
type Segment struct {
	ID     int
	Bounds AABB
}

// DetectObjects labels every non-floor, depth-continuous region of the
// capture with its own negative segment id and returns the segments whose
// bounding box is large enough to be an object rather than clutter.
//
// The fill is an explicit-stack depth-first flood, not recursion, so large
// components cannot exhaust the call stack. A pixel joins the region of the
// pixel that reached it when it is still unlabeled, its raw depth is a valid
// measurement, and the raw depths differ by less than maxDepthStep. Pixels
// are labeled the moment they are reached, so no pixel is visited twice and
// every pixel ends with exactly one label.
func (m *Depthmap) DetectObjects(floor float64) (*Mask, []Segment) {
	mask := m.DetectFloor(floor)
	currentID := -1
	var segments []Segment

	dirs := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	stack := make([][2]int, 0, m.width*m.height/4)

	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			if mask.At(x, y) != MaskUnclassified {
				continue
			}

			aabb := AABB{MinX: x, MinY: y, MaxX: x, MaxY: y}
			mask.Set(x, y, currentID)
			stack = append(stack[:0], [2]int{x, y})
			for len(stack) > 0 {
				pixel := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := pixel[0], pixel[1]
				aabb = aabb.extend(px, py)

				depthCenter := m.depth[m.index(px, py)]
				for _, dir := range dirs {
					nx, ny := px+dir[0], py+dir[1]
					if nx < 0 || ny < 0 || nx >= m.width || ny >= m.height {
						continue
					}
					if mask.At(nx, ny) != MaskUnclassified {
						continue
					}
					depthDir := m.depth[m.index(nx, ny)]
					if depthDir > 0 && abs(depthDir-depthCenter) < maxDepthStep {
						mask.Set(nx, ny, currentID)
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}

			// reject clutter; ids stay unique either way
			if float64(aabb.LargestDim()) > float64(m.width)/4 {
				segments = append(segments, Segment{ID: currentID, Bounds: aabb})
			}
			currentID--
		}
	}
	return mask, segments
}

// SegmentChild segments the capture and relabels the accepted segment whose
// bounding box sits closest to the image center as the child subject. The
// distance is the summed squared pixel distance of the box corner
// coordinates from the center; the first segment in discovery order wins a
// tie. When no segment was accepted the mask is returned without a child
// label and the caller must treat the capture as having no usable subject.
func (m *Depthmap) SegmentChild(floor float64) *Mask {
	mask, segments := m.DetectObjects(floor)

	closest := int(^uint(0) >> 1)
	focus := 0
	for _, segment := range segments {
		a := segment.Bounds.MinX - m.width/2
		b := segment.Bounds.MinY - m.height/2
		c := segment.Bounds.MaxX - m.width/2
		d := segment.Bounds.MaxY - m.height/2
		distance := a*a + b*b + c*c + d*d
		if closest > distance {
			closest = distance
			focus = segment.ID
		}
	}
	if focus != 0 {
		mask.Relabel(focus, MaskChild)
	}
	return mask
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
