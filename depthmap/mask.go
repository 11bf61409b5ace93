package depthmap

// Cell classifications for a segmentation mask. Zero is unclassified; small
// positive values are the floor, child and invalid sentinels; negative
// values are segment ids assigned in discovery order starting at -1. Every
// pixel carries exactly one label.
const (
	MaskUnclassified = 0
	MaskFloor        = 1
	MaskChild        = 2
	MaskInvalid      = 3
)

// Mask labels every pixel of a capture with exactly one classification.
type Mask struct {
	width  int
	height int
	cells  []int
}

// NewMask returns an all-unclassified mask of the given resolution.
func NewMask(width, height int) *Mask {
	return &Mask{width: width, height: height, cells: make([]int, width*height)}
}

// Width returns the pixel width of the mask.
func (k *Mask) Width() int {
	return k.width
}

// Height returns the pixel height of the mask.
func (k *Mask) Height() int {
	return k.height
}

// At returns the label at a pixel.
func (k *Mask) At(x, y int) int {
	return k.cells[x*k.height+y]
}

// Set stores a label at a pixel.
func (k *Mask) Set(x, y, label int) {
	k.cells[x*k.height+y] = label
}

// Count returns how many pixels carry the given label.
func (k *Mask) Count(label int) int {
	n := 0
	for _, c := range k.cells {
		if c == label {
			n++
		}
	}
	return n
}

// Relabel rewrites every pixel carrying the from label to the to label and
// returns how many pixels changed.
func (k *Mask) Relabel(from, to int) int {
	n := 0
	for i, c := range k.cells {
		if c == from {
			k.cells[i] = to
			n++
		}
	}
	return n
}
