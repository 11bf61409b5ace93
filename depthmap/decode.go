package depthmap

// The capture body is a row-major run of 3-byte records: a big-endian 16-bit
// raw depth value followed by one confidence byte. Depth is scaled to meters
// by the header's depth scale, confidence normalized by the header's maximum.
//
// The first row and first column of the frame are defined invalid by the
// sensor format and decode to depth zero. The last row and column are not
// excluded; the asymmetry is part of the format.

func (m *Depthmap) decodeDepth(data []byte) []float64 {
	out := make([]float64, m.width*m.height)
	for x := 1; x < m.width; x++ {
		for y := 1; y < m.height; y++ {
			i := (y*m.width + x) * 3
			raw := int(data[i])<<8 | int(data[i+1])
			out[m.index(x, y)] = float64(raw) * m.depthScale
		}
	}
	return out
}

func (m *Depthmap) decodeConfidence(data []byte) []float64 {
	out := make([]float64, m.width*m.height)
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			i := (y*m.width+x)*3 + 2
			out[m.index(x, y)] = float64(data[i]) / m.maxConfidence
		}
	}
	return out
}
