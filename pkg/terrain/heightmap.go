package terrain

// Heightmap is a dense grid of elevation samples. Samples are stored x-major:
// the sample at (x, y) is Samples[x*SizeY+y].
type Heightmap struct {
	SizeX   int
	SizeY   int
	Samples []int16
}

// NewHeightmap allocates a zero filled heightmap.
func NewHeightmap(sizeX, sizeY int) *Heightmap {
	return &Heightmap{
		SizeX:   sizeX,
		SizeY:   sizeY,
		Samples: make([]int16, sizeX*sizeY),
	}
}

// InBounds reports whether (x, y) addresses a sample.
func (h *Heightmap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < h.SizeX && y < h.SizeY
}

// At returns the sample at (x, y). Out of bounds coordinates return 0.
func (h *Heightmap) At(x, y int) int16 {
	if !h.InBounds(x, y) {
		return 0
	}
	return h.Samples[x*h.SizeY+y]
}

// Set stores a sample. Out of bounds coordinates are ignored.
func (h *Heightmap) Set(x, y int, v int16) {
	if !h.InBounds(x, y) {
		return
	}
	h.Samples[x*h.SizeY+y] = v
}

// Row returns the SizeY samples at x. The slice aliases the heightmap.
func (h *Heightmap) Row(x int) []int16 {
	if x < 0 || x >= h.SizeX {
		return nil
	}
	return h.Samples[x*h.SizeY : (x+1)*h.SizeY]
}

// AltitudeRange returns the minimum and maximum sample in the heightmap.
func (h *Heightmap) AltitudeRange() (min, max int16) {
	if len(h.Samples) == 0 {
		return 0, 0
	}

	min = h.Samples[0]
	max = h.Samples[0]

	for _, s := range h.Samples {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	return min, max
}

// blit copies a row-major matrix into the heightmap with its origin at
// (x0, y0). The caller guarantees the region fits.
func (h *Heightmap) blit(x0, y0 int, rows [][]int16) {
	for i, row := range rows {
		start := (x0+i)*h.SizeY + y0
		copy(h.Samples[start:start+len(row)], row)
	}
}
