package terrain

import "fmt"

// Extent is the highest grid index seen on each axis of a tile.
type Extent struct {
	MaxX uint16
	MaxY uint16
}

// BlocksX returns the number of block columns in the tile.
func (e Extent) BlocksX() int { return int(e.MaxX) + 1 }

// BlocksY returns the number of block rows in the tile.
func (e Extent) BlocksY() int { return int(e.MaxY) + 1 }

// Contains reports whether idx falls inside the extent.
func (e Extent) Contains(idx GridIndex) bool {
	return idx.X <= e.MaxX && idx.Y <= e.MaxY
}

// String returns the extent as "(nx x ny)" blocks.
func (e Extent) String() string {
	return fmt.Sprintf("(%d x %d)", e.BlocksX(), e.BlocksY())
}

// include grows the extent to cover idx.
func (e *Extent) include(idx GridIndex) {
	if idx.X > e.MaxX {
		e.MaxX = idx.X
	}
	if idx.Y > e.MaxY {
		e.MaxY = idx.Y
	}
}

// ScanExtent walks every IOBlockSize chunk of data and returns the highest
// grid index per axis. A single block tile yields (0,0). Indices are assumed
// dense and zero based; gaps are left for the assembler to zero fill.
func ScanExtent(data []byte) (Extent, error) {
	chunks, _ := Chunks(data)

	var ext Extent
	for i, chunk := range chunks {
		idx, err := DecodeBlockIndex(chunk)
		if err != nil {
			return Extent{}, fmt.Errorf("chunk %d: %w", i, err)
		}
		ext.include(idx)
	}

	return ext, nil
}
