// Package terrain decodes autopilot terrain archives (.DAT files) into
// heightmaps.
//
// An archive is a concatenation of fixed-size grid blocks. Each block holds a
// 28x32 patch of elevation samples and the grid index that locates the patch
// inside the tile. Adjacent blocks overlap by one sample along shared edges.
package terrain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Grid geometry. The on-disk format fixes these; a different geometry is a
// different format.
const (
	// MavlinkUnitSize is the side of the 4x4 grids sent over MAVLink.
	MavlinkUnitSize = 4

	// BlockMulX and BlockMulY are the number of MAVLink grids per block.
	BlockMulX = 7
	BlockMulY = 8

	// BlockSizeX (W) and BlockSizeY (H) are the height matrix dimensions.
	BlockSizeX = MavlinkUnitSize * BlockMulX
	BlockSizeY = MavlinkUnitSize * BlockMulY

	// BlockSpacingX and BlockSpacingY are the distances between the origins
	// of adjacent blocks in grid spacing units, one less than the size
	// because of the shared edge.
	BlockSpacingX = (BlockMulX - 1) * MavlinkUnitSize
	BlockSpacingY = (BlockMulY - 1) * MavlinkUnitSize

	// IOBlockSize is the size of one block on disk, padding included.
	IOBlockSize = 2048

	// FormatVersion is the block version written by current autopilots.
	FormatVersion = 1
)

// Byte layout of a block.
const (
	headerSize   = 22
	heightCount  = BlockSizeX * BlockSizeY
	heightOffset = headerSize
	heightSize   = heightCount * 2
	indexOffset  = heightOffset + heightSize
	indexSize    = 7
	crcOffset    = 16

	// PackedSize is the length of the record inside a block; the rest of
	// IOBlockSize is padding.
	PackedSize = indexOffset + indexSize
)

// Block errors.
var (
	ErrTruncatedBlock   = errors.New("truncated grid block")
	ErrShapeMismatch    = errors.New("height matrix shape mismatch")
	ErrBlockOutOfRange  = errors.New("grid index outside tile extent")
	ErrChecksumMismatch = errors.New("grid block checksum mismatch")
	ErrVersionMismatch  = errors.New("unexpected grid block version")
	ErrSpacingMismatch  = errors.New("unexpected grid spacing")
)

// GridIndex locates a block within the block grid of a tile.
type GridIndex struct {
	X uint16
	Y uint16
}

// String returns the index as "(x,y)".
func (i GridIndex) String() string {
	return fmt.Sprintf("(%d,%d)", i.X, i.Y)
}

// GridBlock is one decoded block.
type GridBlock struct {
	Bitmap  uint64 // per sub-grid presence flags
	Lat     int32  // reference corner, degrees * 1e7
	Lon     int32
	CRC     uint16
	Version uint16
	Spacing uint16 // meters between samples

	// Height is BlockSizeX rows of BlockSizeY samples.
	Height [][]int16

	GridIdxX uint16
	GridIdxY uint16

	// Tile-level degree offsets.
	LonDegrees int16
	LatDegrees int8
}

// Index returns the grid index of the block.
func (b *GridBlock) Index() GridIndex {
	return GridIndex{X: b.GridIdxX, Y: b.GridIdxY}
}

// Shape returns the dimensions of the height matrix as (rows, cols).
func (b *GridBlock) Shape() (rows, cols int) {
	rows = len(b.Height)
	if rows == 0 {
		return 0, 0
	}
	cols = len(b.Height[0])
	for _, row := range b.Height[1:] {
		if len(row) != cols {
			return rows, -1
		}
	}
	return rows, cols
}

// blockHeader mirrors bytes 0..22 of a block.
type blockHeader struct {
	Bitmap  uint64
	Lat     int32
	Lon     int32
	CRC     uint16
	Version uint16
	Spacing uint16
}

// blockIndex mirrors the trailing metadata after the height matrix.
type blockIndex struct {
	GridIdxX   uint16
	GridIdxY   uint16
	LonDegrees int16
	LatDegrees int8
}

func checkLength(data []byte) error {
	if len(data) < IOBlockSize {
		return fmt.Errorf("%w: %d bytes, need %d", ErrTruncatedBlock, len(data), IOBlockSize)
	}
	return nil
}

// DecodeBlock decodes one block. data must hold at least IOBlockSize bytes;
// anything past the packed record is ignored. The checksum is not verified
// and version and spacing are not validated.
func DecodeBlock(data []byte) (*GridBlock, error) {
	if err := checkLength(data); err != nil {
		return nil, err
	}

	r := bytes.NewReader(data[:PackedSize])

	var hdr blockHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedBlock)
	}

	var samples [heightCount]int16
	if err := binary.Read(r, binary.LittleEndian, &samples); err != nil {
		return nil, fmt.Errorf("%w: reading heights", ErrTruncatedBlock)
	}

	var idx blockIndex
	if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
		return nil, fmt.Errorf("%w: reading grid index", ErrTruncatedBlock)
	}

	// Row-major: one backing array, BlockSizeX rows of BlockSizeY.
	height := make([][]int16, BlockSizeX)
	flat := samples[:]
	for x := range height {
		height[x] = flat[x*BlockSizeY : (x+1)*BlockSizeY : (x+1)*BlockSizeY]
	}

	return &GridBlock{
		Bitmap:     hdr.Bitmap,
		Lat:        hdr.Lat,
		Lon:        hdr.Lon,
		CRC:        hdr.CRC,
		Version:    hdr.Version,
		Spacing:    hdr.Spacing,
		Height:     height,
		GridIdxX:   idx.GridIdxX,
		GridIdxY:   idx.GridIdxY,
		LonDegrees: idx.LonDegrees,
		LatDegrees: idx.LatDegrees,
	}, nil
}

// DecodeBlockIndex decodes only the grid index of a block, skipping the
// header and height matrix.
func DecodeBlockIndex(data []byte) (GridIndex, error) {
	if err := checkLength(data); err != nil {
		return GridIndex{}, err
	}
	return GridIndex{
		X: binary.LittleEndian.Uint16(data[indexOffset:]),
		Y: binary.LittleEndian.Uint16(data[indexOffset+2:]),
	}, nil
}

// Chunks splits data into IOBlockSize chunks. A trailing partial chunk is
// dropped; its length is returned as remainder.
func Chunks(data []byte) (chunks [][]byte, remainder int) {
	n := len(data) / IOBlockSize
	chunks = make([][]byte, n)
	for i := range chunks {
		start := i * IOBlockSize
		chunks[i] = data[start : start+IOBlockSize : start+IOBlockSize]
	}
	return chunks, len(data) % IOBlockSize
}
