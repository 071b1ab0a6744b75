package terrain

import (
	"bytes"
	"encoding/binary"
)

// testBlock describes a synthetic block for the encoder below.
type testBlock struct {
	Bitmap     uint64
	Lat, Lon   int32
	CRC        uint16
	Version    uint16
	Spacing    uint16
	Height     [BlockSizeX][BlockSizeY]int16
	GridIdxX   uint16
	GridIdxY   uint16
	LonDegrees int16
	LatDegrees int8
}

// newTestBlock returns a version 1, 100m block at (x, y) whose samples are
// base + x*BlockSizeY + y.
func newTestBlock(x, y uint16, base int16) testBlock {
	b := testBlock{
		Bitmap:     (1 << (BlockMulX * BlockMulY)) - 1,
		Lat:        -353632640,
		Lon:        1491652352,
		Version:    FormatVersion,
		Spacing:    100,
		GridIdxX:   x,
		GridIdxY:   y,
		LonDegrees: 149,
		LatDegrees: -36,
	}
	for i := 0; i < BlockSizeX; i++ {
		for j := 0; j < BlockSizeY; j++ {
			b.Height[i][j] = base + int16(i*BlockSizeY+j)
		}
	}
	return b
}

// encode writes the block in on-disk layout, padded to IOBlockSize.
func (b testBlock) encode() []byte {
	buf := new(bytes.Buffer)

	binary.Write(buf, binary.LittleEndian, b.Bitmap)
	binary.Write(buf, binary.LittleEndian, b.Lat)
	binary.Write(buf, binary.LittleEndian, b.Lon)
	binary.Write(buf, binary.LittleEndian, b.CRC)
	binary.Write(buf, binary.LittleEndian, b.Version)
	binary.Write(buf, binary.LittleEndian, b.Spacing)
	binary.Write(buf, binary.LittleEndian, b.Height)
	binary.Write(buf, binary.LittleEndian, b.GridIdxX)
	binary.Write(buf, binary.LittleEndian, b.GridIdxY)
	binary.Write(buf, binary.LittleEndian, b.LonDegrees)
	binary.Write(buf, binary.LittleEndian, b.LatDegrees)

	buf.Write(make([]byte, IOBlockSize-buf.Len()))
	return buf.Bytes()
}

// encodeSigned encodes the block with a valid checksum.
func (b testBlock) encodeSigned() []byte {
	data := b.encode()
	crc, err := BlockChecksum(data)
	if err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint16(data[crcOffset:], crc)
	return data
}

// archive concatenates encoded blocks.
func archive(blocks ...testBlock) []byte {
	var out []byte
	for _, b := range blocks {
		out = append(out, b.encode()...)
	}
	return out
}
