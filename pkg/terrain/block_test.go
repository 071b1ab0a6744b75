package terrain

import (
	"errors"
	"reflect"
	"testing"
)

func TestGeometry(t *testing.T) {
	if BlockSizeX != 28 || BlockSizeY != 32 {
		t.Fatalf("expected 28x32 blocks, got %dx%d", BlockSizeX, BlockSizeY)
	}
	if BlockSpacingX != 24 || BlockSpacingY != 28 {
		t.Errorf("expected block spacing 24x28, got %dx%d", BlockSpacingX, BlockSpacingY)
	}
	if PackedSize != 1821 {
		t.Errorf("expected packed size 1821, got %d", PackedSize)
	}
	if PackedSize > IOBlockSize {
		t.Errorf("packed record (%d) does not fit in %d", PackedSize, IOBlockSize)
	}
}

func TestDecodeBlock_RoundTrip(t *testing.T) {
	src := newTestBlock(3, 5, -200)
	src.CRC = 0xbeef
	src.Version = 7
	src.Spacing = 30

	b, err := DecodeBlock(src.encode())
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}

	if b.Bitmap != src.Bitmap {
		t.Errorf("bitmap: expected %#x, got %#x", src.Bitmap, b.Bitmap)
	}
	if b.Lat != src.Lat || b.Lon != src.Lon {
		t.Errorf("position: expected %d,%d, got %d,%d", src.Lat, src.Lon, b.Lat, b.Lon)
	}
	if b.CRC != 0xbeef {
		t.Errorf("crc: expected 0xbeef, got %#x", b.CRC)
	}
	if b.Version != 7 {
		t.Errorf("version: expected 7, got %d", b.Version)
	}
	if b.Spacing != 30 {
		t.Errorf("spacing: expected 30, got %d", b.Spacing)
	}
	if b.GridIdxX != 3 || b.GridIdxY != 5 {
		t.Errorf("grid index: expected (3,5), got %s", b.Index())
	}
	if b.LonDegrees != 149 || b.LatDegrees != -36 {
		t.Errorf("degrees: expected -36,149, got %d,%d", b.LatDegrees, b.LonDegrees)
	}

	rows, cols := b.Shape()
	if rows != BlockSizeX || cols != BlockSizeY {
		t.Fatalf("shape: expected %dx%d, got %dx%d", BlockSizeX, BlockSizeY, rows, cols)
	}
	for x := 0; x < BlockSizeX; x++ {
		for y := 0; y < BlockSizeY; y++ {
			if b.Height[x][y] != src.Height[x][y] {
				t.Fatalf("height[%d][%d]: expected %d, got %d", x, y, src.Height[x][y], b.Height[x][y])
			}
		}
	}
}

func TestDecodeBlock_NegativeExtremes(t *testing.T) {
	src := newTestBlock(0, 0, 0)
	src.Height[0][0] = -32768
	src.Height[BlockSizeX-1][BlockSizeY-1] = 32767
	src.LonDegrees = -180
	src.LatDegrees = -90
	src.Lat = -900000000

	b, err := DecodeBlock(src.encode())
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}
	if b.Height[0][0] != -32768 || b.Height[BlockSizeX-1][BlockSizeY-1] != 32767 {
		t.Errorf("sample extremes not preserved: %d, %d", b.Height[0][0], b.Height[BlockSizeX-1][BlockSizeY-1])
	}
	if b.LonDegrees != -180 || b.LatDegrees != -90 || b.Lat != -900000000 {
		t.Errorf("signed fields not preserved: %d %d %d", b.LonDegrees, b.LatDegrees, b.Lat)
	}
}

func TestDecodeBlock_Idempotent(t *testing.T) {
	data := newTestBlock(1, 2, 10).encode()

	a, err := DecodeBlock(data)
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}
	b, err := DecodeBlock(data)
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("decoding the same bytes twice gave different blocks")
	}
}

func TestDecodeBlock_DoesNotAliasInput(t *testing.T) {
	data := newTestBlock(0, 0, 1).encode()
	b, err := DecodeBlock(data)
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}
	data[heightOffset] = 0xff
	data[heightOffset+1] = 0x7f
	if b.Height[0][0] != 1 {
		t.Errorf("decoded block changed with input, height[0][0] = %d", b.Height[0][0])
	}
}

func TestDecodeBlock_Truncated(t *testing.T) {
	full := newTestBlock(0, 0, 0).encode()

	for _, n := range []int{0, 21, headerSize, PackedSize, IOBlockSize - 1} {
		_, err := DecodeBlock(full[:n])
		if !errors.Is(err, ErrTruncatedBlock) {
			t.Errorf("len %d: expected ErrTruncatedBlock, got %v", n, err)
		}
	}
}

func TestDecodeBlock_IgnoresTrailingBytes(t *testing.T) {
	data := append(newTestBlock(4, 4, 0).encode(), 0xaa, 0xbb)
	b, err := DecodeBlock(data)
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}
	if b.Index() != (GridIndex{4, 4}) {
		t.Errorf("expected index (4,4), got %s", b.Index())
	}
}

func TestDecodeBlockIndex(t *testing.T) {
	idx, err := DecodeBlockIndex(newTestBlock(65535, 12, 0).encode())
	if err != nil {
		t.Fatalf("DecodeBlockIndex failed: %v", err)
	}
	if idx.X != 65535 || idx.Y != 12 {
		t.Errorf("expected (65535,12), got %s", idx)
	}

	if _, err := DecodeBlockIndex(make([]byte, 100)); !errors.Is(err, ErrTruncatedBlock) {
		t.Errorf("expected ErrTruncatedBlock, got %v", err)
	}
}

func TestGridBlock_Shape(t *testing.T) {
	tests := []struct {
		name   string
		height [][]int16
		rows   int
		cols   int
	}{
		{"empty", nil, 0, 0},
		{"regular", [][]int16{{1, 2, 3}, {4, 5, 6}}, 2, 3},
		{"ragged", [][]int16{{1, 2, 3}, {4, 5}}, 2, -1},
	}

	for _, tc := range tests {
		b := &GridBlock{Height: tc.height}
		rows, cols := b.Shape()
		if rows != tc.rows || cols != tc.cols {
			t.Errorf("%s: expected %dx%d, got %dx%d", tc.name, tc.rows, tc.cols, rows, cols)
		}
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		length    int
		chunks    int
		remainder int
	}{
		{0, 0, 0},
		{100, 0, 100},
		{IOBlockSize, 1, 0},
		{3 * IOBlockSize, 3, 0},
		{3*IOBlockSize + 17, 3, 17},
	}

	for _, tc := range tests {
		chunks, rem := Chunks(make([]byte, tc.length))
		if len(chunks) != tc.chunks || rem != tc.remainder {
			t.Errorf("len %d: expected %d chunks + %d, got %d + %d", tc.length, tc.chunks, tc.remainder, len(chunks), rem)
		}
		for i, c := range chunks {
			if len(c) != IOBlockSize || cap(c) != IOBlockSize {
				t.Errorf("chunk %d: len %d cap %d", i, len(c), cap(c))
			}
		}
	}
}

func TestVerifyBlock(t *testing.T) {
	data := newTestBlock(2, 3, 50).encodeSigned()
	if err := VerifyBlock(data); err != nil {
		t.Fatalf("VerifyBlock on signed block: %v", err)
	}

	// Padding is not covered by the checksum.
	data[IOBlockSize-1] = 0x55
	if err := VerifyBlock(data); err != nil {
		t.Errorf("VerifyBlock should ignore padding: %v", err)
	}

	data[heightOffset+10] ^= 0x01
	if err := VerifyBlock(data); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got %v", err)
	}

	if err := VerifyBlock(data[:10]); !errors.Is(err, ErrTruncatedBlock) {
		t.Errorf("expected ErrTruncatedBlock, got %v", err)
	}
}

func TestBlockChecksum_IgnoresStoredCRC(t *testing.T) {
	a := newTestBlock(0, 0, 0)
	b := a
	b.CRC = 0x1234

	ca, _ := BlockChecksum(a.encode())
	cb, _ := BlockChecksum(b.encode())
	if ca != cb {
		t.Errorf("checksum depends on stored crc: %#x != %#x", ca, cb)
	}
}
