package terrain

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/terrainview/pkg/crc16"
)

// BlockChecksum computes the checksum of a raw block the way the autopilot
// does: CRC-16/XMODEM over the packed record with the crc field zeroed.
func BlockChecksum(data []byte) (uint16, error) {
	if err := checkLength(data); err != nil {
		return 0, err
	}

	h := crc16.New()
	var zero [2]byte
	h.Write(data[:crcOffset])
	h.Write(zero[:])
	h.Write(data[crcOffset+2 : PackedSize])

	sum := h.Sum(nil)
	return binary.BigEndian.Uint16(sum), nil
}

// VerifyBlock checks the stored checksum of a raw block.
func VerifyBlock(data []byte) error {
	want, err := BlockChecksum(data)
	if err != nil {
		return err
	}
	got := binary.LittleEndian.Uint16(data[crcOffset:])
	if got != want {
		return fmt.Errorf("%w: stored 0x%04x, computed 0x%04x", ErrChecksumMismatch, got, want)
	}
	return nil
}
