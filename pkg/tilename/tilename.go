// Package tilename parses and formats terrain tile file names.
//
// The autopilot stores one tile per whole degree of latitude and longitude
// and names it after the south-west corner, e.g. N35W120.DAT or S36E149.DAT.
package tilename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrInvalidName is returned for names that do not follow the tile pattern.
var ErrInvalidName = errors.New("invalid terrain tile name")

// Extension is the suffix of an uncompressed tile.
const Extension = ".DAT"

// Name identifies a tile by the degrees of its south-west corner.
type Name struct {
	Lat int // -90..90, negative south
	Lon int // -180..180, negative west
}

// FromDegrees builds a Name from signed degrees.
func FromDegrees(lat, lon int) Name {
	return Name{Lat: lat, Lon: lon}
}

// String returns the file stem, e.g. "S36E149".
func (n Name) String() string {
	ns, ew := byte('N'), byte('E')
	lat, lon := n.Lat, n.Lon
	if lat < 0 {
		ns, lat = 'S', -lat
	}
	if lon < 0 {
		ew, lon = 'W', -lon
	}
	return fmt.Sprintf("%c%02d%c%03d", ns, lat, ew, lon)
}

// FileName returns the stem with the .DAT suffix.
func (n Name) FileName() string {
	return n.String() + Extension
}

// Parse extracts the tile name from a path. Any suffix after the stem
// (.DAT, .DAT.gz, ...) is ignored.
func Parse(path string) (Name, error) {
	base := filepath.Base(path)
	stem, _, _ := strings.Cut(base, ".")
	stem = strings.ToUpper(stem)

	if len(stem) != 7 {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, base)
	}

	ns, ew := stem[0], stem[3]
	lat, err := parseDigits(stem[1:3])
	if err != nil {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, base)
	}
	lon, err := parseDigits(stem[4:7])
	if err != nil {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, base)
	}

	switch ns {
	case 'N':
	case 'S':
		lat = -lat
	default:
		return Name{}, fmt.Errorf("%w: %q: bad hemisphere %q", ErrInvalidName, base, ns)
	}
	switch ew {
	case 'E':
	case 'W':
		lon = -lon
	default:
		return Name{}, fmt.Errorf("%w: %q: bad hemisphere %q", ErrInvalidName, base, ew)
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Name{}, fmt.Errorf("%w: %q: out of range", ErrInvalidName, base)
	}

	return Name{Lat: lat, Lon: lon}, nil
}

// parseDigits parses a string made only of ASCII digits.
func parseDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}
