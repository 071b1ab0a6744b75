// Package render turns an assembled heightmap into a greyscale image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/Faultbox/terrainview/pkg/terrain"
	"golang.org/x/image/draw"
)

// Gray maps the altitude range of hm linearly onto 16-bit grey. Image row i
// is heightmap x-index i and column j is y-index j. A flat heightmap renders
// mid grey.
func Gray(hm *terrain.Heightmap) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, hm.SizeY, hm.SizeX))

	lo, hi := hm.AltitudeRange()
	span := int64(hi) - int64(lo)

	for x := 0; x < hm.SizeX; x++ {
		row := hm.Row(x)
		for y, v := range row {
			level := uint16(0x8000)
			if span > 0 {
				level = uint16((int64(v) - int64(lo)) * 0xffff / span)
			}
			img.SetGray16(y, x, color.Gray16{Y: level})
		}
	}

	return img
}

// interpolator returns the draw.Interpolator for a method name.
func interpolator(method string) (draw.Interpolator, error) {
	switch strings.ToLower(method) {
	case "", "nearest":
		return draw.NearestNeighbor, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("unknown interpolation method %q", method)
	}
}

// Scale resizes img by an integer factor. A factor of 1 or less returns img
// unchanged.
func Scale(img image.Image, factor int, method string) (image.Image, error) {
	interp, err := interpolator(method)
	if err != nil {
		return nil, err
	}
	if factor <= 1 {
		return img, nil
	}

	b := img.Bounds()
	dst := image.NewGray16(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	interp.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}
