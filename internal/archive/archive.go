// Package archive reads terrain archives from disk, plain or compressed.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnsupportedArchive is returned for files without a known suffix.
var ErrUnsupportedArchive = errors.New("unsupported terrain archive")

// Compression identifies how an archive is stored.
type Compression int

// Supported storage formats.
const (
	None Compression = iota
	Gzip
	LZ4
	Zstd
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Detect picks the compression from the file name. Matching is case
// insensitive.
func Detect(path string) (Compression, error) {
	name := strings.ToUpper(path)
	switch {
	case strings.HasSuffix(name, ".DAT"):
		return None, nil
	case strings.HasSuffix(name, ".DAT.GZ"):
		return Gzip, nil
	case strings.HasSuffix(name, ".DAT.LZ4"):
		return LZ4, nil
	case strings.HasSuffix(name, ".DAT.ZST"):
		return Zstd, nil
	default:
		return None, fmt.Errorf("%w: %s", ErrUnsupportedArchive, path)
	}
}

// stream closes both the decompressor and the underlying file.
type stream struct {
	io.Reader
	closers []func() error
}

func (s *stream) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open returns a reader of the decompressed archive contents.
func Open(path string) (io.ReadCloser, error) {
	c, err := Detect(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	switch c {
	case Gzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("reading gzip header: %w", err)
		}
		return &stream{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case LZ4:
		return &stream{Reader: lz4.NewReader(f), closers: []func() error{f.Close}}, nil
	case Zstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return &stream{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	default:
		return f, nil
	}
}

// ReadFile reads and decompresses a whole archive.
func ReadFile(path string) ([]byte, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	return data, nil
}
