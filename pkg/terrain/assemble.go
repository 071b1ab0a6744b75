package terrain

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Skipped records a block left out of a tile.
type Skipped struct {
	Chunk int       // position of the block in the archive
	Index GridIndex // grid index the block declared
	Err   error
}

// Tile is an assembled terrain tile.
type Tile struct {
	Extent    Extent
	Heightmap *Heightmap

	// Taken from the first placed block.
	Spacing    uint16
	LatDegrees int8
	LonDegrees int16

	Blocks  int // chunks decoded
	Placed  int // blocks written into the heightmap
	Skipped []Skipped
}

// NewTile allocates a zero filled tile covering ext.
func NewTile(ext Extent) *Tile {
	return &Tile{
		Extent:    ext,
		Heightmap: NewHeightmap(BlockSizeX*ext.BlocksX(), BlockSizeY*ext.BlocksY()),
	}
}

// Place copies the height matrix of b into the heightmap region selected by
// its grid index, overwriting whatever was there. The matrix must be exactly
// BlockSizeX by BlockSizeY.
func (t *Tile) Place(b *GridBlock) error {
	if rows, cols := b.Shape(); rows != BlockSizeX || cols != BlockSizeY {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrShapeMismatch, rows, cols, BlockSizeX, BlockSizeY)
	}

	idx := b.Index()
	if !t.Extent.Contains(idx) {
		return fmt.Errorf("%w: %s not in %s", ErrBlockOutOfRange, idx, t.Extent)
	}

	if t.Placed == 0 {
		t.Spacing = b.Spacing
		t.LatDegrees = b.LatDegrees
		t.LonDegrees = b.LonDegrees
	}

	t.Heightmap.blit(int(idx.X)*BlockSizeX, int(idx.Y)*BlockSizeY, b.Height)
	t.Placed++
	return nil
}

// decoded is the outcome of decoding one chunk. reject holds a non-fatal
// reason to leave the block out.
type decoded struct {
	block  *GridBlock
	reject error
}

func (o *options) decode(chunk []byte) (decoded, error) {
	b, err := DecodeBlock(chunk)
	if err != nil {
		return decoded{}, err
	}

	d := decoded{block: b}
	switch {
	case o.expectedVersion != 0 && b.Version != o.expectedVersion:
		d.reject = fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, b.Version, o.expectedVersion)
	case o.expectedSpacing != 0 && b.Spacing != o.expectedSpacing:
		d.reject = fmt.Errorf("%w: got %d, want %d", ErrSpacingMismatch, b.Spacing, o.expectedSpacing)
	case o.verify:
		d.reject = VerifyBlock(chunk)
	}
	return d, nil
}

func (o *options) decodeAll(chunks [][]byte) ([]decoded, error) {
	results := make([]decoded, len(chunks))

	if o.workers <= 1 {
		for i, chunk := range chunks {
			d, err := o.decode(chunk)
			if err != nil {
				return nil, fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = d
		}
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			d, err := o.decode(chunk)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Assemble decodes an archive into a tile. The extent is found by a first
// scan over all chunks; every block is then decoded and placed in archive
// order, so a later block with a duplicate index wins.
//
// A truncated block aborts the whole call. Blocks with a bad shape, an index
// outside the extent, or a failed optional check are skipped, logged and
// listed in Tile.Skipped.
func Assemble(data []byte, opts ...Option) (*Tile, error) {
	o := newOptions(opts)

	ext, err := ScanExtent(data)
	if err != nil {
		return nil, err
	}

	chunks, remainder := Chunks(data)
	if remainder > 0 {
		o.logger.Warn("ignoring trailing partial block", zap.Int("bytes", remainder))
	}

	results, err := o.decodeAll(chunks)
	if err != nil {
		return nil, err
	}

	tile := NewTile(ext)
	o.logger.Debug("allocated heightmap",
		zap.Stringer("blocks", ext),
		zap.Int("size_x", tile.Heightmap.SizeX),
		zap.Int("size_y", tile.Heightmap.SizeY))

	for i, d := range results {
		tile.Blocks++
		b := d.block

		err := d.reject
		if err == nil {
			err = tile.Place(b)
		}
		if err != nil {
			if !isSkippable(err) {
				return nil, fmt.Errorf("chunk %d: %w", i, err)
			}
			tile.Skipped = append(tile.Skipped, Skipped{Chunk: i, Index: b.Index(), Err: err})
			o.logger.Warn("invalid height data",
				zap.Int("chunk", i),
				zap.Stringer("grid", b.Index()),
				zap.Error(err))
			continue
		}

		if b.Spacing != tile.Spacing {
			o.logger.Warn("inconsistent grid spacing",
				zap.Int("chunk", i),
				zap.Uint16("spacing", b.Spacing),
				zap.Uint16("tile_spacing", tile.Spacing))
		}
	}

	return tile, nil
}

func isSkippable(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrBlockOutOfRange) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrVersionMismatch) ||
		errors.Is(err, ErrSpacingMismatch)
}
