package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/archive"
	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/internal/render"
	"github.com/Faultbox/terrainview/pkg/terrain"
	"github.com/Faultbox/terrainview/pkg/tilename"
)

var (
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	okColor   = color.New(color.FgGreen)
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print a summary of a terrain archive",
		ArgsUsage: "FILE",
		Flags:     decodeFlags(),
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			cfg, err := setup(c)
			if err != nil {
				return err
			}

			tile, err := loadTile(cfg, path)
			if err != nil {
				return err
			}

			printSummary(c.App.Writer, path, tile)
			return nil
		},
	}
}

func printSummary(w io.Writer, path string, tile *terrain.Tile) {
	comp, _ := archive.Detect(path)
	min, max := tile.Heightmap.AltitudeRange()

	fmt.Fprintf(w, "Archive:   %s (%s)\n", filepath.Base(path), comp)
	fmt.Fprintf(w, ".DAT file contains %s grid blocks.\n", tile.Extent)
	fmt.Fprintf(w, "Heightmap: %d x %d samples\n", tile.Heightmap.SizeX, tile.Heightmap.SizeY)
	fmt.Fprintf(w, "Spacing:   %d m\n", tile.Spacing)
	fmt.Fprintf(w, "Degrees:   lat %d, lon %d\n", tile.LatDegrees, tile.LonDegrees)
	fmt.Fprintf(w, "Altitude:  %d .. %d m\n", min, max)
	fmt.Fprintf(w, "Blocks:    %d placed of %d\n", tile.Placed, tile.Blocks)

	if len(tile.Skipped) > 0 {
		warnColor.Fprintf(w, "Skipped:   %d\n", len(tile.Skipped))
		for _, s := range tile.Skipped {
			warnColor.Fprintf(w, "  chunk %d %s: %v\n", s.Chunk, s.Index, s.Err)
		}
	}

	name, err := tilename.Parse(path)
	switch {
	case err != nil:
		warnColor.Fprintf(w, "Name:      %v\n", err)
	case tile.Placed == 0:
		// no block degrees to compare against
	case name != tilename.FromDegrees(int(tile.LatDegrees), int(tile.LonDegrees)):
		want := tilename.FromDegrees(int(tile.LatDegrees), int(tile.LonDegrees))
		errColor.Fprintf(w, "Name:      %s does not match block degrees (%s)\n", name, want)
	default:
		okColor.Fprintf(w, "Name:      %s ok\n", name)
	}
}

func renderCommand() *cli.Command {
	flags := append(decodeFlags(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the image to `FILE` (default: archive name with .png)",
		},
		&cli.IntFlag{
			Name:  "scale",
			Usage: "enlarge the image `N` times",
		},
		&cli.StringFlag{
			Name:  "method",
			Usage: "scaling method: nearest, bilinear or catmullrom",
		},
	)

	return &cli.Command{
		Name:      "render",
		Usage:     "Render a terrain archive to a greyscale PNG",
		ArgsUsage: "FILE",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			cfg, err := setup(c)
			if err != nil {
				return err
			}

			tile, err := loadTile(cfg, path)
			if err != nil {
				return err
			}

			img, err := render.Scale(render.Gray(tile.Heightmap), cfg.Render.Scale, cfg.Render.Method)
			if err != nil {
				return err
			}

			out := cfg.Render.Output
			if out == "" {
				out = pngName(path)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := render.WritePNG(f, img); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			logger.Info("wrote image",
				zap.String("path", out),
				zap.Int("width", img.Bounds().Dx()),
				zap.Int("height", img.Bounds().Dy()))
			fmt.Fprintf(c.App.Writer, "%s: %s grid blocks -> %s\n", filepath.Base(path), tile.Extent, out)
			return f.Close()
		},
	}
}

// pngName replaces the archive suffix of path with .png.
func pngName(path string) string {
	dir, base := filepath.Split(path)
	if i := strings.Index(strings.ToUpper(base), ".DAT"); i > 0 {
		base = base[:i]
	}
	return filepath.Join(dir, base+".png")
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Dump one decoded block",
		ArgsUsage: "FILE INDEX",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "heights",
				Usage: "include the height matrix",
			},
		},
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			if c.NArg() < 2 {
				return cli.Exit("missing INDEX argument", 1)
			}
			index, err := strconv.Atoi(c.Args().Get(1))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid INDEX %q", c.Args().Get(1)), 1)
			}
			if _, err := setup(c); err != nil {
				return err
			}

			data, err := archive.ReadFile(path)
			if err != nil {
				return err
			}

			chunks, _ := terrain.Chunks(data)
			if index < 0 || index >= len(chunks) {
				return cli.Exit(fmt.Sprintf("INDEX %d out of range, archive has %d blocks", index, len(chunks)), 1)
			}

			b, err := terrain.DecodeBlock(chunks[index])
			if err != nil {
				return err
			}
			logger.Debug("decoded block", zap.Int("chunk", index), zap.Stringer("grid", b.Index()))
			if !c.Bool("heights") {
				b.Height = nil
			}

			dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
			dumper.Fdump(c.App.Writer, b)

			if err := terrain.VerifyBlock(chunks[index]); err != nil {
				warnColor.Fprintf(c.App.Writer, "checksum: %v\n", err)
			} else {
				okColor.Fprintln(c.App.Writer, "checksum: ok")
			}
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check the checksum of every block",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, err := fileArg(c)
			if err != nil {
				return err
			}
			if _, err := setup(c); err != nil {
				return err
			}

			data, err := archive.ReadFile(path)
			if err != nil {
				return err
			}

			chunks, remainder := terrain.Chunks(data)
			if remainder > 0 {
				logger.Warn("ignoring trailing partial block", zap.Int("bytes", remainder))
				warnColor.Fprintf(c.App.Writer, "ignoring %d trailing bytes\n", remainder)
			}

			failed := 0
			for i, chunk := range chunks {
				if err := terrain.VerifyBlock(chunk); err != nil {
					failed++
					idx, _ := terrain.DecodeBlockIndex(chunk)
					logger.Warn("checksum mismatch", zap.Int("chunk", i), zap.Stringer("grid", idx), zap.Error(err))
					errColor.Fprintf(c.App.Writer, "chunk %d %s: %v\n", i, idx, err)
				}
			}

			if failed > 0 {
				logger.Error("verification failed", zap.Int("failed", failed), zap.Int("blocks", len(chunks)))
				return cli.Exit(fmt.Sprintf("%d of %d blocks failed verification", failed, len(chunks)), 2)
			}
			okColor.Fprintf(c.App.Writer, "%d blocks ok\n", len(chunks))
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Subcommands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Write the effective configuration as YAML",
				ArgsUsage: "[FILE]",
				Flags:     decodeFlags(),
				Action: func(c *cli.Context) error {
					cfg, err := setup(c)
					if err != nil {
						return err
					}

					path := c.Args().First()
					if path == "" {
						path = filepath.Join(config.ConfigDir(), config.FileName)
						err = cfg.Save()
					} else {
						err = cfg.SaveTo(path)
					}
					if err != nil {
						return fmt.Errorf("saving config: %w", err)
					}

					logger.Sugar.Infof("saved config to %s", path)
					fmt.Fprintln(c.App.Writer, path)
					return nil
				},
			},
		},
	}
}
