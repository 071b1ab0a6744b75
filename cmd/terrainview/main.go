// terrainview inspects and renders autopilot terrain archives (.DAT files).
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/archive"
	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/pkg/terrain"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newApp() *cli.App {
	// -v is taken by --verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}

	return &cli.App{
		Name:    "terrainview",
		Usage:   "terrain archive viewer",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				EnvVars: []string{"TERRAINVIEW_CONFIG"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "also write logs to `FILE`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			infoCommand(),
			renderCommand(),
			dumpCommand(),
			verifyCommand(),
			configCommand(),
		},
	}
}

// decodeFlags are shared by every command that assembles a tile.
func decodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "decode blocks on `N` goroutines",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "skip blocks whose checksum does not match",
		},
		&cli.UintFlag{
			Name:  "expect-version",
			Usage: "skip blocks with a different format version",
		},
		&cli.UintFlag{
			Name:  "expect-spacing",
			Usage: "skip blocks with a different grid spacing",
		},
	}
}

// setup loads the configuration for a command and initializes logging.
func setup(c *cli.Context) (*config.Config, error) {
	version, err := uint16Flag(c, "expect-version")
	if err != nil {
		return nil, err
	}
	spacing, err := uint16Flag(c, "expect-spacing")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.Overrides{
		ConfigPath:      c.String("config"),
		Debug:           c.Bool("verbose"),
		LogLevel:        c.String("log-level"),
		LogFile:         c.String("log-file"),
		Workers:         c.Int("workers"),
		VerifyCRC:       c.Bool("verify"),
		ExpectedVersion: version,
		ExpectedSpacing: spacing,
		Output:          c.String("output"),
		Scale:           c.Int("scale"),
		Method:          c.String("method"),
	})
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

// uint16Flag reads a uint flag that must fit a block header field.
func uint16Flag(c *cli.Context, name string) (uint16, error) {
	v := c.Uint(name)
	if v > math.MaxUint16 {
		return 0, cli.Exit(fmt.Sprintf("--%s %d out of range, maximum is %d", name, v, math.MaxUint16), 1)
	}
	return uint16(v), nil
}

// fileArg returns the first positional argument or shows the command help.
func fileArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		_ = cli.ShowCommandHelp(c, c.Command.Name)
		return "", cli.Exit("missing FILE argument", 1)
	}
	return c.Args().First(), nil
}

// loadTile reads an archive and assembles it with the configured options.
func loadTile(cfg *config.Config, path string) (*terrain.Tile, error) {
	data, err := archive.ReadFile(path)
	if err != nil {
		return nil, err
	}

	logger.Debug("read archive", zap.String("path", path), zap.Int("bytes", len(data)))

	tile, err := terrain.Assemble(data,
		terrain.WithLogger(logger.Named("assemble")),
		terrain.WithWorkers(cfg.Decode.Workers),
		terrain.WithVerify(cfg.Decode.VerifyCRC),
		terrain.WithExpectedVersion(cfg.Decode.ExpectedVersion),
		terrain.WithExpectedSpacing(cfg.Decode.ExpectedSpacing),
	)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return tile, nil
}
