package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kriansa/mounttab/internal/config"
	"github.com/kriansa/mounttab/internal/log"
	"github.com/kriansa/mounttab/internal/mounttab"
	"github.com/kriansa/mounttab/internal/remote"
	"github.com/kriansa/mounttab/internal/version"
)

func main() {
	cmd := &cli.Command{
		Name:  "mounttab",
		Usage: "List mounted filesystems from the kernel mount table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Mount table file to read",
				Value:   config.DefaultMountsFile,
			},
			&cli.StringFlag{
				Name:    "host",
				Aliases: []string{"H"},
				Usage:   "Read the table from a remote host (user@host[:port])",
			},
			&cli.StringFlag{
				Name:    "identity",
				Aliases: []string{"i"},
				Usage:   "SSH private key file for remote hosts",
			},
			&cli.StringFlag{
				Name:  "known-hosts",
				Usage: "known_hosts file for host key verification",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file path",
				Value:   config.DefaultConfigPath,
			},
			&cli.StringFlag{
				Name:    "fstype",
				Aliases: []string{"t"},
				Usage:   "Only list mounts of this filesystem type",
			},
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage:   "Only list mounts of this device",
			},
			&cli.BoolFlag{
				Name:  "skip-bad",
				Usage: "Warn about malformed table lines instead of failing",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"V"},
				Usage:   "Print version information",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	// Handle version flag
	if cmd.Bool("version") {
		fmt.Println(version.String())
		return nil
	}

	// Setup logging
	log.Setup(cmd.Bool("verbose"))

	// Load config file
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Merge CLI flags (CLI takes precedence)
	cfg.Merge(
		cmd.String("file"),
		cmd.String("host"),
		cmd.String("identity"),
		cmd.String("known-hosts"),
	)

	// Apply defaults
	cfg.ApplyDefaults()

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	f := filter{
		fsType:  cmd.String("fstype"),
		device:  cmd.String("device"),
		skipBad: cmd.Bool("skip-bad"),
	}

	if cfg.Host != "" {
		return listRemote(cfg, f)
	}
	return listLocal(cfg, f)
}

// listLocal prints the local mount table. The table is consumed in a
// single pass that closes the file when the listing is done.
func listLocal(cfg *config.Config, f filter) error {
	log.Debug("reading mount table", "file", cfg.File)

	table, err := mounttab.OpenFile(cfg.File)
	if err != nil {
		return err
	}

	for mount, err := range table.All() {
		if err := f.print(mount, err); err != nil {
			return err
		}
	}
	return nil
}

// listRemote streams the table from a remote host over SFTP. The
// stream outlives the listing loop, so it is borrowed rather than
// handed over and closed explicitly.
func listRemote(cfg *config.Config, f filter) error {
	target, err := remote.ParseTarget(cfg.Host)
	if err != nil {
		return err
	}

	log.Debug("reading remote mount table", "target", cfg.Host, "file", cfg.File)

	stream, err := remote.Open(target, cfg.Identity, cfg.KnownHosts, cfg.File)
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			log.Warn("failed to close remote stream", "error", err)
		}
	}()

	table := mounttab.New(stream)
	for mount, err := range table.Entries() {
		if err := f.print(mount, err); err != nil {
			return err
		}
	}
	return nil
}

// filter decides, per table element, what gets printed. Skipping of
// malformed lines happens here and only here: the parser itself never
// skips anything.
type filter struct {
	fsType  string
	device  string
	skipBad bool
}

func (f filter) print(mount *mounttab.Mount, err error) error {
	if err != nil {
		if f.skipBad && errors.Is(err, mounttab.ErrParse) {
			log.Warn("skipping malformed mount entry", "error", err)
			return nil
		}
		return err
	}

	if f.fsType != "" && mount.FSType != f.fsType {
		return nil
	}
	if f.device != "" && mount.Device != f.device {
		return nil
	}

	fmt.Println(mount)
	return nil
}
