package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/swfsprite/internal/check"
	"github.com/backmassage/swfsprite/internal/config"
	"github.com/backmassage/swfsprite/internal/display"
	"github.com/backmassage/swfsprite/internal/logging"
	"github.com/backmassage/swfsprite/internal/pipeline"
)

const flagConfig = "config"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swfsprite",
		Short: "Export the item sprite of every SWF in a directory to PNG",
		Long: `swfsprite looks up the "item" symbol of each .swf in the source directory
from <symbols>/<stem>.swf/symbols.csv, asks ffdec to export that sprite at
4x zoom, and moves the first PNG to <output>/<stem>.png.

Per-file failures are reported and counted; they never change the exit code.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExtract,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	fs := root.PersistentFlags()
	fs.String(flagConfig, "", "config file (default ./swfsprite.yaml if present)")
	config.DefineFlags(fs)

	root.AddCommand(newCheckCmd(), newResolveCmd(), newReportCmd(), newVersionCmd())
	return root
}

// loadConfig layers flags, environment, .env and config file over defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	fs := cmd.Flags()
	file, _ := fs.GetString(flagConfig)
	v, err := config.NewViper(fs, file)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(v), nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	// Bootstrap: the logger doesn't exist yet, so errors are returned to
	// main and printed to stderr.
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(cmd.OutOrStdout())

	// The source must exist and the output must not be the source itself.
	if _, err := os.Stat(cfg.SourceDir); err != nil {
		log.Error("Source not found: %s", cfg.SourceDir)
		return err
	}
	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Cannot resolve source path: %s", cfg.SourceDir)
		return err
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return err
	}
	if err := cfg.ValidatePaths(sourceAbs, outputAbs); err != nil {
		log.Error("%v", err)
		return err
	}

	log.Info("=== swfsprite v%s (%s) ===", version, commit)
	log.Info("In:      %s", cfg.SourceDir)
	log.Info("Symbols: %s", cfg.SymbolsDir)
	log.Info("Out:     %s", cfg.OutputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN, nothing will be exported")
	}
	log.Blank()

	// A missing symbols tree only means every file reports a missing table.
	if err := check.CheckDeps(&cfg); err != nil {
		if !errors.Is(err, check.ErrSymbolsMissing) {
			log.Error("%v", err)
			return err
		}
		log.Warn("%v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping running exports…")
			cancel()
		case <-ctx.Done():
		}
	}()

	pipeline.Run(ctx, &cfg, log)
	return nil
}

// absPath returns the absolute, symlink-resolved path for comparing source
// and output. A path that does not exist yet is returned absolute but
// unresolved.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, os.ErrNotExist) {
		return abs, nil
	}
	return resolved, err
}
