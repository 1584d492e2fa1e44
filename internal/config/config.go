// Package config holds runtime configuration: defaults, flag/env/file
// layering via viper, and validation. Defaults match the legacy icon export
// script so a bare run behaves the same way.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// CleanupPolicy decides when the per-file temp export directory is removed.
type CleanupPolicy string

const (
	CleanupOnSuccess CleanupPolicy = "on-success" // Keep temp dir when no PNG was produced (default, legacy).
	CleanupAlways    CleanupPolicy = "always"     // Remove temp dir after every export attempt.
)

// PickPolicy chooses one PNG when the decompiler writes several.
type PickPolicy string

const (
	PickFirst   PickPolicy = "first"   // First PNG in lexical walk order (default).
	PickLargest PickPolicy = "largest" // Largest file; ties go to the lexically first path.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then overlaid by [Load] before being passed (by pointer) to packages that
// need it.
type Config struct {
	// External decompiler.
	ToolPath   string        // Default: "ffdec".
	Timeout    time.Duration // Default: 30s per invocation.
	Zoom       int           // Default: 4.
	ExportMode string        // Default: "sprite".

	// Paths.
	SourceDir  string // Default: "icon".
	SymbolsDir string // Default: "iconsymbol".
	OutputDir  string // Default: "iconImage".

	// Lookup.
	SymbolName string // Default: "item". Matched trimmed and case-folded.

	// Scheduling.
	Workers int // Default: runtime.NumCPU().

	// Behavior.
	Cleanup CleanupPolicy // Default: "on-success".
	Pick    PickPolicy    // Default: "first".
	DryRun  bool

	// Optional artifacts.
	ReportPath      string // JSON run report.
	ArchivePath     string // Zip bundle of produced PNGs.
	ArchivePassword string // AES-256 entry encryption when set.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run diagnostics and exit.
}

// DefaultConfig returns a Config with the legacy script's fixed values.
func DefaultConfig() Config {
	return Config{
		ToolPath:   "ffdec",
		Timeout:    30 * time.Second,
		Zoom:       4,
		ExportMode: "sprite",
		SourceDir:  "icon",
		SymbolsDir: "iconsymbol",
		OutputDir:  "iconImage",
		SymbolName: "item",
		Workers:    runtime.NumCPU(),
		Cleanup:    CleanupOnSuccess,
		Pick:       PickFirst,
		ColorMode:  ColorAuto,
	}
}

// TempRoot is the scratch area under the output directory that holds one
// export directory per stem.
func (c *Config) TempRoot() string {
	return filepath.Join(c.OutputDir, "temp")
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric bounds. When not in CheckOnly
// mode, it also requires the three directory paths and the tool path.
func (c *Config) Validate() error {
	switch c.Cleanup {
	case CleanupOnSuccess, CleanupAlways:
		// valid
	default:
		return errors.New("invalid cleanup policy (use 'on-success' or 'always')")
	}

	switch c.Pick {
	case PickFirst, PickLargest:
		// valid
	default:
		return errors.New("invalid pick policy (use 'first' or 'largest')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (got %s)", c.Timeout)
	}
	if c.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive (got %d)", c.Zoom)
	}
	if strings.TrimSpace(c.SymbolName) == "" {
		return errors.New("symbol name must not be empty")
	}
	if c.ArchivePassword != "" && c.ArchivePath == "" {
		return errors.New("archive password given without --archive")
	}

	if c.CheckOnly {
		return nil
	}
	if c.ToolPath == "" {
		return errors.New("tool path must not be empty")
	}
	if c.SourceDir == "" || c.SymbolsDir == "" || c.OutputDir == "" {
		return errors.New("need source, symbols and output directories")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not the source
// directory. Output PNGs and the temp tree would otherwise sit beside the
// inputs. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, outputAbs string) error {
	if outputAbs == sourceAbs {
		return errors.New("output directory must differ from source directory")
	}
	return nil
}
