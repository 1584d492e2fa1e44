package config

// This file layers flags, environment, .env and an optional config file on
// top of DefaultConfig. Precedence is viper's: flag > env > file > default.

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every config key when read from the environment
// (e.g. SWFSPRITE_TOOL, SWFSPRITE_WORKERS).
const EnvPrefix = "SWFSPRITE"

// Viper keys. Flag names are identical.
const (
	KeyTool            = "tool"
	KeyTimeout         = "timeout"
	KeyZoom            = "zoom"
	KeyExportMode      = "export-mode"
	KeySource          = "source"
	KeySymbols         = "symbols"
	KeyOutput          = "output"
	KeySymbolName      = "symbol-name"
	KeyWorkers         = "workers"
	KeyCleanup         = "cleanup"
	KeyPick            = "pick"
	KeyDryRun          = "dry-run"
	KeyReport          = "report"
	KeyArchive         = "archive"
	KeyArchivePassword = "archive-password"
	KeyVerbose         = "verbose"
	KeyColor           = "color"
	KeyLog             = "log"
)

// DefineFlags registers every config flag on fs with defaults taken from
// DefaultConfig, so --help shows the effective defaults.
func DefineFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()

	fs.String(KeyTool, d.ToolPath, "Decompiler executable (ffdec)")
	fs.Duration(KeyTimeout, d.Timeout, "Per-file decompiler timeout")
	fs.Int(KeyZoom, d.Zoom, "Export zoom factor")
	fs.String(KeyExportMode, d.ExportMode, "Decompiler export mode")

	fs.StringP(KeySource, "s", d.SourceDir, "Directory of input .swf files")
	fs.String(KeySymbols, d.SymbolsDir, "Root of per-file symbol tables (<stem>.swf/symbols.csv)")
	fs.StringP(KeyOutput, "o", d.OutputDir, "Output directory for <stem>.png")
	fs.String(KeySymbolName, d.SymbolName, "Symbol name to export (case-insensitive)")

	fs.IntP(KeyWorkers, "j", d.Workers, "Parallel decompiler invocations")
	fs.String(KeyCleanup, string(d.Cleanup), "Temp dir cleanup: on-success | always")
	fs.String(KeyPick, string(d.Pick), "PNG choice when several are produced: first | largest")
	fs.BoolP(KeyDryRun, "d", false, "Resolve symbols and print commands; do not export")

	fs.String(KeyReport, "", "Write a JSON run report to this path")
	fs.String(KeyArchive, "", "Bundle produced PNGs into this zip file")
	fs.String(KeyArchivePassword, "", "Encrypt archive entries (AES-256)")

	fs.BoolP(KeyVerbose, "v", false, "Verbose output")
	fs.String(KeyColor, string(d.ColorMode), "Colored logs: auto | always | never")
	fs.StringP(KeyLog, "l", "", "Append logs to file")
}

// NewViper returns a viper instance wired to fs, the SWFSPRITE_* environment
// and, when configFile is non-empty, that config file. Without configFile it
// looks for swfsprite.{yaml,toml,json} in the working directory. A .env file
// in the working directory is loaded into the process environment first;
// variables already set take precedence over it.
func NewViper(fs *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("swfsprite")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load builds a Config from DefaultConfig overlaid with every key v knows
// about. Directory arguments are normalized. The result is not validated;
// call [Config.Validate].
func Load(v *viper.Viper) Config {
	cfg := DefaultConfig()

	if v.IsSet(KeyTool) {
		cfg.ToolPath = v.GetString(KeyTool)
	}
	if v.IsSet(KeyTimeout) {
		cfg.Timeout = durationSeconds(v, KeyTimeout)
	}
	if v.IsSet(KeyZoom) {
		cfg.Zoom = v.GetInt(KeyZoom)
	}
	if v.IsSet(KeyExportMode) {
		cfg.ExportMode = v.GetString(KeyExportMode)
	}
	if v.IsSet(KeySource) {
		cfg.SourceDir = NormalizeDirArg(v.GetString(KeySource))
	}
	if v.IsSet(KeySymbols) {
		cfg.SymbolsDir = NormalizeDirArg(v.GetString(KeySymbols))
	}
	if v.IsSet(KeyOutput) {
		cfg.OutputDir = NormalizeDirArg(v.GetString(KeyOutput))
	}
	if v.IsSet(KeySymbolName) {
		cfg.SymbolName = v.GetString(KeySymbolName)
	}
	if v.IsSet(KeyWorkers) {
		cfg.Workers = v.GetInt(KeyWorkers)
	}
	if v.IsSet(KeyCleanup) {
		cfg.Cleanup = CleanupPolicy(strings.ToLower(v.GetString(KeyCleanup)))
	}
	if v.IsSet(KeyPick) {
		cfg.Pick = PickPolicy(strings.ToLower(v.GetString(KeyPick)))
	}
	if v.IsSet(KeyColor) {
		cfg.ColorMode = ColorMode(strings.ToLower(v.GetString(KeyColor)))
	}

	cfg.DryRun = v.GetBool(KeyDryRun)
	cfg.Verbose = v.GetBool(KeyVerbose)
	cfg.ReportPath = v.GetString(KeyReport)
	cfg.ArchivePath = v.GetString(KeyArchive)
	cfg.ArchivePassword = v.GetString(KeyArchivePassword)
	cfg.LogFile = v.GetString(KeyLog)
	return cfg
}

// durationSeconds reads a duration key. A bare number, from the environment
// or a config file, is taken as seconds rather than nanoseconds.
func durationSeconds(v *viper.Viper, key string) time.Duration {
	switch raw := v.Get(key).(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return time.Duration(cast.ToFloat64(raw) * float64(time.Second))
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return time.Duration(f * float64(time.Second))
		}
	}
	return v.GetDuration(key)
}
