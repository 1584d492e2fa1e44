// Package check provides system diagnostics (the check subcommand) and
// pre-pipeline dependency validation (CheckDeps) for the decompiler, its
// Java runtime, and the source and symbol-table trees.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/swfsprite/internal/config"
	"github.com/backmassage/swfsprite/internal/extract"
	"github.com/backmassage/swfsprite/internal/ffdec"
	"github.com/backmassage/swfsprite/internal/pipeline"
	"github.com/backmassage/swfsprite/internal/symbols"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrToolNotFound   = errors.New("decompiler not found")
	ErrSourceMissing  = errors.New("source directory not found")
	ErrSymbolsMissing = errors.New("symbols directory not found")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck prints decompiler availability, Java presence, the number of
// source SWFs, and how many of them have a symbol table. It returns false
// when something would make every extraction fail.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(cfg, log)
	checkJava(log)
	files, srcOK := checkSource(cfg, log)
	if !srcOK {
		ok = false
	}
	checkCoverage(cfg, files, log)
	return ok
}

func checkTool(cfg *config.Config, log Logger) bool {
	path, err := ffdec.LookPath(cfg)
	if err != nil {
		log.Error("%s not found", cfg.ToolPath)
		return false
	}
	log.Success("decompiler: %s", path)
	return true
}

// checkJava reports whether a JVM is reachable. The ffdec launcher scripts
// need one, but a native wrapper may not, so absence is only a warning.
func checkJava(log Logger) {
	path, err := exec.LookPath("java")
	if err != nil {
		log.Warn("java not found on PATH")
		return
	}
	out, err := exec.Command(path, "-version").CombinedOutput()
	if err != nil {
		log.Warn("java found but -version failed: %v", err)
		return
	}
	first := strings.TrimSpace(string(out))
	if i := strings.IndexByte(first, '\n'); i > 0 {
		first = first[:i]
	}
	log.Success("java: %s", first)
}

func checkSource(cfg *config.Config, log Logger) ([]string, bool) {
	files, err := pipeline.Discover(cfg.SourceDir)
	if err != nil {
		log.Error("Source not readable: %v", err)
		return nil, false
	}
	if len(files) == 0 {
		log.Warn("No .swf files in %s", cfg.SourceDir)
	} else {
		log.Success("Source: %d .swf files in %s", len(files), cfg.SourceDir)
	}
	return files, true
}

// checkCoverage counts how many inputs have a symbol table and how many of
// those name the configured symbol.
func checkCoverage(cfg *config.Config, files []string, log Logger) {
	if len(files) == 0 {
		return
	}
	if _, err := os.Stat(cfg.SymbolsDir); err != nil {
		log.Error("Symbols directory not found: %s", cfg.SymbolsDir)
		return
	}

	tables, resolved := 0, 0
	for _, f := range files {
		stem := extract.Stem(f)
		_, err := symbols.Resolve(cfg.SymbolsDir, stem, cfg.SymbolName)
		switch {
		case err == nil:
			tables++
			resolved++
		case errors.Is(err, symbols.ErrSymbolNotFound):
			tables++
			log.Debug("no %s symbol: %s", cfg.SymbolName, stem)
		default:
			log.Debug("%v", err)
		}
	}

	msg := fmt.Sprintf("Symbol tables: %d/%d present, %d with a %q symbol", tables, len(files), resolved, cfg.SymbolName)
	if resolved == len(files) {
		log.Success("%s", msg)
	} else {
		log.Warn("%s", msg)
	}
}

// CheckDeps is the pre-pipeline validation. The decompiler must be
// resolvable unless cfg.DryRun is set, and the source and symbols
// directories must exist. Returns a wrapped sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if !cfg.DryRun {
		if _, err := ffdec.LookPath(cfg); err != nil {
			return fmt.Errorf("%w: %s", ErrToolNotFound, cfg.ToolPath)
		}
	}
	if !isDir(cfg.SourceDir) {
		return fmt.Errorf("%w: %s", ErrSourceMissing, cfg.SourceDir)
	}
	if !isDir(cfg.SymbolsDir) {
		return fmt.Errorf("%w: %s", ErrSymbolsMissing, cfg.SymbolsDir)
	}
	return nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
