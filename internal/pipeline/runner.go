package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/backmassage/swfsprite/internal/archive"
	"github.com/backmassage/swfsprite/internal/config"
	"github.com/backmassage/swfsprite/internal/display"
	"github.com/backmassage/swfsprite/internal/extract"
	"github.com/backmassage/swfsprite/internal/ffdec"
	"github.com/backmassage/swfsprite/internal/logging"
	"github.com/backmassage/swfsprite/internal/report"
)

// stderrTailLines bounds how much decompiler stderr is echoed per failure
// in verbose mode.
const stderrTailLines = 20

// Run is the top-level batch entry point: discover inputs, fan them out to
// cfg.Workers concurrent extractions, print each result as it completes,
// and summarize. Per-file failures never abort the run; the caller exits 0
// regardless of them.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	stats := newRunStats()

	files, err := Discover(cfg.SourceDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	stats.Total = len(files)

	logBatchHeader(cfg, log, &stats)
	warnDuplicateStems(log, files)

	if stats.Total == 0 {
		log.Warn("No .swf files found in %s", cfg.SourceDir)
		return stats
	}

	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("Cannot create output directory: %v", err)
			return stats
		}
	}

	work := func(ctx context.Context, path string) extract.Result {
		return extract.Process(ctx, cfg, path)
	}
	for r := range dispatch(ctx, files, cfg.Workers, work) {
		stats.Add(r)
		logResult(log, stats.Completed, stats.Total, r)
	}

	// Only succeeds when every per-stem directory was cleaned up.
	_ = os.Remove(cfg.TempRoot())

	stats.Elapsed = time.Since(stats.Started)
	logSummary(log, &stats)
	writeArtifacts(cfg, log, &stats)
	return stats
}

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d files", stats.Total)
	log.Info("Tool: %s (zoom %d, export %s, timeout %s)", cfg.ToolPath, cfg.Zoom, cfg.ExportMode, cfg.Timeout)
	log.Info("Symbols: %s/<stem>.swf/symbols.csv, name %q", cfg.SymbolsDir, cfg.SymbolName)
	log.Info("Workers: %d", cfg.Workers)
	if cfg.Cleanup == config.CleanupAlways {
		log.Info("Cleanup: always remove temp export dirs")
	}
	if cfg.Pick == config.PickLargest {
		log.Info("PNG choice: largest file")
	}
	log.Blank()
}

func warnDuplicateStems(log *logging.Logger, files []string) {
	dups := DuplicateStems(files)
	keys := make([]string, 0, len(dups))
	for k := range dups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		names := make([]string, len(dups[k]))
		for i, p := range dups[k] {
			names[i] = filepath.Base(p)
		}
		log.Warn("Stems differ only in case, outputs may collide: %s", strings.Join(names, ", "))
	}
}

// logResult prints one "[i/total] message" line as soon as a file completes.
func logResult(log *logging.Logger, i, total int, r extract.Result) {
	switch r.Kind {
	case extract.KindSuccess:
		if r.Width > 0 {
			log.Success("[%d/%d] %s (%dx%d)", i, total, r.Message, r.Width, r.Height)
		} else {
			log.Success("[%d/%d] %s", i, total, r.Message)
		}
	case extract.KindDryRun:
		log.Info("[%d/%d] %s", i, total, r.Message)
		log.Debug("  %s", strings.Join(r.Command, " "))
		return
	case extract.KindToolFailure, extract.KindUnexpected:
		log.Error("[%d/%d] %s", i, total, r.Message)
	default:
		log.Warn("[%d/%d] %s", i, total, r.Message)
	}

	if len(r.Command) > 0 {
		log.Debug("  cmd: %s", strings.Join(r.Command, " "))
	}
	log.Debug("  took %s", display.FormatElapsed(r.Elapsed))
	var te *ffdec.ToolError
	if errors.As(r.Err, &te) {
		for _, l := range te.Tail(stderrTailLines) {
			log.Debug("  | %s", l)
		}
	}
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Blank()
	log.Info("==============================")
	if stats.Failed == 0 {
		log.Success("Done: %d/%d succeeded", stats.Succeeded, stats.Total)
	} else {
		log.Warn("Done: %d/%d succeeded", stats.Succeeded, stats.Total)
	}
	for _, k := range extract.Kinds {
		if n := stats.ByKind[k]; n > 0 && k != extract.KindSuccess {
			log.Info("  %-17s %d", k+":", n)
		}
	}
	if stats.Completed < stats.Total {
		log.Warn("  not completed:    %d", stats.Total-stats.Completed)
	}
	log.Info("Elapsed: %s", display.FormatElapsed(stats.Elapsed))
}

// writeArtifacts emits the optional JSON report and zip bundle. Failures
// here are logged and do not change the run outcome.
func writeArtifacts(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	if cfg.ReportPath != "" {
		run := report.Run{
			Started: stats.Started,
			Elapsed: stats.Elapsed,
			Total:   stats.Total,
			Results: stats.Results,
		}
		if err := report.Write(cfg.ReportPath, run); err != nil {
			log.Error("Cannot write report: %v", err)
		} else {
			log.Info("Report: %s", cfg.ReportPath)
		}
	}

	if cfg.ArchivePath != "" && !cfg.DryRun {
		outputs := stats.Outputs()
		if len(outputs) == 0 {
			log.Warn("Archive skipped: no PNGs exported")
			return
		}
		size, err := archive.Bundle(cfg.ArchivePath, outputs, cfg.ArchivePassword)
		if err != nil {
			log.Error("Cannot write archive: %v", err)
			return
		}
		label := ""
		if cfg.ArchivePassword != "" {
			label = ", AES-256"
		}
		log.Info("Archive: %s (%d files, %s%s)", cfg.ArchivePath, len(outputs), display.FormatBytes(size), label)
	}
}
