// Package extract implements the per-file worker: resolve the symbol ID,
// run the decompiler into a scratch directory, and move the produced PNG
// into the flat output directory.
package extract

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/swfsprite/internal/config"
	"github.com/backmassage/swfsprite/internal/ffdec"
	"github.com/backmassage/swfsprite/internal/symbols"
)

// Stem returns the file name of path without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ExportDir is the per-stem scratch directory the decompiler writes into.
func ExportDir(cfg *config.Config, stem string) string {
	return filepath.Join(cfg.TempRoot(), stem)
}

// OutputPath is the final artifact path for stem.
func OutputPath(cfg *config.Config, stem string) string {
	return filepath.Join(cfg.OutputDir, stem+".png")
}

// Process exports the configured symbol of one SWF file. It never returns an
// error or panics out: every outcome, including unexpected filesystem
// failures, is reported as a Result.
//
// Cleanup follows cfg.Cleanup. Under on-success the scratch directory is
// removed only after a PNG has been moved out; tool failures and runs that
// produce no PNG leave it on disk for inspection.
func Process(ctx context.Context, cfg *config.Config, swfPath string) (res Result) {
	start := time.Now()
	stem := Stem(swfPath)
	defer func() {
		if p := recover(); p != nil {
			res = newResult(swfPath, stem, KindUnexpected, fmt.Errorf("panic: %v", p))
		}
		res.Elapsed = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		return newResult(swfPath, stem, KindInterrupted, err)
	}

	// --- Resolve symbol (no filesystem writes before this succeeds) ---
	id, err := symbols.Resolve(cfg.SymbolsDir, stem, cfg.SymbolName)
	switch {
	case errors.Is(err, symbols.ErrTableMissing):
		return newResult(swfPath, stem, KindTableMissing, err)
	case errors.Is(err, symbols.ErrSymbolNotFound):
		r := newResult(swfPath, stem, KindSymbolNotFound, err)
		r.Message = fmt.Sprintf("no %s symbol %s", strings.TrimSpace(cfg.SymbolName), stem)
		return r
	case err != nil:
		return newResult(swfPath, stem, KindUnexpected, err)
	}

	exportDir, err := filepath.Abs(ExportDir(cfg, stem))
	if err != nil {
		return newResult(swfPath, stem, KindUnexpected, err)
	}
	swfAbs, err := filepath.Abs(swfPath)
	if err != nil {
		return newResult(swfPath, stem, KindUnexpected, err)
	}
	args := ffdec.Build(cfg, id, exportDir, swfAbs)

	if cfg.DryRun {
		r := newResult(swfPath, stem, KindDryRun, nil)
		r.Command = args
		r.Message = fmt.Sprintf("[DRY] would export %s (symbol %d)", stem, id)
		return r
	}

	// --- Export ---
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return newResult(swfPath, stem, KindUnexpected, err)
	}

	run := ffdec.Execute(ctx, cfg, args)
	if run.Err != nil {
		kind := KindToolFailure
		if ctx.Err() != nil {
			kind = KindInterrupted
		}
		r := newResult(swfPath, stem, kind, run.Err)
		r.Command = args
		cleanupFailed(cfg, exportDir)
		return r
	}

	// --- Collect ---
	pngs, err := findPNGs(exportDir)
	if err != nil {
		cleanupFailed(cfg, exportDir)
		return newResult(swfPath, stem, KindUnexpected, err)
	}
	if len(pngs) == 0 {
		cleanupFailed(cfg, exportDir)
		r := newResult(swfPath, stem, KindNoOutput, nil)
		r.Command = args
		return r
	}

	chosen, err := pick(cfg.Pick, pngs)
	if err != nil {
		cleanupFailed(cfg, exportDir)
		return newResult(swfPath, stem, KindUnexpected, err)
	}

	out := OutputPath(cfg, stem)
	if err := moveFile(chosen, out); err != nil {
		cleanupFailed(cfg, exportDir)
		return newResult(swfPath, stem, KindUnexpected, err)
	}
	_ = os.RemoveAll(exportDir)

	r := newResult(swfPath, stem, KindSuccess, nil)
	r.Output = out
	r.Command = args
	r.Width, r.Height = pngSize(out)
	return r
}

func cleanupFailed(cfg *config.Config, exportDir string) {
	if cfg.Cleanup == config.CleanupAlways {
		_ = os.RemoveAll(exportDir)
	}
}

// findPNGs returns every *.png under root in WalkDir order, which is lexical
// per directory and therefore stable across runs and platforms.
func findPNGs(root string) ([]string, error) {
	var pngs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ".png") {
			pngs = append(pngs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan export dir: %w", err)
	}
	return pngs, nil
}

// pick chooses one PNG. candidates is non-empty and in walk order.
func pick(policy config.PickPolicy, candidates []string) (string, error) {
	if policy != config.PickLargest {
		return candidates[0], nil
	}
	best, bestSize := "", int64(-1)
	for _, c := range candidates {
		fi, err := os.Stat(c)
		if err != nil {
			return "", err
		}
		if fi.Size() > bestSize {
			best, bestSize = c, fi.Size()
		}
	}
	return best, nil
}

// moveFile renames src onto dst, replacing dst. When rename fails (e.g. the
// output directory is on another filesystem) it falls back to copy+remove.
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("move %s: %w", filepath.Base(src), errors.Join(renameErr, err))
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// pngSize reads only the PNG header. Output that is not a decodable PNG is
// still accepted; the size is then reported as zero.
func pngSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
