package ffdec

import (
	"strconv"

	"github.com/backmassage/swfsprite/internal/config"
)

// Build returns the full argument slice (tool first) that exports symbolID
// from swfPath as a rendered sprite into exportDir:
//
//	<tool> -cli -selectid <id> -zoom <zoom> -export <mode> <exportDir> <swfPath>
//
// Both paths should be absolute; the decompiler resolves relative paths
// against its own install directory on some platforms.
func Build(cfg *config.Config, symbolID int, exportDir, swfPath string) []string {
	return []string{
		cfg.ToolPath,
		"-cli",
		"-selectid", strconv.Itoa(symbolID),
		"-zoom", strconv.Itoa(cfg.Zoom),
		"-export", cfg.ExportMode,
		exportDir,
		swfPath,
	}
}
