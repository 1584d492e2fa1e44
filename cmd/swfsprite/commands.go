package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/backmassage/swfsprite/internal/check"
	"github.com/backmassage/swfsprite/internal/display"
	"github.com/backmassage/swfsprite/internal/extract"
	"github.com/backmassage/swfsprite/internal/logging"
	"github.com/backmassage/swfsprite/internal/report"
	"github.com/backmassage/swfsprite/internal/symbols"
)

var errCheckFailed = errors.New("system check failed")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report decompiler, Java, source and symbol-table readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.CheckOnly = true
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := logging.NewLogger(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(cmd.OutOrStdout())
			if !check.RunCheck(&cfg, log) {
				return errCheckFailed
			}
			return nil
		},
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <stem|file.swf>",
		Short: "Print the symbol ID the extractor would export for one SWF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			stem := args[0]
			if filepath.Ext(stem) == ".swf" {
				stem = extract.Stem(stem)
			}
			id, err := symbols.Resolve(cfg.SymbolsDir, stem, cfg.SymbolName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <file>",
		Short: "Summarize a JSON run report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := report.Read(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, s)
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, s report.Summary) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Started:   %s\n", s.Started)
	fmt.Fprintf(w, "Elapsed:   %.1fs\n", s.ElapsedSeconds)
	fmt.Fprintf(w, "Succeeded: %s\n", display.FormatRatio(s.Succeeded, s.Total))

	// Known kinds in display order, then anything a newer writer added.
	seen := make(map[string]bool)
	for _, k := range extract.Kinds {
		seen[string(k)] = true
		if n := s.ByKind[string(k)]; n > 0 {
			fmt.Fprintf(w, "  %-17s %d\n", string(k)+":", n)
		}
	}
	var extra []string
	for k := range s.ByKind {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		fmt.Fprintf(w, "  %-17s %d\n", k+":", s.ByKind[k])
	}

	if len(s.Failures) > 0 {
		fmt.Fprintln(w, "Failures:")
		for _, m := range s.Failures {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "swfsprite v%s (%s)\n", version, commit)
		},
	}
}
