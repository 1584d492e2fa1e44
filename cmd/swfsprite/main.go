// Command swfsprite batch-exports the "item" sprite of every SWF in a
// directory to a PNG, driving the JPEXS ffdec decompiler.
//
// It loads configuration from flags, SWFSPRITE_* environment variables, a
// .env file and an optional swfsprite.yaml, then either runs the extraction
// pipeline or one of the check, resolve, report and version subcommands.
package main

import (
	"fmt"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "swfsprite: %v\n", err)
		os.Exit(1)
	}
}
