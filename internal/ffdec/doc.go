// Package ffdec builds and runs command lines for the JPEXS decompiler CLI.
//
// The decompiler is an opaque collaborator: this package relies only on its
// exit status, on PNG files appearing under the export directory, and on the
// caller-enforced wall-clock budget. Nothing here parses SWF content.
//
// Files: builder.go (argument slice), executor.go (timeout-bounded run and
// ToolError), errors.go (stderr hints for common launcher failures).
package ffdec
