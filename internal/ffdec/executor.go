package ffdec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/swfsprite/internal/config"
)

// ErrTimeout matches a ToolError whose invocation exceeded the budget.
var ErrTimeout = errors.New("decompiler timed out")

// waitDelay bounds how long Wait blocks on output pipes after the child is
// killed. The ffdec launcher script forks a JVM that can outlive it.
const waitDelay = 2 * time.Second

// ExecResult holds the outcome of a single decompiler invocation.
type ExecResult struct {
	Stdout  string
	Stderr  string
	Elapsed time.Duration
	Err     error // nil or *ToolError
}

// ToolError describes a failed invocation: non-zero exit, timeout, or a
// launcher that could not be started at all (ExitCode -1).
type ToolError struct {
	Tool     string
	ExitCode int
	TimedOut bool
	Timeout  time.Duration
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	var msg string
	switch {
	case e.TimedOut:
		msg = fmt.Sprintf("%s timed out after %s", e.Tool, e.Timeout)
	case e.ExitCode >= 0:
		msg = fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	default:
		msg = fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	if hint := Diagnose(e.Stderr); hint != "" {
		msg += " (" + hint + ")"
	} else if last := lastLine(e.Stderr); last != "" && !e.TimedOut {
		msg += ": " + last
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Is reports ErrTimeout for timed-out invocations.
func (e *ToolError) Is(target error) bool {
	return target == ErrTimeout && e.TimedOut
}

// Tail returns at most the last n non-empty stderr lines.
func (e *ToolError) Tail(n int) []string {
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Execute runs args (as produced by [Build]) under cfg.Timeout. The child is
// killed when the timeout fires or ctx is cancelled. Output is captured, not
// streamed, because workers run concurrently.
func Execute(ctx context.Context, cfg *config.Config, args []string) ExecResult {
	if len(args) == 0 {
		return ExecResult{Err: &ToolError{ExitCode: -1, Err: errors.New("empty command")}}
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := ExecResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}
	if err == nil {
		return res
	}

	te := &ToolError{
		Tool:     args[0],
		ExitCode: -1,
		Timeout:  cfg.Timeout,
		Stderr:   res.Stderr,
		Err:      err,
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		te.TimedOut = true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !te.TimedOut {
		te.ExitCode = exitErr.ExitCode()
	}
	res.Err = te
	return res
}

// LookPath resolves the configured tool to an executable path.
func LookPath(cfg *config.Config) (string, error) {
	return exec.LookPath(cfg.ToolPath)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
