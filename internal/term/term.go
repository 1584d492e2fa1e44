// Package term owns the ANSI color sequences used by logging and display.
// [Configure] fills them in once at startup. With colors off every sequence
// is "", so callers concatenate unconditionally.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/swfsprite/internal/config"
)

// Color sequences, bold bright variants. NC resets.
var (
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Cyan    string
	Magenta string
	NC      string
)

var palette = []struct {
	dst  *string
	code string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure turns the color sequences on or off for mode. It is called by
// logging.NewLogger before the first line is written.
func Configure(mode config.ColorMode) {
	set(wantColor(mode, os.Getenv, isTTY(os.Stdout)))
}

func set(on bool) {
	for _, p := range palette {
		if on {
			*p.dst = p.code
		} else {
			*p.dst = ""
		}
	}
}

// Paint returns s wrapped in color and NC, or s unchanged when color is "".
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + NC
}

// wantColor decides auto mode from the TTY check, NO_COLOR
// (https://no-color.org) and TERM=dumb.
func wantColor(mode config.ColorMode, getenv func(string) string, tty bool) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if !tty || getenv("NO_COLOR") != "" {
		return false
	}
	return !strings.EqualFold(getenv("TERM"), "dumb")
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
