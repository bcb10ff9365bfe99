// Package diagnostics writes warnings and verbosity-gated debug messages
// to a caller-supplied writer, and colors outcome labels for the report.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Logger writes diagnostic messages to Out, gating Debug on Verbose.
type Logger struct {
	Out     io.Writer
	Verbose bool
}

// New constructs a Logger.
func New(out io.Writer, verbose bool) *Logger {
	return &Logger{Out: out, Verbose: verbose}
}

// Warn always writes, prefixed with a colored "warning:" tag.
func (l *Logger) Warn(format string, args ...any) {
	fmt.Fprintf(l.Out, "%s %s\n", color.YellowString("warning:"), fmt.Sprintf(format, args...))
}

// Debug writes only when Verbose is set.
func (l *Logger) Debug(format string, args ...any) {
	if !l.Verbose {
		return
	}
	fmt.Fprintf(l.Out, "%s %s\n", color.CyanString("debug:"), fmt.Sprintf(format, args...))
}

// Label colors an outcome label for terminal display: green for a clean
// result, red for a bad one, yellow for a timeout, uncolored otherwise.
func Label(label string) string {
	switch label {
	case "ok", "caught", "check ok", "build ok":
		return color.GreenString(label)
	case "NOT CAUGHT", "FAILED", "build failed", "check failed":
		return color.RedString(label)
	case "TIMEOUT":
		return color.YellowString(label)
	default:
		return label
	}
}
