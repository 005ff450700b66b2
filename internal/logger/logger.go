package logger

import (
	"github.com/fatih/color" // Colored console output
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level.

// Info logs informational messages in green color.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
var Error = color.New(color.FgRed).PrintfFunc()

// Stream prints output forwarded from child processes (alr, svd2ada) in a faint color
// so it stays visually separate from haligen's own messages.
var Stream = color.New(color.Faint).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It starts as a no-op so packages used before Init (tests, library callers) never hit a nil func.
var Debug = func(format string, a ...any) {}

// Init configures the logger for the current run.
// Parameters:
// - enableDebug: turn Debug messages on or off.
// - noColor: strip ANSI colors from every level (useful when output is piped into a file).
func Init(enableDebug, noColor bool) {
	if noColor {
		color.NoColor = true
	}
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}

// Line forwards a single line of child-process output to the console.
// It matches the executor's sink signature.
func Line(line string) {
	Stream("    | %s\n", line)
}
