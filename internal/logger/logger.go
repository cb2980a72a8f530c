// Package logger provides leveled logging for clinirag.
// Debug, Info and Section messages trace the ingestion and query pipeline
// and are only printed with --verbose. Warnings and errors always print,
// so skipped documents are visible without extra flags.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	counts  = map[string]int{}
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for all logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("DEBUG", true, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("INFO", true, format, args...)
}

// Warn prints a warning message regardless of verbose mode.
func Warn(format string, args ...any) {
	write("WARN", false, format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	write("ERROR", false, format, args...)
}

// Count returns how many messages have been emitted at the given level
// ("WARN", "ERROR") since the last ResetCounts.
func Count(level string) int {
	mu.RLock()
	defer mu.RUnlock()
	return counts[level]
}

// ResetCounts clears the per-level message counters.
func ResetCounts() {
	mu.Lock()
	defer mu.Unlock()
	counts = map[string]int{}
}

func write(level string, verboseOnly bool, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verboseOnly && !verbose {
		return
	}
	counts[level]++
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}
