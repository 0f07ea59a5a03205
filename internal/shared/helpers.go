// Package shared provides common utility functions used across multiple
// packages in the wpm codebase.
package shared

import (
	"fmt"
	"strings"
	"time"

	"wpm/internal/types"
)

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}

// ResultError describes a command that ran but exited non-zero.
func ResultError(command string, result types.CommandResult) error {
	msg := strings.TrimSpace(result.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(result.Stdout)
	}
	if msg == "" {
		return fmt.Errorf("%s: exit status %d", command, result.ExitCode)
	}
	return fmt.Errorf("%s: exit status %d: %s", command, result.ExitCode, msg)
}

// FormatDuration renders elapsed time the way summary lines show it.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3f sec", d.Seconds())
}
