package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch classified.Category() {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryInput:
		return 3 // Unreadable reflection model
	case CategoryConfig:
		return 7
	case CategoryRender, CategoryFileSystem, CategoryLinks:
		return 11
	case CategoryRuntime:
		return 12
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display. A "path" context
// value is appended when the message does not already name it.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	if !IsClassified(err) {
		return fmt.Sprintf("Error: %v", err)
	}
	classified, _ := AsClassified(err)
	if !a.verbose && classified.Category() == CategoryInternal {
		return "Internal error occurred (use -v for details)"
	}
	msg := classified.Error()
	if path, ok := classified.Context().GetString("path"); ok && !strings.Contains(msg, path) {
		msg += " (" + path + ")"
	}
	return msg
}

// Report logs err and prints the user-facing message; it returns the exit code
// instead of exiting so commands stay testable.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		a.logger.LogAttrs(context.Background(), slogLevel(classified.Severity()), classified.Message(), classified.LogAttrs()...)
	} else {
		a.logger.Error("Unclassified error", "error", err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// LogNonFatal logs err at a level matching its severity. Used for errors that
// are surfaced but never abort a pass, such as option conflicts.
func LogNonFatal(logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if classified, ok := AsClassified(err); ok {
		logger.LogAttrs(context.Background(), slogLevel(classified.Severity()), classified.Message(), classified.LogAttrs()...)
		return
	}
	logger.Error(err.Error())
}

func slogLevel(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
