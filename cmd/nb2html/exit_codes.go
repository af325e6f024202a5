package main

import (
	"context"
	"errors"
	"os"

	nb2html "github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/config"
	"github.com/alnah/go-nb2html/internal/hints"
)

// Exit codes for the nb2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, nb2html.ErrBrowserConnect) ||
		errors.Is(err, nb2html.ErrPageCreate) ||
		errors.Is(err, nb2html.ErrPageLoad) ||
		errors.Is(err, nb2html.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadNotebook) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoNotebooks) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, nb2html.ErrEmptyNotebook) ||
		errors.Is(err, nb2html.ErrNotebookParse) ||
		errors.Is(err, nb2html.ErrUnknownTheme) ||
		errors.Is(err, nb2html.ErrThemeLoad) ||
		errors.Is(err, nb2html.ErrUnknownLanguage) ||
		errors.Is(err, nb2html.ErrInvalidTOCDepth) ||
		errors.Is(err, nb2html.ErrInvalidPageSize) ||
		errors.Is(err, nb2html.ErrInvalidOrientation) ||
		errors.Is(err, nb2html.ErrInvalidMargin) ||
		errors.Is(err, nb2html.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}

// errorWithHint renders err followed by an actionable hint when one applies.
func errorWithHint(err error) string {
	msg := err.Error()
	switch {
	case errors.Is(err, nb2html.ErrBrowserConnect):
		return msg + hints.BrowserConnect(os.Getenv)
	case errors.Is(err, nb2html.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return msg + hints.Timeout()
	case errors.Is(err, nb2html.ErrUnknownTheme):
		return msg + hints.ThemeNotFound(nb2html.Themes())
	case errors.Is(err, nb2html.ErrNotebookParse):
		return msg + hints.NotebookParse()
	case errors.Is(err, nb2html.ErrInvalidAssetPath):
		return msg + hints.AssetPath()
	case errors.Is(err, ErrWriteOutput):
		return msg + hints.OutputDirectory()
	}
	return msg
}
