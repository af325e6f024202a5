package nb2html

import (
	"errors"

	"github.com/alnah/go-nb2html/internal/highlight"
	"github.com/alnah/go-nb2html/internal/notebook"
	"github.com/alnah/go-nb2html/internal/pipeline"
	"github.com/alnah/go-nb2html/internal/theme"
)

// Sentinel errors for library operations.
var (
	ErrEmptyNotebook   = notebook.ErrEmptyNotebook
	ErrNotebookParse   = notebook.ErrNotebookParse
	ErrUnknownTheme    = theme.ErrUnknownTheme
	ErrThemeLoad       = theme.ErrThemeLoad
	ErrUnknownLanguage = highlight.ErrUnknownLanguage
	ErrDocumentRender  = pipeline.ErrDocumentRender

	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// TOC validation errors.
	ErrInvalidTOCDepth = pipeline.ErrInvalidTOCDepth

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
