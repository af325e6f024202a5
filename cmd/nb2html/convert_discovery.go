package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	nb2html "github.com/alnah/go-nb2html"
	"github.com/alnah/go-nb2html/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .ipynb extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// Output extensions.
const (
	htmlExt = ".html"
	pdfExt  = ".pdf"
)

// FileToConvert represents a single notebook to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string // .html destination; the PDF sits next to it
}

// PDFPath returns the PDF destination matching OutputPath.
func (f FileToConvert) PDFPath() string {
	return strings.TrimSuffix(f.OutputPath, filepath.Ext(f.OutputPath)) + pdfExt
}

// discoverFiles finds all notebooks to convert. Hidden directories such as
// .ipynb_checkpoints are skipped.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateNotebookExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsNotebook(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the HTML output path for a notebook. An
// output ending in .html names the file itself; a directory output keeps
// the notebook's path relative to baseInputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if strings.EqualFold(filepath.Ext(outputDir), htmlExt) {
		return outputDir
	}

	if outputDir != "" && baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			outputDir = filepath.Join(outputDir, filepath.Dir(relPath))
		}
	}

	return fileutil.OutputPath(inputPath, outputDir, htmlExt)
}

// validateNotebookExtension checks that the file has an .ipynb extension.
func validateNotebookExtension(path string) error {
	if !fileutil.IsNotebook(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > nb2html.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, nb2html.MaxPoolSize)
	}
	return nil
}
