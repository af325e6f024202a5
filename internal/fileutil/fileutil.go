// Package fileutil holds the path conventions shared by the CLI and the
// converter: notebook detection, output naming and scratch files.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NotebookExt is the extension of notebook files.
const NotebookExt = ".ipynb"

// ErrBadSuffix reports a scratch file suffix that is not a bare extension.
var ErrBadSuffix = errors.New("fileutil: suffix must be an extension like \".html\"")

// IsNotebook reports whether path has the notebook extension (any case).
func IsNotebook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), NotebookExt)
}

// OutputPath derives the destination of input with the extension swapped
// for ext (".html", ".pdf"). The file lands in outDir when set, next to the
// input otherwise.
func OutputPath(input, outDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}

// IsFilePath reports whether s names a path rather than a bare name: any
// separator counts, so "work" is a name and "./work.yaml" a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsRegularFile reports whether path exists and is not a directory.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Scratch writes content to a new file in the temp directory named
// nb2html-*{suffix}. The returned func removes it.
func Scratch(content []byte, suffix string) (string, func(), error) {
	if len(suffix) < 2 || suffix[0] != '.' || strings.ContainsAny(suffix[1:], "./\\\x00") {
		return "", nil, fmt.Errorf("%w: %q", ErrBadSuffix, suffix)
	}

	f, err := os.CreateTemp("", "nb2html-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch file: %w", err)
	}
	path := f.Name()
	remove := func() { _ = os.Remove(path) }

	_, err = f.Write(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		remove()
		return "", nil, fmt.Errorf("writing scratch file: %w", err)
	}
	return path, remove, nil
}
