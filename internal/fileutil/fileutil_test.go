package fileutil_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-nb2html/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestIsNotebook - Extension detection
// ---------------------------------------------------------------------------

func TestIsNotebook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{path: "analysis.ipynb", want: true},
		{path: "dir/Report.IPYNB", want: true},
		{path: "notes.md", want: false},
		{path: "archive.ipynb.bak", want: false},
		{path: "ipynb", want: false},
		{path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsNotebook(tt.path); got != tt.want {
				t.Errorf("IsNotebook(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOutputPath - Destination naming
// ---------------------------------------------------------------------------

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		outDir string
		ext    string
		want   string
	}{
		{name: "next to input", input: filepath.Join("nb", "a.ipynb"), ext: ".html", want: filepath.Join("nb", "a.html")},
		{name: "into out dir", input: filepath.Join("nb", "a.ipynb"), outDir: "site", ext: ".html", want: filepath.Join("site", "a.html")},
		{name: "pdf", input: "a.ipynb", ext: ".pdf", want: "a.pdf"},
		{name: "dotted stem", input: "v1.2.ipynb", ext: ".html", want: "v1.2.html"},
		{name: "no extension", input: "README", ext: ".html", want: "README.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.OutputPath(tt.input, tt.outDir, tt.ext); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - Name versus path
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "work", want: false},
		{in: "my-config", want: false},
		{in: "work.yaml", want: false},
		{in: "./work.yaml", want: true},
		{in: "../shared/work.yaml", want: true},
		{in: "/etc/nb2html.yaml", want: true},
		{in: `C:\cfg\work.yaml`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.in); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsRegularFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.yaml")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.IsRegularFile(file) {
		t.Error("IsRegularFile(file) = false")
	}
	if fileutil.IsRegularFile(dir) {
		t.Error("IsRegularFile(dir) = true")
	}
	if fileutil.IsRegularFile(filepath.Join(dir, "missing")) {
		t.Error("IsRegularFile(missing) = true")
	}
}

// ---------------------------------------------------------------------------
// TestScratch - Temporary files
// ---------------------------------------------------------------------------

func TestScratch(t *testing.T) {
	t.Parallel()

	content := []byte("<!DOCTYPE html><p>cell</p>")
	path, remove, err := fileutil.Scratch(content, ".html")
	if err != nil {
		t.Fatalf("Scratch() error = %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), "nb2html-") || filepath.Ext(path) != ".html" {
		t.Errorf("path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, content) {
		t.Errorf("content = %q, %v", got, err)
	}

	remove()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file still present after remove: %v", err)
	}
	remove()
}

func TestScratch_BadSuffix(t *testing.T) {
	t.Parallel()

	for _, suffix := range []string{"", ".", "html", "../x", ".a/b", ".tar.gz", ".x\x00"} {
		t.Run(suffix, func(t *testing.T) {
			t.Parallel()

			if _, _, err := fileutil.Scratch(nil, suffix); !errors.Is(err, fileutil.ErrBadSuffix) {
				t.Errorf("Scratch(%q) error = %v, want ErrBadSuffix", suffix, err)
			}
		})
	}
}

// Notes:
// - Not parallel: points TMPDIR at a missing directory.
func TestScratch_CreateError(t *testing.T) {
	t.Setenv("TMPDIR", filepath.Join(t.TempDir(), "missing"))

	if _, _, err := fileutil.Scratch([]byte("x"), ".html"); err == nil {
		t.Error("Scratch() should fail when the temp directory is missing")
	}
}
