package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

func writeAsset(t *testing.T, base, rel, content string) {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// ---------------------------------------------------------------------------
// TestNewFilesystemLoader - Base path validation
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "directory", path: t.TempDir()},
		{name: "empty path", path: "", wantErr: ErrInvalidBasePath},
		{name: "missing directory", path: filepath.Join(t.TempDir(), "nope"), wantErr: ErrInvalidBasePath},
		{name: "regular file", path: file, wantErr: ErrInvalidBasePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := NewFilesystemLoader(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !filepath.IsAbs(src.String()) {
				t.Errorf("String() = %q, want absolute path", src.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSource_Filesystem - Loading from a directory
// ---------------------------------------------------------------------------

func TestSource_Filesystem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "themes/dark.yaml", "name: dark\nclasses:\n  prompt: text-gray-400\n")
	writeAsset(t, dir, "templates/dark.html", "<section>{{.Content}}</section>")
	writeAsset(t, dir, "styles/dark.css", "body { background: #111; }")

	src, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	tests := []struct {
		name    string
		load    func(string) (string, error)
		asset   string
		want    string
		wantErr error
	}{
		{name: "theme", load: src.LoadTheme, asset: "dark", want: "name: dark\nclasses:\n  prompt: text-gray-400\n"},
		{name: "template", load: src.LoadTemplate, asset: "dark", want: "<section>{{.Content}}</section>"},
		{name: "style", load: src.LoadStyle, asset: "dark", want: "body { background: #111; }"},
		{name: "missing theme", load: src.LoadTheme, asset: "light", wantErr: ErrThemeNotFound},
		{name: "missing template", load: src.LoadTemplate, asset: "light", wantErr: ErrTemplateNotFound},
		{name: "missing style", load: src.LoadStyle, asset: "light", wantErr: ErrStyleNotFound},
		{name: "traversal name", load: src.LoadTheme, asset: "../dark", wantErr: ErrInvalidAssetName},
		{name: "dotted name", load: src.LoadStyle, asset: "dark.css", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load(tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSource_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	outside := t.TempDir()
	writeAsset(t, outside, "secret.yaml", "name: secret\n")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "themes"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.yaml"), filepath.Join(dir, "themes", "leak.yaml")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	src, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	got, err := src.LoadTheme("leak")
	if err == nil {
		t.Fatalf("LoadTheme(leak) = %q, want an error", got)
	}
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("error = %v, want ErrPathTraversal", err)
	}
}

func TestSource_Themes(t *testing.T) {
	t.Parallel()

	t.Run("embedded", func(t *testing.T) {
		t.Parallel()

		got, err := NewEmbeddedLoader().Themes()
		if err != nil {
			t.Fatalf("Themes() error = %v", err)
		}
		want := slices.Sorted(slices.Values(BuiltinThemes))
		if !slices.Equal(got, want) {
			t.Errorf("Themes() = %v, want %v", got, want)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAsset(t, dir, "themes/solar.yaml", "name: solar\n")
		writeAsset(t, dir, "themes/aurora.yaml", "name: aurora\n")
		writeAsset(t, dir, "themes/readme.txt", "not a theme")

		src, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatal(err)
		}
		got, err := src.Themes()
		if err != nil {
			t.Fatalf("Themes() error = %v", err)
		}
		if !slices.Equal(got, []string{"aurora", "solar"}) {
			t.Errorf("Themes() = %v", got)
		}
	})

	t.Run("directory without themes", func(t *testing.T) {
		t.Parallel()

		src, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		got, err := src.Themes()
		if err != nil || len(got) != 0 {
			t.Errorf("Themes() = (%v, %v), want empty", got, err)
		}
	})
}
