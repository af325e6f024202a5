package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed themes/* templates/* styles/*
var embedded embed.FS

// Source loads assets from a single tree: the embedded set or a directory
// on disk.
type Source struct {
	name string
	open func() (fs.FS, func(), error)
}

// NewEmbeddedLoader returns the assets compiled into the binary.
func NewEmbeddedLoader() *Source {
	return &Source{
		name: "embedded",
		open: func() (fs.FS, func(), error) { return embedded, func() {}, nil },
	}
}

// NewFilesystemLoader returns a Source reading from basePath. Reads go
// through an os.Root, so symlinks cannot lead outside basePath.
func NewFilesystemLoader(basePath string) (*Source, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &Source{
		name: abs,
		open: func() (fs.FS, func(), error) {
			root, err := os.OpenRoot(abs)
			if err != nil {
				return nil, nil, err
			}
			return root.FS(), func() { _ = root.Close() }, nil
		},
	}, nil
}

// String names the source: "embedded" or the absolute directory.
func (s *Source) String() string { return s.name }

func (s *Source) LoadTheme(name string) (string, error)    { return s.load(themeKind, name) }
func (s *Source) LoadTemplate(name string) (string, error) { return s.load(templateKind, name) }
func (s *Source) LoadStyle(name string) (string, error)    { return s.load(styleKind, name) }

// Themes lists the theme names defined in this source, sorted.
func (s *Source) Themes() ([]string, error) {
	fsys, done, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer done()

	matches, err := fs.Glob(fsys, themeKind.dir+"/*"+themeKind.ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m[len(themeKind.dir)+1:], themeKind.ext))
	}
	slices.Sort(names)
	return names, nil
}

func (s *Source) load(k kind, name string) (string, error) {
	p, err := k.path(name)
	if err != nil {
		return "", err
	}
	fsys, done, err := s.open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer done()

	content, err := fs.ReadFile(fsys, p)
	switch {
	case err == nil:
		return string(content), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	case escapes(err):
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, p)
	default:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
}

// escapes reports an os.Root refusal to follow a path out of its directory.
func escapes(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe) && strings.Contains(pe.Err.Error(), "escapes")
}

var _ AssetLoader = (*Source)(nil)
