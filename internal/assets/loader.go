package assets

import (
	"errors"
	"fmt"
	"strings"
)

// AssetLoader loads theme assets by name. Names never carry a directory or
// an extension.
type AssetLoader interface {
	// LoadTheme returns themes/{name}.yaml or ErrThemeNotFound.
	LoadTheme(name string) (string, error)
	// LoadTemplate returns templates/{name}.html or ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
	// LoadStyle returns styles/{name}.css or ErrStyleNotFound.
	LoadStyle(name string) (string, error)
}

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrThemeNotFound    = errors.New("theme not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// Built-in asset names.
const (
	DefaultThemeName     = "none"
	DocumentTemplateName = "document"
)

// BuiltinThemes lists the themes shipped with the embedded loader.
var BuiltinThemes = []string{"none", "tailwind", "bootstrap"}

// kind maps an asset family to its directory, extension and miss error.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	themeKind    = kind{dir: "themes", ext: ".yaml", notFound: ErrThemeNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
)

// path returns the slash-separated asset path for name.
func (k kind) path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return k.dir + "/" + name + k.ext, nil
}

// isNotFound reports whether err is one of the per-kind miss errors.
func isNotFound(err error) bool {
	return errors.Is(err, ErrThemeNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrStyleNotFound)
}
