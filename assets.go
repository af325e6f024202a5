package nb2html

import (
	"errors"
	"fmt"

	"github.com/alnah/go-nb2html/internal/assets"
)

// Built-in theme names.
const (
	ThemeNone      = "none"
	ThemeTailwind  = "tailwind"
	ThemeBootstrap = "bootstrap"
)

// AssetLoader loads theme class tables (YAML), HTML templates and CSS styles
// by name. Implementations may read from the filesystem, embedded files, S3,
// a database, etc.
//
// A theme named X needs themes/X.yaml and templates/X.html; styles/X.css is
// optional. The standalone page template is named "document".
type AssetLoader interface {
	LoadTheme(name string) (string, error)
	LoadTemplate(name string) (string, error)
	LoadStyle(name string) (string, error)
}

var _ assets.AssetLoader = AssetLoader(nil)

// Themes returns the built-in theme names.
func Themes() []string {
	return append([]string(nil), assets.BuiltinThemes...)
}

// NewAssetLoader creates an AssetLoader for basePath. Custom assets take
// precedence with fallback to the embedded ones; an empty basePath uses only
// the embedded assets.
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return resolver, nil
}

// convertAssetError maps base path errors to ErrInvalidAssetPath.
func convertAssetError(err error) error {
	switch {
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	default:
		return err
	}
}
