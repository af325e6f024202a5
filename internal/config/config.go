// Package config loads and validates the YAML configuration of the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-nb2html/internal/fileutil"
	"github.com/alnah/go-nb2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory under the user config dir searched for named configs.
const AppDir = "go-nb2html"

// Field length limits.
const (
	MaxThemeLength    = 50
	MaxLanguageLength = 50
	MaxLanguages      = 200
	MaxLabelLength    = 50
	MaxTitleLength    = 200
	MaxLangTagLength  = 35 // BCP 47
	MaxStyleLength    = 50
	MaxClassKeyLength = 50
	MaxClassLength    = 500
	MaxTOCTitleLength = 100
	MaxPathLength     = 4096
)

// Defaults applied by DefaultConfig.
const (
	DefaultTheme      = "none"
	DefaultTOCMin     = 1
	DefaultTOCMax     = 3
	DefaultPDFTimeout = 30 * time.Second
)

// Config holds all CLI configuration.
type Config struct {
	Theme     string            `yaml:"theme"`
	Language  string            `yaml:"language"`  // fallback when the notebook names none
	Languages []string          `yaml:"languages"` // highlighted languages; empty = defaults
	Classes   map[string]string `yaml:"classes"`   // class overrides for the selected theme
	Labels    LabelsConfig      `yaml:"labels"`
	Document  DocumentConfig    `yaml:"document"`
	TOC       TOCConfig         `yaml:"toc"`
	Input     InputConfig       `yaml:"input"`
	Output    OutputConfig      `yaml:"output"`
	Assets    AssetsConfig      `yaml:"assets"`
	PDF       PDFConfig         `yaml:"pdf"`
}

// LabelsConfig sets the collapse toggle texts.
type LabelsConfig struct {
	Display string `yaml:"display"`
	Fold    string `yaml:"fold"`
}

// DocumentConfig controls the standalone page.
type DocumentConfig struct {
	Standalone     bool   `yaml:"standalone"` // false = bare cell markup
	Title          string `yaml:"title"`      // empty = notebook title or file name
	Lang           string `yaml:"lang"`
	CodeStyle      string `yaml:"codeStyle"` // chroma style name
	HeadingAnchors bool   `yaml:"headingAnchors"`
}

// TOCConfig defines table of contents options. Enabling it turns heading
// anchors on.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`
	MinDepth int    `yaml:"minDepth"` // 1-6
	MaxDepth int    `yaml:"maxDepth"` // 1-6
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the notebook
}

// AssetsConfig points at a directory of custom themes, templates and styles.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"`
}

// PDFConfig controls PDF export.
type PDFConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // Go duration, e.g. "45s"
}

// TimeoutDuration parses Timeout, returning DefaultPDFTimeout when empty.
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return DefaultPDFTimeout, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pdf.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: pdf.timeout: must be positive, got %s", ErrInvalidValue, p.Timeout)
	}
	return d, nil
}

// Validate checks lengths and ranges. LoadConfig calls it; callers building
// a Config by hand should too.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"theme", c.Theme, MaxThemeLength},
		{"language", c.Language, MaxLanguageLength},
		{"labels.display", c.Labels.Display, MaxLabelLength},
		{"labels.fold", c.Labels.Fold, MaxLabelLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.lang", c.Document.Lang, MaxLangTagLength},
		{"document.codeStyle", c.Document.CodeStyle, MaxStyleLength},
		{"toc.title", c.TOC.Title, MaxTOCTitleLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if len(c.Languages) > MaxLanguages {
		return fmt.Errorf("%w: languages (%d entries, max %d)", ErrInvalidValue, len(c.Languages), MaxLanguages)
	}
	for i, lang := range c.Languages {
		if err := validateFieldLength(fmt.Sprintf("languages[%d]", i), lang, MaxLanguageLength); err != nil {
			return err
		}
	}
	for key, class := range c.Classes {
		if err := validateFieldLength("classes key", key, MaxClassKeyLength); err != nil {
			return err
		}
		if err := validateFieldLength("classes."+key, class, MaxClassLength); err != nil {
			return err
		}
	}

	if c.TOC.Enabled {
		if c.TOC.MinDepth < 1 || c.TOC.MinDepth > 6 {
			return fmt.Errorf("%w: toc.minDepth: must be between 1 and 6, got %d", ErrInvalidValue, c.TOC.MinDepth)
		}
		if c.TOC.MaxDepth < 1 || c.TOC.MaxDepth > 6 {
			return fmt.Errorf("%w: toc.maxDepth: must be between 1 and 6, got %d", ErrInvalidValue, c.TOC.MaxDepth)
		}
		if c.TOC.MinDepth > c.TOC.MaxDepth {
			return fmt.Errorf("%w: toc.minDepth (%d) exceeds toc.maxDepth (%d)", ErrInvalidValue, c.TOC.MinDepth, c.TOC.MaxDepth)
		}
	}

	if _, err := c.PDF.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given: the
// none theme, a standalone page and every optional feature off.
func DefaultConfig() *Config {
	return &Config{
		Theme:    DefaultTheme,
		Document: DocumentConfig{Standalone: true},
		TOC:      TOCConfig{MinDepth: DefaultTOCMin, MaxDepth: DefaultTOCMax},
	}
}

// LoadConfig loads a config from a file path or a config name. Names are
// searched in the current directory, then in the user config directory.
// Keys missing from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(configPath, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.IsRegularFile(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
