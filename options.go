package nb2html

import (
	"time"

	"github.com/alecthomas/chroma/v2"
	"go.uber.org/zap"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the options applied by NewConverter.
type converterConfig struct {
	theme          string
	languages      []string
	lexers         map[string]chroma.Lexer
	fallback       string
	assetPath      string
	loader         AssetLoader
	display        string
	fold           string
	classes        map[string]string
	headingAnchors bool
	codeStyle      string
	timeout        time.Duration
	logger         *zap.Logger
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTheme selects the theme used when Input.Theme is empty. An empty name
// keeps ThemeNone.
func WithTheme(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.cfg.theme = name
		}
	}
}

// WithLanguages replaces the default highlighting languages with chroma's
// built-in lexers for names.
func WithLanguages(names ...string) Option {
	return func(c *Converter) {
		c.cfg.languages = make([]string, len(names))
		copy(c.cfg.languages, names)
	}
}

// WithLanguage registers a custom lexer under name, in addition to the
// configured languages.
func WithLanguage(name string, lexer chroma.Lexer) Option {
	return func(c *Converter) {
		if c.cfg.lexers == nil {
			c.cfg.lexers = make(map[string]chroma.Lexer)
		}
		c.cfg.lexers[name] = lexer
	}
}

// WithFallbackLanguage sets the language of notebooks whose metadata names
// none.
func WithFallbackLanguage(name string) Option {
	return func(c *Converter) {
		c.cfg.fallback = name
	}
}

// WithAssetPath loads themes, templates and styles from dir before the
// built-in ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader sets a custom asset backend. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.cfg.loader = loader
	}
}

// WithLabels sets the collapse toggle texts. Empty values keep the defaults.
func WithLabels(display, fold string) Option {
	return func(c *Converter) {
		c.cfg.display = display
		c.cfg.fold = fold
	}
}

// WithClasses overrides class lists of the selected theme, keyed by element
// kind ("code", "output", "markdown", ...).
func WithClasses(classes map[string]string) Option {
	return func(c *Converter) {
		c.cfg.classes = classes
	}
}

// WithHeadingAnchors gives markdown headings slug ids. A table of contents
// turns them on for the conversion that requests it.
func WithHeadingAnchors(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.headingAnchors = enabled
	}
}

// WithCodeStyle sets the chroma style of the generated highlight CSS.
func WithCodeStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.codeStyle = name
	}
}

// WithTimeout sets the PDF page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("nb2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the diagnostics logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.cfg.logger = logger
		}
	}
}
