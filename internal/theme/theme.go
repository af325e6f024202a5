// Package theme maps semantic class keys to theme-specific CSS classes and
// renders the per-theme collapsible cell wrappers.
//
// An Adapter is immutable once built: Extend returns a new Adapter.
package theme

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/assets"
	"github.com/alnah/go-nb2html/internal/yamlutil"
)

// Sentinel errors for theme loading.
var (
	ErrUnknownTheme = errors.New("unknown theme")
	ErrThemeLoad    = errors.New("failed to load theme")
)

// None is the theme that maps every key to an empty class string.
const None = assets.DefaultThemeName

// Semantic class keys looked up by the renderers.
const (
	KeyCellContent   = "cell-content"
	KeyPrompt        = "prompt"
	KeyCodeRow       = "code-row"
	KeyInputCode     = "input-code"
	KeyCode          = "code"
	KeyOutput        = "output"
	KeyOutCodeRow    = "out-code-row"
	KeyOutStream     = "out-stream"
	KeyOutStderr     = "out-stderr"
	KeyOutResult     = "out-result"
	KeyOutError      = "out-error"
	KeyOutTraceback  = "out-traceback"
	KeyOutImage      = "out-image"
	KeyOutHTML       = "out-html"
	KeyMarkdown      = "markdown"
	KeyRaw           = "raw"
	KeyCellCollapsed = "cell-collapsed"
	KeyToggleButton  = "toggle-btn"
)

// Definition is one theme class table as stored in the assets.
type Definition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Classes     map[string]string `yaml:"classes"`
	Stylesheets []string          `yaml:"stylesheets"`
	Scripts     []string          `yaml:"scripts"`
}

func (d *Definition) clone() *Definition {
	c := *d
	c.Classes = maps.Clone(d.Classes)
	c.Stylesheets = slices.Clone(d.Stylesheets)
	c.Scripts = slices.Clone(d.Scripts)
	return &c
}

// Adapter resolves class keys and wraps cells for a set of loaded themes.
type Adapter struct {
	defs     map[string]*Definition
	wrappers map[string]*template.Template
	logger   *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for wrapper fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Load reads the class table and wrapper template of each named theme from
// loader. With no names, the built-in themes are loaded. The none theme is
// always available.
func Load(loader assets.AssetLoader, names []string, opts ...Option) (*Adapter, error) {
	a := &Adapter{
		defs:     make(map[string]*Definition),
		wrappers: make(map[string]*template.Template),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if len(names) == 0 {
		names = assets.BuiltinThemes
	}
	if !slices.Contains(names, None) {
		names = append([]string{None}, names...)
	}

	for _, name := range names {
		if _, done := a.defs[name]; done {
			continue
		}
		def, tmpl, err := loadTheme(loader, name)
		if err != nil {
			return nil, err
		}
		a.defs[name] = def
		a.wrappers[name] = tmpl
	}
	return a, nil
}

func loadTheme(loader assets.AssetLoader, name string) (*Definition, *template.Template, error) {
	raw, err := loader.LoadTheme(name)
	if err != nil {
		if errors.Is(err, assets.ErrThemeNotFound) {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrThemeLoad, err)
	}

	def := &Definition{}
	if err := yamlutil.Decode("themes/"+name+".yaml", []byte(raw), def); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrThemeLoad, err)
	}
	if def.Name == "" {
		def.Name = name
	}
	if name == None {
		// The none theme stays class-free whatever its table says.
		def.Classes = nil
	}

	src, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s wrapper: %v", ErrThemeLoad, name, err)
	}
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s wrapper: %v", ErrThemeLoad, name, err)
	}
	return def, tmpl, nil
}

// ClassesFor returns the class string for key under theme. An unknown theme
// or key yields "".
func (a *Adapter) ClassesFor(theme, key string) string {
	if a == nil {
		return ""
	}
	def, ok := a.defs[theme]
	if !ok {
		return ""
	}
	return def.Classes[key]
}

// Has reports whether theme is loaded.
func (a *Adapter) Has(theme string) bool {
	if a == nil {
		return false
	}
	_, ok := a.defs[theme]
	return ok
}

// Names returns the loaded theme names, sorted.
func (a *Adapter) Names() []string {
	if a == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(a.defs))
}

// Definition returns a copy of the named theme's table.
func (a *Adapter) Definition(theme string) (Definition, bool) {
	if a == nil {
		return Definition{}, false
	}
	def, ok := a.defs[theme]
	if !ok {
		return Definition{}, false
	}
	return *def.clone(), true
}

// Extend returns a new Adapter in which classes are merged over theme's
// table. Extending an unknown theme creates it with the none wrapper.
// The receiver is left unchanged.
func (a *Adapter) Extend(theme string, classes map[string]string) *Adapter {
	if a == nil {
		a = &Adapter{logger: zap.NewNop()}
	}
	next := &Adapter{
		defs:     make(map[string]*Definition, len(a.defs)+1),
		wrappers: maps.Clone(a.wrappers),
		logger:   a.logger,
	}
	for name, def := range a.defs {
		next.defs[name] = def
	}

	def, ok := a.defs[theme]
	if ok {
		def = def.clone()
	} else {
		def = &Definition{Name: theme}
	}
	if def.Classes == nil {
		def.Classes = make(map[string]string, len(classes))
	}
	maps.Copy(def.Classes, classes)
	next.defs[theme] = def
	return next
}

// Wrapper is the data handed to a theme's cell wrapper template.
// ToggleClass and CollapsedClass default to the theme's toggle-btn and
// cell-collapsed classes.
type Wrapper struct {
	ID             string
	Type           string
	Collapsed      bool
	Content        template.HTML
	Display        string
	Fold           string
	ToggleClass    string
	CollapsedClass string
}

// Wrap renders w through theme's wrapper skeleton. Unknown themes use the
// none skeleton; a failing template yields the bare content.
func (a *Adapter) Wrap(theme string, w Wrapper) string {
	if a == nil {
		return string(w.Content)
	}
	tmpl, ok := a.wrappers[theme]
	if !ok {
		a.logger.Debug("no wrapper for theme, using none", zap.String("theme", theme))
		tmpl, ok = a.wrappers[None]
	}
	if !ok {
		return string(w.Content)
	}

	if w.ToggleClass == "" {
		w.ToggleClass = a.ClassesFor(theme, KeyToggleButton)
	}
	if w.CollapsedClass == "" {
		w.CollapsedClass = a.ClassesFor(theme, KeyCellCollapsed)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, w); err != nil {
		a.logger.Warn("cell wrapper failed", zap.String("theme", theme), zap.String("cell", w.ID), zap.Error(err))
		return string(w.Content)
	}
	return strings.TrimRight(buf.String(), "\n")
}
