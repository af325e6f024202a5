package nb2html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/assets"
	"github.com/alnah/go-nb2html/internal/highlight"
	"github.com/alnah/go-nb2html/internal/markdown"
	"github.com/alnah/go-nb2html/internal/notebook"
	"github.com/alnah/go-nb2html/internal/pipeline"
	"github.com/alnah/go-nb2html/internal/render"
	"github.com/alnah/go-nb2html/internal/theme"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CSSInjector     = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector     = (*pipeline.TOCInjection)(nil)
	_ pipeline.DocumentBuilder = (*pipeline.DocumentTemplate)(nil)
)

// Converter renders notebooks to HTML documents and PDF.
// Create with NewConverter, use Convert for conversion, and Close when done.
// A Converter is safe for concurrent use; PDF printing shares one browser.
type Converter struct {
	cfg       converterConfig
	logger    *zap.Logger
	themes    *theme.Adapter
	renderer  *render.Renderer
	anchored  *render.Renderer // heading ids on, for tables of contents
	assembler *pipeline.Assembler
	css       map[string]string // theme -> stylesheet
	pdf       pdfConverter
}

// NewConverter creates a Converter. Themes, templates and styles are loaded
// and parsed here, so an unknown theme or a broken custom asset fails now
// rather than on the first conversion.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			theme:     ThemeNone,
			timeout:   defaultTimeout,
			codeStyle: highlight.DefaultStyle,
			logger:    zap.NewNop(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.cfg.logger

	loader, err := c.resolveLoader()
	if err != nil {
		return nil, err
	}

	if err := c.loadThemes(loader); err != nil {
		return nil, err
	}

	hl, err := c.newHighlighter()
	if err != nil {
		return nil, err
	}

	if err := c.loadStyles(loader, hl); err != nil {
		return nil, err
	}

	c.renderer = c.newRenderer(hl, c.cfg.headingAnchors)
	c.anchored = c.renderer
	if !c.cfg.headingAnchors {
		c.anchored = c.newRenderer(hl, true)
	}

	src, err := loader.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	doc, err := pipeline.NewDocumentTemplate(src)
	if err != nil {
		return nil, err
	}
	c.assembler = pipeline.NewAssembler(doc)

	if c.pdf == nil {
		c.pdf = newRodConverter(c.cfg.timeout, c.logger)
	}
	return c, nil
}

func (c *Converter) resolveLoader() (assets.AssetLoader, error) {
	if c.cfg.loader != nil {
		return c.cfg.loader, nil
	}
	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return resolver, nil
}

// loadThemes loads the built-in themes plus the selected one.
func (c *Converter) loadThemes(loader assets.AssetLoader) error {
	names := slices.Clone(assets.BuiltinThemes)
	if !slices.Contains(names, c.cfg.theme) {
		names = append(names, c.cfg.theme)
	}

	themes, err := theme.Load(loader, names, theme.WithLogger(c.logger))
	if err != nil {
		return err
	}
	if len(c.cfg.classes) > 0 {
		themes = themes.Extend(c.cfg.theme, c.cfg.classes)
	}
	c.themes = themes
	return nil
}

func (c *Converter) newHighlighter() (*highlight.Highlighter, error) {
	reg := highlight.NewRegistry()
	if c.cfg.languages == nil {
		reg.RegisterDefaults()
	} else if err := reg.RegisterBuiltin(c.cfg.languages...); err != nil {
		return nil, err
	}
	if c.cfg.fallback != "" && !reg.Registered(c.cfg.fallback) {
		if err := reg.RegisterBuiltin(c.cfg.fallback); err != nil {
			return nil, err
		}
	}
	for name, lexer := range c.cfg.lexers {
		reg.Register(name, lexer)
	}
	return highlight.New(reg,
		highlight.WithStyle(c.cfg.codeStyle),
		highlight.WithLogger(c.logger),
	), nil
}

// loadStyles builds each theme's stylesheet: highlight classes first, theme
// CSS second. A theme without a style file only gets the highlight classes.
func (c *Converter) loadStyles(loader assets.AssetLoader, hl *highlight.Highlighter) error {
	var buf bytes.Buffer
	if err := hl.WriteCSS(&buf); err != nil {
		return fmt.Errorf("generating highlight CSS: %w", err)
	}
	base := buf.String()

	c.css = make(map[string]string)
	for _, name := range c.themes.Names() {
		css, err := loader.LoadStyle(name)
		switch {
		case errors.Is(err, assets.ErrStyleNotFound):
			c.logger.Debug("theme has no stylesheet", zap.String("theme", name))
			c.css[name] = base
		case err != nil:
			return fmt.Errorf("%w: %s: %v", ErrThemeLoad, name, err)
		default:
			c.css[name] = base + "\n" + css
		}
	}
	return nil
}

func (c *Converter) newRenderer(hl *highlight.Highlighter, headingIDs bool) *render.Renderer {
	md := markdown.New(
		markdown.WithHeadingIDs(headingIDs),
		markdown.WithCodeStyle(c.cfg.codeStyle),
	)
	return render.New(c.themes, hl,
		render.WithLogger(c.logger),
		render.WithMarkdown(md),
		render.WithLabels(render.Labels{Display: c.cfg.display, Fold: c.cfg.fold}),
	)
}

// Themes returns the names of the loaded themes.
func (c *Converter) Themes() []string {
	return c.themes.Names()
}

// Convert decodes and renders a notebook. The context is used for
// cancellation and timeout. Recovers from internal panics to prevent crashes
// from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	themeName, err := c.validateInput(input)
	if err != nil {
		return nil, err
	}

	nb, err := notebook.NewDecoder(c.logger).Decode(input.Notebook)
	if err != nil {
		return nil, err
	}
	if nb.Language() == "" && c.cfg.fallback != "" {
		nb.Metadata.LanguageInfo = &notebook.LanguageInfo{Name: c.cfg.fallback}
	}

	renderer := c.renderer
	if input.TOC != nil {
		renderer = c.anchored
	}
	body := renderer.Notebook(nb, themeName)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	if input.Fragment {
		fragment, err := pipeline.ResolveRelativePaths(body, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("resolving relative paths: %w", err)
		}
		res.HTML = []byte(fragment)
	}

	if !input.Fragment || input.PDF {
		page, err := c.assemble(ctx, input, nb, themeName, body)
		if err != nil {
			return nil, err
		}
		if !input.Fragment {
			res.HTML = []byte(page)
		}
		if input.PDF {
			if res.PDF, err = c.pdf.ToPDF(ctx, page, input.Page); err != nil {
				return nil, fmt.Errorf("converting to PDF: %w", err)
			}
		}
	}
	return res, nil
}

func (c *Converter) assemble(ctx context.Context, input Input, nb *notebook.Notebook, themeName, body string) (string, error) {
	def, _ := c.themes.Definition(themeName)
	css := c.css[themeName]
	if input.CSS != "" {
		css += "\n" + input.CSS
	}

	page, err := c.assembler.Assemble(ctx, &pipeline.Page{
		Lang:        input.Lang,
		Title:       documentTitle(input, nb),
		Stylesheets: def.Stylesheets,
		Scripts:     def.Scripts,
		CSS:         css,
		TOC:         input.TOC.data(),
		BaseDir:     input.SourceDir,
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("assembling document: %w", err)
	}
	return page, nil
}

// documentTitle picks Input.Title, then the notebook title, then the file
// name without extension.
func documentTitle(input Input, nb *notebook.Notebook) string {
	switch {
	case input.Title != "":
		return input.Title
	case nb.Metadata.Title != "":
		return nb.Metadata.Title
	case input.Name != "":
		base := filepath.Base(input.Name)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ""
}

// validateInput checks per-conversion settings and resolves the theme.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their settings validated earlier by Config.Validate().
func (c *Converter) validateInput(input Input) (string, error) {
	if len(bytes.TrimSpace(input.Notebook)) == 0 {
		return "", ErrEmptyNotebook
	}
	if err := input.TOC.Validate(); err != nil {
		return "", err
	}
	if input.PDF {
		if err := input.Page.Validate(); err != nil {
			return "", err
		}
	}

	name := input.Theme
	if name == "" {
		name = c.cfg.theme
	}
	if !c.themes.Has(name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return name, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdf != nil {
		return c.pdf.Close()
	}
	return nil
}
