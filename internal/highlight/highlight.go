// Package highlight turns source text into highlighted HTML.
//
// Highlight never fails: a registered language hint is highlighted with
// chroma, text carrying ANSI escapes goes through the ANSI converter, other
// text is auto-detected among the registered languages and anything left is
// HTML-escaped.
package highlight

import (
	"bytes"
	"html"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/ansi"
)

// DefaultStyle is the chroma style used for generated CSS.
const DefaultStyle = "github"

// analyser is implemented by chroma lexers that can score text.
type analyser interface {
	AnalyseText(text string) float32
}

// Highlighter renders text to HTML using the languages of a Registry.
type Highlighter struct {
	registry  *Registry
	formatter *chromahtml.Formatter
	style     *chroma.Style
	logger    *zap.Logger
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithStyle sets the chroma style used by WriteCSS. Unknown names fall back
// to chroma's default style.
func WithStyle(name string) Option {
	return func(h *Highlighter) {
		h.style = styles.Get(name)
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Highlighter) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Highlighter over registry. A nil registry behaves as empty.
func New(registry *Registry, opts ...Option) *Highlighter {
	if registry == nil {
		registry = NewRegistry()
	}
	h := &Highlighter{
		registry: registry,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		style:  styles.Get(DefaultStyle),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Registry returns the language registry.
func (h *Highlighter) Registry() *Registry {
	return h.registry
}

// Highlight returns text as HTML, highlighted with hint when it names a
// registered language.
func (h *Highlighter) Highlight(text, hint string) string {
	if hint != "" {
		if lexer, ok := h.registry.Lookup(hint); ok {
			if out, ok := h.format(lexer, text); ok {
				return out
			}
		} else {
			h.logger.Debug("language not registered", zap.String("language", hint))
		}
	}
	if ansi.Has(text) {
		return ansi.ToHTML(text)
	}
	if lexer := h.detect(text); lexer != nil {
		if out, ok := h.format(lexer, text); ok {
			return out
		}
	}
	return html.EscapeString(text)
}

// detect picks the registered lexer scoring text highest, or nil when none
// recognises it.
func (h *Highlighter) detect(text string) chroma.Lexer {
	var (
		best  chroma.Lexer
		score float32
	)
	for _, name := range h.registry.Names() {
		lexer, _ := h.registry.Lookup(name)
		a, ok := lexer.(analyser)
		if !ok {
			continue
		}
		if s := a.AnalyseText(text); s > score {
			best, score = lexer, s
		}
	}
	return best
}

func (h *Highlighter) format(lexer chroma.Lexer, text string) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Warn("highlighter panic", zap.Any("panic", r))
			out, ok = "", false
		}
	}()

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		h.logger.Debug("tokenise failed", zap.Error(err))
		return "", false
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		h.logger.Debug("format failed", zap.Error(err))
		return "", false
	}
	return buf.String(), true
}

// WriteCSS writes the stylesheet for the classes emitted by Highlight.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
