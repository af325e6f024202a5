// Package render turns a decoded notebook into HTML.
//
// Rendering never fails. Each cell and output is rendered on its own, so a
// malformed record degrades to escaped text instead of aborting the document.
// A Renderer holds no mutable state and is safe for concurrent use once its
// highlighter registry is populated.
package render

import (
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/highlight"
	"github.com/alnah/go-nb2html/internal/markdown"
	"github.com/alnah/go-nb2html/internal/theme"
)

// Default toggle labels for collapsed cells.
const (
	DefaultDisplayLabel = "Display"
	DefaultFoldLabel    = "Fold"
)

// Labels are the texts of the collapse toggle.
type Labels struct {
	Display string
	Fold    string
}

// Renderer renders outputs, cells and whole notebooks for a theme.
type Renderer struct {
	themes      *theme.Adapter
	highlighter *highlight.Highlighter
	markdown    *markdown.Renderer
	labels      Labels
	logger      *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLabels overrides the collapse toggle labels. Empty fields keep the
// defaults.
func WithLabels(l Labels) Option {
	return func(r *Renderer) {
		if l.Display != "" {
			r.labels.Display = l.Display
		}
		if l.Fold != "" {
			r.labels.Fold = l.Fold
		}
	}
}

// WithMarkdown sets the markdown renderer used for markdown cells and
// text/markdown outputs.
func WithMarkdown(md *markdown.Renderer) Option {
	return func(r *Renderer) {
		if md != nil {
			r.markdown = md
		}
	}
}

// New creates a Renderer. A nil adapter yields class-free, unwrapped cells
// and a nil highlighter escapes all code.
func New(themes *theme.Adapter, hl *highlight.Highlighter, opts ...Option) *Renderer {
	if hl == nil {
		hl = highlight.New(nil)
	}
	r := &Renderer{
		themes:      themes,
		highlighter: hl,
		labels:      Labels{Display: DefaultDisplayLabel, Fold: DefaultFoldLabel},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.markdown == nil {
		r.markdown = markdown.New()
	}
	return r
}

// class joins a fixed semantic class with the theme's classes for key.
func (r *Renderer) class(base, themeName, key string) string {
	extra := r.themes.ClassesFor(themeName, key)
	if extra == "" {
		return base
	}
	return base + " " + extra
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
