// Package markdown converts markdown cell sources to HTML.
//
// Goldmark parses GitHub Flavored Markdown (tables, task lists,
// strikethrough, autolinks) with raw HTML passthrough, footnotes, fenced
// code highlighting and math awareness ($...$ and $$...$$ are protected from
// emphasis parsing). The HTML is then post-processed: pipe tables the parser
// left as paragraphs are rebuilt, task items get their classes and inline
// math spans are wrapped, see PostProcess.
package markdown

import (
	"bytes"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md         goldmark.Markdown
	headingIDs bool
	style      string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHeadingIDs gives every heading a slug id derived from its text.
// Duplicate slugs within one document get numeric suffixes.
func WithHeadingIDs(enabled bool) Option {
	return func(r *Renderer) {
		r.headingIDs = enabled
	}
}

// WithCodeStyle sets the chroma style name used for fenced code blocks.
func WithCodeStyle(name string) Option {
	return func(r *Renderer) {
		r.style = name
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{style: "github"}
	for _, opt := range opts {
		opt(r)
	}

	parserOpts := []parser.Option{}
	if r.headingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	r.md = goldmark.New(
		goldmark.WithExtensions(
			extension.NewTable(
				extension.WithTableCellAlignMethod(extension.TableCellAlignAttribute),
			),
			extension.TaskList,
			extension.Strikethrough,
			extension.Linkify,
			extension.Footnote,
			Math,
			highlighting.NewHighlighting(
				highlighting.WithStyle(r.style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return r
}

// Render converts source to HTML. It never fails: if the engine reports an
// error the escaped source is returned in a paragraph.
func (r *Renderer) Render(source string) string {
	var buf bytes.Buffer
	var opts []parser.ParseOption
	if r.headingIDs {
		opts = append(opts, parser.WithContext(parser.NewContext(parser.WithIDs(NewSlugIDs()))))
	}
	if err := r.md.Convert([]byte(source), &buf, opts...); err != nil {
		return "<p>" + html.EscapeString(source) + "</p>"
	}
	return PostProcess(buf.String())
}
