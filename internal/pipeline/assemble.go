package pipeline

import (
	"context"
	"html/template"
)

// Page describes one standalone document.
type Page struct {
	Lang        string
	Title       string
	Stylesheets []string
	Scripts     []string
	CSS         string   // inlined into <head>
	TOC         *TOCData // nil disables the table of contents
	BaseDir     string   // resolves relative paths when set
	Body        string   // rendered notebook HTML
}

// Assembler runs the page stages in order.
type Assembler struct {
	doc DocumentBuilder
	css CSSInjector
	toc TOCInjector
}

// NewAssembler creates an Assembler around doc with the default injectors.
func NewAssembler(doc DocumentBuilder) *Assembler {
	return &Assembler{
		doc: doc,
		css: &CSSInjection{},
		toc: NewTOCInjection(),
	}
}

// Assemble builds the page: template, CSS, table of contents, then path
// resolution.
func (a *Assembler) Assemble(ctx context.Context, p *Page) (string, error) {
	page, err := a.doc.Build(ctx, &DocumentData{
		Lang:        p.Lang,
		Title:       p.Title,
		Stylesheets: p.Stylesheets,
		Scripts:     p.Scripts,
		Body:        template.HTML(p.Body), // #nosec G203 -- renderer output
	})
	if err != nil {
		return "", err
	}

	page = a.css.InjectCSS(ctx, page, p.CSS)

	if page, err = a.toc.InjectTOC(ctx, page, p.TOC); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return ResolveRelativePaths(page, p.BaseDir)
}
