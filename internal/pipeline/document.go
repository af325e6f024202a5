package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrDocumentRender indicates the page template failed.
var ErrDocumentRender = errors.New("document rendering failed")

// Defaults for DocumentData fields left empty.
const (
	DefaultLang  = "en"
	DefaultTitle = "Notebook"
)

// DocumentData feeds the page template.
type DocumentData struct {
	Lang        string
	Title       string
	Stylesheets []string
	Scripts     []string
	Body        template.HTML
}

// DocumentBuilder renders a complete HTML page around a notebook body.
type DocumentBuilder interface {
	Build(ctx context.Context, data *DocumentData) (string, error)
}

// DocumentTemplate is a DocumentBuilder backed by html/template.
type DocumentTemplate struct {
	tmpl *template.Template
}

// NewDocumentTemplate parses the page template source.
func NewDocumentTemplate(src string) (*DocumentTemplate, error) {
	tmpl, err := template.New("document").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return &DocumentTemplate{tmpl: tmpl}, nil
}

// Build executes the template. Empty Lang and Title take the defaults.
func (d *DocumentTemplate) Build(ctx context.Context, data *DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = &DocumentData{}
	}
	view := *data
	if view.Lang == "" {
		view.Lang = DefaultLang
	}
	if view.Title == "" {
		view.Title = DefaultTitle
	}

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, &view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// Compile-time interface checks.
var (
	_ DocumentBuilder = (*DocumentTemplate)(nil)
	_ CSSInjector     = (*CSSInjection)(nil)
	_ TOCInjector     = (*TOCInjection)(nil)
)
