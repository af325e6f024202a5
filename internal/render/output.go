package render

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2html/internal/ansi"
	"github.com/alnah/go-nb2html/internal/latex"
	"github.com/alnah/go-nb2html/internal/notebook"
	"github.com/alnah/go-nb2html/internal/theme"
)

// MIME types understood by the output renderer.
const (
	MimeHTML     = "text/html"
	MimePNG      = "image/png"
	MimeJPEG     = "image/jpeg"
	MimeSVG      = "image/svg+xml"
	MimeLaTeX    = "text/latex"
	MimeMarkdown = "text/markdown"
	MimePlain    = "text/plain"
	MimeJSON     = "application/json"
)

// iframe attributes for text/html outputs: no scripts, same origin only.
const (
	iframeSandbox = "allow-same-origin"
	iframeStyle   = "width:100%;border:none;height:150px"
)

var srcdocEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;")

// Output renders one output record. lang is the fallback language for plain
// text when the output metadata carries no hint.
func (r *Renderer) Output(out notebook.Output, themeName, lang string) string {
	switch o := out.(type) {
	case *notebook.Stream:
		return r.stream(o, themeName, lang)
	case *notebook.Rich:
		return r.rich(o, themeName, lang)
	case *notebook.Error:
		return r.errorOutput(o, themeName)
	case nil:
		return ""
	default:
		r.logger.Warn("unsupported output record", zap.String("type", fmt.Sprintf("%T", out)))
		return ""
	}
}

func (r *Renderer) stream(s *notebook.Stream, themeName, lang string) string {
	if !s.Known() {
		r.logger.Warn("unknown output type, rendering as text", zap.String("output_type", string(s.OutputType)))
		return `<pre class="` + r.class("output-stream", themeName, theme.KeyOutStream) + `">` +
			html.EscapeString(s.Text) + `</pre>`
	}
	if s.Text == "" {
		return ""
	}

	class := r.class("output-stream", themeName, theme.KeyOutStream)
	if s.Name == "stderr" {
		class += " " + r.class("output-stderr", themeName, theme.KeyOutStderr)
	}
	hint := s.Metadata.LanguageFor(MimePlain)
	if hint == "" {
		hint = lang
	}
	body := r.highlighter.Highlight(s.Text, hint)
	return `<pre class="` + class + `">` + body + `</pre>`
}

func (r *Renderer) rich(o *notebook.Rich, themeName, lang string) string {
	meta := o.Metadata
	switch {
	case strings.TrimSpace(o.PNG) != "":
		return r.image(MimePNG, o.PNG, meta, themeName)
	case strings.TrimSpace(o.JPEG) != "":
		return r.image(MimeJPEG, o.JPEG, meta, themeName)
	case len(o.LaTeX) > 0:
		return latex.Render(o.LaTeX)
	case len(o.HTML) > 0:
		return r.iframe(o.HTML.Join(), themeName)
	case len(o.SVG) > 0:
		return o.SVG.Join()
	}
	return r.bundle(o.Data, meta, themeName, lang)
}

// bundle renders the first MIME entry present in priority order.
func (r *Renderer) bundle(data notebook.MimeBundle, meta notebook.OutputMetadata, themeName, lang string) string {
	switch {
	case data.Has(MimeHTML):
		text, _ := data.Text(MimeHTML)
		return r.iframe(text, themeName)
	case data.Has(MimePNG):
		return r.images(MimePNG, data.Images(MimePNG), meta, themeName)
	case data.Has(MimeJPEG):
		return r.images(MimeJPEG, data.Images(MimeJPEG), meta, themeName)
	case data.Has(MimeSVG):
		text, _ := data.Text(MimeSVG)
		return text
	case data.Has(MimeLaTeX):
		return latex.Render(data[MimeLaTeX])
	case data.Has(MimeMarkdown):
		text, _ := data.Text(MimeMarkdown)
		return `<div class="` + r.class("output-markdown markdown", themeName, theme.KeyMarkdown) + `">` +
			r.markdown.Render(text) + `</div>`
	case data.Has(MimePlain):
		text, _ := data.Text(MimePlain)
		hint := meta.LanguageFor(MimePlain)
		if hint == "" {
			hint = lang
		}
		return r.result(r.highlighter.Highlight(text, hint), themeName)
	case data.Has(MimeJSON):
		text, _ := data.Text(MimeJSON)
		return r.result(r.highlighter.Highlight(text, "json"), themeName)
	}
	return ""
}

func (r *Renderer) result(body, themeName string) string {
	return `<pre class="` + r.class("output-result", themeName, theme.KeyOutResult) + `">` + body + `</pre>`
}

// iframe embeds trusted host HTML in a sandbox without scripts. Only the
// characters that would end the attribute are escaped.
func (r *Renderer) iframe(content, themeName string) string {
	return `<iframe class="` + r.class("output-html", themeName, theme.KeyOutHTML) +
		`" sandbox="` + iframeSandbox + `" style="` + iframeStyle +
		`" srcdoc="` + srcdocEscaper.Replace(content) + `"></iframe>`
}

func (r *Renderer) images(mime string, payloads []string, meta notebook.OutputMetadata, themeName string) string {
	out := make([]string, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, r.image(mime, p, meta, themeName))
	}
	return joinNonEmpty(out, "\n")
}

func (r *Renderer) image(mime, payload string, meta notebook.OutputMetadata, themeName string) string {
	data := strings.Join(strings.Fields(payload), "")
	if data == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<img class="`)
	b.WriteString(r.class("output-image", themeName, theme.KeyOutImage))
	b.WriteString(`" src="data:`)
	b.WriteString(mime)
	b.WriteString(`;base64,`)
	b.WriteString(html.EscapeString(data))
	b.WriteString(`" alt="output image"`)
	if size, ok := meta.Images[mime]; ok {
		if size.Width > 0 {
			fmt.Fprintf(&b, ` width="%d"`, size.Width)
		}
		if size.Height > 0 {
			fmt.Fprintf(&b, ` height="%d"`, size.Height)
		}
	}
	b.WriteString(`>`)
	return b.String()
}

// errorOutput renders the exception header and the traceback as separate blocks.
func (r *Renderer) errorOutput(e *notebook.Error, themeName string) string {
	header := `<pre class="` + r.class("output-error", themeName, theme.KeyOutError) + `">` +
		html.EscapeString(e.EName) + ": " + html.EscapeString(e.EValue) + `</pre>`
	if len(e.Traceback) == 0 {
		return header
	}
	return header + "\n" + `<pre class="` + r.class("output-traceback", themeName, theme.KeyOutTraceback) + `">` +
		ansi.ToHTML(strings.Join(e.Traceback, "\n")) + `</pre>`
}
