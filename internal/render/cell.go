package render

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2html/internal/notebook"
	"github.com/alnah/go-nb2html/internal/theme"
)

// placeholder stands in for a missing execution count.
const placeholder = "&nbsp;"

// attachmentTypes are the attachment MIME types inlined as data URIs.
var attachmentTypes = []string{MimePNG, MimeJPEG, "image/gif", "image/webp"}

// Cell renders one cell body. lang is the notebook-wide fallback language;
// a cell-level language overrides it. Collapse handling belongs to Notebook.
func (r *Renderer) Cell(cell notebook.Cell, themeName, lang string) string {
	switch c := cell.(type) {
	case *notebook.MarkdownCell:
		return r.markdownCell(c, themeName)
	case *notebook.CodeCell:
		return r.codeCell(c, themeName, lang)
	case *notebook.RawCell:
		return r.rawCell(c, themeName)
	}
	return ""
}

func (r *Renderer) markdownCell(c *notebook.MarkdownCell, themeName string) string {
	source := inlineAttachments(c.Source, c.Attachments)

	var b strings.Builder
	b.WriteString(`<div class="` + r.class("cell-content", themeName, theme.KeyCellContent) + `">` + "\n")
	b.WriteString(`<div class="` + r.class("prompt in-prompt", themeName, theme.KeyPrompt) + `"></div>` + "\n")
	b.WriteString(`<div class="` + r.class("markdown", themeName, theme.KeyMarkdown) + `">`)
	b.WriteString(r.markdown.Render(source))
	b.WriteString("</div>\n</div>")
	return b.String()
}

// attachmentRef matches an attachment reference up to the end of the URL.
var attachmentRef = regexp.MustCompile(`attachment:([^)\s"'<>]+)`)

// inlineAttachments replaces attachment: references with data URIs. Names
// are matched exactly; unknown names are left as written.
func inlineAttachments(source string, attachments map[string]notebook.MimeBundle) string {
	if len(attachments) == 0 || !strings.Contains(source, "attachment:") {
		return source
	}
	return attachmentRef.ReplaceAllStringFunc(source, func(ref string) string {
		bundle, ok := attachments[strings.TrimPrefix(ref, "attachment:")]
		if !ok {
			return ref
		}
		for _, mime := range attachmentTypes {
			if images := bundle.Images(mime); len(images) > 0 {
				return "data:" + mime + ";base64," + strings.Join(strings.Fields(images[0]), "")
			}
		}
		return ref
	})
}

func (r *Renderer) rawCell(c *notebook.RawCell, themeName string) string {
	class := r.class("raw", themeName, theme.KeyRaw)
	if strings.EqualFold(c.Metadata.Format, MimeHTML) {
		return `<div class="` + class + `">` + c.Source + `</div>`
	}
	return `<pre class="` + class + `">` + html.EscapeString(c.Source) + `</pre>`
}

func (r *Renderer) codeCell(c *notebook.CodeCell, themeName, lang string) string {
	if c.Source == "" && len(c.Outputs) == 0 {
		return ""
	}
	if c.Metadata.Language != "" {
		lang = c.Metadata.Language
	}

	outputs := make([]string, 0, len(c.Outputs))
	for _, out := range c.Outputs {
		outputs = append(outputs, r.Output(out, themeName, lang))
	}
	rendered := joinNonEmpty(outputs, "\n")

	count := placeholder
	if c.ExecutionCount != nil {
		count = strconv.Itoa(*c.ExecutionCount)
	}
	content := r.class("cell-content", themeName, theme.KeyCellContent)
	prompt := func(kind string) string {
		return r.class("prompt "+kind, themeName, theme.KeyPrompt)
	}

	var b strings.Builder
	b.WriteString(`<div class="` + content + `">` + "\n")
	b.WriteString(`<div class="` + prompt("in-prompt") + `">In [` + count + `]:</div>` + "\n")
	b.WriteString(`<div class="` + r.class("in code-row", themeName, theme.KeyCodeRow) + `">`)
	b.WriteString(`<pre class="` + r.class("input-code", themeName, theme.KeyInputCode) + `">`)
	b.WriteString(`<code class="` + r.class("code", themeName, theme.KeyCode) + `">`)
	b.WriteString(r.highlighter.Highlight(c.Source, lang))
	b.WriteString("</code></pre></div>\n</div>")

	if rendered != "" {
		b.WriteString("\n")
		b.WriteString(`<div class="` + content + `">` + "\n")
		b.WriteString(`<div class="` + prompt("out-prompt") + `">Out [` + count + `]:</div>` + "\n")
		b.WriteString(`<div class="` + r.class("out code-row", themeName, theme.KeyOutCodeRow) + `">`)
		b.WriteString(`<div class="` + r.class("outputs", themeName, theme.KeyOutput) + `">`)
		b.WriteString(rendered)
		b.WriteString("</div></div>\n</div>")
	}
	return b.String()
}
