package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTOCDepth indicates heading depth bounds outside 1-6 or inverted.
var ErrInvalidTOCDepth = errors.New("invalid TOC depth")

// CSSInjector adds a stylesheet to an HTML page.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection inlines CSS as a <style> element.
type CSSInjection struct{}

// InjectCSS places a <style> element before </head>, else right after the
// opening <body> tag, else at the start of the content.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>" + sanitizeCSS(cssContent) + "</style>"
	if pos := headEnd(htmlContent); pos >= 0 {
		return htmlContent[:pos] + block + htmlContent[pos:]
	}
	if pos := afterOpeningTag(htmlContent, "<body"); pos >= 0 {
		return htmlContent[:pos] + block + htmlContent[pos:]
	}
	return block + htmlContent
}

// sanitizeCSS keeps the stylesheet from closing its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

func headEnd(htmlContent string) int {
	return strings.Index(strings.ToLower(htmlContent), "</head>")
}

// afterOpeningTag returns the offset just past the first tag starting with
// prefix (case-insensitive), or -1.
func afterOpeningTag(htmlContent, prefix string) int {
	idx := strings.Index(strings.ToLower(htmlContent), prefix)
	if idx < 0 {
		return -1
	}
	end := strings.IndexByte(htmlContent[idx:], '>')
	if end < 0 {
		return -1
	}
	return idx + end + 1
}

// TOCData configures the table of contents.
type TOCData struct {
	Title    string
	MinDepth int // shallowest heading level listed (1-6)
	MaxDepth int // deepest heading level listed (1-6)
}

// Validate checks the depth bounds.
func (d *TOCData) Validate() error {
	if d.MinDepth < 1 || d.MinDepth > 6 || d.MaxDepth < 1 || d.MaxDepth > 6 {
		return fmt.Errorf("%w: depths must be between 1 and 6 (got %d-%d)", ErrInvalidTOCDepth, d.MinDepth, d.MaxDepth)
	}
	if d.MinDepth > d.MaxDepth {
		return fmt.Errorf("%w: minDepth %d exceeds maxDepth %d", ErrInvalidTOCDepth, d.MinDepth, d.MaxDepth)
	}
	return nil
}

// TOCInjector adds a table of contents to an HTML page.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

type heading struct {
	Level int
	ID    string
	Text  string
}

// headingPattern captures level, id and inner HTML of anchored headings.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// headingText drops inline markup and decodes entities so the text is
// escaped exactly once when written into the TOC.
func headingText(inner string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(inner, "")))
}

// collectHeadings returns the anchored headings within [minDepth, maxDepth]
// in document order.
func collectHeadings(htmlContent string, minDepth, maxDepth int) []heading {
	var out []heading
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		out = append(out, heading{Level: level, ID: m[2], Text: headingText(m[3])})
	}
	return out
}

// numbering produces hierarchical "1.2." labels. The first heading seen
// defines depth 1 and skipped levels collapse onto the next depth.
type numbering struct {
	counters [6]int
	base     int
	last     int
}

func (n *numbering) next(level int) (label string, depth int) {
	if n.base == 0 {
		n.base = level
	}
	depth = max(level-n.base+1, 1)
	if n.last > 0 && depth > n.last+1 {
		depth = n.last + 1
	}
	for i := depth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[depth-1]++
	n.last = depth

	var b strings.Builder
	for i := range depth {
		b.WriteString(strconv.Itoa(n.counters[i]))
		b.WriteByte('.')
	}
	return b.String(), depth
}

// buildTOC renders the numbered entries as a <nav>. Entries are divs so that
// theme list styles do not apply.
func buildTOC(headings []heading, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc">`)
	if title != "" {
		b.WriteString(`<h2 class="toc-title">` + html.EscapeString(title) + `</h2>`)
	}
	b.WriteString(`<div class="toc-list">`)

	var n numbering
	for _, h := range headings {
		label, depth := n.next(h.Level)
		b.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&b, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		b.WriteString(`><a href="#` + html.EscapeString(h.ID) + `">` + label + " " + html.EscapeString(h.Text) + `</a></div>`)
	}
	b.WriteString(`</div></nav>`)
	return b.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a TOCInjection.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC inserts a numbered table of contents at the top of the notebook
// container, else after <body>, else at the start. A nil data or a page
// without anchored headings is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := data.Validate(); err != nil {
		return "", err
	}

	toc := buildTOC(collectHeadings(htmlContent, data.MinDepth, data.MaxDepth), data.Title)
	if toc == "" {
		return htmlContent, nil
	}

	for _, anchor := range []string{`<main`, `<body`} {
		if pos := afterOpeningTag(htmlContent, anchor); pos >= 0 {
			return htmlContent[:pos] + toc + htmlContent[pos:], nil
		}
	}
	return toc + htmlContent, nil
}
