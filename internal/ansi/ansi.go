// Package ansi converts terminal escape sequences found in stream and
// traceback text into HTML.
//
// SGR sequences (ESC [ ... m) become inline-styled spans coloured with the
// xterm palette. Every other control sequence is dropped. Text between
// sequences is always HTML-escaped.
package ansi

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// escapePattern matches a CSI sequence: ESC [ params intermediates final.
var escapePattern = regexp.MustCompile(`\x1b\[[0-9;:?<=>]*[ -/]*[@-~]`)

// oscPattern matches operating system commands (window titles, hyperlinks).
var oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// Has reports whether text contains an ANSI escape sequence.
func Has(text string) bool {
	return escapePattern.MatchString(text)
}

// ToHTML converts text to HTML. Text without escape sequences is returned
// HTML-escaped and otherwise unchanged.
func ToHTML(text string) string {
	if !strings.Contains(text, "\x1b") {
		return html.EscapeString(text)
	}
	text = oscPattern.ReplaceAllString(text, "")

	var (
		b    strings.Builder
		p    = newParser()
		cur  style
		open bool
		last int
	)
	b.Grow(len(text))

	flush := func(s string) {
		s = strings.ReplaceAll(s, "\x1b", "")
		if s == "" {
			return
		}
		b.WriteString(html.EscapeString(s))
	}

	for _, loc := range escapePattern.FindAllStringIndex(text, -1) {
		flush(text[last:loc[0]])
		last = loc[1]

		params, ok := sgr(p, text[loc[0]:loc[1]])
		if !ok {
			continue
		}
		next := cur.apply(params)
		if next == cur {
			continue
		}
		if open {
			b.WriteString("</span>")
			open = false
		}
		cur = next
		if css := cur.css(); css != "" {
			fmt.Fprintf(&b, `<span style="%s">`, css)
			open = true
		}
	}
	flush(text[last:])
	if open {
		b.WriteString("</span>")
	}
	return b.String()
}

// maxParams bounds the parameters of one sequence; longer ones are dropped.
const maxParams = 32

// newParser returns a parser sized for CSI parameters only; OSC payloads are
// removed before decoding.
func newParser() *xansi.Parser {
	p := new(xansi.Parser)
	p.SetParamsSize(maxParams)
	return p
}

// sgr decodes seq and returns its parameters when it is a plain SGR
// sequence. Private (ESC [ ? ...) and intermediate forms are rejected.
func sgr(p *xansi.Parser, seq string) (xansi.Params, bool) {
	if strings.Count(seq, ";")+strings.Count(seq, ":") >= maxParams-1 {
		return nil, false
	}
	xansi.DecodeSequence(seq, xansi.NormalState, p)
	cmd := xansi.Cmd(p.Command())
	if cmd.Final() != 'm' || cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
		return nil, false
	}
	return p.Params(), true
}
