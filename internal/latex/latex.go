// Package latex prepares LaTeX fragments for display-mode rendering.
//
// The output is a display container holding the escaped TeX between \[ and \]
// delimiters, ready for a client-side typesetter (MathJax or KaTeX auto-render).
// Environment names are generalised to aligned so that equation arrays of any
// flavour render the same way inside the display block.
package latex

import (
	"html"
	"regexp"
	"strings"
)

// DisplayClass is the class of the display math container.
const DisplayClass = "math math-display"

// envPattern matches \begin{name} and \end{name}.
var envPattern = regexp.MustCompile(`\\(begin|end)\{([^}]*)\}`)

// inner environments are kept: they nest inside aligned.
var inner = map[string]bool{
	"aligned":     true,
	"alignedat":   true,
	"gathered":    true,
	"split":       true,
	"array":       true,
	"subarray":    true,
	"cases":       true,
	"matrix":      true,
	"pmatrix":     true,
	"bmatrix":     true,
	"Bmatrix":     true,
	"vmatrix":     true,
	"Vmatrix":     true,
	"smallmatrix": true,
}

// delimiters stripped from the outside of a fragment, longest first.
var delimiters = [][2]string{
	{"$$", "$$"},
	{`\[`, `\]`},
	{`\(`, `\)`},
	{"$", "$"},
}

// Render joins fragments and returns display-mode HTML. It never fails:
// malformed input yields the best-effort normalised source.
func Render(fragments []string) string {
	return Display(Normalize(strings.Join(fragments, "")))
}

// Display wraps already-normalised TeX in the display container.
func Display(tex string) string {
	if tex == "" {
		return ""
	}
	return `<div class="` + DisplayClass + `">\[` + html.EscapeString(tex) + `\]</div>`
}

// Normalize trims src, strips outer math delimiters and generalises
// environments to aligned. Unclosed environments are closed and stray \end
// commands dropped.
func Normalize(src string) string {
	tex := stripDelimiters(strings.TrimSpace(src))

	var (
		b     strings.Builder
		stack []string
		last  int
	)
	for _, m := range envPattern.FindAllStringSubmatchIndex(tex, -1) {
		b.WriteString(tex[last:m[0]])
		last = m[1]

		kind, name := tex[m[2]:m[3]], tex[m[4]:m[5]]
		target := generalize(name)
		if kind == "begin" {
			stack = append(stack, target)
			b.WriteString(`\begin{` + target + `}`)
			continue
		}
		if len(stack) == 0 {
			continue
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.WriteString(`\end{` + top + `}`)
	}
	b.WriteString(tex[last:])
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString(`\end{` + stack[i] + `}`)
	}
	return strings.TrimSpace(b.String())
}

func generalize(name string) string {
	name = strings.TrimSpace(name)
	if inner[name] {
		return name
	}
	return "aligned"
}

func stripDelimiters(tex string) string {
	for _, d := range delimiters {
		if len(tex) >= len(d[0])+len(d[1]) && strings.HasPrefix(tex, d[0]) && strings.HasSuffix(tex, d[1]) {
			return strings.TrimSpace(tex[len(d[0]) : len(tex)-len(d[1])])
		}
	}
	return tex
}
