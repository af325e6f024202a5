package markdown

import (
	"regexp"
	"sort"
	"strings"
)

// Precompiled patterns for post-processing.
var (
	paragraphPattern = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
	lineSplitPattern = regexp.MustCompile(`\n+`)
	alignPattern     = regexp.MustCompile(`^:?-+:?$`)
	whitespace       = regexp.MustCompile(`\s+`)

	// taskItemPattern matches a list item opening with a [ ], [x] or [X]
	// marker, optionally inside the paragraph of a loose list.
	taskItemPattern = regexp.MustCompile(`<li>(\s*(?:<p>)?)\[( |x|X)\]\s*`)
	// parsedTaskPattern matches an item whose checkbox the parser emitted.
	parsedTaskPattern = regexp.MustCompile(`<li>(\s*(?:<p>)?)<input (checked="" )?disabled="" type="checkbox"\s*/?>\s*`)
	listTagPattern  = regexp.MustCompile(`<(ul|ol)((?:\s[^>]*)?)>|</(?:ul|ol)>|<li class="task-list-item">`)

	// protectedPattern matches regions where inline math is never spliced.
	protectedPattern = regexp.MustCompile(`(?s)<pre[\s>].*?</pre>|<code[\s>].*?</code>|<div class="math math-display">.*?</div>|<[^>]*>`)
	inlineMath       = regexp.MustCompile(`\$(.+?)\$`)
)

// Class names emitted by the post-processors.
const (
	TaskItemClass   = "task-list-item"
	TaskListClass   = "contains-task-list"
	InlineMathClass = "math math-inline"
)

// PostProcess applies, in order, pipe table reconstruction, task list
// detection and inline math splicing to rendered HTML.
func PostProcess(html string) string {
	return InlineMath(TaskLists(Tables(html)))
}

// Tables rebuilds pipe tables still rendered as paragraph text. A
// paragraph is converted when its first two lines start with '|', the second
// line is an alignment row with as many cells as the header and every body
// row has the header's cell count (rows that do not are dropped; if none
// match, the paragraph is left untouched).
func Tables(html string) string {
	return paragraphPattern.ReplaceAllStringFunc(html, func(match string) string {
		content := paragraphPattern.FindStringSubmatch(match)[1]
		lines := lineSplitPattern.Split(strings.TrimSpace(content), -1)
		if len(lines) < 2 || !isRow(lines[0]) || !isRow(lines[1]) {
			return match
		}

		header := splitRow(lines[0])
		separator := splitRow(lines[1])
		if len(header) == 0 || len(header) != len(separator) {
			return match
		}
		aligns := make([]string, len(separator))
		for i, cell := range separator {
			align, ok := parseAlignment(cell)
			if !ok {
				return match
			}
			aligns[i] = align
		}

		var body [][]string
		bodyLines := 0
		for _, line := range lines[2:] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyLines++
			if row := splitRow(line); len(row) == len(header) {
				body = append(body, row)
			}
		}
		if bodyLines > 0 && len(body) == 0 {
			return match
		}

		var b strings.Builder
		b.WriteString("<table><thead><tr>")
		for i, cell := range header {
			writeCell(&b, "th", cell, aligns[i])
		}
		b.WriteString("</tr></thead><tbody>")
		for _, row := range body {
			b.WriteString("<tr>")
			for i, cell := range row {
				writeCell(&b, "td", cell, aligns[i])
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")
		return b.String()
	})
}

func isRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func splitRow(line string) []string {
	row := strings.TrimSpace(line)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	cells := strings.Split(row, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// parseAlignment returns the column alignment for a separator cell, or
// false when the cell is not an alignment marker.
func parseAlignment(cell string) (string, bool) {
	marker := whitespace.ReplaceAllString(cell, "")
	if !alignPattern.MatchString(marker) {
		return "", false
	}
	left, right := strings.HasPrefix(marker, ":"), strings.HasSuffix(marker, ":")
	switch {
	case left && right:
		return "center", true
	case right:
		return "right", true
	case left:
		return "left", true
	}
	return "", true
}

func writeCell(b *strings.Builder, tag, value, align string) {
	b.WriteString("<" + tag)
	if align != "" {
		b.WriteString(` align="` + align + `"`)
	}
	b.WriteString(">" + value + "</" + tag + ">")
}

// TaskLists turns list items starting with [ ], [x] or [X] into disabled
// checkboxes and marks each list holding at least one of them. Items whose
// checkbox was already emitted get the same markup and classes.
func TaskLists(html string) string {
	html = parsedTaskPattern.ReplaceAllStringFunc(html, func(match string) string {
		m := parsedTaskPattern.FindStringSubmatch(match)
		return taskItem(m[1], m[2] != "")
	})
	html = taskItemPattern.ReplaceAllStringFunc(html, func(match string) string {
		m := taskItemPattern.FindStringSubmatch(match)
		return taskItem(m[1], m[2] != " ")
	})
	return markTaskLists(html)
}

func taskItem(lead string, checked bool) string {
	box := `<input type="checkbox" disabled="">`
	if checked {
		box = `<input type="checkbox" disabled="" checked="">`
	}
	return `<li class="` + TaskItemClass + `">` + lead + box
}

// markTaskLists adds the task list class to every list whose direct
// children include a task item.
func markTaskLists(html string) string {
	type list struct {
		start, end int // bounds of the opening tag
		tag, attrs string
		task       bool
	}
	var (
		stack  []list
		marked []list
	)
	for _, loc := range listTagPattern.FindAllStringSubmatchIndex(html, -1) {
		token := html[loc[0]:loc[1]]
		switch {
		case loc[2] >= 0:
			stack = append(stack, list{start: loc[0], end: loc[1], tag: html[loc[2]:loc[3]], attrs: html[loc[4]:loc[5]]})
		case strings.HasPrefix(token, "</"):
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.task {
				marked = append(marked, top)
			}
		default:
			if len(stack) > 0 {
				stack[len(stack)-1].task = true
			}
		}
	}
	if len(marked) == 0 {
		return html
	}

	// Rewrite opening tags back to front so earlier offsets stay valid.
	sort.Slice(marked, func(i, j int) bool { return marked[i].start > marked[j].start })
	for _, l := range marked {
		html = html[:l.start] + `<` + l.tag + ` class="` + TaskListClass + `"` + l.attrs + `>` + html[l.end:]
	}
	return html
}

// InlineMath wraps $...$ spans found in text content in an inline math
// element. Code, preformatted blocks, display math and tag attributes are
// left untouched. The expression is passed through verbatim.
func InlineMath(html string) string {
	if !strings.Contains(html, "$") {
		return html
	}
	var b strings.Builder
	last := 0
	for _, loc := range protectedPattern.FindAllStringIndex(html, -1) {
		b.WriteString(spliceMath(html[last:loc[0]]))
		b.WriteString(html[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(spliceMath(html[last:]))
	return b.String()
}

func spliceMath(s string) string {
	return inlineMath.ReplaceAllString(s, `<span class="`+InlineMathClass+`">$1</span>`)
}
