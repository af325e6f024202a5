package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2html/internal/notebook"
	"github.com/alnah/go-nb2html/internal/theme"
)

// CellID returns the element id of the cell at index.
func CellID(index int) string {
	return "cell-" + strconv.Itoa(index)
}

// Notebook renders every cell in order, each inside the theme's collapsible
// wrapper, joined by newlines. The fallback language comes from the notebook
// metadata.
func (r *Renderer) Notebook(nb *notebook.Notebook, themeName string) string {
	if nb == nil || len(nb.Cells) == 0 {
		return ""
	}
	lang := nb.Language()

	parts := make([]string, len(nb.Cells))
	for i, cell := range nb.Cells {
		parts[i] = r.wrap(cell, i, r.Cell(cell, themeName, lang), themeName)
	}
	return strings.Join(parts, "\n")
}

func (r *Renderer) wrap(cell notebook.Cell, index int, body, themeName string) string {
	return r.themes.Wrap(themeName, theme.Wrapper{
		ID:        CellID(index),
		Type:      string(cell.Type()),
		Collapsed: cell.Base().Metadata.Collapsed,
		Content:   template.HTML(body), // #nosec G203 -- body is renderer output
		Display:   r.labels.Display,
		Fold:      r.labels.Fold,
	})
}
