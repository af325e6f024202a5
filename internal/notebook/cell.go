package notebook

// CellType discriminates cell variants.
type CellType string

// Cell types.
const (
	CellMarkdown CellType = "markdown"
	CellCode     CellType = "code"
	CellRaw      CellType = "raw"
)

// Cell is one unit of notebook content: *MarkdownCell, *CodeCell or *RawCell.
type Cell interface {
	Type() CellType
	Base() *CellBase
}

// CellBase holds the attributes shared by every cell variant.
type CellBase struct {
	ID       string
	Source   string
	Metadata CellMetadata
}

// Base returns the shared attributes.
func (b *CellBase) Base() *CellBase { return b }

// Autoscroll is the output autoscroll mode: "true", "false" or "auto".
type Autoscroll string

// CellMetadata is the per-cell metadata block.
type CellMetadata struct {
	Collapsed        bool
	Autoscroll       Autoscroll
	Deletable        bool
	Format           string // raw cell MIME type (raw_mimetype or format)
	Name             string
	Language         string // overrides the notebook language for this cell
	Tags             []string
	ID               string
	HasExecutionInfo bool
}

// MarkdownCell is a prose cell. It never carries outputs.
type MarkdownCell struct {
	CellBase
	Attachments map[string]MimeBundle
}

// Type returns CellMarkdown.
func (*MarkdownCell) Type() CellType { return CellMarkdown }

// CodeCell is a source cell with its pre-computed outputs.
type CodeCell struct {
	CellBase
	ExecutionCount *int
	Outputs        []Output
}

// Type returns CellCode.
func (*CodeCell) Type() CellType { return CellCode }

// RawCell is opaque content, never interpreted as markdown or code.
type RawCell struct {
	CellBase
}

// Type returns CellRaw.
func (*RawCell) Type() CellType { return CellRaw }

// Compile-time interface checks.
var (
	_ Cell = (*MarkdownCell)(nil)
	_ Cell = (*CodeCell)(nil)
	_ Cell = (*RawCell)(nil)
)
