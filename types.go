package nb2html

import (
	"fmt"
	"strings"

	"github.com/alnah/go-nb2html/internal/pipeline"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// TOC depth defaults.
const (
	DefaultTOCMinDepth = 1
	DefaultTOCMaxDepth = 3
)

// Input contains conversion parameters.
type Input struct {
	Notebook  []byte        // .ipynb JSON (required)
	Name      string        // source file name, title fallback
	Theme     string        // overrides the converter theme; must be loaded
	Title     string        // overrides the notebook title
	Lang      string        // html lang attribute, default "en"
	SourceDir string        // resolves relative image paths
	CSS       string        // appended after the theme and highlight CSS
	TOC       *TOC          // nil disables the table of contents
	Fragment  bool          // bare cell markup, no document around it
	PDF       bool          // also print the document to PDF
	Page      *PageSettings // PDF page settings (nil = defaults)
}

// Result holds the conversion output. PDF is nil unless Input.PDF was set.
type Result struct {
	HTML []byte
	PDF  []byte
}

// TOC configures the table of contents. Zero depths take the defaults.
type TOC struct {
	Title    string
	MinDepth int // 1-6
	MaxDepth int // 1-6
}

// Validate checks depth bounds. Returns nil if t is nil.
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	return t.data().Validate()
}

func (t *TOC) data() *pipeline.TOCData {
	if t == nil {
		return nil
	}
	minDepth := t.MinDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	maxDepth := t.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultTOCMaxDepth
	}
	return &pipeline.TOCData{
		Title:    t.Title,
		MinDepth: minDepth,
		MaxDepth: maxDepth,
	}
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := pageDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// pageDimensions maps page sizes to portrait width and height in inches.
var pageDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// dimensions returns width and height in inches, honouring orientation.
func (p *PageSettings) dimensions() (width, height float64) {
	d := pageDimensions[strings.ToLower(p.Size)]
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return d[1], d[0]
	}
	return d[0], d[1]
}
