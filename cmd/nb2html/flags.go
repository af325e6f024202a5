package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds cell rendering flags.
type renderFlags struct {
	theme        string
	language     string
	languages    []string
	codeStyle    string
	labelDisplay string
	labelFold    string
	anchors      bool
}

// documentFlags holds standalone document flags.
type documentFlags struct {
	title    string
	lang     string
	css      string
	fragment bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
}

// pdfFlags holds PDF export flags.
type pdfFlags struct {
	enabled     bool
	size        string
	orientation string
	margin      float64
}

// assetFlags holds custom asset flags.
type assetFlags struct {
	path string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	timeout  string
	render   renderFlags
	document documentFlags
	toc      tocFlags
	pdf      pdfFlags
	assets   assetFlags

	changed map[string]bool
}

// isSet reports whether the flag was given on the command line.
func (f *convertFlags) isSet(name string) bool {
	return f.changed[name]
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timings and debug diagnostics")
}

// addRenderFlags adds cell rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.theme, "theme", "", "cell theme: none, tailwind, bootstrap or a custom theme")
	fs.StringVar(&f.language, "language", "", "fallback language when the notebook names none")
	fs.StringSliceVar(&f.languages, "languages", nil, "highlighted languages (comma separated)")
	fs.StringVar(&f.codeStyle, "code-style", "", "chroma style for highlighted code")
	fs.StringVar(&f.labelDisplay, "label-display", "", "toggle text of collapsed cells")
	fs.StringVar(&f.labelFold, "label-fold", "", "toggle text of expanded cells")
	fs.BoolVar(&f.anchors, "anchors", false, "give markdown headings slug ids")
}

// addDocumentFlags adds standalone document flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = notebook title or file name)")
	fs.StringVar(&f.lang, "lang", "", "document language tag")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended to the theme styles")
	fs.BoolVar(&f.fragment, "fragment", false, "write bare cell markup, no HTML document")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 1)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 3)")
}

// addPDFFlags adds PDF export flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.BoolVar(&f.enabled, "pdf", false, "also print each document to PDF")
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addAssetFlags adds custom asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.path, "assets", "", "custom asset directory (themes/, templates/, styles/)")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addDocumentFlags(fs, &f.document)
	addTOCFlags(fs, &f.toc)
	addPDFFlags(fs, &f.pdf)
	addAssetFlags(fs, &f.assets)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		f.changed[fl.Name] = true
	})

	return f, fs.Args(), nil
}
