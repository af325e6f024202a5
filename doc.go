// Package nb2html renders Jupyter notebooks to HTML, and optionally to PDF
// using headless Chrome.
//
// # Quick Start
//
// Create a converter, convert a notebook, and close when done:
//
//	conv, err := nb2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	data, _ := os.ReadFile("analysis.ipynb")
//	result, err := conv.Convert(ctx, nb2html.Input{Notebook: data})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("analysis.html", result.HTML, 0644)
//
// # Rendering Pipeline
//
//  1. Notebook decoding (nbformat 3 worksheets and nbformat 4 cells)
//  2. Cell rendering: markdown through Goldmark, code and outputs through
//     Chroma, ANSI escapes to styled spans, LaTeX for MathJax
//  3. Cell wrapping with the theme skeleton (none, tailwind, bootstrap)
//  4. Document assembly: HTML5 page, theme and highlight CSS, table of contents
//  5. PDF rendering via headless Chrome (go-rod), when Input.PDF is set
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := nb2html.NewConverter(
//	    nb2html.WithTheme("bootstrap"),
//	    nb2html.WithLanguages("python", "r"),
//	    nb2html.WithLabels("Show", "Hide"),
//	    nb2html.WithAssetPath("/path/to/custom/assets"),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, nb2html.Input{
//	    Notebook:  data,
//	    SourceDir: "/path/to/notebooks", // for relative image paths
//	    Title:     "Quarterly analysis",
//	    TOC:       &nb2html.TOC{Title: "Contents"},
//	    PDF:       true,
//	})
//
// # Custom Assets
//
// A custom asset directory overrides or extends the built-in themes:
//
//	assets/
//	├── themes/
//	│   └── corporate.yaml   # name, stylesheets, scripts, classes
//	├── templates/
//	│   ├── corporate.html   # cell wrapper skeleton
//	│   └── document.html    # standalone page
//	└── styles/
//	    └── corporate.css
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium instance on first use. For containers and CI environments,
// set ROD_NO_SANDBOX=1 to disable the Chrome sandbox. Use ROD_BROWSER_BIN to
// specify a custom Chrome binary.
package nb2html
