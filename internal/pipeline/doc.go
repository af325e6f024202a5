// Package pipeline assembles rendered notebook HTML into a standalone page.
//
// Stages, in order:
//   - document template: wraps the notebook body with head, theme
//     stylesheets and scripts
//   - CSS injection: inlines the theme style and highlighter classes
//   - table of contents: numbered entries built from heading anchors
//   - path resolution: relative image and link paths become file:// URLs so
//     that a headless browser can load them when printing
//
// Cell and output rendering lives in internal/render; this package never
// inspects notebook structure.
package pipeline
