package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// resolvedAttrs lists, per element, the attribute holding a resource path.
// Media elements are left alone: a printed page cannot play them.
var resolvedAttrs = map[string]string{
	"img":   "src",
	"a":     "href",
	"image": "href", // SVG outputs
}

// ResolveRelativePaths turns relative resource paths in htmlContent into
// file:// URLs under baseDir, so that markdown images next to a notebook
// still load when the page is printed from elsewhere. Paths escaping baseDir,
// URLs, data URIs, anchors and absolute paths are kept as is. An empty
// baseDir returns the content unchanged.
func ResolveRelativePaths(htmlContent, baseDir string) (string, error) {
	if baseDir == "" {
		return htmlContent, nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	root, fragment, err := parseDocument(htmlContent)
	if err != nil {
		return "", err
	}
	walk(root, absBase)
	return render(root, fragment)
}

// parseDocument parses a full page, or a fragment in body context.
func parseDocument(content string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

// render serialises root; fragments are written child by child so no
// <html><body> wrapper appears.
func render(root *html.Node, fragment bool) (string, error) {
	var b strings.Builder
	if !fragment {
		err := html.Render(&b, root)
		return b.String(), err
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func walk(n *html.Node, base string) {
	if n.Type == html.ElementNode {
		if key, ok := resolvedAttrs[n.Data]; ok {
			resolveAttr(n, key, base)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, base)
	}
}

func resolveAttr(n *html.Node, key, base string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}
		abs := filepath.Join(base, attr.Val)
		if !isPathUnderDir(abs, base) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(abs)
	}
}

// nonRelativePrefixes mark values that already name a location.
var nonRelativePrefixes = []string{"http://", "https://", "file://", "data:", "mailto:", "//", "#"}

func isRelativePath(path string) bool {
	if path == "" || filepath.IsAbs(path) {
		return false
	}
	for _, p := range nonRelativePrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// isPathUnderDir reports whether absPath stays inside dir.
func isPathUnderDir(absPath, dir string) bool {
	dir = filepath.Clean(dir)
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), dir)
}

func pathToFileURL(absPath string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}).String()
}
