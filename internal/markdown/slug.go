package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives an anchor id from heading text: diacritics are folded,
// letters lowercased, non-word characters stripped and whitespace runs
// replaced by a single hyphen.
func Slugify(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsSpace(r):
			pendingHyphen = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			if pendingHyphen {
				b.WriteByte('-')
				pendingHyphen = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SlugIDs generates unique heading ids for one document. It implements
// goldmark's parser.IDs.
type SlugIDs struct {
	seen map[string]bool
}

var _ parser.IDs = (*SlugIDs)(nil)

// NewSlugIDs creates an empty id set.
func NewSlugIDs() *SlugIDs {
	return &SlugIDs{seen: make(map[string]bool)}
}

// Generate returns a unique slug for value. Repeats get -1, -2, ... suffixes.
func (s *SlugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		base = "heading"
	}
	id := base
	for i := 1; s.seen[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.seen[id] = true
	return []byte(id)
}

// Put records an explicitly assigned id.
func (s *SlugIDs) Put(value []byte) {
	s.seen[string(value)] = true
}
