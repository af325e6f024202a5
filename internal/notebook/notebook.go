package notebook

import (
	"errors"
	"strings"
)

// Sentinel errors for notebook decoding.
var (
	ErrEmptyNotebook = errors.New("notebook content cannot be empty")
	ErrNotebookParse = errors.New("failed to parse notebook")
)

// Notebook is a decoded notebook document.
type Notebook struct {
	Cells         []Cell
	Metadata      Metadata
	NBFormat      int
	NBFormatMinor int
}

// Language returns the document-wide source language, or "" when the
// metadata does not name one.
func (nb *Notebook) Language() string {
	if nb == nil {
		return ""
	}
	return nb.Metadata.Language()
}

// Metadata is the document-level metadata block.
type Metadata struct {
	Signature    string
	KernelInfo   KernelInfo
	KernelSpec   KernelSpec
	LanguageInfo *LanguageInfo
	Title        string
}

// Language resolves the notebook language: language_info first, then the
// kernelspec language.
func (m Metadata) Language() string {
	if m.LanguageInfo != nil && m.LanguageInfo.Name != "" {
		return m.LanguageInfo.Name
	}
	return m.KernelSpec.Language
}

// KernelInfo identifies the kernel that produced the outputs (nbformat 3).
type KernelInfo struct {
	Name string
}

// KernelSpec describes the kernel (nbformat 4).
type KernelSpec struct {
	Name        string
	DisplayName string
	Language    string
}

// LanguageInfo describes the source language of code cells.
type LanguageInfo struct {
	Name           string
	Version        string
	CodemirrorMode string
}

// Fragments is a text value stored either as one string or as an array of
// fragments. Fragments are concatenated without separators.
type Fragments []string

// Join concatenates the fragments.
func (f Fragments) Join() string {
	switch len(f) {
	case 0:
		return ""
	case 1:
		return f[0]
	}
	return strings.Join(f, "")
}

// MimeBundle maps a MIME type to its representation fragments.
type MimeBundle map[string]Fragments

// Text returns the concatenated representation for mime.
func (b MimeBundle) Text(mime string) (string, bool) {
	f, ok := b[mime]
	if !ok {
		return "", false
	}
	return f.Join(), true
}

// Has reports whether the bundle holds a representation for mime.
func (b MimeBundle) Has(mime string) bool {
	_, ok := b[mime]
	return ok
}

// Images returns the base64 payloads stored under an image MIME type.
// A value split over lines (every fragment but the last ending in a newline)
// is one image; otherwise each fragment is a separate image.
func (b MimeBundle) Images(mime string) []string {
	f := b[mime]
	if len(f) == 0 {
		return nil
	}
	if isLineSplit(f) {
		return []string{f.Join()}
	}
	images := make([]string, 0, len(f))
	for _, img := range f {
		if strings.TrimSpace(img) != "" {
			images = append(images, img)
		}
	}
	return images
}

func isLineSplit(f Fragments) bool {
	if len(f) < 2 {
		return true
	}
	for _, frag := range f[:len(f)-1] {
		if !strings.HasSuffix(frag, "\n") {
			return false
		}
	}
	return true
}
