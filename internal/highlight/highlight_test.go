package highlight

import (
	"bytes"
	"errors"
	"html"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2/lexers"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if !reg.Register("Python", lexers.Get("python")) {
		t.Fatal("first Register() = false, want true")
	}
	if reg.Register("python", lexers.Get("python")) {
		t.Error("second Register() = true, want no-op")
	}
	if reg.Register("nil", nil) {
		t.Error("Register(nil) = true, want false")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if got := reg.Names(); len(got) != 1 || got[0] != "python" {
		t.Errorf("Names() = %v, want [python]", got)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("python", lexers.Get("python"))

	tests := []struct {
		name string
		want bool
	}{
		{"python", true},
		{"PYTHON", true},
		{" python ", true},
		{"py", true},
		{"ruby", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := reg.Registered(tt.name); got != tt.want {
				t.Errorf("Registered(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRegistry_RegisterBuiltin(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := reg.RegisterBuiltin("go", "no-such-language")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("RegisterBuiltin() error = %v, want ErrUnknownLanguage", err)
	}
	if !reg.Registered("go") {
		t.Error("known language not registered alongside unknown one")
	}
}

func TestRegistry_RegisterDefaults(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterDefaults()
	if reg.Len() != len(DefaultLanguages) {
		t.Errorf("Len() = %d, want %d", reg.Len(), len(DefaultLanguages))
	}
}

func TestHighlight_EmptyRegistryEscapes(t *testing.T) {
	t.Parallel()

	h := New(nil)
	inputs := []string{
		"plain text",
		`<script>alert("x")</script>`,
		"a & b",
		"",
	}
	for _, in := range inputs {
		for _, hint := range []string{"", "python"} {
			if got, want := h.Highlight(in, hint), html.EscapeString(in); got != want {
				t.Errorf("Highlight(%q, %q) = %q, want %q", in, hint, got, want)
			}
		}
	}
}

func TestHighlight_RegisteredHint(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterBuiltin("python")
	h := New(reg)

	got := h.Highlight("if a < b:\n    print(\"x\")\n", "python")
	if !strings.Contains(got, `<span class="`) {
		t.Errorf("expected chroma spans, got %q", got)
	}
	if !strings.Contains(got, "&lt;") {
		t.Errorf("expected escaped comparison, got %q", got)
	}
	if strings.Contains(got, "<pre") {
		t.Errorf("highlighter must not wrap in <pre>, got %q", got)
	}
}

func TestHighlight_ANSITakesPrecedenceOverDetection(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterDefaults()
	h := New(reg)

	got := h.Highlight("\x1b[31mTraceback\x1b[0m", "")
	if !strings.Contains(got, `<span style="color:#800000">Traceback</span>`) {
		t.Errorf("expected ANSI span, got %q", got)
	}
	if strings.Contains(got, "\x1b") {
		t.Errorf("raw escape left in %q", got)
	}
}

func TestHighlight_HintBeatsANSI(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterBuiltin("bash")
	h := New(reg)

	got := h.Highlight("echo \x1b[31mred\x1b[0m", "bash")
	if strings.Contains(got, `style="color:#800000"`) {
		t.Errorf("registered hint should win over ANSI conversion, got %q", got)
	}
}

func TestHighlight_Deterministic(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterDefaults()
	h := New(reg)

	src := "#!/usr/bin/env python\nimport os\nprint(os.getcwd())\n"
	first := h.Highlight(src, "")
	for range 5 {
		if got := h.Highlight(src, ""); got != first {
			t.Fatalf("Highlight() not deterministic:\n%q\n%q", first, got)
		}
	}
}

func TestHighlighter_WriteCSS(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(nil, WithStyle("monokai")).WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS() unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), ".chroma") {
		t.Errorf("CSS missing .chroma selector: %q", buf.String())
	}
}
