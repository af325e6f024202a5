package ansi

import (
	"html"
	"strings"
	"testing"
)

func TestHas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain", "hello", false},
		{"color", "\x1b[31mred\x1b[0m", true},
		{"cursor move", "\x1b[2K", true},
		{"private mode", "\x1b[?25l", true},
		{"bare escape", "\x1b", false},
		{"bracket without escape", "[31m", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Has(tt.input); got != tt.want {
				t.Errorf("Has(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "red foreground",
			input: "\x1b[31mError\x1b[0m",
			want:  `<span style="color:#800000">Error</span>`,
		},
		{
			name:  "bold bright green",
			input: "\x1b[1;92mok\x1b[0m done",
			want:  `<span style="color:#00ff00;font-weight:bold">ok</span> done`,
		},
		{
			name:  "text is escaped inside spans",
			input: "\x1b[33m<a & b>\x1b[39m",
			want:  `<span style="color:#808000">&lt;a &amp; b&gt;</span>`,
		},
		{
			name:  "style change closes previous span",
			input: "\x1b[31ma\x1b[32mb\x1b[m",
			want:  `<span style="color:#800000">a</span><span style="color:#008000">b</span>`,
		},
		{
			name:  "unterminated style is closed",
			input: "\x1b[4mu",
			want:  `<span style="text-decoration:underline">u</span>`,
		},
		{
			name:  "256 colour",
			input: "\x1b[38;5;196mx",
			want:  `<span style="color:#ff0000">x</span>`,
		},
		{
			name:  "true colour background",
			input: "\x1b[48;2;1;2;3mx",
			want:  `<span style="background-color:#010203">x</span>`,
		},
		{
			name:  "grayscale",
			input: "\x1b[38;5;232mx",
			want:  `<span style="color:#080808">x</span>`,
		},
		{
			name:  "non-SGR sequences dropped",
			input: "a\x1b[2Kb\x1b[?25lc",
			want:  "abc",
		},
		{
			name:  "stray escape dropped",
			input: "a\x1bb",
			want:  "ab",
		},
		{
			name:  "osc hyperlink dropped",
			input: "\x1b]8;;http://x\x07link\x1b]8;;\x07",
			want:  "link",
		},
		{
			name:  "colon separated 256 colour",
			input: "\x1b[38:5:21mx",
			want:  `<span style="color:#0000ff">x</span>`,
		},
		{
			name:  "incomplete extended colour ignored",
			input: "\x1b[1;38;5mx",
			want:  `<span style="font-weight:bold">x</span>`,
		},
		{
			name:  "empty parameters reset",
			input: "\x1b[31ma\x1b[;mb",
			want:  `<span style="color:#800000">a</span>b`,
		},
		{
			name:  "italic faint strike",
			input: "\x1b[2;3;9mx",
			want:  `<span style="opacity:0.7;font-style:italic;text-decoration:line-through">x</span>`,
		},
		{
			name:  "oversized parameter list dropped",
			input: "\x1b[" + strings.Repeat("1;", 40) + "31mx",
			want:  "x",
		},
		{
			name:  "inverse defaults",
			input: "\x1b[7mx",
			want:  `<span style="color:#000000;background-color:#c0c0c0">x</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ToHTML(tt.input)
			if got != tt.want {
				t.Errorf("ToHTML(%q)\n got: %s\nwant: %s", tt.input, got, tt.want)
			}
			if strings.Contains(got, "\x1b") {
				t.Errorf("ToHTML(%q) left a raw escape character", tt.input)
			}
		})
	}
}

func TestToHTML_NoEscapesEqualsEscapedInput(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "plain", `<script>alert("x")</script>`, "a & b\n'c'"}
	for _, in := range inputs {
		if got, want := ToHTML(in), html.EscapeString(in); got != want {
			t.Errorf("ToHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

