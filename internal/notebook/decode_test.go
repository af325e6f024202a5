package notebook_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-nb2html/internal/notebook"
)

// ---------------------------------------------------------------------------
// TestParse - Document shape
// ---------------------------------------------------------------------------

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", notebook.ErrEmptyNotebook},
		{"whitespace", "  \n\t", notebook.ErrEmptyNotebook},
		{"invalid JSON", "{not json", notebook.ErrNotebookParse},
		{"array document", "[1, 2]", notebook.ErrNotebookParse},
		{"string document", `"cells"`, notebook.ErrNotebookParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := notebook.Parse([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_ModernShape(t *testing.T) {
	t.Parallel()

	input := `{
		"nbformat": 4, "nbformat_minor": 5,
		"metadata": {
			"kernelspec": {"name": "python3", "display_name": "Python 3", "language": "python"},
			"language_info": {"name": "python", "version": "3.12.1", "codemirror_mode": {"name": "ipython", "version": 3}}
		},
		"cells": [
			{"cell_type": "markdown", "id": "a1", "metadata": {}, "source": ["# Title\n", "body"]},
			{"cell_type": "code", "execution_count": 3, "metadata": {"tags": ["x", 1, "y"]}, "source": "print(1)", "outputs": []},
			{"cell_type": "raw", "metadata": {"raw_mimetype": "text/html"}, "source": "<b>raw</b>"}
		]
	}`

	nb, err := notebook.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if nb.NBFormat != 4 || nb.NBFormatMinor != 5 {
		t.Errorf("format = %d.%d, want 4.5", nb.NBFormat, nb.NBFormatMinor)
	}
	if got := nb.Language(); got != "python" {
		t.Errorf("Language() = %q, want %q", got, "python")
	}
	if got := nb.Metadata.LanguageInfo.CodemirrorMode; got != "ipython" {
		t.Errorf("CodemirrorMode = %q, want %q", got, "ipython")
	}
	if len(nb.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3", len(nb.Cells))
	}

	md, ok := nb.Cells[0].(*notebook.MarkdownCell)
	if !ok {
		t.Fatalf("Cells[0] = %T, want *MarkdownCell", nb.Cells[0])
	}
	if md.Source != "# Title\nbody" {
		t.Errorf("markdown Source = %q", md.Source)
	}
	if md.ID != "a1" {
		t.Errorf("markdown ID = %q, want %q", md.ID, "a1")
	}

	code, ok := nb.Cells[1].(*notebook.CodeCell)
	if !ok {
		t.Fatalf("Cells[1] = %T, want *CodeCell", nb.Cells[1])
	}
	if code.ExecutionCount == nil || *code.ExecutionCount != 3 {
		t.Errorf("ExecutionCount = %v, want 3", code.ExecutionCount)
	}
	if strings.Join(code.Metadata.Tags, ",") != "x,y" {
		t.Errorf("Tags = %v, want [x y]", code.Metadata.Tags)
	}
	if !code.Metadata.Deletable {
		t.Error("Deletable should default to true")
	}

	raw, ok := nb.Cells[2].(*notebook.RawCell)
	if !ok {
		t.Fatalf("Cells[2] = %T, want *RawCell", nb.Cells[2])
	}
	if raw.Metadata.Format != "text/html" {
		t.Errorf("raw Format = %q, want text/html", raw.Metadata.Format)
	}
}

func TestParse_LegacyWorksheets(t *testing.T) {
	t.Parallel()

	input := `{
		"nbformat": 3,
		"metadata": {"name": "legacy", "signature": "sha256:abc"},
		"worksheets": [
			{"cells": [
				{"cell_type": "heading", "level": 2, "source": "Intro"},
				{"cell_type": "code", "language": "python", "collapsed": true, "input": ["x = 1\n", "x"], "prompt_number": 7,
				 "outputs": [
					{"output_type": "pyout", "prompt_number": 7, "text": ["1"], "metadata": {}},
					{"output_type": "stream", "stream": "stderr", "text": "warn"},
					{"output_type": "pyerr", "ename": "ValueError", "evalue": "bad", "traceback": ["line 1", "line 2"]}
				 ]}
			]},
			{"cells": [{"cell_type": "markdown", "source": "ignored"}]}
		]
	}`

	nb, err := notebook.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if nb.Metadata.Signature != "sha256:abc" {
		t.Errorf("Signature = %q", nb.Metadata.Signature)
	}
	if len(nb.Cells) != 2 {
		t.Fatalf("len(Cells) = %d, want 2 (first worksheet only)", len(nb.Cells))
	}

	heading := nb.Cells[0].(*notebook.MarkdownCell)
	if heading.Source != "## Intro" {
		t.Errorf("heading Source = %q, want %q", heading.Source, "## Intro")
	}

	code := nb.Cells[1].(*notebook.CodeCell)
	if code.Source != "x = 1\nx" {
		t.Errorf("Source = %q, want input alias", code.Source)
	}
	if code.ExecutionCount == nil || *code.ExecutionCount != 7 {
		t.Errorf("ExecutionCount = %v, want prompt_number 7", code.ExecutionCount)
	}
	if code.Metadata.Language != "python" || !code.Metadata.Collapsed {
		t.Errorf("Metadata = %+v, want language python and collapsed", code.Metadata)
	}
	if len(code.Outputs) != 3 {
		t.Fatalf("len(Outputs) = %d, want 3", len(code.Outputs))
	}

	pyout := code.Outputs[0].(*notebook.Rich)
	if txt, _ := pyout.Data.Text("text/plain"); txt != "1" {
		t.Errorf("pyout text/plain = %q, want %q", txt, "1")
	}
	if pyout.ExecutionCount == nil || *pyout.ExecutionCount != 7 {
		t.Errorf("pyout ExecutionCount = %v, want 7", pyout.ExecutionCount)
	}

	stream := code.Outputs[1].(*notebook.Stream)
	if stream.Name != "stderr" || stream.Text != "warn" || !stream.Known() {
		t.Errorf("stream = %+v", stream)
	}

	pyerr := code.Outputs[2].(*notebook.Error)
	if pyerr.Type() != notebook.OutputPyErr || pyerr.EName != "ValueError" || len(pyerr.Traceback) != 2 {
		t.Errorf("pyerr = %+v", pyerr)
	}
}

// ---------------------------------------------------------------------------
// TestParse - Execution count defaulting
// ---------------------------------------------------------------------------

func TestParse_ExecutionCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cell string
		want int // -1 means nil
	}{
		{"explicit", `{"cell_type":"code","execution_count":2,"source":""}`, 2},
		{"null", `{"cell_type":"code","execution_count":null,"source":""}`, -1},
		{"prompt_number alias", `{"cell_type":"code","prompt_number":5,"source":""}`, 5},
		{"execution_count wins", `{"cell_type":"code","execution_count":4,"prompt_number":5,"source":""}`, 4},
		{"executionInfo forces one", `{"cell_type":"code","execution_count":9,"metadata":{"executionInfo":{}},"source":""}`, 1},
		{"executionInfo without count", `{"cell_type":"code","metadata":{"executionInfo":{"status":"ok"}},"source":""}`, 1},
		{"non-numeric ignored", `{"cell_type":"code","execution_count":"3","source":""}`, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nb, err := notebook.Parse([]byte(`{"cells":[` + tt.cell + `]}`))
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			code := nb.Cells[0].(*notebook.CodeCell)
			switch {
			case tt.want == -1 && code.ExecutionCount != nil:
				t.Errorf("ExecutionCount = %d, want nil", *code.ExecutionCount)
			case tt.want != -1 && (code.ExecutionCount == nil || *code.ExecutionCount != tt.want):
				t.Errorf("ExecutionCount = %v, want %d", code.ExecutionCount, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse - Outputs
// ---------------------------------------------------------------------------

func TestParse_RichOutput(t *testing.T) {
	t.Parallel()

	input := `{"cells":[{"cell_type":"code","source":"x","outputs":[
		{"output_type":"display_data",
		 "data":{
			"text/plain":["a\n","b"],
			"image/png":"iVBORw0KGgo=\n",
			"application/json":{"k":[1,2]}
		 },
		 "metadata":{"image/png":{"width":320,"height":200},"text/plain":{"language":"sql"},"isolated":true}}
	]}]}`

	nb, err := notebook.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	out := nb.Cells[0].(*notebook.CodeCell).Outputs[0].(*notebook.Rich)

	if txt, _ := out.Data.Text("text/plain"); txt != "a\nb" {
		t.Errorf("text/plain = %q, want %q", txt, "a\nb")
	}
	if imgs := out.Data.Images("image/png"); len(imgs) != 1 || imgs[0] != "iVBORw0KGgo=\n" {
		t.Errorf("Images(image/png) = %q", imgs)
	}
	js, _ := out.Data.Text("application/json")
	if !strings.Contains(js, "\"k\": [") {
		t.Errorf("application/json not indented: %q", js)
	}
	meta := out.Meta()
	if !meta.Isolated {
		t.Error("Isolated = false, want true")
	}
	if got := meta.LanguageFor("text/plain"); got != "sql" {
		t.Errorf("LanguageFor(text/plain) = %q, want sql", got)
	}
	if size := meta.Images["image/png"]; size.Width != 320 || size.Height != 200 {
		t.Errorf("Images[image/png] = %+v", size)
	}
}

func TestParse_UnknownOutputTypeDegradesToStream(t *testing.T) {
	t.Parallel()

	input := `{"cells":[{"cell_type":"code","source":"x","outputs":[
		{"output_type":"mystery","text":"<odd>"}
	]}]}`

	nb, err := notebook.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	out, ok := nb.Cells[0].(*notebook.CodeCell).Outputs[0].(*notebook.Stream)
	if !ok {
		t.Fatalf("output = %T, want *Stream", nb.Cells[0].(*notebook.CodeCell).Outputs[0])
	}
	if out.Known() {
		t.Error("Known() = true for unknown output type")
	}
	if out.Type() != "mystery" || out.Text != "<odd>" {
		t.Errorf("output = %+v", out)
	}
}

// ---------------------------------------------------------------------------
// TestDecoder - Diagnostics
// ---------------------------------------------------------------------------

func TestDecoder_SkipsMalformedCells(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	dec := notebook.NewDecoder(zap.New(core))

	input := `{"cells":[
		42,
		{"cell_type":"widget","source":"?"},
		{"cell_type":"markdown","source":"kept"},
		{"cell_type":"code","source":"y","outputs":["bad", {"output_type":"stream","name":"stdout","text":"ok"}]}
	]}`

	nb, err := dec.Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if len(nb.Cells) != 2 {
		t.Fatalf("len(Cells) = %d, want 2", len(nb.Cells))
	}
	if got := len(nb.Cells[1].(*notebook.CodeCell).Outputs); got != 1 {
		t.Errorf("len(Outputs) = %d, want 1", got)
	}
	if logs.Len() != 3 {
		t.Errorf("logged %d warnings, want 3: %v", logs.Len(), logs.All())
	}
	if logs.FilterMessage("skipping unknown cell type").Len() != 1 {
		t.Error("missing unknown cell type diagnostic")
	}
}

func TestDecoder_MalformedFieldsDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cell     string
		wantWarn int
		check    func(t *testing.T, c notebook.Cell)
	}{
		{
			name: "numeric id",
			cell: `{"cell_type":"markdown","id":7,"source":"kept"}`,
			check: func(t *testing.T, c notebook.Cell) {
				if got := c.Base().ID; got != "" {
					t.Errorf("ID = %q, want empty", got)
				}
			},
		},
		{
			name:     "outputs object",
			cell:     `{"cell_type":"code","source":"kept","outputs":{}}`,
			wantWarn: 1,
			check: func(t *testing.T, c notebook.Cell) {
				if got := len(c.(*notebook.CodeCell).Outputs); got != 0 {
					t.Errorf("len(Outputs) = %d, want 0", got)
				}
			},
		},
		{
			name:     "attachments array",
			cell:     `{"cell_type":"markdown","source":"kept","attachments":[]}`,
			wantWarn: 1,
			check: func(t *testing.T, c notebook.Cell) {
				if got := c.(*notebook.MarkdownCell).Attachments; got != nil {
					t.Errorf("Attachments = %v, want nil", got)
				}
			},
		},
		{
			name:     "attachment bundle not an object",
			cell:     `{"cell_type":"markdown","source":"kept","attachments":{"a.png":"AAAA","b.png":{"image/png":"BBBB"}}}`,
			wantWarn: 1,
			check: func(t *testing.T, c notebook.Cell) {
				att := c.(*notebook.MarkdownCell).Attachments
				if _, ok := att["a.png"]; ok {
					t.Error("malformed attachment a.png kept")
				}
				if got, _ := att["b.png"].Text("image/png"); got != "BBBB" {
					t.Errorf("b.png payload = %q, want BBBB", got)
				}
			},
		},
		{
			name: "numeric language",
			cell: `{"cell_type":"code","language":3,"source":"kept","outputs":[]}`,
			check: func(t *testing.T, c notebook.Cell) {
				if got := c.Base().Metadata.Language; got != "" {
					t.Errorf("Language = %q, want empty", got)
				}
			},
		},
		{
			name: "numeric error name",
			cell: `{"cell_type":"code","source":"kept","outputs":[{"output_type":"error","ename":5,"evalue":"boom","traceback":[]}]}`,
			check: func(t *testing.T, c notebook.Cell) {
				outs := c.(*notebook.CodeCell).Outputs
				if len(outs) != 1 {
					t.Fatalf("len(Outputs) = %d, want 1", len(outs))
				}
				e := outs[0].(*notebook.Error)
				if e.EName != "" || e.EValue != "boom" {
					t.Errorf("error = %q/%q, want empty/boom", e.EName, e.EValue)
				}
			},
		},
		{
			name: "data array",
			cell: `{"cell_type":"code","source":"kept","outputs":[{"output_type":"execute_result","data":[],"text":"legacy"}]}`,
			check: func(t *testing.T, c notebook.Cell) {
				r := c.(*notebook.CodeCell).Outputs[0].(*notebook.Rich)
				if got, _ := r.Data.Text("text/plain"); got != "legacy" {
					t.Errorf("text/plain = %q, want legacy", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			dec := notebook.NewDecoder(zap.New(core))

			nb, err := dec.Decode([]byte(`{"cells":[` + tt.cell + `]}`))
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if len(nb.Cells) != 1 {
				t.Fatalf("len(Cells) = %d, want 1", len(nb.Cells))
			}
			if got := nb.Cells[0].Base().Source; got != "kept" {
				t.Errorf("Source = %q, want kept", got)
			}
			tt.check(t, nb.Cells[0])
			if logs.Len() != tt.wantWarn {
				t.Errorf("logged %d warnings, want %d: %v", logs.Len(), tt.wantWarn, logs.All())
			}
		})
	}
}

func TestParse_MissingCells(t *testing.T) {
	t.Parallel()

	nb, err := notebook.Parse([]byte(`{"metadata":{}}`))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(nb.Cells) != 0 {
		t.Errorf("len(Cells) = %d, want 0", len(nb.Cells))
	}
	if nb.Language() != "" {
		t.Errorf("Language() = %q, want empty", nb.Language())
	}
}

func TestParse_MarkdownAttachments(t *testing.T) {
	t.Parallel()

	input := `{"cells":[{"cell_type":"markdown","source":"![a](attachment:a.png)",
		"attachments":{"a.png":{"image/png":"AAAA"}}}]}`

	nb, err := notebook.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	md := nb.Cells[0].(*notebook.MarkdownCell)
	if got, _ := md.Attachments["a.png"].Text("image/png"); got != "AAAA" {
		t.Errorf("attachment payload = %q, want AAAA", got)
	}
}

// ---------------------------------------------------------------------------
// TestMimeBundle
// ---------------------------------------------------------------------------

func TestMimeBundle_Images(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		frag notebook.Fragments
		want int
	}{
		{"single string", notebook.Fragments{"AAAA"}, 1},
		{"line split", notebook.Fragments{"AAAA\n", "BBBB\n", "CC"}, 1},
		{"separate images", notebook.Fragments{"AAAA", "BBBB"}, 2},
		{"blank entries dropped", notebook.Fragments{"AAAA", " ", "BBBB"}, 2},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := notebook.MimeBundle{"image/png": tt.frag}
			if got := len(b.Images("image/png")); got != tt.want {
				t.Errorf("len(Images()) = %d, want %d", got, tt.want)
			}
		})
	}
}
