package notebook

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Decoder builds a Notebook from notebook JSON. Malformed cells and outputs
// are skipped or degraded and reported on the logger, never returned as errors.
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder creates a Decoder. A nil logger discards diagnostics.
func NewDecoder(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger}
}

// Parse decodes data with diagnostics discarded.
func Parse(data []byte) (*Notebook, error) {
	return NewDecoder(nil).Decode(data)
}

// Decode validates the document shape and maps it into a Notebook.
// Only an empty input or a document that is not a JSON object fails.
func (d *Decoder) Decode(data []byte) (*Notebook, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyNotebook
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrNotebookParse)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top-level value is %s, want object", ErrNotebookParse, doc.Type)
	}

	nb := &Notebook{
		Metadata:      decodeMetadata(doc.Get("metadata")),
		NBFormat:      int(doc.Get("nbformat").Int()),
		NBFormatMinor: int(doc.Get("nbformat_minor").Int()),
	}

	cells := doc.Get("cells")
	if !cells.Exists() {
		cells = doc.Get("worksheets.0.cells")
		if cells.Exists() {
			d.logger.Debug("promoting first worksheet", zap.Int("nbformat", nb.NBFormat))
		}
	}
	if cells.Exists() && !cells.IsArray() {
		d.logger.Warn("cells is not an array, document treated as empty", zap.String("type", cells.Type.String()))
		return nb, nil
	}

	idx := 0
	cells.ForEach(func(_, v gjson.Result) bool {
		if cell := d.decodeCell(idx, v); cell != nil {
			nb.Cells = append(nb.Cells, cell)
		}
		idx++
		return true
	})
	return nb, nil
}

func decodeMetadata(m gjson.Result) Metadata {
	md := Metadata{
		Signature: m.Get("signature").String(),
		Title:     m.Get("title").String(),
		KernelInfo: KernelInfo{
			Name: m.Get("kernel_info.name").String(),
		},
		KernelSpec: KernelSpec{
			Name:        m.Get("kernelspec.name").String(),
			DisplayName: m.Get("kernelspec.display_name").String(),
			Language:    m.Get("kernelspec.language").String(),
		},
	}
	if li := m.Get("language_info"); li.IsObject() {
		md.LanguageInfo = &LanguageInfo{
			Name:    li.Get("name").String(),
			Version: li.Get("version").String(),
		}
		// codemirror_mode is either a mode name or {"name": ..., "version": ...}.
		if cm := li.Get("codemirror_mode"); cm.IsObject() {
			md.LanguageInfo.CodemirrorMode = cm.Get("name").String()
		} else {
			md.LanguageInfo.CodemirrorMode = cm.String()
		}
	}
	return md
}

// rawCell is the wire shape of a cell across nbformat 3 and 4. Outputs and
// attachments are read separately so a malformed one costs only itself.
type rawCell struct {
	CellType       looseString `json:"cell_type"`
	ID             looseString `json:"id"`
	Source         Fragments   `json:"source"`
	Input          Fragments   `json:"input"`
	ExecutionCount optionalInt `json:"execution_count"`
	PromptNumber   optionalInt `json:"prompt_number"`
	Language       looseString `json:"language"`
}

func (d *Decoder) decodeCell(idx int, v gjson.Result) Cell {
	if !v.IsObject() {
		d.logger.Warn("skipping non-object cell", zap.Int("cell", idx), zap.String("type", v.Type.String()))
		return nil
	}
	var rc rawCell
	if err := json.Unmarshal([]byte(v.Raw), &rc); err != nil {
		d.logger.Warn("skipping malformed cell", zap.Int("cell", idx), zap.Error(err))
		return nil
	}

	source := rc.Source
	if source == nil {
		source = rc.Input
	}
	base := CellBase{
		ID:       string(rc.ID),
		Source:   source.Join(),
		Metadata: decodeCellMetadata(v),
	}
	if base.Metadata.Language == "" {
		base.Metadata.Language = string(rc.Language)
	}

	switch CellType(rc.CellType) {
	case CellMarkdown:
		return &MarkdownCell{CellBase: base, Attachments: d.decodeAttachments(idx, d.field(idx, v, "attachments", gjson.Result.IsObject))}
	case CellCode:
		cell := &CodeCell{CellBase: base, ExecutionCount: rc.ExecutionCount.ptr()}
		if cell.ExecutionCount == nil {
			cell.ExecutionCount = rc.PromptNumber.ptr()
		}
		if base.Metadata.HasExecutionInfo {
			one := 1
			cell.ExecutionCount = &one
		}
		i := 0
		d.field(idx, v, "outputs", gjson.Result.IsArray).ForEach(func(_, raw gjson.Result) bool {
			if out := d.decodeOutput(idx, i, raw); out != nil {
				cell.Outputs = append(cell.Outputs, out)
			}
			i++
			return true
		})
		return cell
	case CellRaw:
		return &RawCell{CellBase: base}
	case "heading":
		// nbformat 3 heading cells become one-line markdown headings.
		level := min(max(int(v.Get("level").Int()), 1), 6)
		base.Source = strings.Repeat("#", level) + " " + base.Source
		return &MarkdownCell{CellBase: base}
	default:
		d.logger.Warn("skipping unknown cell type", zap.Int("cell", idx), zap.String("cell_type", string(rc.CellType)))
		return nil
	}
}

func decodeCellMetadata(cell gjson.Result) CellMetadata {
	m := cell.Get("metadata")
	md := CellMetadata{
		Collapsed: m.Get("collapsed").Bool() ||
			m.Get("jupyter.source_hidden").Bool() ||
			cell.Get("collapsed").Bool(),
		Deletable:        true,
		Name:             m.Get("name").String(),
		Language:         m.Get("language").String(),
		ID:               m.Get("id").String(),
		HasExecutionInfo: m.Get("executionInfo").Exists(),
	}
	if del := m.Get("deletable"); del.Exists() {
		md.Deletable = del.Bool()
	}
	switch as := m.Get("autoscroll"); as.Type {
	case gjson.True:
		md.Autoscroll = "true"
	case gjson.False:
		md.Autoscroll = "false"
	case gjson.String:
		md.Autoscroll = Autoscroll(as.Str)
	}
	md.Format = m.Get("raw_mimetype").String()
	if md.Format == "" {
		md.Format = m.Get("format").String()
	}
	for _, tag := range m.Get("tags").Array() {
		if tag.Type == gjson.String {
			md.Tags = append(md.Tags, tag.Str)
		}
	}
	return md
}

// field returns the key of v when it has the expected shape. A missing key
// or one of another type yields an empty result; the latter is logged.
func (d *Decoder) field(idx int, v gjson.Result, key string, shape func(gjson.Result) bool) gjson.Result {
	f := v.Get(key)
	if !f.Exists() || f.Type == gjson.Null {
		return gjson.Result{}
	}
	if !shape(f) {
		d.logger.Warn("ignoring malformed cell field", zap.Int("cell", idx), zap.String("field", key), zap.String("type", f.Type.String()))
		return gjson.Result{}
	}
	return f
}

func (d *Decoder) decodeAttachments(idx int, raw gjson.Result) map[string]MimeBundle {
	var attachments map[string]MimeBundle
	raw.ForEach(func(name, bundle gjson.Result) bool {
		if !bundle.IsObject() {
			d.logger.Warn("ignoring malformed attachment", zap.Int("cell", idx), zap.String("name", name.String()))
			return true
		}
		if attachments == nil {
			attachments = make(map[string]MimeBundle)
		}
		attachments[name.String()] = d.decodeBundle(idx, rawMembers(bundle))
		return true
	})
	return attachments
}

// rawMembers returns the members of an object as raw JSON values.
func rawMembers(obj gjson.Result) map[string]json.RawMessage {
	if !obj.IsObject() {
		return nil
	}
	members := make(map[string]json.RawMessage)
	obj.ForEach(func(k, v gjson.Result) bool {
		members[k.String()] = json.RawMessage(v.Raw)
		return true
	})
	return members
}

// rawOutput is the wire shape of an output across nbformat 3 and 4. The
// MIME bundle is read separately.
type rawOutput struct {
	OutputType     looseString `json:"output_type"`
	Name           looseString `json:"name"`
	Stream         looseString `json:"stream"`
	Text           Fragments   `json:"text"`
	ExecutionCount optionalInt `json:"execution_count"`
	PromptNumber   optionalInt `json:"prompt_number"`
	PNG            Fragments   `json:"png"`
	JPEG           Fragments   `json:"jpeg"`
	LaTeX          Fragments   `json:"latex"`
	HTML           Fragments   `json:"html"`
	SVG            Fragments   `json:"svg"`
	EName          looseString `json:"ename"`
	EValue         looseString `json:"evalue"`
	Traceback      Fragments   `json:"traceback"`
}

func (d *Decoder) decodeOutput(cellIdx, idx int, v gjson.Result) Output {
	if !v.IsObject() {
		d.logger.Warn("skipping non-object output", zap.Int("cell", cellIdx), zap.Int("output", idx))
		return nil
	}
	var ro rawOutput
	if err := json.Unmarshal([]byte(v.Raw), &ro); err != nil {
		d.logger.Warn("skipping malformed output", zap.Int("cell", cellIdx), zap.Int("output", idx), zap.Error(err))
		return nil
	}
	meta := decodeOutputMetadata(v.Get("metadata"))

	switch typ := OutputType(ro.OutputType); typ {
	case OutputExecuteResult, OutputDisplayData, OutputPyOut:
		r := &Rich{
			OutputType:     typ,
			ExecutionCount: ro.ExecutionCount.ptr(),
			Data:           d.decodeBundle(cellIdx, rawMembers(v.Get("data"))),
			PNG:            ro.PNG.Join(),
			JPEG:           ro.JPEG.Join(),
			LaTeX:          ro.LaTeX,
			HTML:           ro.HTML,
			SVG:            ro.SVG,
			Metadata:       meta,
		}
		if r.ExecutionCount == nil {
			r.ExecutionCount = ro.PromptNumber.ptr()
		}
		// The legacy shape stores the plain text representation in "text".
		if ro.Text != nil && !r.Data.Has("text/plain") {
			if r.Data == nil {
				r.Data = MimeBundle{}
			}
			r.Data["text/plain"] = ro.Text
		}
		return r
	case OutputError, OutputPyErr:
		return &Error{
			OutputType: typ,
			EName:      string(ro.EName),
			EValue:     string(ro.EValue),
			Traceback:  []string(ro.Traceback),
			Metadata:   meta,
		}
	default:
		name := string(ro.Name)
		if name == "" {
			name = string(ro.Stream)
		}
		return &Stream{OutputType: typ, Name: name, Text: ro.Text.Join(), Metadata: meta}
	}
}

// decodeBundle normalises MIME values: strings and string arrays become
// fragments, JSON documents (application/json and +json types) are indented.
func (d *Decoder) decodeBundle(cellIdx int, data map[string]json.RawMessage) MimeBundle {
	if len(data) == 0 {
		return nil
	}
	bundle := make(MimeBundle, len(data))
	for _, mime := range sortedKeys(data) {
		raw := data[mime]
		v := gjson.ParseBytes(raw)
		if v.IsObject() || (v.IsArray() && !isStringArray(v)) || v.Type == gjson.Number || v.Type == gjson.True || v.Type == gjson.False {
			var buf bytes.Buffer
			if err := json.Indent(&buf, raw, "", "  "); err != nil {
				d.logger.Debug("dropping unreadable MIME value", zap.Int("cell", cellIdx), zap.String("mime", mime), zap.Error(err))
				continue
			}
			bundle[mime] = Fragments{buf.String()}
			continue
		}
		bundle[mime] = fragmentsOf(v)
	}
	return bundle
}

func decodeOutputMetadata(m gjson.Result) OutputMetadata {
	md := OutputMetadata{Isolated: m.Get("isolated").Bool()}
	m.ForEach(func(k, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		mime := k.String()
		if lang := v.Get("language").String(); lang != "" {
			if md.Languages == nil {
				md.Languages = map[string]string{}
			}
			md.Languages[mime] = lang
		}
		w, h := int(v.Get("width").Int()), int(v.Get("height").Int())
		if w > 0 || h > 0 {
			if md.Images == nil {
				md.Images = map[string]ImageSize{}
			}
			md.Images[mime] = ImageSize{Width: w, Height: h}
		}
		if v.Get("isolated").Bool() {
			md.Isolated = true
		}
		return true
	})
	return md
}

// UnmarshalJSON accepts a string, an array of strings or null. Any other
// value decodes to no fragments.
func (f *Fragments) UnmarshalJSON(data []byte) error {
	*f = fragmentsOf(gjson.ParseBytes(data))
	return nil
}

func fragmentsOf(v gjson.Result) Fragments {
	switch {
	case v.Type == gjson.String:
		return Fragments{v.Str}
	case v.IsArray():
		var out Fragments
		v.ForEach(func(_, e gjson.Result) bool {
			if e.Type == gjson.String {
				out = append(out, e.Str)
			}
			return true
		})
		if out == nil {
			out = Fragments{}
		}
		return out
	}
	return nil
}

func isStringArray(v gjson.Result) bool {
	ok := true
	v.ForEach(func(_, e gjson.Result) bool {
		ok = e.Type == gjson.String
		return ok
	})
	return ok
}

// looseString is a string field that decodes any other JSON value to "".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	v := gjson.ParseBytes(data)
	if v.Type != gjson.String {
		*s = ""
		return nil
	}
	*s = looseString(v.Str)
	return nil
}

// optionalInt is a nullable integer that ignores non-numeric values.
type optionalInt struct {
	set   bool
	value int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	v := gjson.ParseBytes(data)
	if v.Type != gjson.Number {
		*o = optionalInt{}
		return nil
	}
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		n = int(v.Num)
	}
	*o = optionalInt{set: true, value: n}
	return nil
}

func (o optionalInt) ptr() *int {
	if !o.set {
		return nil
	}
	n := o.value
	return &n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
