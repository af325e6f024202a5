package notebook

// OutputType is the output_type discriminant.
type OutputType string

// Output types. PyOut and PyErr are the nbformat 3 names.
const (
	OutputStream        OutputType = "stream"
	OutputExecuteResult OutputType = "execute_result"
	OutputDisplayData   OutputType = "display_data"
	OutputError         OutputType = "error"
	OutputPyOut         OutputType = "pyout"
	OutputPyErr         OutputType = "pyerr"
)

// Output is one execution result attached to a code cell: *Stream, *Rich or *Error.
type Output interface {
	Type() OutputType
	Meta() OutputMetadata
}

// ImageSize holds display dimensions from output metadata (0 = unset).
type ImageSize struct {
	Width  int
	Height int
}

// OutputMetadata is the per-output metadata block.
type OutputMetadata struct {
	Isolated  bool
	Languages map[string]string    // MIME type -> highlighter language hint
	Images    map[string]ImageSize // MIME type -> display size
}

// LanguageFor returns the language hint recorded for mime, or "".
func (m OutputMetadata) LanguageFor(mime string) string {
	return m.Languages[mime]
}

// Stream is stdout/stderr text. Outputs with an unknown output_type decode
// to a Stream carrying that type, see Known.
type Stream struct {
	OutputType OutputType
	Name       string // "stdout" or "stderr"
	Text       string
	Metadata   OutputMetadata
}

// Type returns the decoded output_type.
func (s *Stream) Type() OutputType { return s.OutputType }

// Meta returns the output metadata.
func (s *Stream) Meta() OutputMetadata { return s.Metadata }

// Known reports whether the stream was declared as a stream output.
func (s *Stream) Known() bool { return s.OutputType == OutputStream }

// Rich is a MIME-keyed result: execute_result, display_data or legacy pyout.
// The shorthand fields (PNG, JPEG, LaTeX, HTML, SVG) come from the legacy
// shape and take priority over Data when set.
type Rich struct {
	OutputType     OutputType
	ExecutionCount *int
	Data           MimeBundle
	PNG            string
	JPEG           string
	LaTeX          Fragments
	HTML           Fragments
	SVG            Fragments
	Metadata       OutputMetadata
}

// Type returns the decoded output_type.
func (r *Rich) Type() OutputType { return r.OutputType }

// Meta returns the output metadata.
func (r *Rich) Meta() OutputMetadata { return r.Metadata }

// Error is a raised exception: error or legacy pyerr.
type Error struct {
	OutputType OutputType
	EName      string
	EValue     string
	Traceback  []string
	Metadata   OutputMetadata
}

// Type returns the decoded output_type.
func (e *Error) Type() OutputType { return e.OutputType }

// Meta returns the output metadata.
func (e *Error) Meta() OutputMetadata { return e.Metadata }

// Compile-time interface checks.
var (
	_ Output = (*Stream)(nil)
	_ Output = (*Rich)(nil)
	_ Output = (*Error)(nil)
)
