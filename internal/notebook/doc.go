// Package notebook holds the typed notebook model and its construction from
// notebook JSON.
//
// # Model
//
// A Notebook is an ordered list of cells. Cells and outputs are closed sets of
// variants, dispatched with type switches:
//
//	Cell   = *MarkdownCell | *CodeCell | *RawCell
//	Output = *Stream | *Rich | *Error
//
// Rich covers execute_result, display_data and the legacy pyout shape; Error
// covers error and the legacy pyerr shape. Outputs with an unrecognised
// output_type are kept as a *Stream whose Type() reports the original value,
// so renderers can degrade them to plain text.
//
// # Construction
//
// Decode maps every recognised JSON field explicitly and defaults the rest.
// Both the modern cell list and the legacy worksheets wrapper are accepted
// (the first worksheet is promoted). Fields stored either as a string or as
// an array of fragments are normalised by concatenation.
//
// Values are not mutated after construction. The only defaulting rules are
// the prompt_number alias for execution_count and the forced count of 1 for
// cells carrying executionInfo metadata.
package notebook
