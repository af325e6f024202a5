// Package yamlutil decodes the YAML documents nb2html reads at startup:
// config files and theme definitions. Decoding is always strict.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds a single document (1MB).
var MaxInputSize = 1 << 20

var (
	ErrEmpty          = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: document exceeds maximum size")
	ErrSyntax         = errors.New("yamlutil: invalid document")
)

// Error reports a document that failed to decode. Detail carries the
// parser message, including the line and column when known.
type Error struct {
	Source string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Source == "" {
		return e.Detail
	}
	return e.Source + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// Decode decodes data into v, rejecting unknown fields. source names the
// document in errors (a file path or a theme name).
func Decode(source string, data []byte, v any) error {
	if v == nil {
		return ErrNilDestination
	}
	if len(data) == 0 {
		return &Error{Source: source, Detail: ErrEmpty.Error(), Err: ErrEmpty}
	}
	if len(data) > MaxInputSize {
		return &Error{
			Source: source,
			Detail: fmt.Sprintf("%d bytes (max %d)", len(data), MaxInputSize),
			Err:    ErrInputTooLarge,
		}
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return &Error{
			Source: source,
			Detail: yaml.FormatError(err, false, false),
			Err:    errors.Join(ErrSyntax, err),
		}
	}
	return nil
}
