package serialization

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
)

// Terminal errors returned by the façade, one per document kind. Every
// [ExhaustedVersionsError] matches the sentinel of its kind with errors.Is.
var (
	ErrUnreadableProject  = errors.New("Could not deserialize project")
	ErrUnreadableGraph    = errors.New("Could not deserialize graph")
	ErrUnreadableDatasets = errors.New("Could not deserialize datasets")
)

// unreadable maps a document kind to its terminal sentinel.
func unreadable(kind DocumentKind) error {
	switch kind {
	case KindGraph:
		return ErrUnreadableGraph
	case KindDatasets:
		return ErrUnreadableDatasets
	default:
		return ErrUnreadableProject
	}
}

// FailureKind classifies a single rejected decode attempt.
type FailureKind int

const (
	// FailureSchema means the input was well-formed but not the attempted
	// version's shape.
	FailureSchema FailureKind = iota
	// FailureStructural means the input was not well-formed under the
	// attempted version's syntax.
	FailureStructural
)

// String returns "schema" or "structural".
func (k FailureKind) String() string {
	if k == FailureStructural {
		return "structural"
	}
	return "schema"
}

// SyntaxError reports input that is not well-formed in the underlying
// markup (YAML or JSON).
type SyntaxError struct {
	Format string // "yaml" or "json"
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Format, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// SchemaError reports well-formed input that does not match a version's
// expected shape. Field is a dotted path to the offending element, when known.
type SchemaError struct {
	Field string
	Msg   string
	Err   error
}

func (e *SchemaError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Field != "" {
		return e.Field + ": " + msg
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Err }

func schemaErrorf(field, format string, args ...any) *SchemaError {
	return &SchemaError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Classify reports whether err is a structural parse failure or a schema
// mismatch. Anything not recognized as structural is a schema failure.
func Classify(err error) FailureKind {
	var syn *SyntaxError
	var jsonSyn *json.SyntaxError
	if errors.As(err, &syn) || errors.As(err, &jsonSyn) || errors.Is(err, io.ErrUnexpectedEOF) {
		return FailureStructural
	}
	return FailureSchema
}

// DecodeFailure is one version's rejection of an input.
type DecodeFailure struct {
	Document DocumentKind
	Version  string
	Kind     FailureKind
	Err      error
}

func newDecodeFailure(doc DocumentKind, version string, err error) *DecodeFailure {
	return &DecodeFailure{Document: doc, Version: version, Kind: Classify(err), Err: err}
}

func (f *DecodeFailure) Error() string {
	return fmt.Sprintf("%s %s: %s error: %v", f.Document, f.Version, f.Kind, f.Err)
}

func (f *DecodeFailure) Unwrap() error { return f.Err }

// Code returns STRUCTURAL_PARSE or SCHEMA_MISMATCH.
func (f *DecodeFailure) Code() gferrors.Code {
	if f.Kind == FailureStructural {
		return gferrors.ErrCodeStructuralParse
	}
	return gferrors.ErrCodeSchemaMismatch
}

// ExhaustedVersionsError is the terminal failure: every known version of a
// document kind rejected the input.
//
// Its message is fixed per document kind. Failures lists each version's
// rejection in the order attempted, for diagnostics.
type ExhaustedVersionsError struct {
	Document DocumentKind
	Failures []*DecodeFailure
}

func (e *ExhaustedVersionsError) Error() string {
	return unreadable(e.Document).Error()
}

// Is matches the sentinel of the error's document kind.
func (e *ExhaustedVersionsError) Is(target error) bool {
	return target == unreadable(e.Document)
}

// Unwrap exposes the per-version failures to errors.Is and errors.As.
func (e *ExhaustedVersionsError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Code returns the UNREADABLE_* code for the document kind.
func (e *ExhaustedVersionsError) Code() gferrors.Code {
	switch e.Document {
	case KindGraph:
		return gferrors.ErrCodeUnreadableGraph
	case KindDatasets:
		return gferrors.ErrCodeUnreadableDatasets
	default:
		return gferrors.ErrCodeUnreadableProject
	}
}

// Structural reports whether every attempt failed structurally, which means
// the input is corrupt rather than of an unknown version.
func (e *ExhaustedVersionsError) Structural() bool {
	if len(e.Failures) == 0 {
		return false
	}
	for _, f := range e.Failures {
		if f.Kind != FailureStructural {
			return false
		}
	}
	return true
}
