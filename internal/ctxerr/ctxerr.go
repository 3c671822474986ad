// Package ctxerr defines the error kinds the core operations branch on.
//
// Each Kind is distinct and every exported sentinel carries one (several
// sentinels may share a Kind: ErrUnsupportedInput and ErrPositionOverflow
// are both KindInput); wrap them with Wrap/Wrapf to attach context while
// keeping errors.Is and KindOf working.
package ctxerr

import (
	"errors"
	"fmt"
)

// Kind categorizes an error so callers can decide whether to retry, escalate
// to a non-zero exit code, or simply warn.
type Kind int

const (
	KindUnknown Kind = iota
	KindInput
	KindCodec
	KindOptionalFeature
	KindTokenizer
	KindNumeric
	KindExternal
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "Input"
	case KindCodec:
		return "Codec"
	case KindOptionalFeature:
		return "OptionalFeature"
	case KindTokenizer:
		return "Tokenizer"
	case KindNumeric:
		return "Numeric"
	case KindExternal:
		return "External"
	case KindConfiguration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// kindedError pairs a message with a Kind so Kind(err) can recover it through
// arbitrary wrapping.
type kindedError struct {
	kind Kind
	msg  string
	err  error
}

func (e *kindedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *kindedError) Unwrap() error { return e.err }

// New creates a new error of the given kind.
func New(kind Kind, msg string) error {
	return &kindedError{kind: kind, msg: msg}
}

// Newf creates a new error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &kindedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and context message to an existing error.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &kindedError{kind: kind, msg: msg, err: err}
}

// Wrapf attaches a kind and formatted context message to an existing error.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &kindedError{kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf walks the error chain for the first attached Kind, KindUnknown if
// none of the chain links were produced by this package.
func KindOf(err error) Kind {
	var ke *kindedError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

var (
	// ErrUnsupportedInput is returned when an input file's extension has no
	// registered adapter.
	ErrUnsupportedInput = New(KindInput, "unsupported input")
	// ErrOcrSupportDisabled is returned when OCR is required but no OCR
	// backend is configured.
	ErrOcrSupportDisabled = New(KindOptionalFeature, "ocr support disabled")
	// ErrPositionOverflow is returned when a cell's layout position would
	// overflow a 32-bit signed field in the wire format.
	ErrPositionOverflow = New(KindInput, "position overflow")
)
