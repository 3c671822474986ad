// Package adapter converts raw input files of various formats into plain
// text, one string per source page, for the encoder's line-wrapping and
// cell-classification stages (spec §4.A "Stage 1" input adaptation).
package adapter

import (
	"strings"

	"ctx3d/internal/ctxerr"
)

// Adapter turns raw file bytes into one plaintext chunk per logical page.
// A format with no page concept (plain text, markdown, html) returns a
// single-element slice and lets the caller split on form-feed characters.
type Adapter interface {
	Convert(data []byte) ([]string, error)
}

var registry = map[string]Adapter{}

func register(ext string, a Adapter) {
	registry[ext] = a
}

// ForExtension resolves the Adapter registered for a lowercased file
// extension (without the leading dot). A missing (empty) extension falls
// back to the plain-text adapter; any other extension with no registered
// adapter returns ErrUnsupportedInput.
func ForExtension(ext string) (Adapter, error) {
	ext = strings.ToLower(ext)
	if a, ok := registry[ext]; ok {
		return a, nil
	}
	if ext == "" {
		return registry["txt"], nil
	}
	return nil, ctxerr.Wrapf(ctxerr.KindInput, ctxerr.ErrUnsupportedInput, "unsupported input extension %q", ext)
}
