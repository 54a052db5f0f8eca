// Package importer defines the record parser capability used by the fetch
// pipeline. The pipeline hands a decoded response stream to a Parser and
// consumes the resulting entries; the format-specific grammar lives entirely
// behind this interface so parsers can be swapped without touching the
// pipeline.
package importer

import (
	"io"
	"strings"

	"github.com/helixir/medline-fetcher/internal/domain"
)

// Result is the outcome of parsing one response stream. Warnings are
// non-fatal: the entries recovered alongside them are still usable.
type Result struct {
	// Entries contains the records extracted from the stream, in stream order.
	Entries []*domain.Entry

	// Warnings holds human-readable messages about records that parsed
	// incompletely. An empty slice means a clean parse.
	Warnings []string
}

// HasWarnings reports whether the parse produced any non-fatal warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// WarningMessage joins all warnings into a single diagnostic string.
func (r *Result) WarningMessage() string {
	return strings.Join(r.Warnings, "; ")
}

// Parser extracts bibliographic entries from a decoded character stream.
// A returned error means the stream was fatally unusable; partial problems
// are reported as warnings on the Result instead.
type Parser interface {
	Parse(r io.Reader) (*Result, error)
}
