// CLAUDE:SUMMARY Closed error-kind set for the pdftext pipeline; reader failures wrap their cause.
package pdftext

import (
	"errors"
	"fmt"
)

// Stable error kinds. Callers branch with errors.Is; the original cause of an
// ErrExtraction stays reachable through errors.Unwrap.
var (
	ErrNotFound     = errors.New("file not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrEncrypted    = errors.New("document is encrypted")
	ErrExtraction   = errors.New("extraction failed")
)

// ExtractionError wraps an unexpected reader-level failure with the
// operation that hit it. It matches ErrExtraction under errors.Is.
type ExtractionError struct {
	Op    string // "extract text", "extract by pages", "extract metadata"
	Path  string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }
