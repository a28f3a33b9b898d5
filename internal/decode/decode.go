// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decode adapts the native PDF backend to the pipeline's extraction
// contract: open a document, report its page count, and yield positioned
// text runs per page.
package decode

import (
	"fmt"

	"github.com/pdiddy/pagemill/pkg/types"
)

// Document is an open session over one PDF. Implementations that cannot
// serve concurrent page extraction report ConcurrentPages false, and the
// orchestrator serializes ExtractRuns calls for that document.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// ExtractRuns decodes the text runs of the zero-based page.
	ExtractRuns(pageIndex int) ([]types.TextRun, error)

	// ConcurrentPages reports whether ExtractRuns may be called from
	// multiple goroutines at once.
	ConcurrentPages() bool

	// Close releases the backend resources.
	Close() error
}

// Backend opens PDF documents.
type Backend interface {
	Open(path string) (Document, error)
}

// OpenError reports a document that could not be opened: missing, corrupt,
// or password-protected. It is fatal to that document only.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ExtractionError reports a single page whose run extraction failed. The
// page is replaced with a placeholder; the document is not aborted.
type ExtractionError struct {
	Path string
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting page %d of %s: %v", e.Page+1, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
