// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PageResult is the outcome of one page's pipeline run. Exactly one
// PageResult exists per requested page; PageIndex is the join key used to
// restore document order after parallel execution.
type PageResult struct {
	// PageIndex is the zero-based page number.
	PageIndex int

	// Markdown is the rendered page content. Empty when Err is set.
	Markdown string

	// Err records a per-page extraction failure. A failed page is replaced
	// with a placeholder in the document output; it never fails the document.
	Err error
}

// DocumentResult is the outcome of converting one input file.
type DocumentResult struct {
	// SourcePath is the input PDF path.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Markdown is the concatenated page content in ascending page order.
	Markdown string `json:"-" yaml:"-"`

	// PageCount is the number of pages the document reported.
	PageCount int `json:"page_count" yaml:"page_count"`

	// FailedPages counts pages replaced by a placeholder.
	FailedPages int `json:"failed_pages" yaml:"failed_pages"`

	// SkippedRuns counts malformed text runs dropped during line assembly.
	SkippedRuns int `json:"skipped_runs,omitempty" yaml:"skipped_runs,omitempty"`

	// Duration is the wall-clock conversion time.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// ConvertedAt is when the conversion finished.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`

	// Err is the failure variant: set only when the document could not be
	// opened. Page-level failures never surface here.
	Err error `json:"-" yaml:"-"`
}

// Failed reports whether the document as a whole failed to convert.
func (d DocumentResult) Failed() bool {
	return d.Err != nil
}

// BatchResult maps each input path to its independent DocumentResult. One
// entry exists per input regardless of the others' success or failure.
type BatchResult map[string]DocumentResult

// Converted returns the number of successful documents.
func (b BatchResult) Converted() int {
	n := 0
	for _, d := range b {
		if !d.Failed() {
			n++
		}
	}
	return n
}

// Failures returns the number of failed documents.
func (b BatchResult) Failures() int {
	return len(b) - b.Converted()
}

// HasFailures reports whether any document failed.
func (b BatchResult) HasFailures() bool {
	return b.Failures() > 0
}
