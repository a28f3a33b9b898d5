// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the conversion pipeline:
// text runs, lines, blocks, per-page and per-document results, and the
// tunable configuration.
package types

import "strings"

// TextRun is a contiguous span of decoded glyph text with geometric and
// style metadata, the smallest unit produced by the PDF backend. Values are
// immutable once extracted.
type TextRun struct {
	// Content is the decoded text of the run.
	Content string

	// X0, Y0, X1, Y1 bound the run in PDF page coordinates (origin at the
	// bottom-left corner, y increasing upward). Y0 is the baseline.
	X0, Y0, X1, Y1 float64

	// FontSize is the scaled font size in points.
	FontSize float64

	// Bold and Italic are style flags inferred from the run's font.
	Bold   bool
	Italic bool

	// PageIndex is the zero-based index of the page the run came from.
	PageIndex int
}

// Width returns the horizontal extent of the run.
func (r TextRun) Width() float64 {
	return r.X1 - r.X0
}

// Line is a sequence of TextRuns judged to lie on the same visual text line,
// ordered left to right. Lines are owned by the page pipeline that built
// them and are discarded after rendering.
type Line struct {
	// Runs are the member runs in left-to-right order.
	Runs []TextRun

	// X0, Y0, X1, Y1 bound the line; Y0 is the shared baseline.
	X0, Y0, X1, Y1 float64

	// FontSize is the maximum font size among the runs. Headings are often
	// the largest run on a line.
	FontSize float64

	// Text is the merged run text with gap-aware spacing applied.
	Text string
}

// Bold reports whether every run with printable content on the line is bold.
func (l Line) Bold() bool {
	seen := false
	for _, r := range l.Runs {
		if strings.TrimSpace(r.Content) == "" {
			continue
		}
		if !r.Bold {
			return false
		}
		seen = true
	}
	return seen
}

// Printable reports whether the line contains any non-whitespace character.
func (l Line) Printable() bool {
	return strings.TrimSpace(l.Text) != ""
}

// BlockKind tags the variant of a classified Block.
type BlockKind int

const (
	// Paragraph is a run of body text lines merged into one block.
	Paragraph BlockKind = iota
	// Heading is a line promoted to a Markdown heading, levels 1-6.
	Heading
	// Blank marks vertical whitespace between blocks.
	Blank
)

// String returns the kind name for status output and tests.
func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case Blank:
		return "blank"
	}
	return "unknown"
}

// Block is a classified, renderable unit of document structure. Blocks for a
// page are totally ordered by reading order: top to bottom, then left to
// right within a line band.
type Block struct {
	Kind BlockKind

	// Level is the heading level, 1-6. Zero for non-heading blocks.
	Level int

	// Text is the block content. Empty for Blank blocks.
	Text string
}

// HeadingBlock builds a Heading block, clamping level into 1-6.
func HeadingBlock(level int, text string) Block {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return Block{Kind: Heading, Level: level, Text: text}
}

// ParagraphBlock builds a Paragraph block.
func ParagraphBlock(text string) Block {
	return Block{Kind: Paragraph, Text: text}
}
