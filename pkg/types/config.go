// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LayoutConfig holds the heuristic thresholds for line assembly and block
// classification. Heading detection is inherently heuristic, so every
// threshold is configuration rather than a constant; tests exercise the
// boundaries directly.
type LayoutConfig struct {
	// BaselineTolerance is the maximum baseline difference for two runs to
	// share a line, as a fraction of the smaller run's font size.
	BaselineTolerance float64 `json:"baseline_tolerance" yaml:"baseline_tolerance"`

	// MaxJoinGap is the maximum horizontal gap between consecutive runs on
	// one line, as a multiple of the smaller run's font size. Larger gaps
	// start a new line so unrelated columns are not merged.
	MaxJoinGap float64 `json:"max_join_gap" yaml:"max_join_gap"`

	// GlueGap is the horizontal gap in points below which adjacent runs are
	// concatenated without an intervening space.
	GlueGap float64 `json:"glue_gap" yaml:"glue_gap"`

	// HeadingRatio is the minimum line-size to body-size ratio for a line
	// to become a heading candidate.
	HeadingRatio float64 `json:"heading_ratio" yaml:"heading_ratio"`

	// BoldHeadingMaxChars caps the length of a bold line promoted to a
	// heading on style rather than size.
	BoldHeadingMaxChars int `json:"bold_heading_max_chars" yaml:"bold_heading_max_chars"`

	// IsolationGap is the multiple of the modal inter-line gap above which
	// a bold line counts as vertically isolated.
	IsolationGap float64 `json:"isolation_gap" yaml:"isolation_gap"`

	// ParagraphGap is the multiple of the modal inter-line gap above which
	// consecutive lines split into separate paragraphs. A gap exactly at
	// the threshold still merges.
	ParagraphGap float64 `json:"paragraph_gap" yaml:"paragraph_gap"`
}

// DefaultLayoutConfig returns the tuned defaults.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		BaselineTolerance:   0.3,
		MaxJoinGap:          2.0,
		GlueGap:             1.0,
		HeadingRatio:        1.2,
		BoldHeadingMaxChars: 80,
		IsolationGap:        1.5,
		ParagraphGap:        1.5,
	}
}

// PipelineConfig groups the settings for a conversion run.
type PipelineConfig struct {
	// Jobs bounds the number of concurrently executing extraction tasks
	// across all documents and pages. Zero means runtime.NumCPU().
	Jobs int `json:"jobs" yaml:"jobs"`

	// StripRepeated removes running headers and footers that recur across
	// pages before classification.
	StripRepeated bool `json:"strip_repeated" yaml:"strip_repeated"`

	// Layout holds the layout reconstruction thresholds.
	Layout LayoutConfig `json:"layout" yaml:"layout"`
}

// DefaultPipelineConfig returns the defaults for a conversion run.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		StripRepeated: true,
		Layout:        DefaultLayoutConfig(),
	}
}
