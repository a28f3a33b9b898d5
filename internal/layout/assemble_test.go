// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"math"
	"testing"

	"github.com/pdiddy/pagemill/pkg/types"
)

// run builds a TextRun at baseline y spanning [x0, x1].
func run(content string, x0, x1, y, size float64) types.TextRun {
	return types.TextRun{
		Content:  content,
		X0:       x0,
		Y0:       y,
		X1:       x1,
		Y1:       y + size,
		FontSize: size,
	}
}

func TestAssembleSingleLine(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	runs := []types.TextRun{
		run("Hello", 72, 100, 700, 12),
		run("world", 104, 132, 700, 12),
	}

	lines, skipped := Assemble(runs, cfg)
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0].Text != "Hello world" {
		t.Errorf("text = %q, want %q", lines[0].Text, "Hello world")
	}
	if lines[0].FontSize != 12 {
		t.Errorf("font size = %v, want 12", lines[0].FontSize)
	}
}

func TestAssembleGluesTightRuns(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	// Gap of 0.5pt is below the glue threshold: no space inserted.
	runs := []types.TextRun{
		run("con", 72, 90, 700, 12),
		run("catenated", 90.5, 140, 700, 12),
	}

	lines, _ := Assemble(runs, cfg)
	if len(lines) != 1 || lines[0].Text != "concatenated" {
		t.Fatalf("got %+v, want one line %q", lines, "concatenated")
	}
}

func TestAssemblePunctuationSpacing(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	tests := []struct {
		name string
		runs []types.TextRun
		want string
	}{
		{
			name: "no space before closing punctuation",
			runs: []types.TextRun{
				run("done", 72, 100, 700, 12),
				run(".", 104, 106, 700, 12),
			},
			want: "done.",
		},
		{
			name: "no space after opening bracket",
			runs: []types.TextRun{
				run("(", 72, 75, 700, 12),
				run("note", 79, 100, 700, 12),
			},
			want: "(note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, _ := Assemble(tt.runs, cfg)
			if len(lines) != 1 || lines[0].Text != tt.want {
				t.Errorf("got %+v, want one line %q", lines, tt.want)
			}
		})
	}
}

func TestAssembleSplitsLinesAndOrdersTopDown(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	// Supplied bottom-up; reading order is top of page first.
	runs := []types.TextRun{
		run("second", 72, 120, 680, 12),
		run("first", 72, 110, 700, 12),
	}

	lines, _ := Assemble(runs, cfg)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Text != "first" || lines[1].Text != "second" {
		t.Errorf("order = [%q, %q], want [first, second]", lines[0].Text, lines[1].Text)
	}
}

func TestAssembleBaselineTolerance(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	// 3pt baseline wobble at 12pt is within the 0.3 tolerance; 5pt is not.
	within := []types.TextRun{
		run("a", 72, 80, 700, 12),
		run("b", 84, 92, 703, 12),
	}
	beyond := []types.TextRun{
		run("a", 72, 80, 700, 12),
		run("b", 84, 92, 705, 12),
	}

	lines, _ := Assemble(within, cfg)
	if len(lines) != 1 {
		t.Errorf("within tolerance: lines = %d, want 1", len(lines))
	}
	lines, _ = Assemble(beyond, cfg)
	if len(lines) != 2 {
		t.Errorf("beyond tolerance: lines = %d, want 2", len(lines))
	}
}

func TestAssembleSplitsColumns(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	// Same baseline but a 100pt gulf between columns: two lines.
	runs := []types.TextRun{
		run("left column", 72, 150, 700, 12),
		run("right column", 250, 330, 700, 12),
	}

	lines, _ := Assemble(runs, cfg)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2 (columns must not merge)", len(lines))
	}
}

func TestAssembleDropsDegenerateRuns(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	runs := []types.TextRun{
		run("   ", 72, 100, 700, 12),  // whitespace only
		run("x", 110, 110, 700, 12),   // zero width
		run("keep", 72, 100, 680, 12), // real content
	}

	lines, skipped := Assemble(runs, cfg)
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0 (dropped runs are not malformed)", skipped)
	}
	if len(lines) != 1 || lines[0].Text != "keep" {
		t.Fatalf("got %+v, want one line %q", lines, "keep")
	}
}

func TestAssembleCountsMalformedRuns(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	runs := []types.TextRun{
		run("ok", 72, 100, 700, 12),
		{Content: "bad", X0: math.NaN(), Y0: 700, X1: 100, Y1: 712, FontSize: 12},
		{Content: "bad", X0: 72, Y0: math.Inf(1), X1: 100, Y1: 712, FontSize: 12},
	}

	lines, skipped := Assemble(runs, cfg)
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(lines) != 1 {
		t.Errorf("lines = %d, want 1", len(lines))
	}
}

func TestAssembleEmpty(t *testing.T) {
	lines, skipped := Assemble(nil, types.DefaultLayoutConfig())
	if lines != nil || skipped != 0 {
		t.Errorf("got (%v, %d), want (nil, 0)", lines, skipped)
	}
}

func TestAssembleLineFontSizeIsMax(t *testing.T) {
	cfg := types.DefaultLayoutConfig()
	runs := []types.TextRun{
		run("big", 72, 110, 700, 18),
		run("small", 114, 150, 700, 11),
	}

	lines, _ := Assemble(runs, cfg)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0].FontSize != 18 {
		t.Errorf("font size = %v, want the max 18", lines[0].FontSize)
	}
}
