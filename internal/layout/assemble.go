// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout reconstructs document structure from positioned text runs:
// runs are grouped into lines, and lines are classified into heading,
// paragraph, and blank blocks.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/pagemill/pkg/types"
)

// Lines is one page's assembled lines in reading order.
type Lines = []types.Line

// Assemble groups text runs into logical lines in reading order. It returns
// the lines plus the number of malformed runs that were skipped. Runs with
// non-finite coordinates are dropped and counted; whitespace-only and
// zero-width runs are dropped silently.
func Assemble(runs []types.TextRun, cfg types.LayoutConfig) ([]types.Line, int) {
	clean := make([]types.TextRun, 0, len(runs))
	skipped := 0
	for _, r := range runs {
		if !finite(r.X0) || !finite(r.Y0) || !finite(r.X1) || !finite(r.Y1) || !finite(r.FontSize) {
			skipped++
			continue
		}
		if strings.TrimSpace(r.Content) == "" || r.X1 <= r.X0 {
			continue
		}
		clean = append(clean, r)
	}
	if len(clean) == 0 {
		return nil, skipped
	}

	// Reading order: top of the page first (y decreasing), then left to
	// right. Sort is stable so equal positions keep extraction order.
	sort.SliceStable(clean, func(i, j int) bool {
		if clean[i].Y0 != clean[j].Y0 {
			return clean[i].Y0 > clean[j].Y0
		}
		return clean[i].X0 < clean[j].X0
	})

	var lines []types.Line
	group := []types.TextRun{clean[0]}
	for _, r := range clean[1:] {
		last := group[len(group)-1]
		size := smallerSize(last.FontSize, r.FontSize)

		sameBaseline := math.Abs(r.Y0-last.Y0) <= cfg.BaselineTolerance*size
		gap := r.X0 - last.X1

		if sameBaseline && gap <= cfg.MaxJoinGap*size {
			group = append(group, r)
			continue
		}
		lines = append(lines, buildLine(group, cfg))
		group = []types.TextRun{r}
	}
	lines = append(lines, buildLine(group, cfg))

	return lines, skipped
}

// buildLine finalizes one group of runs: left-to-right order, bounding box,
// representative font size, and merged text.
func buildLine(runs []types.TextRun, cfg types.LayoutConfig) types.Line {
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X0 < runs[j].X0 })

	line := types.Line{
		Runs: runs,
		X0:   runs[0].X0,
		Y0:   runs[0].Y0,
		X1:   runs[0].X1,
		Y1:   runs[0].Y1,
	}
	for _, r := range runs {
		line.X0 = math.Min(line.X0, r.X0)
		line.Y0 = math.Min(line.Y0, r.Y0)
		line.X1 = math.Max(line.X1, r.X1)
		line.Y1 = math.Max(line.Y1, r.Y1)
		line.FontSize = math.Max(line.FontSize, r.FontSize)
	}
	line.Text = mergeRunText(runs, cfg)
	return line
}

// mergeRunText joins run contents with gap-aware spacing: tight gaps glue
// without a space, and punctuation never gets a space pushed before a
// closer or after an opener.
func mergeRunText(runs []types.TextRun, cfg types.LayoutConfig) string {
	var b strings.Builder
	for i, r := range runs {
		text := strings.TrimRight(r.Content, " \t")
		if i == 0 {
			b.WriteString(strings.TrimLeft(text, " \t"))
			continue
		}
		prev := runs[i-1]
		gap := r.X0 - prev.X1
		if gap > cfg.GlueGap && needsSpace(b.String(), text) {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimLeft(text, " \t"))
	}
	return b.String()
}

func needsSpace(before, next string) bool {
	if before == "" || next == "" {
		return false
	}
	if strings.ContainsRune(".,:;?!)]}", rune(next[0])) {
		return false
	}
	if strings.ContainsRune("([{", rune(before[len(before)-1])) {
		return false
	}
	return true
}

// smallerSize returns the smaller positive font size, falling back to the
// other when one run reports no size.
func smallerSize(a, b float64) float64 {
	if a <= 0 {
		return b
	}
	if b <= 0 {
		return a
	}
	return math.Min(a, b)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
