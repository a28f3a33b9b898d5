// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/pagemill/pkg/types"
)

// Classify segments a page's lines into heading, paragraph, and blank
// blocks. Classification is page-local, never reorders content, and never
// fails: adversarial input degrades to an all-paragraph result.
func Classify(lines []types.Line, cfg types.LayoutConfig) []types.Block {
	if len(lines) == 0 {
		return nil
	}

	body := bodySize(lines)
	gap := modalGap(lines, body)

	heading := headingCandidates(lines, body, gap, cfg)
	level := headingLevels(lines, heading, body)

	var blocks []types.Block
	var para []string
	prevBaseline := math.NaN()

	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, types.ParagraphBlock(collapseSpace(strings.Join(para, " "))))
			para = nil
		}
	}

	for i, line := range lines {
		if !line.Printable() {
			flush()
			if len(blocks) == 0 || blocks[len(blocks)-1].Kind != types.Blank {
				blocks = append(blocks, types.Block{Kind: types.Blank})
			}
			prevBaseline = math.NaN()
			continue
		}

		if heading[i] {
			flush()
			blocks = append(blocks, types.HeadingBlock(level[i], collapseSpace(line.Text)))
			prevBaseline = line.Y0
			continue
		}

		// A vertical gap strictly beyond the paragraph threshold starts a
		// new paragraph; a gap exactly at the threshold still merges.
		if len(para) > 0 && !math.IsNaN(prevBaseline) {
			if prevBaseline-line.Y0 > cfg.ParagraphGap*gap {
				flush()
			}
		}
		para = append(para, line.Text)
		prevBaseline = line.Y0
	}
	flush()

	return blocks
}

// bodySize derives the page's body font size: the modal line size weighted
// by character volume, since body text dominates a page by volume.
func bodySize(lines []types.Line) float64 {
	weights := make(map[float64]int)
	for _, l := range lines {
		chars := len(strings.Join(strings.Fields(l.Text), ""))
		if chars == 0 || l.FontSize <= 0 {
			continue
		}
		weights[roundTo(l.FontSize, 0.1)] += chars
	}
	if len(weights) == 0 {
		return 0
	}

	sizes := make([]float64, 0, len(weights))
	for s := range weights {
		sizes = append(sizes, s)
	}
	// Ascending scan keeps the winner deterministic when weights tie.
	sort.Float64s(sizes)
	best, bestWeight := sizes[0], weights[sizes[0]]
	for _, s := range sizes[1:] {
		if weights[s] > bestWeight {
			best, bestWeight = s, weights[s]
		}
	}
	return best
}

// modalGap derives the normal inter-line spacing from consecutive baseline
// deltas. When a page has too few lines to vote, 1.2x the body size stands
// in, matching typical typesetting leading.
func modalGap(lines []types.Line, body float64) float64 {
	counts := make(map[float64]int)
	prev := math.NaN()
	for _, l := range lines {
		if !l.Printable() {
			continue
		}
		if !math.IsNaN(prev) {
			d := prev - l.Y0
			if d > 0.5 {
				counts[roundTo(d, 0.5)]++
			}
		}
		prev = l.Y0
	}

	gaps := make([]float64, 0, len(counts))
	for g := range counts {
		gaps = append(gaps, g)
	}
	sort.Float64s(gaps)
	best, bestCount := 0.0, 0
	for _, g := range gaps {
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	if best > 0 {
		return best
	}
	if body > 0 {
		return body * 1.2
	}
	return 12
}

// headingCandidates flags lines that read as headings: sized well above the
// body text, or bold, short, and vertically isolated on both sides.
func headingCandidates(lines []types.Line, body, gap float64, cfg types.LayoutConfig) []bool {
	out := make([]bool, len(lines))
	for i, l := range lines {
		if !l.Printable() {
			continue
		}
		if body > 0 && l.FontSize/body >= cfg.HeadingRatio {
			out[i] = true
			continue
		}
		short := len([]rune(strings.TrimSpace(l.Text))) < cfg.BoldHeadingMaxChars
		if l.Bold() && short && isolated(lines, i, cfg.IsolationGap*gap) {
			out[i] = true
		}
	}
	return out
}

// isolated reports whether line i sits apart from its printable neighbors
// by more than the given vertical distance. Page edges count as isolated.
func isolated(lines []types.Line, i int, minGap float64) bool {
	for j := i - 1; j >= 0; j-- {
		if !lines[j].Printable() {
			continue
		}
		if lines[j].Y0-lines[i].Y0 <= minGap {
			return false
		}
		break
	}
	for j := i + 1; j < len(lines); j++ {
		if !lines[j].Printable() {
			continue
		}
		if lines[i].Y0-lines[j].Y0 <= minGap {
			return false
		}
		break
	}
	return true
}

// headingLevels ranks the candidates' size ratios into levels 1-6: the
// largest observed ratio on the page maps to level 1, each smaller distinct
// ratio to the next level, capped at 6. Ties keep encounter order because
// equal ratios share one rank. The assignment is page-local.
func headingLevels(lines []types.Line, heading []bool, body float64) []int {
	const tolerance = 0.01

	var ratios []float64
	for i, l := range lines {
		if heading[i] {
			ratios = append(ratios, ratioOf(l, body))
		}
	}
	if len(ratios) == 0 {
		return make([]int, len(lines))
	}

	distinct := make([]float64, 0, len(ratios))
	sort.Sort(sort.Reverse(sort.Float64Slice(ratios)))
	for _, r := range ratios {
		if len(distinct) == 0 || distinct[len(distinct)-1]-r > tolerance {
			distinct = append(distinct, r)
		}
	}

	levels := make([]int, len(lines))
	for i, l := range lines {
		if !heading[i] {
			continue
		}
		r := ratioOf(l, body)
		rank := len(distinct)
		for j, d := range distinct {
			if math.Abs(d-r) <= tolerance {
				rank = j + 1
				break
			}
		}
		if rank > 6 {
			rank = 6
		}
		levels[i] = rank
	}
	return levels
}

func ratioOf(l types.Line, body float64) float64 {
	if body <= 0 {
		return 1
	}
	return l.FontSize / body
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}
