// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"math"
	"strings"
	"unicode"
)

// Page edge lines qualify as running headers or footers when their
// normalized text recurs on at least this share of pages, with an absolute
// floor so short documents are left alone.
const (
	repeatShare    = 2.0 / 3.0
	repeatMinPages = 3
)

// StripRepeated removes running headers and footers: the topmost or
// bottommost line of each page whose normalized text recurs across enough
// pages of the document. Page numbers vary, so digits are ignored during
// normalization. Documents under three pages are returned untouched.
func StripRepeated(pages []Lines) []Lines {
	if len(pages) < repeatMinPages {
		return pages
	}

	tops := make([]string, len(pages))
	bottoms := make([]string, len(pages))
	topFreq := make(map[string]int)
	bottomFreq := make(map[string]int)

	for i, lines := range pages {
		t, b := edgeKeys(lines)
		tops[i], bottoms[i] = t, b
		if t != "" {
			topFreq[t]++
		}
		if b != "" {
			bottomFreq[b]++
		}
	}

	threshold := int(math.Ceil(float64(len(pages)) * repeatShare))
	if threshold < repeatMinPages {
		threshold = repeatMinPages
	}

	out := make([]Lines, len(pages))
	for i, lines := range pages {
		dropTop := tops[i] != "" && topFreq[tops[i]] >= threshold
		dropBottom := bottoms[i] != "" && bottomFreq[bottoms[i]] >= threshold
		if !dropTop && !dropBottom {
			out[i] = lines
			continue
		}

		hiY, loY := edgeBaselines(lines)
		kept := make(Lines, 0, len(lines))
		for _, l := range lines {
			if dropTop && math.Abs(l.Y0-hiY) < 0.001 {
				continue
			}
			if dropBottom && math.Abs(l.Y0-loY) < 0.001 {
				continue
			}
			kept = append(kept, l)
		}
		out[i] = kept
	}
	return out
}

// edgeKeys returns the normalized text of the page's highest and lowest
// baselines. Empty when the page has no printable lines.
func edgeKeys(lines Lines) (top, bottom string) {
	hiY, loY := edgeBaselines(lines)
	if math.IsNaN(hiY) {
		return "", ""
	}
	var topText, bottomText strings.Builder
	for _, l := range lines {
		if math.Abs(l.Y0-hiY) < 0.001 {
			topText.WriteString(l.Text)
		}
		if math.Abs(l.Y0-loY) < 0.001 {
			bottomText.WriteString(l.Text)
		}
	}
	return normalizeEdge(topText.String()), normalizeEdge(bottomText.String())
}

func edgeBaselines(lines Lines) (hi, lo float64) {
	hi, lo = math.NaN(), math.NaN()
	for _, l := range lines {
		if !l.Printable() {
			continue
		}
		if math.IsNaN(hi) || l.Y0 > hi {
			hi = l.Y0
		}
		if math.IsNaN(lo) || l.Y0 < lo {
			lo = l.Y0
		}
	}
	return hi, lo
}

// normalizeEdge lowercases and strips digits and whitespace so "Page 12"
// and "Page 13" collide.
func normalizeEdge(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
