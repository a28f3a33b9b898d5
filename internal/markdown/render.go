// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown serializes classified blocks into Markdown text.
package markdown

import (
	"strings"

	"github.com/pdiddy/pagemill/pkg/types"
)

// escaper guards characters that Markdown would otherwise interpret as
// syntax when they appear literally in extracted text.
var escaper = strings.NewReplacer(
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
	"`", "\\`",
)

// Render serializes a page's block sequence. The function is pure: an
// identical block sequence always renders the identical string.
func Render(blocks []types.Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk.Kind {
		case types.Heading:
			b.WriteString(strings.Repeat("#", blk.Level))
			b.WriteByte(' ')
			b.WriteString(Escape(blk.Text))
			b.WriteString("\n\n")
		case types.Paragraph:
			b.WriteString(Escape(blk.Text))
			b.WriteString("\n\n")
		case types.Blank:
			// One blank line, never doubled.
			if s := b.String(); s != "" && !strings.HasSuffix(s, "\n\n") {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// Escape backslash-escapes the literal Markdown control characters
// `*`, `_`, `#`, and backtick.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape. Stripping the added backslashes reproduces the
// extracted text exactly.
func Unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("*_#`", s[i+1]) >= 0 {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
