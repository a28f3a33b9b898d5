// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/pdiddy/pagemill/pkg/types"
)

func TestRenderHeadingLevels(t *testing.T) {
	for level := 1; level <= 6; level++ {
		blocks := []types.Block{types.HeadingBlock(level, "Title")}
		got := Render(blocks)
		want := strings.Repeat("#", level) + " Title\n\n"
		if got != want {
			t.Errorf("level %d = %q, want %q", level, got, want)
		}
	}
}

func TestRenderParagraph(t *testing.T) {
	got := Render([]types.Block{types.ParagraphBlock("Some prose.")})
	if got != "Some prose.\n\n" {
		t.Errorf("got %q", got)
	}
}

func TestRenderBlankNeverDoubles(t *testing.T) {
	blocks := []types.Block{
		types.ParagraphBlock("above"),
		{Kind: types.Blank},
		{Kind: types.Blank},
		types.ParagraphBlock("below"),
	}
	got := Render(blocks)
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("output contains a tripled newline: %q", got)
	}
	if got != "above\n\nbelow\n\n" {
		t.Errorf("got %q", got)
	}
}

func TestRenderLeadingBlankIsDropped(t *testing.T) {
	got := Render([]types.Block{{Kind: types.Blank}, types.ParagraphBlock("text")})
	if got != "text\n\n" {
		t.Errorf("got %q", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	blocks := []types.Block{
		types.HeadingBlock(1, "Introduction"),
		types.ParagraphBlock("First paragraph with *stars* and such."),
		{Kind: types.Blank},
		types.HeadingBlock(2, "Details"),
		types.ParagraphBlock("Second paragraph."),
	}

	first := Render(blocks)
	second := Render(blocks)
	if first != second {
		t.Error("rendering the same blocks twice must be byte-identical")
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	tests := []string{
		"plain text",
		"star *emphasis* attempt",
		"under_score_heavy",
		"#1 ranked #hashtag",
		"inline `code` span",
		"all of * _ # ` at once",
	}

	for _, original := range tests {
		t.Run(original, func(t *testing.T) {
			escaped := Escape(original)
			for _, c := range []string{"*", "_", "#", "`"} {
				if strings.Contains(original, c) && !strings.Contains(escaped, `\`+c) {
					t.Errorf("Escape(%q) = %q: %q not escaped", original, escaped, c)
				}
			}
			if got := Unescape(escaped); got != original {
				t.Errorf("round trip = %q, want %q", got, original)
			}
		})
	}
}

func TestRenderEscapesBlockText(t *testing.T) {
	got := Render([]types.Block{types.ParagraphBlock("2 * 3 = #6, or so_they_say")})
	if !strings.Contains(got, `2 \* 3`) || !strings.Contains(got, `\#6`) || !strings.Contains(got, `so\_they\_say`) {
		t.Errorf("control characters not escaped: %q", got)
	}
}

// TestRenderedOutputParses feeds the output through a real Markdown parser
// and checks the structure survives: the heading keeps its level and the
// escaped paragraph parses as a paragraph, not emphasis.
func TestRenderedOutputParses(t *testing.T) {
	blocks := []types.Block{
		types.HeadingBlock(2, "Results"),
		types.ParagraphBlock("values *between* markers stay literal"),
	}
	src := []byte(Render(blocks))

	doc := goldmark.New().Parser().Parse(gtext.NewReader(src))

	var headings, paragraphs, emphasis int
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			headings++
			if v.Level != 2 {
				t.Errorf("heading level = %d, want 2", v.Level)
			}
		case *ast.Paragraph:
			paragraphs++
		case *ast.Emphasis:
			emphasis++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if headings != 1 {
		t.Errorf("headings = %d, want 1", headings)
	}
	if paragraphs != 1 {
		t.Errorf("paragraphs = %d, want 1", paragraphs)
	}
	if emphasis != 0 {
		t.Error("escaped stars must not parse as emphasis")
	}
}
