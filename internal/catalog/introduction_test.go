package catalog_test

import (
	"strings"
	"testing"

	"github.com/CWALabs/SkyCMS-sub002/internal/catalog"
)

func TestExtractIntroduction(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "first paragraph text",
			content: "<p>First paragraph.</p><p>Second paragraph.</p>",
			want:    "First paragraph.",
		},
		{
			name:    "tags stripped inside paragraph",
			content: "<p>Some <strong>bold</strong> and <a href=\"/x\">linked</a> text.</p>",
			want:    "Some bold and linked text.",
		},
		{
			name:    "entities decoded",
			content: "<p>Fish &amp; Chips &mdash; a classic</p>",
			want:    "Fish & Chips — a classic",
		},
		{
			name:    "leading blank paragraph skipped",
			content: "<p>   </p><p>Real content here.</p>",
			want:    "Real content here.",
		},
		{
			name:    "script and style ignored",
			content: "<script>var x = 1;</script><style>p{}</style><p>Visible text.</p>",
			want:    "Visible text.",
		},
		{
			name:    "plain text paragraphs split on blank lines",
			content: "First block of text.\n\nSecond block.",
			want:    "First block of text.",
		},
		{
			name:    "whitespace collapsed",
			content: "<p>Spread   across\n   lines</p>",
			want:    "Spread across lines",
		},
		{
			name:    "headings break paragraphs",
			content: "<h1>Title</h1><p>Body text.</p>",
			want:    "Title",
		},
		{
			name:    "empty content",
			content: "   ",
			want:    "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := catalog.ExtractIntroduction(tc.content); got != tc.want {
				t.Errorf("ExtractIntroduction(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestExtractIntroduction_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 200)
	got := catalog.ExtractIntroduction("<p>" + long + "</p>")
	if len(got) > catalog.MaxIntroductionLength {
		t.Errorf("Extracted introduction is %d bytes, cap is %d", len(got), catalog.MaxIntroductionLength)
	}
	if !strings.HasPrefix(got, "word word") {
		t.Errorf("Truncated introduction lost its head: %q", got[:20])
	}
}
