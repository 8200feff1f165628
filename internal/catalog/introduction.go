package catalog

import (
	"strings"

	"golang.org/x/net/html"
)

// MaxIntroductionLength caps extracted introductions
const MaxIntroductionLength = 512

// block elements that end a paragraph when their closing tag is seen
var paragraphBreak = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// elements whose text is never part of an introduction
var skipContent = map[string]bool{
	"script": true, "style": true, "head": true, "title": true,
}

// ExtractIntroduction pulls a listing excerpt out of article content: the
// text of the first non-blank paragraph, with tags stripped, entities
// decoded, and the result capped at MaxIntroductionLength characters. Plain
// text content paragraphs are delimited by blank lines.
func ExtractIntroduction(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	var current strings.Builder
	flush := func() string {
		text := collapseWhitespace(current.String())
		current.Reset()
		return text
	}

	z := html.NewTokenizer(strings.NewReader(content))
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// end of input; whatever accumulated is the last paragraph
			if text := flush(); text != "" {
				return truncate(text)
			}
			return ""
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			// blank lines split paragraphs in plain-text content
			chunks := strings.Split(string(z.Text()), "\n\n")
			for i, chunk := range chunks {
				if i > 0 {
					if text := flush(); text != "" {
						return truncate(text)
					}
				}
				current.WriteString(chunk)
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipContent[string(name)] {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipContent[tag] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if paragraphBreak[tag] {
				if text := flush(); text != "" {
					return truncate(text)
				}
			}
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string) string {
	if len(s) <= MaxIntroductionLength {
		return s
	}
	// cut on a rune boundary
	runes := []rune(s)
	out := make([]rune, 0, MaxIntroductionLength)
	for _, r := range runes {
		if len(string(append(out, r))) > MaxIntroductionLength {
			break
		}
		out = append(out, r)
	}
	return string(out)
}
