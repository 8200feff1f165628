package slug

import (
	"strings"
	"unicode"
)

// Normalize turns a title into its canonical slug: trimmed, lowercased,
// internal whitespace collapsed, and every run of non-alphanumeric
// characters replaced with a single hyphen.
// "  Hello World  2025  " becomes "hello-world-2025".
func Normalize(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// NormalizePath normalizes a slash-separated title segment by segment so
// nested paths keep their structure: "Pub/My File" becomes "pub/my-file".
// Empty segments are dropped.
func NormalizePath(title string) string {
	var parts []string
	for _, segment := range strings.Split(title, "/") {
		if s := Normalize(segment); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
