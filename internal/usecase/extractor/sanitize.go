package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmphasisRe = regexp.MustCompile(`[*_]{1,3}`)
)

// StripMarkup flattens HTML and light markdown in an agent answer down to
// plain text, so the pattern rules see prose instead of tags. Answers
// from hosted agents routinely arrive as rendered markup.
func StripMarkup(s string) string {
	s = mdLinkRe.ReplaceAllString(s, "$1")
	s = mdEmphasisRe.ReplaceAllString(s, "")

	if !strings.Contains(s, "<") {
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			out := strings.TrimSpace(b.String())
			if out == "" {
				return s
			}
			return out
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}
