package report

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// StripTags removes markup from s and collapses runs of whitespace into a
// single space. Entities are decoded.
func StripTags(s string) string {
	return strings.Join(strings.Fields(htmlText(s, false)), " ")
}

// HTMLToText removes markup from s but keeps paragraph and line breaks as
// newlines, so that the result can be wrapped paragraph by paragraph.
func HTMLToText(s string) string {
	raw := htmlText(s, true)
	var paragraphs []string
	for _, line := range strings.Split(raw, "\n") {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			paragraphs = append(paragraphs, collapsed)
		}
	}
	return strings.Join(paragraphs, "\n")
}

var blockTags = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func htmlText(s string, keepBreaks bool) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				if keepBreaks {
					b.WriteByte('\n')
				} else {
					b.WriteByte(' ')
				}
			}
		}
	}
}

// Capitalize turns a snake_case key into a label: underscores become spaces
// and each word starts with an upper-case letter.
func Capitalize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
