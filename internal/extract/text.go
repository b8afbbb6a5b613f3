package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// maxSentenceRunes bounds a sentence so unpunctuated captions do not
// collapse into one giant co-occurrence set
const maxSentenceRunes = 400

// skipElements never contribute caption text
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true, "head": true, "template": true,
}

// visibleText streams an HTML transcript and keeps the text a reader
// would see. Block elements end a sentence, so captions split across
// <p> or <div> tags do not run together.
func visibleText(htmlContent string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(htmlContent))

	var buf strings.Builder
	skipping := ""
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return buf.String(), nil

		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipping == "" && skipElements[tag] {
				skipping = tag
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == skipping {
				skipping = ""
				continue
			}
			switch tag {
			case "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				buf.WriteString("\n\n")
			}

		case html.TextToken:
			if skipping != "" {
				continue
			}
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
	}
}

// splitSentences splits text on sentence terminators and blank lines
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var sentences []string
	var current strings.Builder
	runes := 0

	flush := func() {
		s := strings.Join(strings.Fields(current.String()), " ")
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
		runes = 0
	}

	rs := []rune(text)
	for i, r := range rs {
		if r == '\n' && i+1 < len(rs) && rs[i+1] == '\n' {
			flush()
			continue
		}

		current.WriteRune(r)
		runes++

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting inside numbers like "2.5"
			if i+1 == len(rs) || rs[i+1] == ' ' || rs[i+1] == '\t' || rs[i+1] == '\n' {
				flush()
				continue
			}
		}

		if runes >= maxSentenceRunes && (r == ' ' || r == '\n') {
			flush()
		}
	}
	flush()

	return sentences
}
