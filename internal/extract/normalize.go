package extract

import (
	"fmt"
	"strings"
	"unicode"
)

// stopWords are dropped as whole concepts and break heuristic phrases
var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "could", "did", "do", "does", "doing", "down", "during", "each", "either",
	"else", "even", "ever", "every", "few", "for", "from", "further", "get", "got", "had", "has",
	"have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "it", "its", "itself", "just", "let", "like", "many", "may",
	"me", "might", "more", "most", "much", "must", "my", "myself", "neither", "no", "nor", "not",
	"now", "of", "off", "on", "once", "one", "only", "or", "other", "our", "ours", "ourselves",
	"out", "over", "own", "really", "said", "same", "say", "says", "she", "should", "so", "some",
	"something", "such", "than", "that", "the", "their", "theirs", "them", "themselves", "then",
	"there", "these", "they", "thing", "things", "this", "those", "through", "to", "too",
	"under", "until", "up", "us", "very", "was", "we", "well", "were", "what", "when", "where",
	"which", "while", "who", "whom", "whose", "why", "will", "with", "would", "yeah", "yes",
	"yet", "you", "your", "yours", "yourself", "yourselves", "okay", "oh", "uh", "um",
	"going", "gonna", "know", "think", "want", "make", "made", "see", "go", "come", "take",
	"way", "lot", "kind", "sort", "people", "right",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsStopWord reports whether w is on the stop list
func IsStopWord(w string) bool {
	return stopWords[w]
}

// Normalizer folds raw phrases into concept identities
type Normalizer struct {
	minLength int
}

// NewNormalizer creates a normalizer that drops concepts shorter than minLength runes
func NewNormalizer(minLength int) *Normalizer {
	if minLength < 1 {
		minLength = 1
	}
	return &Normalizer{minLength: minLength}
}

// Fingerprint identifies the settings that shape normalized output. It is
// part of every source name, so cached results never outlive a change.
func (n *Normalizer) Fingerprint() string {
	return fmt.Sprintf("min%d", n.minLength)
}

// Normalize lower-cases, trims and collapses whitespace. It reports false
// for stop words and concepts below the minimum length.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	c := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	c = strings.TrimFunc(c, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if c == "" || stopWords[c] || len([]rune(c)) < n.minLength {
		return "", false
	}
	return c, true
}

// Set normalizes raws and returns the distinct survivors in input order
func (n *Normalizer) Set(raws []string) []string {
	seen := make(map[string]bool, len(raws))
	var out []string
	for _, r := range raws {
		c, ok := n.Normalize(r)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
