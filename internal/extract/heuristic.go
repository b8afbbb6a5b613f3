package extract

import (
	"context"
	"strings"
	"unicode"

	"github.com/ppiankov/conceptmap/internal/model"
)

// maxPhraseWords caps a heuristic phrase; longer runs keep their tail,
// which is where the head noun of an English noun phrase sits
const maxPhraseWords = 3

// HeuristicSource approximates noun chunks with runs of content words
// delimited by stop words and punctuation
type HeuristicSource struct {
	norm *Normalizer
}

// NewHeuristicSource creates a heuristic source
func NewHeuristicSource(norm *Normalizer) *HeuristicSource {
	if norm == nil {
		norm = NewNormalizer(3)
	}
	return &HeuristicSource{norm: norm}
}

func (s *HeuristicSource) Name() string { return "heuristic:" + s.norm.Fingerprint() }

// Extract splits the document into sentences and emits the phrase set of each
func (s *HeuristicSource) Extract(ctx context.Context, doc model.Document) ([]model.SentenceConcepts, error) {
	var out []model.SentenceConcepts
	for i, sentence := range splitSentences(doc.Text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		concepts := s.norm.Set(phrases(sentence))
		if len(concepts) == 0 {
			continue
		}
		out = append(out, model.SentenceConcepts{
			Document: doc.ID,
			Sentence: i,
			Concepts: concepts,
		})
	}
	return out, nil
}

// phrases returns the content-word runs of a sentence
func phrases(sentence string) []string {
	var out []string
	var run []string

	flush := func() {
		if len(run) > maxPhraseWords {
			run = run[len(run)-maxPhraseWords:]
		}
		if len(run) > 0 {
			out = append(out, strings.Join(run, " "))
		}
		run = run[:0]
	}

	for _, tok := range tokenize(sentence) {
		if tok == "" {
			flush()
			continue
		}
		lower := strings.ToLower(tok)
		if IsStopWord(lower) || isNumber(lower) || strings.Contains(lower, "'") {
			flush()
			continue
		}
		run = append(run, lower)
	}
	flush()

	return out
}

// tokenize splits into words; an empty token marks a punctuation boundary
func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder

	emit := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’' || r == '-':
			if r == '’' {
				r = '\''
			}
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			emit()
		default:
			emit()
			toks = append(toks, "")
		}
	}
	emit()
	return toks
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}
