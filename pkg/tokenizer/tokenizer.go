// Package tokenizer implements the normalization, validation, and stemming
// contract shared by the index builder and the query evaluator. Any
// divergence between how a term is produced here at build time and at
// query time silently breaks recall, so both sides must call Tokenize.
package tokenizer

import (
	"regexp"
	"strings"
)

var splitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenizer turns arbitrary text into an ordered sequence of index terms.
type Tokenizer struct {
	stemmer *PorterStemmer
}

// New creates a Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{stemmer: NewPorterStemmer()}
}

// Tokenize lowercases text, splits it into word-like units, keeps only
// units made entirely of ASCII letters/digits with length >= 2 (or the
// single-character terms "a"/"i"), stems the survivors, and returns them
// in order. Duplicates are preserved; callers that need frequencies count
// occurrences in the returned slice.
func (t *Tokenizer) Tokenize(text string) []string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return nil
	}

	parts := splitPattern.Split(lowered, -1)

	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if !isValidUnit(part) {
			continue
		}
		terms = append(terms, t.stemmer.Stem(part))
	}

	return terms
}

// isValidUnit reports whether a split unit is an admissible term before
// stemming: every code unit must already be ASCII a-z or 0-9 (guaranteed
// by splitPattern), and length must be >= 2 except for "a" and "i".
func isValidUnit(unit string) bool {
	if len(unit) == 0 {
		return false
	}
	if len(unit) == 1 {
		return unit == "a" || unit == "i"
	}
	return true
}

// TermFrequencies counts occurrences of each term in an already-tokenized
// sequence.
func TermFrequencies(terms []string) map[string]int {
	freq := make(map[string]int, len(terms))
	for _, term := range terms {
		freq[term]++
	}
	return freq
}

// TokenPosition pairs a stemmed term with its 1-based position in the
// token stream it came from. The final index keeps no positional data
// (positional/phrase queries are out of scope), but the tokenizer still
// exposes positions since they cost nothing to compute here and are a
// natural extension point.
type TokenPosition struct {
	Term     string
	Position int
}

// TokenizeWithPositions behaves like Tokenize but also returns each
// surviving term's 1-based position among all split units, valid and
// invalid alike.
func (t *Tokenizer) TokenizeWithPositions(text string) []TokenPosition {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return nil
	}

	parts := splitPattern.Split(lowered, -1)

	var out []TokenPosition
	for i, part := range parts {
		if !isValidUnit(part) {
			continue
		}
		out = append(out, TokenPosition{Term: t.stemmer.Stem(part), Position: i + 1})
	}

	return out
}
