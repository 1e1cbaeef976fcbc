// Package postings defines the two posting record variants used by the
// index pipeline and the line-delimited framing shared by partial index
// files and the final index file.
//
// RawPosting is the build-time shape, carrying raw term frequency and
// tag-importance weight. WeightedPosting is the post-rewrite shape,
// carrying only the final tf_idf score. The two never coexist on disk:
// the TF-IDF rewrite is the single point where one is converted to the
// other.
package postings

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// RawPosting is a build-time posting: one term's signal for one document,
// before TF-IDF weighting.
type RawPosting struct {
	DocID int `json:"docID"`
	TF    int `json:"tf"`
	I     int `json:"i"`
}

// WeightedPosting is the final posting shape: a document and its TF-IDF
// score for one term. No posting retains tf or i after rewriting.
type WeightedPosting struct {
	DocID int     `json:"docID"`
	TfIdf float64 `json:"tf_idf"`
}

// RawTermEntry is one line of a partial index file or the pre-rewrite
// merged index: a term and its posting list, sorted by docID.
type RawTermEntry struct {
	Term     string
	Postings []RawPosting
}

// WeightedTermEntry is one line of the final, rewritten index.
type WeightedTermEntry struct {
	Term     string
	Postings []WeightedPosting
}

// rawLine/weightedLine are the on-disk JSON shapes: a single-key object
// mapping the term to its posting list, matching the partial-index file
// format described in the build design ("one term entry per line, each
// line a self-describing record").
type rawLine map[string][]RawPosting
type weightedLine map[string][]WeightedPosting

// EncodeRaw renders a RawTermEntry as one JSON line (no trailing newline).
func EncodeRaw(e RawTermEntry) ([]byte, error) {
	return json.Marshal(rawLine{e.Term: e.Postings})
}

// DecodeRaw parses one JSON line back into a RawTermEntry.
func DecodeRaw(line []byte) (RawTermEntry, error) {
	var m rawLine
	if err := json.Unmarshal(line, &m); err != nil {
		return RawTermEntry{}, fmt.Errorf("decode raw term entry: %w", err)
	}
	for term, list := range m {
		return RawTermEntry{Term: term, Postings: list}, nil
	}
	return RawTermEntry{}, fmt.Errorf("decode raw term entry: empty line")
}

// EncodeWeighted renders a WeightedTermEntry as one JSON line.
func EncodeWeighted(e WeightedTermEntry) ([]byte, error) {
	return json.Marshal(weightedLine{e.Term: e.Postings})
}

// DecodeWeighted parses one JSON line back into a WeightedTermEntry.
func DecodeWeighted(line []byte) (WeightedTermEntry, error) {
	var m weightedLine
	if err := json.Unmarshal(line, &m); err != nil {
		return WeightedTermEntry{}, fmt.Errorf("decode weighted term entry: %w", err)
	}
	for term, list := range m {
		return WeightedTermEntry{Term: term, Postings: list}, nil
	}
	return WeightedTermEntry{}, fmt.Errorf("decode weighted term entry: empty line")
}

// PeekTerm extracts just the term key from a raw JSON line without
// decoding the full posting list, used by the merger to compare terms
// across streams cheaply.
func PeekTerm(line []byte) (string, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(line, &m); err != nil {
		return "", fmt.Errorf("peek term: %w", err)
	}
	for term := range m {
		return term, nil
	}
	return "", fmt.Errorf("peek term: empty line")
}

// ReadLines is a small helper shared by build-stage readers: it yields
// each non-empty line of r to fn, stopping at the first error or at EOF.
func ReadLines(r io.Reader, fn func(line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(append([]byte(nil), line...)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
