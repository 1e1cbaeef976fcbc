package build

import (
	"sort"

	"github.com/mnohosten/spimi-index/pkg/postings"
)

// Accumulator holds the in-memory term->postings map under construction
// between spills. It is the SPIMI "partial index" before it is sorted
// and written to disk.
//
// Unlike the LSM memtable this build pipeline's storage layer is
// grounded on, the accumulator is write-only until spill time: nothing
// ever looks up a single term mid-accumulation, so a plain map append is
// enough and a skip list's incremental ordering would buy nothing here.
type Accumulator struct {
	postingsByTerm map[string][]postings.RawPosting
	docCount       int
	threshold      int
}

// NewAccumulator creates an Accumulator that signals ShouldSpill once it
// has absorbed threshold documents.
func NewAccumulator(threshold int) *Accumulator {
	return &Accumulator{
		postingsByTerm: make(map[string][]postings.RawPosting),
		threshold:      threshold,
	}
}

// AddDocument merges one document's term->posting map into the
// accumulator. docIDs must be supplied in strictly increasing order by
// the caller (the corpus walker and builder guarantee this); because of
// that ordering, each term's posting list inside the accumulator stays
// in docID order without any sorting here.
func (a *Accumulator) AddDocument(docPostings map[string]postings.RawPosting) {
	for term, p := range docPostings {
		a.postingsByTerm[term] = append(a.postingsByTerm[term], p)
	}
	a.docCount++
}

// ShouldSpill reports whether the accumulator has reached its
// document-count spill threshold.
func (a *Accumulator) ShouldSpill() bool {
	return a.docCount >= a.threshold
}

// Empty reports whether the accumulator holds no documents.
func (a *Accumulator) Empty() bool {
	return a.docCount == 0
}

// Drain returns the accumulator's contents as term entries in strictly
// ascending term order, and resets the accumulator for reuse.
func (a *Accumulator) Drain() []postings.RawTermEntry {
	terms := make([]string, 0, len(a.postingsByTerm))
	for term := range a.postingsByTerm {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	entries := make([]postings.RawTermEntry, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, postings.RawTermEntry{
			Term:     term,
			Postings: a.postingsByTerm[term],
		})
	}

	a.postingsByTerm = make(map[string][]postings.RawPosting)
	a.docCount = 0

	return entries
}
