package query

import (
	"sort"
	"strings"

	"github.com/mnohosten/spimi-index/pkg/docids"
	"github.com/mnohosten/spimi-index/pkg/indexerr"
	"github.com/mnohosten/spimi-index/pkg/postings"
	"github.com/mnohosten/spimi-index/pkg/tokenizer"
)

// Result is one ranked hit: a document's URL and its accumulated tf_idf
// score for the query that produced it.
type Result struct {
	URL   string
	Score float64
}

// Evaluator answers free-text queries against a Reader and Doc-ID Table,
// using the same tokenizer the builder used so that query terms are
// stemmed and filtered identically to index terms.
type Evaluator struct {
	reader     *Reader
	docIDs     *docids.Table
	tok        *tokenizer.Tokenizer
	maxResults int
}

// NewEvaluator builds an Evaluator over an already-open Reader and
// loaded Doc-ID Table.
func NewEvaluator(reader *Reader, docIDs *docids.Table, maxResults int) *Evaluator {
	return &Evaluator{
		reader:     reader,
		docIDs:     docIDs,
		tok:        tokenizer.New(),
		maxResults: maxResults,
	}
}

// Search tokenizes query, fetches each distinct term's posting list,
// intersects them (falling back to a union when the intersection is
// empty), ranks by descending tf_idf, and maps the top results' docIDs
// to URLs. A query that yields no admissible terms (empty, blank, or only
// rejected units) returns ErrEmptyQuery.
func (e *Evaluator) Search(query string) ([]Result, error) {
	terms := e.tok.Tokenize(query)
	if len(terms) == 0 {
		return nil, indexerr.ErrEmptyQuery
	}

	seen := make(map[string]bool, len(terms))
	unique := make([]string, 0, len(terms))
	for _, term := range terms {
		if !seen[term] {
			seen[term] = true
			unique = append(unique, term)
		}
	}

	lists := make([][]postings.WeightedPosting, 0, len(unique))
	for _, term := range unique {
		list, err := e.reader.PostingList(term)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}

	documents := intersectAll(lists)
	if len(documents) == 0 {
		documents = mergeAll(lists)
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].TfIdf > documents[j].TfIdf
	})

	limit := e.maxResults
	if limit > len(documents) {
		limit = len(documents)
	}

	results := make([]Result, 0, limit)
	for _, p := range documents[:limit] {
		url, ok := e.docIDs.URL(p.DocID)
		if !ok {
			continue
		}
		results = append(results, Result{URL: url, Score: p.TfIdf})
	}

	return results, nil
}

// intersectAll intersects every posting list in lists, accumulating
// tf_idf on docID collision. Lists are processed shortest-first so each
// intersection pass works against the smallest possible accumulator.
// An empty lists slice, or any single empty posting list, yields an
// empty result (no document contains every query term).
func intersectAll(lists [][]postings.WeightedPosting) []postings.WeightedPosting {
	if len(lists) == 0 {
		return nil
	}

	sorted := make([][]postings.WeightedPosting, len(lists))
	copy(sorted, lists)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) < len(sorted[j]) })

	result := sorted[0]
	for i := 1; i < len(sorted) && len(result) > 0; i++ {
		result = intersectTwo(result, sorted[i])
	}
	return result
}

func intersectTwo(a, b []postings.WeightedPosting) []postings.WeightedPosting {
	out := make([]postings.WeightedPosting, 0, minInt(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID == b[j].DocID:
			out = append(out, postings.WeightedPosting{DocID: a[i].DocID, TfIdf: a[i].TfIdf + b[j].TfIdf})
			i++
			j++
		case a[i].DocID < b[j].DocID:
			i++
		default:
			j++
		}
	}
	return out
}

// mergeAll unions every posting list, summing tf_idf on docID collision
// and carrying through postings that appear in only one list. Used as
// the OR fallback when no document matches every query term.
func mergeAll(lists [][]postings.WeightedPosting) []postings.WeightedPosting {
	var result []postings.WeightedPosting
	for _, list := range lists {
		if result == nil {
			result = list
			continue
		}
		result = mergeTwo(result, list)
	}
	return result
}

func mergeTwo(a, b []postings.WeightedPosting) []postings.WeightedPosting {
	out := make([]postings.WeightedPosting, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].DocID == b[j].DocID:
			out = append(out, postings.WeightedPosting{DocID: a[i].DocID, TfIdf: a[i].TfIdf + b[j].TfIdf})
			i++
			j++
		case a[i].DocID < b[j].DocID:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Normalize is exported for callers (the console REPL, the web front
// end) that want to trim a raw query before logging it, independent of
// tokenization.
func Normalize(query string) string {
	return strings.TrimSpace(query)
}
