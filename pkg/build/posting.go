package build

import (
	"github.com/mnohosten/spimi-index/pkg/config"
	"github.com/mnohosten/spimi-index/pkg/htmlextract"
	"github.com/mnohosten/spimi-index/pkg/postings"
	"github.com/mnohosten/spimi-index/pkg/tokenizer"
)

// BuildDocumentPostings tokenizes one document's HTML and returns a
// term->RawPosting map for docID. Every term in the document's visible
// text gets a base posting at importance 1; terms that also occur inside
// a configured weighted tag have their importance raised to that tag's
// weight. A term present in more than one weighted tag ends up with
// whichever tag was scanned last (deterministic scan order, unspecified
// winner by design).
func BuildDocumentPostings(docID int, rawHTML string, tok *tokenizer.Tokenizer, cfg *config.Config) (map[string]postings.RawPosting, error) {
	extracted, err := htmlextract.Extract(rawHTML, cfg.WeightedTags())
	if err != nil {
		return nil, err
	}

	terms := tok.Tokenize(extracted.Text)
	freq := tokenizer.TermFrequencies(terms)

	result := make(map[string]postings.RawPosting, len(freq))
	for term, tf := range freq {
		result[term] = postings.RawPosting{DocID: docID, TF: tf, I: cfg.DefaultImportance}
	}

	for _, tag := range cfg.WeightedTags() {
		weight := cfg.TagImportance[tag]
		for _, occurrence := range extracted.TagText[tag] {
			for _, term := range tok.Tokenize(occurrence) {
				if p, ok := result[term]; ok {
					p.I = weight
					result[term] = p
				}
			}
		}
	}

	return result, nil
}
