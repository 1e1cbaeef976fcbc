package build

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/mnohosten/spimi-index/pkg/indexerr"
	"github.com/mnohosten/spimi-index/pkg/postings"
)

// RewriteTFIDF streams through the merged index at path, converting
// every posting from {docID, tf, i} to {docID, tf_idf}, and replaces the
// file in place via a temp-file-then-rename. numDocs is N in the TF-IDF
// formula; each term entry's df is its own posting-list length.
func RewriteTFIDF(path string, numDocs int) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", indexerr.ErrIOFailure, path, err)
	}
	defer in.Close()

	tmpPath := path + ".rewriting"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", indexerr.ErrIOFailure, tmpPath, err)
	}
	writer := bufio.NewWriter(out)

	err = postings.ReadLines(in, func(line []byte) error {
		entry, err := postings.DecodeRaw(line)
		if err != nil {
			return fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
		}

		df := len(entry.Postings)
		weighted := postings.WeightedTermEntry{
			Term:     entry.Term,
			Postings: make([]postings.WeightedPosting, len(entry.Postings)),
		}

		for i, p := range entry.Postings {
			weighted.Postings[i] = postings.WeightedPosting{
				DocID: p.DocID,
				TfIdf: tfIdf(p.I, p.TF, numDocs, df),
			}
		}

		outLine, err := postings.EncodeWeighted(weighted)
		if err != nil {
			return fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
		}
		if _, err := writer.Write(outLine); err != nil {
			return fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
		}
		return writer.WriteByte('\n')
	})
	if err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", indexerr.ErrIOFailure, tmpPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", indexerr.ErrIOFailure, tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %v", indexerr.ErrIOFailure, tmpPath, path, err)
	}

	return nil
}

// tfIdf computes i * (1 + log10(tf)) * log10(N/df). When df == N the
// IDF factor is 0 and the posting's score is 0, but the posting is still
// retained.
func tfIdf(importance, tf, numDocs, df int) float64 {
	if df == 0 {
		return 0
	}
	idf := math.Log10(float64(numDocs) / float64(df))
	return float64(importance) * (1 + math.Log10(float64(tf))) * idf
}

// finalIndexPath joins dir and name; the builder uses it for all three
// output artifacts.
func finalIndexPath(dir, name string) string {
	return filepath.Join(dir, name)
}
