// Package docids holds the ordered docID->URL table produced by a build
// and read back by the query evaluator.
package docids

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mnohosten/spimi-index/pkg/indexerr"
)

// Table is an ordered sequence of URLs keyed by docID via list position.
type Table struct {
	urls []string
}

// New creates an empty Table.
func New() *Table {
	return &Table{}
}

// Append adds a URL and returns the docID assigned to it (its index).
// Callers must call Append exactly once per successfully ingested
// document, in ingestion order, for docIDs to stay dense and monotonic.
func (t *Table) Append(url string) int {
	t.urls = append(t.urls, url)
	return len(t.urls) - 1
}

// Len returns the number of documents in the table.
func (t *Table) Len() int {
	return len(t.urls)
}

// Truncate drops every entry from docID n onward, used to roll back an
// Append when the document it was assigned to later turns out to be
// unusable, so docIDs stay dense with no gap.
func (t *Table) Truncate(n int) {
	if n < len(t.urls) {
		t.urls = t.urls[:n]
	}
}

// URL returns the URL for docID, or false if docID is out of range.
func (t *Table) URL(docID int) (string, bool) {
	if docID < 0 || docID >= len(t.urls) {
		return "", false
	}
	return t.urls[docID], true
}

// WriteFile persists the table as one URL per line, line N (0-indexed)
// mapping to docID N.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", indexerr.ErrIOFailure, path, err)
	}
	defer f.Close()

	writer := bufio.NewWriter(f)
	for _, url := range t.urls {
		if _, err := writer.WriteString(url); err != nil {
			return fmt.Errorf("%w: write %s: %v", indexerr.ErrIOFailure, path, err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: write %s: %v", indexerr.ErrIOFailure, path, err)
		}
	}

	return writer.Flush()
}

// LoadFile reads a doc-ID table previously written by WriteFile.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", indexerr.ErrIOFailure, path, err)
	}
	defer f.Close()

	table := New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		table.Append(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", indexerr.ErrIOFailure, path, err)
	}

	return table, nil
}
