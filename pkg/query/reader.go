// Package query implements the disk-backed posting reader and the query
// evaluator that ranks documents for a free-text query against an index
// built by pkg/build.
package query

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mnohosten/spimi-index/pkg/postings"
)

// Reader serves posting lists for terms out of a finished index file,
// using the offset map to seek directly to each term's line rather than
// scanning the file. A Reader is safe for concurrent use: reads share one
// open file handle serialized behind a mutex, since os.File.Seek followed
// by a read is not itself atomic.
type Reader struct {
	mu      sync.Mutex
	file    *os.File
	offsets map[string]int64
	bloom   *bloomFilter
}

// OpenReader opens the index file at indexPath and loads the offset map
// at offsetMapPath into memory. It also builds an in-memory bloom filter
// over the known terms so that lookups for terms absent from the index
// can be rejected without a seek, per the optional fast-negative
// pre-check described for the Posting Reader.
func OpenReader(indexPath, offsetMapPath string) (*Reader, error) {
	data, err := os.ReadFile(offsetMapPath)
	if err != nil {
		return nil, fmt.Errorf("read offset map %s: %w", offsetMapPath, err)
	}

	var offsets map[string]int64
	if err := json.Unmarshal(data, &offsets); err != nil {
		return nil, fmt.Errorf("parse offset map %s: %w", offsetMapPath, err)
	}

	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", indexPath, err)
	}

	bf := newBloomFilter(len(offsets), 4)
	for term := range offsets {
		bf.Add([]byte(term))
	}

	return &Reader{file: f, offsets: offsets, bloom: bf}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

// PostingList returns the weighted posting list for term, or nil if the
// term does not appear in the index. A nil, nil result is the documented
// behavior for unknown terms: callers must not treat it as an error.
func (r *Reader) PostingList(term string) ([]postings.WeightedPosting, error) {
	if !r.bloom.MayContain([]byte(term)) {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	offset, ok := r.offsets[term]
	if !ok {
		return nil, nil
	}

	if _, err := r.file.Seek(offset, 0); err != nil {
		return nil, fmt.Errorf("seek to %q at %d: %w", term, offset, err)
	}

	scanner := bufio.NewScanner(r.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read posting list for %q: %w", term, err)
		}
		return nil, fmt.Errorf("read posting list for %q: unexpected EOF", term)
	}

	entry, err := postings.DecodeWeighted(scanner.Bytes())
	if err != nil {
		return nil, fmt.Errorf("decode posting list for %q: %w", term, err)
	}

	return entry.Postings, nil
}
