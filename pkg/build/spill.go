package build

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mnohosten/spimi-index/pkg/compression"
	"github.com/mnohosten/spimi-index/pkg/indexerr"
	"github.com/mnohosten/spimi-index/pkg/postings"
)

// partialIndexPrefix names every spilled partial-index file; the merger
// globs on this prefix to find them.
const partialIndexPrefix = "partialIndex"

// spillFileName returns the name of the seq-th partial index file.
// Compressed spills get a ".zst" suffix so the merger knows to
// decompress them without needing to sniff file contents.
func spillFileName(seq int, compressed bool) string {
	name := fmt.Sprintf("%s%06d.jsonl", partialIndexPrefix, seq)
	if compressed {
		name += ".zst"
	}
	return name
}

// WriteSpill writes entries (already in ascending term order) to a new
// partial-index file under dir, one term entry per line. When compress
// is true the whole file is zstd-compressed with a
// compression.Compressor; the merger transparently decompresses it back
// into a line reader.
func WriteSpill(dir string, seq int, entries []postings.RawTermEntry, compress bool) (string, error) {
	path := filepath.Join(dir, spillFileName(seq, compress))

	var buf []byte
	for _, entry := range entries {
		line, err := postings.EncodeRaw(entry)
		if err != nil {
			return "", fmt.Errorf("%w: encode spill entry %q: %v", indexerr.ErrIOFailure, entry.Term, err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	if compress {
		compressor, err := compression.NewCompressor()
		if err != nil {
			return "", fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
		}
		defer compressor.Close()

		buf, err = compressor.Compress(buf)
		if err != nil {
			return "", fmt.Errorf("%w: compress spill: %v", indexerr.ErrIOFailure, err)
		}
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("%w: write spill %s: %v", indexerr.ErrIOFailure, path, err)
	}

	return path, nil
}

// openPartialIndex opens a (possibly compressed) partial-index file for
// line-by-line reading, transparently decompressing ".zst" files into a
// buffered in-memory reader.
func openPartialIndex(path string) (*bufio.Scanner, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", indexerr.ErrIOFailure, path, err)
	}

	if filepath.Ext(path) != ".zst" {
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		return scanner, f.Close, nil
	}

	compressed, err := io.ReadAll(f)
	closeErr := f.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", indexerr.ErrIOFailure, path, err)
	}
	if closeErr != nil {
		return nil, nil, fmt.Errorf("%w: close %s: %v", indexerr.ErrIOFailure, path, closeErr)
	}

	compressor, err := compression.NewCompressor()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
	}
	defer compressor.Close()

	plain, err := compressor.Decompress(compressed)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decompress %s: %v", indexerr.ErrIOFailure, path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(plain))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return scanner, func() error { return nil }, nil
}
