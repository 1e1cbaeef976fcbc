package build

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mnohosten/spimi-index/pkg/indexerr"
	"github.com/mnohosten/spimi-index/pkg/postings"
)

// BuildOffsetMap streams through the final (rewritten) index at
// indexPath, recording the starting byte offset of every line before
// reading it, and writes a dense term->offset map as JSON to outPath.
// The map is dense (every term in the index gets an entry) because the
// Posting Reader never falls back to a linear scan on a miss.
func BuildOffsetMap(indexPath, outPath string) error {
	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", indexerr.ErrIOFailure, indexPath, err)
	}
	defer f.Close()

	offsets := make(map[string]int64)
	reader := bufio.NewReader(f)

	var pos int64
	for {
		lineStart := pos
		line, err := reader.ReadBytes('\n')
		pos += int64(len(line))

		trimmed := trimNewline(line)
		if len(trimmed) > 0 {
			term, perr := postings.PeekTerm(trimmed)
			if perr != nil {
				return fmt.Errorf("%w: parse line at offset %d: %v", indexerr.ErrIOFailure, lineStart, perr)
			}
			offsets[term] = lineStart
		}

		if err != nil {
			break
		}
	}

	data, err := json.MarshalIndent(offsets, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal offset map: %v", indexerr.ErrIOFailure, err)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", indexerr.ErrIOFailure, outPath, err)
	}

	return nil
}

func trimNewline(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
