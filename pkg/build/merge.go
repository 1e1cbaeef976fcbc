package build

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mnohosten/spimi-index/pkg/indexerr"
	"github.com/mnohosten/spimi-index/pkg/postings"
)

// Merge repeatedly pairs up the partial-index files under dir and
// 2-way-merges each pair until exactly one remains, then returns its
// path. An odd file in any pass is left untouched and carries over to
// the next pass. Merged output files are always written uncompressed:
// by the time merging starts the transient disk-savings benefit of
// spill-file compression has already been realized, and every
// intermediate file must be plain-text seekable for the final pass to
// hand the offset-map builder a byte-addressable file.
func Merge(dir string) (string, error) {
	for {
		files, err := partialIndexFiles(dir)
		if err != nil {
			return "", err
		}

		if len(files) == 0 {
			return "", fmt.Errorf("%w: no partial index files to merge in %s", indexerr.ErrIOFailure, dir)
		}
		if len(files) == 1 {
			return finalizeSingle(dir, files[0])
		}

		// An odd file out is simply not consumed this pass; it stays on
		// disk under its original name and is picked up again the next
		// time partialIndexFiles re-globs the directory.
		for i := 0; i+1 < len(files); i += 2 {
			if _, err := mergeTwo(dir, files[i], files[i+1]); err != nil {
				return "", err
			}
		}
	}
}

// finalizeSingle returns path unchanged when it is already a plain-text
// partial index, or decompresses it into a new uncompressed
// partial-index file otherwise. A corpus small enough to spill exactly
// once never enters mergeTwo, so compressed spills have to be unwrapped
// here to preserve Merge's uncompressed-output invariant.
func finalizeSingle(dir, path string) (string, error) {
	if filepath.Ext(path) != ".zst" {
		return path, nil
	}

	scanner, closeFn, err := openPartialIndex(path)
	if err != nil {
		return "", err
	}
	defer closeFn()

	out, err := os.CreateTemp(dir, partialIndexPrefix+"*.jsonl")
	if err != nil {
		return "", fmt.Errorf("%w: create merge output in %s: %v", indexerr.ErrIOFailure, dir, err)
	}
	outPath := out.Name()
	writer := bufio.NewWriter(out)

	for line, ok := nextLine(scanner); ok; line, ok = nextLine(scanner) {
		if err := writeLine(writer, line); err != nil {
			return "", err
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: scan %s: %v", indexerr.ErrIOFailure, path, err)
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("%w: flush %s: %v", indexerr.ErrIOFailure, outPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %v", indexerr.ErrIOFailure, outPath, err)
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("%w: remove %s: %v", indexerr.ErrIOFailure, path, err)
	}

	return outPath, nil
}

// partialIndexFiles lists partial-index files under dir in
// lexicographic order by name. Spill sequence numbers are zero-padded,
// so spill files sort in spill order; merge outputs have OS-assigned
// names and can sort anywhere among them.
func partialIndexFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", indexerr.ErrIOFailure, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), partialIndexPrefix) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// mergeTwo performs the classic two-pointer sorted-line merge of a and
// b, writing the result to a new partial-index file under dir, then
// unlinks both inputs. The output gets an OS-assigned unique name
// (still under the partial-index prefix, so the next pass picks it up)
// rather than a counter-derived one, because a counter reset per pass
// can collide with a spill-time file name the merge hasn't consumed yet.
func mergeTwo(dir, a, b string) (string, error) {
	scanA, closeA, err := openPartialIndex(a)
	if err != nil {
		return "", err
	}
	defer closeA()

	scanB, closeB, err := openPartialIndex(b)
	if err != nil {
		return "", err
	}
	defer closeB()

	out, err := os.CreateTemp(dir, partialIndexPrefix+"*.jsonl")
	if err != nil {
		return "", fmt.Errorf("%w: create merge output in %s: %v", indexerr.ErrIOFailure, dir, err)
	}
	outPath := out.Name()
	writer := bufio.NewWriter(out)

	lineA, okA := nextLine(scanA)
	lineB, okB := nextLine(scanB)

	for okA && okB {
		termA, err := postings.PeekTerm(lineA)
		if err != nil {
			return "", fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
		}
		termB, err := postings.PeekTerm(lineB)
		if err != nil {
			return "", fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
		}

		switch {
		case termA == termB:
			entryA, err := postings.DecodeRaw(lineA)
			if err != nil {
				return "", fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
			}
			entryB, err := postings.DecodeRaw(lineB)
			if err != nil {
				return "", fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
			}
			// Partial files cover disjoint docID ranges by
			// construction, so concatenation (not a merge) preserves
			// the strict-ascending docID invariant once the list with
			// the lower docIDs is placed first. Either input can hold
			// the lower range: merge outputs carry OS-assigned names
			// that may sort before or after a remaining spill file.
			first, second := entryA.Postings, entryB.Postings
			if len(first) > 0 && len(second) > 0 && first[0].DocID > second[0].DocID {
				first, second = second, first
			}
			merged := postings.RawTermEntry{
				Term:     termA,
				Postings: append(append([]postings.RawPosting(nil), first...), second...),
			}
			if err := writeRawLine(writer, merged); err != nil {
				return "", err
			}
			lineA, okA = nextLine(scanA)
			lineB, okB = nextLine(scanB)

		case termA < termB:
			if err := writeLine(writer, lineA); err != nil {
				return "", err
			}
			lineA, okA = nextLine(scanA)

		default:
			if err := writeLine(writer, lineB); err != nil {
				return "", err
			}
			lineB, okB = nextLine(scanB)
		}
	}

	for okA {
		if err := writeLine(writer, lineA); err != nil {
			return "", err
		}
		lineA, okA = nextLine(scanA)
	}
	for okB {
		if err := writeLine(writer, lineB); err != nil {
			return "", err
		}
		lineB, okB = nextLine(scanB)
	}

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("%w: flush %s: %v", indexerr.ErrIOFailure, outPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %v", indexerr.ErrIOFailure, outPath, err)
	}

	if err := os.Remove(a); err != nil {
		return "", fmt.Errorf("%w: remove %s: %v", indexerr.ErrIOFailure, a, err)
	}
	if err := os.Remove(b); err != nil {
		return "", fmt.Errorf("%w: remove %s: %v", indexerr.ErrIOFailure, b, err)
	}

	return outPath, nil
}

func nextLine(scanner *bufio.Scanner) ([]byte, bool) {
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		return append([]byte(nil), line...), true
	}
	return nil, false
}

func writeLine(w *bufio.Writer, line []byte) error {
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
	}
	return w.WriteByte('\n')
}

func writeRawLine(w *bufio.Writer, entry postings.RawTermEntry) error {
	line, err := postings.EncodeRaw(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", indexerr.ErrIOFailure, err)
	}
	return writeLine(w, line)
}
