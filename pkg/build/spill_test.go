package build

import (
	"testing"

	"github.com/mnohosten/spimi-index/pkg/postings"
)

func TestWriteSpillCompressedRoundTripsThroughOpenPartialIndex(t *testing.T) {
	dir := t.TempDir()
	entries := []postings.RawTermEntry{
		{Term: "apple", Postings: []postings.RawPosting{{DocID: 0, TF: 1, I: 1}}},
		{Term: "zebra", Postings: []postings.RawPosting{{DocID: 1, TF: 2, I: 1}}},
	}

	path, err := WriteSpill(dir, 0, entries, true)
	if err != nil {
		t.Fatalf("WriteSpill: %v", err)
	}
	if got := path[len(path)-4:]; got != ".zst" {
		t.Fatalf("expected a .zst spill file, got %s", path)
	}

	scanner, closeFn, err := openPartialIndex(path)
	if err != nil {
		t.Fatalf("openPartialIndex: %v", err)
	}
	defer closeFn()

	var terms []string
	for line, ok := nextLine(scanner); ok; line, ok = nextLine(scanner) {
		e, err := postings.DecodeRaw(line)
		if err != nil {
			t.Fatalf("DecodeRaw: %v", err)
		}
		terms = append(terms, e.Term)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner: %v", err)
	}

	if len(terms) != 2 || terms[0] != "apple" || terms[1] != "zebra" {
		t.Fatalf("unexpected decoded terms: %v", terms)
	}
}
