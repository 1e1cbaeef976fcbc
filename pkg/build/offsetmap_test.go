package build

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mnohosten/spimi-index/pkg/postings"
)

func TestBuildOffsetMapConsistency(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.jsonl")
	offsetPath := filepath.Join(dir, "indexOfIndex.json")

	entries := []postings.WeightedTermEntry{
		{Term: "apple", Postings: []postings.WeightedPosting{{DocID: 0, TfIdf: 1.5}}},
		{Term: "mango", Postings: []postings.WeightedPosting{{DocID: 1, TfIdf: 2.5}}},
		{Term: "zebra", Postings: []postings.WeightedPosting{{DocID: 2, TfIdf: 0.5}}},
	}

	f, err := os.Create(indexPath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, e := range entries {
		line, err := postings.EncodeWeighted(e)
		if err != nil {
			t.Fatalf("EncodeWeighted: %v", err)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	f.Close()

	if err := BuildOffsetMap(indexPath, offsetPath); err != nil {
		t.Fatalf("BuildOffsetMap() error = %v", err)
	}

	data, err := os.ReadFile(offsetPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var offsets map[string]int64
	if err := json.Unmarshal(data, &offsets); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if len(offsets) != len(entries) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(entries))
	}

	idx, err := os.Open(indexPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer idx.Close()

	for term, offset := range offsets {
		if _, err := idx.Seek(offset, 0); err != nil {
			t.Fatalf("Seek: %v", err)
		}
		scanner := bufio.NewScanner(idx)
		if !scanner.Scan() {
			t.Fatalf("no line at offset %d for term %q", offset, term)
		}
		entry, err := postings.DecodeWeighted(scanner.Bytes())
		if err != nil {
			t.Fatalf("DecodeWeighted: %v", err)
		}
		if entry.Term != term {
			t.Fatalf("offset %d for term %q resolved to term %q", offset, term, entry.Term)
		}
	}
}
