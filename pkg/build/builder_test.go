package build

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mnohosten/spimi-index/pkg/config"
	"github.com/mnohosten/spimi-index/pkg/docids"
	"github.com/mnohosten/spimi-index/pkg/indexerr"
	"github.com/mnohosten/spimi-index/pkg/postings"
)

type testDoc struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

func writeCorpusDoc(t *testing.T, root, folder, name string, doc testDoc) {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestBuilderRunProducesConsistentArtifacts(t *testing.T) {
	corpusRoot := t.TempDir()
	indexDir := filepath.Join(t.TempDir(), "index")
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	writeCorpusDoc(t, corpusRoot, "a", "doc0.json", testDoc{
		URL:     "http://example.com/0",
		Content: "<html><head><title>Computer Science</title></head><body>computer science</body></html>",
	})
	writeCorpusDoc(t, corpusRoot, "a", "doc1.json", testDoc{
		URL:     "http://example.com/1",
		Content: "<html><body>biology</body></html>",
	})
	writeCorpusDoc(t, corpusRoot, "b", "doc2.json", testDoc{
		URL:     "http://example.com/2",
		Content: "<html><body>computer biology</body></html>",
	})

	cfg := config.DefaultConfig()
	cfg.CorpusRoot = corpusRoot
	cfg.IndexDir = indexDir
	cfg.SpillThreshold = 1 // force multiple spills/merges across 3 docs

	b := New(cfg)
	result, err := b.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.DocumentCount != 3 {
		t.Fatalf("DocumentCount = %d, want 3", result.DocumentCount)
	}

	table, err := docids.LoadFile(result.DocIDTablePath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("doc-id table length = %d, want 3", table.Len())
	}
	if url, _ := table.URL(0); url != "http://example.com/0" {
		t.Fatalf("docID 0 URL = %q", url)
	}

	var terms []string
	err = postings.ReadLines(fileReader(t, result.IndexPath), func(line []byte) error {
		e, err := postings.DecodeWeighted(line)
		if err != nil {
			return err
		}
		terms = append(terms, e.Term)

		for i := 1; i < len(e.Postings); i++ {
			if e.Postings[i-1].DocID >= e.Postings[i].DocID {
				t.Fatalf("term %q postings not strictly ascending by docID: %+v", e.Term, e.Postings)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}

	for i := 1; i < len(terms); i++ {
		if terms[i-1] >= terms[i] {
			t.Fatalf("final index terms not strictly ascending: %v", terms)
		}
	}

	if _, err := os.Stat(result.OffsetMapPath); err != nil {
		t.Fatalf("offset map not written: %v", err)
	}
}

func TestBuilderRunCompressedSingleSpillProducesQueryableIndex(t *testing.T) {
	corpusRoot := t.TempDir()
	indexDir := filepath.Join(t.TempDir(), "index")
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	// A corpus small enough to fit in one spill never reaches mergeTwo,
	// exercising the Merge single-file pass-through path with
	// Compress=true.
	writeCorpusDoc(t, corpusRoot, "a", "doc0.json", testDoc{
		URL:     "http://example.com/0",
		Content: "<html><body>computer science</body></html>",
	})

	cfg := config.DefaultConfig()
	cfg.CorpusRoot = corpusRoot
	cfg.IndexDir = indexDir
	cfg.Compress = true

	result, err := New(cfg).Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.DocumentCount != 1 {
		t.Fatalf("DocumentCount = %d, want 1", result.DocumentCount)
	}

	var terms []string
	err = postings.ReadLines(fileReader(t, result.IndexPath), func(line []byte) error {
		e, err := postings.DecodeWeighted(line)
		if err != nil {
			return err
		}
		terms = append(terms, e.Term)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(terms) == 0 {
		t.Fatalf("expected the final index to hold decodable TF-IDF entries, got none")
	}
}

func TestBuilderRunMissingCorpusReturnsSentinelError(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CorpusRoot = filepath.Join(t.TempDir(), "does-not-exist")
	cfg.IndexDir = t.TempDir()

	if _, err := New(cfg).Run(); !errors.Is(err, indexerr.ErrMissingCorpus) {
		t.Fatalf("Run() error = %v, want wrapping %v", err, indexerr.ErrMissingCorpus)
	}
}

func TestEnsureIndexDirAcceptsExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := ensureIndexDir(dir); err != nil {
		t.Fatalf("ensureIndexDir on an existing directory should not prompt or fail: %v", err)
	}
}
