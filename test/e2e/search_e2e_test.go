package e2e

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mnohosten/spimi-index/pkg/build"
	"github.com/mnohosten/spimi-index/pkg/config"
	"github.com/mnohosten/spimi-index/pkg/docids"
	"github.com/mnohosten/spimi-index/pkg/query"
)

type e2eDoc struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

func writeE2EDoc(t *testing.T, corpusRoot, name string, doc e2eDoc) {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	folder := filepath.Join(corpusRoot, "batch")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// buildAndOpen runs a full build over corpusRoot and returns an Evaluator
// backed by the resulting index, exercising the builder and query
// packages together the way the two cmd binaries wire them.
func buildAndOpen(t *testing.T, corpusRoot string) *query.Evaluator {
	t.Helper()

	indexDir := filepath.Join(t.TempDir(), "index")
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.CorpusRoot = corpusRoot
	cfg.IndexDir = indexDir
	cfg.SpillThreshold = 2

	result, err := build.New(cfg).Run()
	if err != nil {
		t.Fatalf("build.Run: %v", err)
	}

	reader, err := query.OpenReader(result.IndexPath, result.OffsetMapPath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { reader.Close() })

	table, err := docids.LoadFile(result.DocIDTablePath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	return query.NewEvaluator(reader, table, cfg.MaxResults)
}

func TestSearchE2ESingleTermHit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	corpusRoot := t.TempDir()
	writeE2EDoc(t, corpusRoot, "doc0.json", e2eDoc{
		URL:     "http://example.com/0",
		Content: "<html><head><title>Computer Science</title></head><body>computer science</body></html>",
	})
	writeE2EDoc(t, corpusRoot, "doc1.json", e2eDoc{
		URL:     "http://example.com/1",
		Content: "<html><body>biology</body></html>",
	})

	eval := buildAndOpen(t, corpusRoot)

	results, err := eval.Search("computer")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].URL != "http://example.com/0" {
		t.Fatalf("S1: got %+v, want exactly doc0", results)
	}
}

func TestSearchE2EAndIntersection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	corpusRoot := t.TempDir()
	writeE2EDoc(t, corpusRoot, "doc0.json", e2eDoc{
		URL:     "http://example.com/0",
		Content: "<html><head><title>Computer Science</title></head><body>computer science</body></html>",
	})
	writeE2EDoc(t, corpusRoot, "doc1.json", e2eDoc{
		URL:     "http://example.com/1",
		Content: "<html><body>biology</body></html>",
	})
	writeE2EDoc(t, corpusRoot, "doc2.json", e2eDoc{
		URL:     "http://example.com/2",
		Content: "<html><body>computer biology</body></html>",
	})

	eval := buildAndOpen(t, corpusRoot)

	results, err := eval.Search("computer biology")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("S2: expected exactly one AND-candidate (doc2), got %+v", results)
	}
	if results[0].URL != "http://example.com/2" {
		t.Fatalf("S2: expected doc2 first, got %+v", results[0])
	}
}

func TestSearchE2EAndEmptyFallsBackToOr(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	corpusRoot := t.TempDir()
	writeE2EDoc(t, corpusRoot, "doc0.json", e2eDoc{
		URL:     "http://example.com/0",
		Content: "<html><body>computer computer</body></html>",
	})
	writeE2EDoc(t, corpusRoot, "doc1.json", e2eDoc{
		URL:     "http://example.com/1",
		Content: "<html><body>biology</body></html>",
	})

	eval := buildAndOpen(t, corpusRoot)

	results, err := eval.Search("computer ornithology")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].URL != "http://example.com/0" {
		t.Fatalf("S3: expected OR fallback to surface doc0, got %+v", results)
	}
}

func TestSearchE2ETitleBoostChangesRankOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	corpusRoot := t.TempDir()
	writeE2EDoc(t, corpusRoot, "doc0.json", e2eDoc{
		URL:     "http://example.com/0",
		Content: "<html><head><title>widget</title></head><body></body></html>",
	})
	body := strings.Repeat("widget ", 10)
	writeE2EDoc(t, corpusRoot, "doc1.json", e2eDoc{
		URL:     "http://example.com/1",
		Content: "<html><body>" + body + "</body></html>",
	})
	// A document without "widget" keeps df below N, so the IDF factor
	// (and with it both scores) stays above zero.
	writeE2EDoc(t, corpusRoot, "doc2.json", e2eDoc{
		URL:     "http://example.com/2",
		Content: "<html><body>gadget</body></html>",
	})

	eval := buildAndOpen(t, corpusRoot)

	results, err := eval.Search("widget")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("S4: expected both documents, got %+v", results)
	}
	if results[0].URL != "http://example.com/0" {
		t.Fatalf("S4: expected title-boosted doc0 ranked first, got %+v", results)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("S4: expected doc0's score to exceed doc1's: %+v", results)
	}
}

func TestSearchE2EUnknownTermReturnsEmptyNoError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	corpusRoot := t.TempDir()
	writeE2EDoc(t, corpusRoot, "doc0.json", e2eDoc{
		URL:     "http://example.com/0",
		Content: "<html><body>computer</body></html>",
	})

	eval := buildAndOpen(t, corpusRoot)

	results, err := eval.Search("xyzzyqq")
	if err != nil {
		t.Fatalf("S5: expected no error for unknown term, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("S5: expected no results, got %+v", results)
	}
}

func TestSearchE2EConsoleEmptyInputScansAsEmptyLine(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	w.Write([]byte("\n"))
	w.Close()

	scanner := bufio.NewScanner(r)
	scanned := scanner.Scan()
	if !scanned {
		t.Fatalf("S6: expected to read one (empty) line before EOF")
	}
	if strings.TrimSpace(scanner.Text()) != "" {
		t.Fatalf("S6: expected empty input line")
	}
	// An empty line is the sentinel the console REPL (cmd/searcher) uses
	// to terminate the loop with no further query evaluation and no
	// farewell banner. This test checks only the input side; the REPL
	// itself lives in package main and is not run here.
}
