// Package build implements the SPIMI-style builder pipeline: ingest the
// corpus, accumulate and spill partial indexes, balanced-merge them into
// one file, rewrite postings with TF-IDF weights, and produce the
// offset map and doc-ID table that let a searcher query the result.
package build

import (
	"fmt"
	"log"
	"os"

	"github.com/mnohosten/spimi-index/pkg/config"
	"github.com/mnohosten/spimi-index/pkg/corpus"
	"github.com/mnohosten/spimi-index/pkg/docids"
	"github.com/mnohosten/spimi-index/pkg/indexerr"
	"github.com/mnohosten/spimi-index/pkg/tokenizer"
)

// Result reports the paths of the three artifacts a build produces.
type Result struct {
	IndexPath      string
	OffsetMapPath  string
	DocIDTablePath string
	DocumentCount  int
}

// Builder owns the mutable state of one build run: the accumulator, the
// docID table, and the spill sequence counter. There is no process-wide
// state; every build gets its own Builder.
type Builder struct {
	cfg         *config.Config
	tok         *tokenizer.Tokenizer
	accumulator *Accumulator
	docIDs      *docids.Table
	spillSeq    int
}

// New creates a Builder for cfg.
func New(cfg *config.Config) *Builder {
	return &Builder{
		cfg:         cfg,
		tok:         tokenizer.New(),
		accumulator: NewAccumulator(cfg.SpillThreshold),
		docIDs:      docids.New(),
	}
}

// Run executes the full pipeline: corpus walk with inline accumulation
// and spilling, balanced merge, TF-IDF rewrite, offset-map construction,
// and doc-ID table persistence. It returns the three output paths.
func (b *Builder) Run() (Result, error) {
	if _, err := os.Stat(b.cfg.CorpusRoot); err != nil {
		return Result{}, fmt.Errorf("%w: %s", indexerr.ErrMissingCorpus, b.cfg.CorpusRoot)
	}

	if err := ensureIndexDir(b.cfg.IndexDir); err != nil {
		return Result{}, err
	}

	walkErr := corpus.Walk(b.cfg.CorpusRoot, func(doc corpus.Document) error {
		docID := b.docIDs.Append(doc.URL)

		docPostings, err := BuildDocumentPostings(docID, doc.Content, b.tok, b.cfg)
		if err != nil {
			// A single document's HTML failing to parse is a malformed
			// document, not a fatal build error: log and move on
			// without consuming the docID we already assigned. Since
			// docIDs must stay dense, we roll the table back by one.
			log.Printf("skip %s: %v: %v", doc.URL, indexerr.ErrMalformedDocument, err)
			b.docIDs.Truncate(docID)
			return nil
		}

		b.accumulator.AddDocument(docPostings)

		if b.accumulator.ShouldSpill() {
			return b.spill()
		}
		return nil
	})
	if walkErr != nil {
		return Result{}, walkErr
	}

	if !b.accumulator.Empty() {
		if err := b.spill(); err != nil {
			return Result{}, err
		}
	}

	mergedPath, err := Merge(b.cfg.IndexDir)
	if err != nil {
		return Result{}, err
	}

	indexPath := finalIndexPath(b.cfg.IndexDir, b.cfg.IndexFileName)
	if err := os.Rename(mergedPath, indexPath); err != nil {
		return Result{}, fmt.Errorf("%w: rename %s to %s: %v", indexerr.ErrIOFailure, mergedPath, indexPath, err)
	}

	if err := RewriteTFIDF(indexPath, b.docIDs.Len()); err != nil {
		return Result{}, err
	}

	offsetMapPath := finalIndexPath(b.cfg.IndexDir, b.cfg.OffsetMapName)
	if err := BuildOffsetMap(indexPath, offsetMapPath); err != nil {
		return Result{}, err
	}

	docIDTablePath := finalIndexPath(b.cfg.IndexDir, b.cfg.DocIDTableName)
	if err := b.docIDs.WriteFile(docIDTablePath); err != nil {
		return Result{}, err
	}

	return Result{
		IndexPath:      indexPath,
		OffsetMapPath:  offsetMapPath,
		DocIDTablePath: docIDTablePath,
		DocumentCount:  b.docIDs.Len(),
	}, nil
}

func (b *Builder) spill() error {
	entries := b.accumulator.Drain()
	if len(entries) == 0 {
		return nil
	}
	_, err := WriteSpill(b.cfg.IndexDir, b.spillSeq, entries, b.cfg.Compress)
	b.spillSeq++
	return err
}

// ensureIndexDir checks that the configured index directory exists,
// prompting once on stdin to create it if missing; refusal is fatal.
func ensureIndexDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}

	fmt.Printf("index directory %s does not exist. Create it? [y/n]: ", dir)
	var answer string
	fmt.Scanln(&answer)

	if answer != "y" && answer != "Y" {
		return fmt.Errorf("%w: %s", indexerr.ErrMissingIndexDir, dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", indexerr.ErrIOFailure, dir, err)
	}
	return nil
}
