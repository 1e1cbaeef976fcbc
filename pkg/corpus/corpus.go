// Package corpus walks the two-level corpus directory tree and yields
// well-formed documents in a deterministic order, skipping malformed or
// empty ones without letting them consume a document ID.
package corpus

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mnohosten/spimi-index/pkg/indexerr"
)

// Document is one corpus record: its source URL and raw HTML content.
type Document struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Walk visits root/*/*, one file per leaf, in the order os.ReadDir yields
// directory entries (lexicographic by name, so traversal is
// deterministic and repeatable). Each well-formed document is passed to
// fn in visitation order; the caller assigns docIDs in the order of
// these calls, so fn must not skip or reorder on its own.
//
// A document is malformed when its file cannot be read, its JSON cannot
// be parsed, or its url/content field is missing or empty; such
// documents are logged and skipped, never passed to fn, and never
// consume a docID.
func Walk(root string, fn func(doc Document) error) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("%w: %s", indexerr.ErrMissingCorpus, root)
	}

	folders, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read corpus root %s: %w", root, err)
	}

	for _, folder := range folders {
		if !folder.IsDir() {
			continue
		}

		folderPath := filepath.Join(root, folder.Name())
		entries, err := os.ReadDir(folderPath)
		if err != nil {
			return fmt.Errorf("read corpus folder %s: %w", folderPath, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			docPath := filepath.Join(folderPath, entry.Name())
			doc, ok := readDocument(docPath)
			if !ok {
				continue
			}

			if err := fn(doc); err != nil {
				return err
			}
		}
	}

	return nil
}

// readDocument loads and validates a single corpus file. Any failure is
// logged as a malformed-document warning and reported via ok=false; the
// caller must not consume a docID for it.
func readDocument(path string) (Document, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("skip %s: %v: %v", path, indexerr.ErrMalformedDocument, err)
		return Document{}, false
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("skip %s: %v: %v", path, indexerr.ErrMalformedDocument, err)
		return Document{}, false
	}

	if doc.URL == "" || doc.Content == "" {
		log.Printf("skip %s: %v: missing url or content", path, indexerr.ErrMalformedDocument)
		return Document{}, false
	}

	return doc, true
}
