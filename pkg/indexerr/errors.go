// Package indexerr collects the sentinel errors shared across the build
// and query packages.
package indexerr

import "errors"

var (
	// ErrMalformedDocument is returned when a corpus document's JSON
	// cannot be parsed, or its url/content field is missing or empty.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMissingCorpus is returned when the configured corpus path does
	// not exist at builder start.
	ErrMissingCorpus = errors.New("corpus path does not exist")

	// ErrMissingIndexDir is returned when the configured index output
	// directory does not exist and the operator declines to create it.
	ErrMissingIndexDir = errors.New("index directory does not exist")

	// ErrIOFailure wraps a fatal disk I/O error encountered during
	// spill, merge, or rewrite.
	ErrIOFailure = errors.New("index build I/O failure")

	// ErrEmptyQuery is returned by the query evaluator when a query
	// yields no admissible terms. The console REPL ends on a blank input
	// line before calling the evaluator.
	ErrEmptyQuery = errors.New("empty query")
)
