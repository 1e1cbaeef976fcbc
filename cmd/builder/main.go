// Command builder runs the SPIMI index build over a configured corpus,
// producing the final index, its offset map, and the doc-ID table.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mnohosten/spimi-index/pkg/build"
	"github.com/mnohosten/spimi-index/pkg/config"
	"github.com/mnohosten/spimi-index/pkg/indexerr"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	result, err := build.New(cfg).Run()
	if err != nil {
		if errors.Is(err, indexerr.ErrMissingIndexDir) {
			fmt.Fprintln(os.Stderr, "build aborted: index directory was not created")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("indexed %d document(s)\n", result.DocumentCount)
	fmt.Printf("index:        %s\n", result.IndexPath)
	fmt.Printf("offset map:   %s\n", result.OffsetMapPath)
	fmt.Printf("doc-id table: %s\n", result.DocIDTablePath)
}
