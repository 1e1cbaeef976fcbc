// Command searcher answers free-text queries against a previously built
// index, either as a console REPL or, with --webapp, as an HTTP server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mnohosten/spimi-index/pkg/config"
	"github.com/mnohosten/spimi-index/pkg/docids"
	"github.com/mnohosten/spimi-index/pkg/query"
	"github.com/mnohosten/spimi-index/pkg/webapp"
)

func main() {
	webappFlag := flag.Bool("webapp", false, "serve search over HTTP instead of the console REPL")
	flag.Parse()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	indexPath := filepath.Join(cfg.IndexDir, cfg.IndexFileName)
	offsetMapPath := filepath.Join(cfg.IndexDir, cfg.OffsetMapName)
	docIDTablePath := filepath.Join(cfg.IndexDir, cfg.DocIDTableName)

	reader, err := query.OpenReader(indexPath, offsetMapPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open index: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	table, err := docids.LoadFile(docIDTablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load doc-id table: %v\n", err)
		os.Exit(1)
	}

	evaluator := query.NewEvaluator(reader, table, cfg.MaxResults)

	if *webappFlag {
		srv := webapp.New(&cfg.Webapp, evaluator)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runConsole(evaluator)
}

// runConsole reads queries from stdin until an empty line is entered,
// printing ranked URLs and elapsed search time for each.
func runConsole(evaluator *query.Evaluator) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("Input Query: ")
		if !scanner.Scan() {
			return
		}

		q := query.Normalize(scanner.Text())
		if q == "" {
			return
		}

		start := time.Now()
		results, err := evaluator.Search(q)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("no results: %v\n", err)
			continue
		}

		fmt.Printf("(Search Time: %.4f seconds)\n", elapsed.Seconds())
		for rank, result := range results {
			fmt.Printf("%d: %s\n", rank+1, result.URL)
		}
	}
}
