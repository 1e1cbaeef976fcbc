// Package config holds the single configuration record read by both the
// builder and the searcher binaries.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// WebappConfig configures the searcher's optional HTTP front end.
type WebappConfig struct {
	Addr          string `json:"addr"`
	EnableGraphQL bool   `json:"enableGraphQL"`
}

// Config is the configuration record described by the external
// interfaces: corpus root, index output locations, the spill threshold,
// and the tag-importance table.
type Config struct {
	CorpusRoot        string         `json:"corpusRoot"`
	IndexDir          string         `json:"indexDir"`
	IndexFileName     string         `json:"indexFileName"`
	OffsetMapName     string         `json:"offsetMapName"`
	DocIDTableName    string         `json:"docIDTableName"`
	SpillThreshold    int            `json:"spillThreshold"`
	TagImportance     map[string]int `json:"tagImportance"`
	DefaultImportance int            `json:"defaultImportance"`
	MaxResults        int            `json:"maxResults"`
	Compress          bool           `json:"compress"`
	Webapp            WebappConfig   `json:"webapp"`
}

// DefaultConfig returns a configuration with sensible defaults. Every
// field here has a default so a missing or partial config file never
// leaves the builder or searcher without a usable value.
func DefaultConfig() *Config {
	return &Config{
		CorpusRoot:     "./corpus",
		IndexDir:       "./index",
		IndexFileName:  "index.jsonl",
		OffsetMapName:  "indexOfIndex.json",
		DocIDTableName: "docIDtoURL.txt",
		SpillThreshold: 1000,
		TagImportance: map[string]int{
			"title":  10,
			"h1":     5,
			"h2":     4,
			"h3":     3,
			"strong": 2,
		},
		DefaultImportance: 1,
		MaxResults:        5,
		Compress:          false,
		Webapp: WebappConfig{
			Addr:          ":8080",
			EnableGraphQL: false,
		},
	}
}

// Load reads a JSON configuration file at path and layers it over
// DefaultConfig's values, so any field omitted from the file keeps its
// default rather than zeroing out. A missing file is not fatal: Load
// falls back to DefaultConfig, since every field already has a sane
// default and the config file is a convenience, not a required artifact.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var overrides struct {
		CorpusRoot        *string        `json:"corpusRoot"`
		IndexDir          *string        `json:"indexDir"`
		IndexFileName     *string        `json:"indexFileName"`
		OffsetMapName     *string        `json:"offsetMapName"`
		DocIDTableName    *string        `json:"docIDTableName"`
		SpillThreshold    *int           `json:"spillThreshold"`
		TagImportance     map[string]int `json:"tagImportance"`
		DefaultImportance *int           `json:"defaultImportance"`
		MaxResults        *int           `json:"maxResults"`
		Compress          *bool          `json:"compress"`
		Webapp            *WebappConfig  `json:"webapp"`
	}

	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if overrides.CorpusRoot != nil {
		cfg.CorpusRoot = *overrides.CorpusRoot
	}
	if overrides.IndexDir != nil {
		cfg.IndexDir = *overrides.IndexDir
	}
	if overrides.IndexFileName != nil {
		cfg.IndexFileName = *overrides.IndexFileName
	}
	if overrides.OffsetMapName != nil {
		cfg.OffsetMapName = *overrides.OffsetMapName
	}
	if overrides.DocIDTableName != nil {
		cfg.DocIDTableName = *overrides.DocIDTableName
	}
	if overrides.SpillThreshold != nil {
		cfg.SpillThreshold = *overrides.SpillThreshold
	}
	if overrides.TagImportance != nil {
		cfg.TagImportance = overrides.TagImportance
	}
	if overrides.DefaultImportance != nil {
		cfg.DefaultImportance = *overrides.DefaultImportance
	}
	if overrides.MaxResults != nil {
		cfg.MaxResults = *overrides.MaxResults
	}
	if overrides.Compress != nil {
		cfg.Compress = *overrides.Compress
	}
	if overrides.Webapp != nil {
		cfg.Webapp = *overrides.Webapp
	}

	return cfg, nil
}

// Path resolves the configuration file path: the INDEX_CONFIG
// environment variable if set, otherwise "config.json".
func Path() string {
	if p := os.Getenv("INDEX_CONFIG"); p != "" {
		return p
	}
	return "config.json"
}

// WeightedTags returns the configured tag names in a stable order
// (lexicographic), used wherever a deterministic iteration order is
// convenient; the relative scan order among weighted tags is otherwise
// unspecified (see Posting Builder).
func (c *Config) WeightedTags() []string {
	tags := make([]string, 0, len(c.TagImportance))
	for tag := range c.TagImportance {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
