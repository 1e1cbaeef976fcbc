package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	if cfg.SpillThreshold != want.SpillThreshold || cfg.IndexFileName != want.IndexFileName {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadLayersPartialOverridesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{"corpusRoot": "/data/corpus", "spillThreshold": 500}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CorpusRoot != "/data/corpus" {
		t.Fatalf("CorpusRoot = %q, want /data/corpus", cfg.CorpusRoot)
	}
	if cfg.SpillThreshold != 500 {
		t.Fatalf("SpillThreshold = %d, want 500", cfg.SpillThreshold)
	}

	want := DefaultConfig()
	if cfg.IndexFileName != want.IndexFileName {
		t.Fatalf("IndexFileName = %q, want default %q", cfg.IndexFileName, want.IndexFileName)
	}
	if cfg.TagImportance["title"] != want.TagImportance["title"] {
		t.Fatalf("TagImportance not defaulted: %+v", cfg.TagImportance)
	}
}

func TestWeightedTagsIsSorted(t *testing.T) {
	cfg := DefaultConfig()
	tags := cfg.WeightedTags()

	for i := 1; i < len(tags); i++ {
		if tags[i-1] > tags[i] {
			t.Fatalf("WeightedTags() not sorted: %v", tags)
		}
	}
}
