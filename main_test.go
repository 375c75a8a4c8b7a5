package main

import (
	"testing"

	"tube-downloader/internal/config"
	"tube-downloader/internal/dedupe"
)

func TestFindDuplicatesHonorsExplicitThreshold(t *testing.T) {
	// Pair chosen to score between the basic and smart defaults
	titles := []string{"Winter Storm", "Winter Stars"}
	score := dedupe.Similarity(titles[0], titles[1])
	if score < 80 || score >= 85 {
		t.Fatalf("precondition: similarity = %d, want within [80,85)", score)
	}

	cfg := &config.Config{SmartDedupe: true, DuplicateThreshold: 80}
	groups, flagged := findDuplicates(titles, cfg)
	if len(groups) != 1 || len(flagged) != 2 {
		t.Errorf("explicit threshold 80 in smart mode should group the pair, got groups=%v flagged=%v", groups, flagged)
	}

	cfg = &config.Config{SmartDedupe: true}
	groups, _ = findDuplicates(titles, cfg)
	if len(groups) != 0 {
		t.Errorf("unset threshold should fall back to the smart default of 85, got groups=%v", groups)
	}
}

func TestFindDuplicatesModeSelection(t *testing.T) {
	// Identical songs behind different artist prefixes only match in smart mode
	titles := []string{"The Midnight Orchestra - My Song", "DJ Quantum - My Song"}

	groups, _ := findDuplicates(titles, &config.Config{SmartDedupe: true})
	if len(groups) != 1 {
		t.Errorf("smart mode should match same song under different artists, got %v", groups)
	}

	groups, _ = findDuplicates(titles, &config.Config{SmartDedupe: false})
	if len(groups) != 0 {
		t.Errorf("basic mode keeps artist prefixes apart, got %v", groups)
	}
}
