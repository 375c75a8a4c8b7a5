package dedupe

import (
	"reflect"
	"sort"
	"testing"
)

func TestClusterEmptyAndSingleBatches(t *testing.T) {
	groups, flagged := Cluster(nil, 80, Basic)
	if len(groups) != 0 || len(flagged) != 0 {
		t.Errorf("empty batch: got groups=%v flagged=%v, want none", groups, flagged)
	}

	groups, flagged = Cluster([]string{"Only Song"}, 80, Basic)
	if len(groups) != 0 || len(flagged) != 0 {
		t.Errorf("single-track batch: got groups=%v flagged=%v, want none", groups, flagged)
	}
}

func TestClusterSmartEndToEnd(t *testing.T) {
	titles := []string{
		"Artist - My Song (Official Video)",
		"Artist2 - My Song [Lyrics]",
		"Unrelated Track",
	}

	groups, flagged := Cluster(titles, 85, Smart)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d: %v", len(groups), groups)
	}
	if got, want := groups[0], []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected group members: got %v want %v", got, want)
	}
	if got, want := flagged, []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected flagged indices: got %v want %v", got, want)
	}
}

func TestClusterChainsWithoutCliqueRequirement(t *testing.T) {
	// A links to B and B links to C, but A and C alone score below the
	// threshold. All three must still land in one group.
	a := "Song (Live)"
	b := "Song"
	c := "Song (Remix Extended Version XYZ)"
	threshold := 85

	if got := Similarity(a, b); got < threshold {
		t.Fatalf("precondition failed: sim(a,b) = %d, want >= %d", got, threshold)
	}
	if got := Similarity(b, c); got < threshold {
		t.Fatalf("precondition failed: sim(b,c) = %d, want >= %d", got, threshold)
	}
	if got := Similarity(a, c); got >= threshold {
		t.Fatalf("precondition failed: sim(a,c) = %d, want < %d", got, threshold)
	}

	groups, flagged := Cluster([]string{a, b, c}, threshold, Basic)
	if len(groups) != 1 {
		t.Fatalf("expected 1 chained group, got %d: %v", len(groups), groups)
	}
	if got, want := groups[0], []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected group members: got %v want %v", got, want)
	}
	if got, want := flagged, []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected flagged indices: got %v want %v", got, want)
	}
}

func TestClusterFlaggedEqualsUnionOfGroups(t *testing.T) {
	titles := []string{
		"Band - Hit Single",
		"Other Artist - Different Tune",
		"Band - Hit Single (Official Video)",
		"Standalone",
		"Different Tune",
		"Nothing Alike Here",
	}

	groups, flagged := Cluster(titles, 85, Smart)

	var union []int
	for _, group := range groups {
		if len(group) < 2 {
			t.Errorf("group %v has fewer than 2 members", group)
		}
		union = append(union, group...)
	}
	sort.Ints(union)

	if !reflect.DeepEqual(union, flagged) {
		t.Errorf("flagged %v differs from union of groups %v", flagged, union)
	}
}

func TestClusterSkipsUnscorableTitles(t *testing.T) {
	// Titles that normalize to nothing never match anything, including
	// each other.
	titles := []string{"HD", "(Official Video)", "Actual Song"}

	groups, flagged := Cluster(titles, 50, Basic)
	if len(groups) != 0 || len(flagged) != 0 {
		t.Errorf("got groups=%v flagged=%v, want none", groups, flagged)
	}
}

func TestClusterUsesModeDefaults(t *testing.T) {
	if got := Basic.DefaultThreshold(); got != 80 {
		t.Errorf("basic default threshold = %d, want 80", got)
	}
	if got := Smart.DefaultThreshold(); got != 85 {
		t.Errorf("smart default threshold = %d, want 85", got)
	}

	// Threshold <= 0 falls back to the mode default.
	titles := []string{"Artist - My Song", "Artist2 - My Song"}
	groups, _ := Cluster(titles, 0, Smart)
	if len(groups) != 1 {
		t.Errorf("expected default-threshold clustering to find 1 group, got %v", groups)
	}
}
