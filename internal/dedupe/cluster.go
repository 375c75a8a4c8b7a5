package dedupe

import "sort"

// Mode selects how titles are prepared before scoring.
type Mode int

const (
	// Basic compares raw titles directly.
	Basic Mode = iota
	// Smart isolates the song name from each title first, so different
	// uploaders of the same song still match.
	Smart
)

// DefaultThreshold returns the score cutoff used when the caller does not
// supply one. Smart mode is stricter because artist-name noise has already
// been removed from the comparison.
func (m Mode) DefaultThreshold() int {
	if m == Smart {
		return 85
	}
	return 80
}

// unionFind is an array-backed disjoint-set over indices with path
// compression on find. Union direction is arbitrary.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

func (u *unionFind) union(x, y int) {
	rootX, rootY := u.find(x), u.find(y)
	if rootX != rootY {
		u.parent[rootX] = rootY
	}
}

// Cluster runs all-pairs similarity over a batch of titles and groups indices
// whose scores reach the threshold into equivalence classes. Pass a threshold
// of 0 or less to use the mode's default.
//
// A group means its members are connected through a chain of qualifying
// pairwise scores, not that every pair inside it qualifies on its own; two
// members linked only through a third may individually score below the
// threshold. Groups always have at least two members, and flagged is exactly
// the union of all group members, sorted ascending.
//
// The computation is pure and allocates only locals, so disjoint batches may
// be clustered concurrently. Cost is O(n²) string comparisons; batches are
// bounded by the playlist limit upstream.
func Cluster(titles []string, threshold int, mode Mode) (groups [][]int, flagged []int) {
	if threshold <= 0 {
		threshold = mode.DefaultThreshold()
	}

	n := len(titles)
	if n < 2 {
		return nil, nil
	}

	normalized := make([]string, n)
	for i, title := range titles {
		if mode == Smart {
			title = ExtractSongName(title)
		}
		normalized[i] = Normalize(title)
	}

	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		if normalized[i] == "" {
			continue
		}
		for j := i + 1; j < n; j++ {
			if normalized[j] == "" {
				continue
			}
			if tokenSetRatio(normalized[i], normalized[j]) >= threshold {
				uf.union(i, j)
			}
		}
	}

	members := make(map[int][]int)
	var rootOrder []int
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if _, seen := members[root]; !seen {
			rootOrder = append(rootOrder, root)
		}
		members[root] = append(members[root], i)
	}

	for _, root := range rootOrder {
		group := members[root]
		if len(group) < 2 {
			continue
		}
		groups = append(groups, group)
		flagged = append(flagged, group...)
	}
	sort.Ints(flagged)

	return groups, flagged
}
