package dedupe

import (
	"math"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Similarity scores two raw titles from 0 to 100. Both titles are normalized
// first; if either normalizes to nothing the score is 0. The comparison is a
// token-set ratio, so word order and repeated tokens do not affect the score.
func Similarity(title1, title2 string) int {
	norm1 := Normalize(title1)
	norm2 := Normalize(title2)
	if norm1 == "" || norm2 == "" {
		return 0
	}
	return tokenSetRatio(norm1, norm2)
}

// tokenSetRatio splits both strings into unique word sets and scores the best
// edit ratio among intersection-vs-(intersection+left), intersection-vs-
// (intersection+right) and the two combined strings. Identical sets always
// score 100 regardless of ordering.
func tokenSetRatio(s1, s2 string) int {
	set1 := tokenSet(s1)
	set2 := tokenSet(s2)

	var intersection, only1, only2 []string
	for tok := range set1 {
		if set2[tok] {
			intersection = append(intersection, tok)
		} else {
			only1 = append(only1, tok)
		}
	}
	for tok := range set2 {
		if !set1[tok] {
			only2 = append(only2, tok)
		}
	}

	sort.Strings(intersection)
	sort.Strings(only1)
	sort.Strings(only2)

	sect := strings.Join(intersection, " ")
	combined1 := strings.TrimSpace(sect + " " + strings.Join(only1, " "))
	combined2 := strings.TrimSpace(sect + " " + strings.Join(only2, " "))

	best := editRatio(sect, combined1)
	if r := editRatio(sect, combined2); r > best {
		best = r
	}
	if r := editRatio(combined1, combined2); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// editRatio converts Levenshtein similarity into an integer percentage.
func editRatio(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}
	if s1 == "" || s2 == "" {
		return 0
	}
	sim, err := edlib.StringsSimilarity(s1, s2, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return int(math.Round(float64(sim) * 100))
}
