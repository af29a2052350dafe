package categorization

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggestion is a ranked merchant candidate for a correction UI.
type Suggestion struct {
	Name     string  // canonical merchant name
	Source   string  // "static" or "learned"
	Score    float64 // higher is better
	Distance int     // Levenshtein distance to the query
}

// rankFuzzy scores every candidate against the query and returns the top
// matches. Used as the fallback when the search index has no hits, and
// for catching variations like "Starbucks 001" vs "Starbucks 002".
func rankFuzzy(query string, candidates []Suggestion, limit int) []Suggestion {
	normalized := strings.ToUpper(query)

	results := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		score := fuzzyScore(normalized, strings.ToUpper(c.Name))
		if score <= 0 {
			continue
		}
		c.Score = float64(score)
		c.Distance = levenshteinDistance(normalized, strings.ToUpper(c.Name))
		results = append(results, c)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// fuzzyScore calculates a similarity score between two strings (0-100)
// using containment checks, Levenshtein distance and subsequence ranking.
func fuzzyScore(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}

	// Containment is common for merchant variations; score by length
	// ratio.
	if strings.Contains(s1, s2) {
		return 75 + (25 * len(s2) / len(s1))
	}
	if strings.Contains(s2, s1) {
		return 75 + (25 * len(s1) / len(s2))
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 0
	}
	levenshteinScore := 100 * (maxLen - distance) / maxLen

	// Subsequence rank from the fuzzy library: lower rank means the
	// match starts earlier in the string.
	rank := fuzzy.RankMatch(s2, s1)
	fuzzyLibScore := 0
	if rank >= 0 && rank < len(s1) {
		fuzzyLibScore = 60 - (rank * 40 / len(s1))
	}

	if levenshteinScore > fuzzyLibScore {
		return levenshteinScore
	}
	return fuzzyLibScore
}

// levenshteinDistance calculates the edit distance between two strings
// using two rows instead of the full matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
