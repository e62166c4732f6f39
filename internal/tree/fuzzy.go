package tree

import "strings"

// Match is one fuzzy-search result over a command's dotted logical path.
type Match struct {
	CommandID string
	Path      string
	Score     int
}

// FuzzyMatch implements the command-palette search: a subsequence match
// against the dotted logical path, scored by how contiguous the match is.
// paths maps command id to its dotted path, as produced by
// config.Root.Paths.
func FuzzyMatch(paths map[string]string, query string) []Match {
	if query == "" {
		var all []Match
		for id, p := range paths {
			all = append(all, Match{CommandID: id, Path: p, Score: 0})
		}
		return all
	}

	q := strings.ToLower(query)
	var matches []Match
	for id, p := range paths {
		score, ok := subsequenceScore(strings.ToLower(p), q)
		if ok {
			matches = append(matches, Match{CommandID: id, Path: p, Score: score})
		}
	}
	return matches
}

// subsequenceScore reports whether query occurs as a (not necessarily
// contiguous) subsequence of s, scoring tighter matches higher.
func subsequenceScore(s, query string) (int, bool) {
	score := 0
	lastMatch := -1
	qi := 0
	for i := 0; i < len(s) && qi < len(query); i++ {
		if s[i] == query[qi] {
			if lastMatch == i-1 {
				score += 2
			} else {
				score++
			}
			lastMatch = i
			qi++
		}
	}
	return score, qi == len(query)
}
