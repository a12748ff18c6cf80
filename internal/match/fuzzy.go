// Package match links free-text names to concrete objects by normalized
// string scoring.
package match

import "strings"

const (
	ScoreExact        = 100
	ScoreContainsBase = 80
	ScoreContainedIn  = 60
	ScoreTokenBase    = 40
	ScoreTokenEach    = 10

	// Threshold is the lowest score Best will report as a match.
	Threshold = 50
)

// Candidate exposes the text attributes a target name is compared against.
type Candidate interface {
	MatchTexts() []string
}

// Result is the winning candidate, its position in the pool and its score.
type Result[C Candidate] struct {
	Candidate C
	Index     int
	Score     int
}

// Score compares a target with one attribute value. Both are normalized here.
func Score(target, attribute string) int {
	t := Normalize(target)
	a := Normalize(attribute)
	if t == "" || a == "" {
		return 0
	}

	switch {
	case t == a:
		return ScoreExact
	case strings.Contains(a, t):
		// shortest containing attribute is the most specific one
		return ScoreContainsBase - (len(a) - len(t))
	case strings.Contains(t, a):
		return ScoreContainedIn
	}

	common := 0
	attrTokens := tokens(attribute)
	for tok := range tokens(target) {
		if attrTokens[tok] {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	return ScoreTokenBase + common*ScoreTokenEach
}

// Best scores every attribute of every candidate against target and returns
// the highest scorer when it reaches Threshold. Ties keep the first seen.
func Best[C Candidate](target string, candidates []C) (Result[C], bool) {
	var best Result[C]
	if Normalize(target) == "" || len(candidates) == 0 {
		return best, false
	}

	bestScore := 0
	found := false
	for i, c := range candidates {
		for _, text := range c.MatchTexts() {
			if strings.TrimSpace(text) == "" {
				continue
			}
			s := Score(target, text)
			if s > bestScore {
				bestScore = s
				best = Result[C]{Candidate: c, Index: i, Score: s}
				found = true
			}
		}
	}

	if !found || bestScore < Threshold {
		return Result[C]{}, false
	}
	return best, true
}

// Texts is a Candidate backed by a fixed list of attribute values.
type Texts []string

func (t Texts) MatchTexts() []string { return t }
