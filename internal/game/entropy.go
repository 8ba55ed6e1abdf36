// internal/game/entropy.go
//
// Entropy ranking: order guess words by the expected information gain of
// playing them against the current candidate set.
//
// Each guess partitions the candidates by the pattern it would produce; the
// Shannon entropy of that partition (in bits) is the expected information
// gain. Scoring always assumes truthful feedback, even in fibble mode.

package game

import (
	"math"
	"sort"
)

// RankGuesses evaluates every word in universe against candidates and
// returns the top entries sorted by descending entropy. Ties prefer words
// that are still candidates themselves, then lexicographic order. A limit
// <= 0 returns the full ranking.
//
// An empty candidate set yields an empty result; callers substitute their
// own "no suggestions" state.
func RankGuesses(universe, candidates []string, limit int) []Suggestion {
	if len(candidates) == 0 {
		return []Suggestion{}
	}

	inCandidates := make(map[string]struct{}, len(candidates))
	for _, w := range candidates {
		inCandidates[w] = struct{}{}
	}

	out := make([]Suggestion, 0, len(universe))
	for _, guess := range universe {
		_, isCand := inCandidates[guess]
		out = append(out, Suggestion{
			Word:        guess,
			EntropyBits: EntropyBits(guess, candidates),
			IsCandidate: isCand,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.EntropyBits != b.EntropyBits {
			return a.EntropyBits > b.EntropyBits
		}
		if a.IsCandidate != b.IsCandidate {
			return a.IsCandidate
		}
		return a.Word < b.Word
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// EntropyBits computes the Shannon entropy of the pattern partition a guess
// induces over the candidate set: H = -Σ p_k·log2(p_k) over partition sizes.
func EntropyBits(guess string, candidates []string) float64 {
	counts := make(map[Pattern]int)
	for _, secret := range candidates {
		counts[ScorePattern(secret, guess)]++
	}

	total := float64(len(candidates))
	h := 0.0
	for _, n := range counts {
		p := float64(n) / total
		h -= p * math.Log2(p)
	}
	return h
}
