// internal/game/lie.go
//
// The fibble lie model: one tile per row is deliberately falsified.
//
// Generation picks the lied tile uniformly among the row and replaces its
// true state with one of the two other states, 50/50. Detection works the
// other way: a secret is compatible with a reported fibble row iff the true
// scoring differs from the report in exactly one position.

package game

import "math/rand"

// NoLie is returned by FindLieIndex when a row has no valid
// single-lie interpretation (zero or two-plus differences).
const NoLie = -1

// applyLie falsifies exactly one tile of a freshly scored row in place.
// The other tiles stay truthful.
func applyLie(states []TileState, rng *rand.Rand) {
	if len(states) == 0 {
		return
	}
	i := rng.Intn(len(states))
	states[i] = lieState(states[i], rng)
}

// lieState picks uniformly between the two states other than the true one.
// The true state is excluded on purpose; the hint computation assumes this
// exact distribution.
func lieState(truth TileState, rng *rand.Rand) TileState {
	pick := rng.Intn(2)
	switch truth {
	case StateCorrect:
		if pick == 0 {
			return StatePresent
		}
		return StateAbsent
	case StatePresent:
		if pick == 0 {
			return StateCorrect
		}
		return StateAbsent
	default:
		if pick == 0 {
			return StateCorrect
		}
		return StatePresent
	}
}

// FindLieIndex compares a truthfully scored row against the reported states
// and returns the unique differing tile index, or NoLie if the difference
// count is not exactly one.
func FindLieIndex(actual, reported []TileState) int {
	found := NoLie
	for i := range actual {
		if actual[i] == reported[i] {
			continue
		}
		if found != NoLie {
			return NoLie
		}
		found = i
	}
	return found
}

// GuessMatchesSecret reports whether a hypothetical secret is compatible
// with a fibble row: the true scoring must differ from the reported tiles in
// exactly one position. Zero mismatches means no lie was told; two or more
// means more than one. Both are inconsistent with the rules.
func GuessMatchesSecret(secret string, rec GuessRecord) bool {
	truth := Score(secret, rec.Word)
	mismatches := 0
	for i, s := range truth {
		if s != rec.Tiles[i].State {
			mismatches++
			if mismatches > 1 {
				return false
			}
		}
	}
	return mismatches == 1
}
