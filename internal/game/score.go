// internal/game/score.go
//
// Pattern scoring: evaluate a guess against a secret the way Wordle does.
//
// Two-pass algorithm:
//   Pass 1: mark exact matches correct and count the remaining secret letters.
//   Pass 2: for each non-correct tile, consume a leftover count to mark
//           present, otherwise leave absent.
//
// This ensures correct behavior with repeated letters in both secret and
// guess: a letter is marked present/correct only up to the secret's count,
// with left-to-right priority among duplicates.

package game

// alphabetSize covers uppercase ASCII A–Z.
const alphabetSize = 26

// Score evaluates guess against secret and returns one state per letter.
// Both words must be uppercase and of equal length.
func Score(secret, guess string) []TileState {
	n := len(guess)
	res := make([]TileState, n)

	// Letter frequency for the non-correct positions (A–Z).
	var leftovers [alphabetSize]int

	// First pass: exact matches, plus counts for remaining secret letters.
	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			res[i] = StateCorrect
		} else {
			res[i] = StateAbsent
			leftovers[idx(secret[i])]++
		}
	}

	// Second pass: resolve presents among the non-correct tiles.
	for i := 0; i < n; i++ {
		if res[i] == StateCorrect {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < alphabetSize && leftovers[j] > 0 {
			res[i] = StatePresent
			leftovers[j]--
		}
	}
	return res
}

// ScorePattern evaluates guess against secret and encodes the result
// directly as a pattern string.
func ScorePattern(secret, guess string) Pattern {
	return PatternOf(Score(secret, guess))
}

// PatternOf encodes tile states as their digit string.
func PatternOf(states []TileState) Pattern {
	buf := make([]byte, len(states))
	for i, s := range states {
		buf[i] = s.code()
	}
	return Pattern(buf)
}

// tilesFor pairs each guessed letter with its state.
func tilesFor(guess string, states []TileState) []Tile {
	out := make([]Tile, len(states))
	for i, s := range states {
		out[i] = Tile{Letter: string(guess[i]), State: s}
	}
	return out
}

// idx maps an uppercase ASCII letter byte to 0..25.
// Assumes inputs are validated to A–Z elsewhere.
func idx(b byte) int { return int(b - 'A') }
