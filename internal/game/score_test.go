package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreExactMatch(t *testing.T) {
	for _, w := range []string{"CRANE", "SLATE", "LEVEL", "QUEUE"} {
		states := Score(w, w)
		require.Len(t, states, 5)
		for i, s := range states {
			assert.Equal(t, StateCorrect, s, "word %s tile %d", w, i)
		}
	}
}

func TestScoreDuplicateLetters(t *testing.T) {
	tests := []struct {
		secret, guess string
		want          []TileState
	}{
		// Each of E, V, L is present once by leftover accounting; I and S absent.
		{"LEVEL", "EVILS", []TileState{StatePresent, StatePresent, StateAbsent, StatePresent, StateAbsent}},
		// Only the first L consumes the single leftover L.
		{"APPLE", "ALLOT", []TileState{StateCorrect, StatePresent, StateAbsent, StateAbsent, StateAbsent}},
		// Guess has more copies of E than the secret; only the exact match scores.
		{"CRANE", "EERIE", []TileState{StateAbsent, StateAbsent, StatePresent, StateAbsent, StateCorrect}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Score(tc.secret, tc.guess), "%s vs %s", tc.secret, tc.guess)
	}
}

func TestScorePattern(t *testing.T) {
	assert.Equal(t, Pattern("22222"), ScorePattern("CRANE", "CRANE"))
	assert.Equal(t, Pattern("02212"), ScorePattern("CRANE", "TRACE"))
	assert.Equal(t, Pattern("11010"), ScorePattern("LEVEL", "EVILS"))
}

func TestPatternOfCodes(t *testing.T) {
	p := PatternOf([]TileState{StateAbsent, StatePresent, StateCorrect})
	assert.Equal(t, Pattern("012"), p)
}

// Two secrets share a pattern for a guess exactly when the guess cannot
// distinguish them.
func TestPatternDistinguishes(t *testing.T) {
	guess := "TRACE"
	// SLANT and PLANT answer TRACE identically; CRANE and SLATE do not.
	assert.Equal(t, ScorePattern("SLANT", guess), ScorePattern("PLANT", guess))
	assert.NotEqual(t, ScorePattern("CRANE", guess), ScorePattern("SLATE", guess))
}

func TestTileStateCycle(t *testing.T) {
	assert.Equal(t, StatePresent, StateAbsent.Next())
	assert.Equal(t, StateCorrect, StatePresent.Next())
	assert.Equal(t, StateAbsent, StateCorrect.Next())
}
