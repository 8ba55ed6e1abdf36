// internal/game/hints.go
//
// Lie-location hints for fibble sessions: per row and per tile, how certain
// the accumulated history makes the lie's position.

package game

// LieHints tallies, for every history row and tile, how often the lie falls
// on that tile across the surviving candidate secrets. A tile is flagged
// always-lie when every examined candidate places the lie there, and
// never-lie when none does. Candidates whose row admits no single-lie
// interpretation are skipped for that row.
//
// Returns nil when there are no candidates or no history. The result is
// indexed [row][tile].
func LieHints(candidates []string, history []GuessRecord) [][]LieHint {
	if len(candidates) == 0 || len(history) == 0 {
		return nil
	}

	out := make([][]LieHint, len(history))
	for r, rec := range history {
		reported := rec.States()
		tally := make([]int, len(reported))
		examined := 0

		for _, secret := range candidates {
			actual := Score(secret, rec.Word)
			i := FindLieIndex(actual, reported)
			if i == NoLie {
				continue
			}
			tally[i]++
			examined++
		}

		hints := make([]LieHint, len(reported))
		if examined > 0 {
			for i, n := range tally {
				hints[i] = LieHint{
					AlwaysLie: n == examined,
					NeverLie:  n == 0,
				}
			}
		}
		out[r] = hints
	}
	return out
}
