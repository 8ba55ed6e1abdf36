// internal/game/filter.go
//
// Constraint filter: narrow the secrets list to candidates consistent with a
// guess history under the active mode's truthfulness rule.

package game

// PossibleSecrets returns the subset of secretList consistent with every row
// of history.
//
//   - ModeWordle: a secret survives iff scoring it against each guessed word
//     reproduces the reported pattern exactly, for every row.
//   - ModeFibble: a secret survives iff every row differs from its true
//     scoring in exactly one tile. This per-row predicate is weaker than
//     exact equality, so the fibble candidate set is never smaller than the
//     wordle one for the same history.
//
// An empty history returns the full secrets list. The result is a fresh
// slice; secretList is never mutated.
func PossibleSecrets(secretList []string, history []GuessRecord, mode GameMode) []string {
	if len(history) == 0 {
		out := make([]string, len(secretList))
		copy(out, secretList)
		return out
	}

	// Reported patterns are fixed per row; encode them once.
	reported := make([]Pattern, len(history))
	for i, rec := range history {
		reported[i] = rec.Pattern()
	}

	out := make([]string, 0, len(secretList))
	for _, secret := range secretList {
		if secretMatchesHistory(secret, history, reported, mode) {
			out = append(out, secret)
		}
	}
	return out
}

// secretMatchesHistory applies the per-row predicate across all rows.
func secretMatchesHistory(secret string, history []GuessRecord, reported []Pattern, mode GameMode) bool {
	for i, rec := range history {
		if mode == ModeFibble {
			if !GuessMatchesSecret(secret, rec) {
				return false
			}
			continue
		}
		if ScorePattern(secret, rec.Word) != reported[i] {
			return false
		}
	}
	return true
}
