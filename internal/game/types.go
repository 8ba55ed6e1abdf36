// internal/game/types.go
//
// Core type definitions for the guess-inference engine.
// Defines:
//   - TileState: per-letter feedback for a guess (absent/present/correct).
//   - Tile / GuessRecord: one scored row of a session's history.
//   - Pattern: canonical 3-symbol-per-tile fingerprint of a scored row.
//   - GameMode / PlayStyle: truthfulness semantics and session flavor.
//   - Config: engine parameters supplied at session creation.

package game

import "errors"

// TileState represents the feedback for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the secret at this position.
//   - "present": letter is in the secret at a different position.
//   - "absent":  letter does not occur (beyond already-accounted copies).
type TileState string

const (
	StateAbsent  TileState = "absent"
	StatePresent TileState = "present"
	StateCorrect TileState = "correct"
)

// code returns the pattern digit for a state: absent=0, present=1, correct=2.
func (s TileState) code() byte {
	switch s {
	case StateCorrect:
		return '2'
	case StatePresent:
		return '1'
	default:
		return '0'
	}
}

// Next cycles absent → present → correct → absent.
// Used by notebook sessions when feedback is entered by hand.
func (s TileState) Next() TileState {
	switch s {
	case StateAbsent:
		return StatePresent
	case StatePresent:
		return StateCorrect
	default:
		return StateAbsent
	}
}

// Pattern is the per-row fingerprint: one digit per tile over {'0','1','2'}.
// Two secrets produce the same pattern for a guess iff the guess cannot
// distinguish them.
type Pattern string

// Tile is a single feedback cell: the guessed letter plus its reported state.
type Tile struct {
	Letter string    `json:"letter"`
	State  TileState `json:"state"`
}

// GuessRecord is one row of history: the guessed word, its five reported
// tiles, and whether the row was an automatically generated opener
// (fibble play sessions only).
type GuessRecord struct {
	Word  string `json:"word"`
	Tiles []Tile `json:"tiles"`
	Auto  bool   `json:"auto"`
}

// States returns the reported tile states in order.
func (r GuessRecord) States() []TileState {
	out := make([]TileState, len(r.Tiles))
	for i, t := range r.Tiles {
		out[i] = t.State
	}
	return out
}

// Pattern encodes the reported tiles as a pattern string.
func (r GuessRecord) Pattern() Pattern {
	return PatternOf(r.States())
}

// GameMode selects the truthfulness rule and attempt budget.
type GameMode string

const (
	ModeWordle GameMode = "wordle" // every row truthful
	ModeFibble GameMode = "fibble" // exactly one lied tile per row
)

// PlayStyle selects between live play against a hidden secret and a
// notebook session where feedback is annotated by hand.
type PlayStyle string

const (
	StylePlay     PlayStyle = "play"
	StyleNotebook PlayStyle = "notebook"
)

// Config carries the engine parameters for one session.
// The zero value is replaced by DefaultConfig at session creation.
type Config struct {
	WordLength      int // letters per word
	WordleAttempts  int // attempt budget in wordle mode
	FibbleAttempts  int // attempt budget in fibble mode
	SuggestionLimit int // ranked suggestions returned per query
}

// DefaultConfig returns the standard rules: 5 letters, 6/9 attempts, top 10.
func DefaultConfig() Config {
	return Config{
		WordLength:      5,
		WordleAttempts:  6,
		FibbleAttempts:  9,
		SuggestionLimit: 10,
	}
}

// Suggestion is one ranked guess recommendation.
type Suggestion struct {
	Word        string  `json:"word"`
	EntropyBits float64 `json:"entropyBits"`
	IsCandidate bool    `json:"isCandidate"`
}

// LieHint flags one tile of one fibble row.
// AlwaysLie: every surviving hypothesis places the lie on this tile.
// NeverLie: no surviving hypothesis places the lie on this tile.
// Ambiguous tiles carry neither flag.
type LieHint struct {
	AlwaysLie bool `json:"alwaysLie"`
	NeverLie  bool `json:"neverLie"`
}

// Errors surfaced by session operations.
var (
	ErrInvalidGuess    = errors.New("invalid guess")
	ErrNotInWordList   = errors.New("not in word list")
	ErrSessionFinished = errors.New("session finished")
	ErrNotebookOnly    = errors.New("notebook sessions only")
	ErrTileOutOfRange  = errors.New("tile out of range")
	ErrUnknownSecret   = errors.New("secret not in word list")
)
