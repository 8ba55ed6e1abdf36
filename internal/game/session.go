// internal/game/session.go
//
// Session state for one game or notebook analysis.
// Responsibilities:
//   - Create sessions with a supplied or randomly drawn secret (play style)
//     or no secret at all (notebook style).
//   - Validate and apply guesses; apply the fibble lie during live play.
//   - Track state transitions: playing → won/lost within the attempt budget.
//   - Serve filtered candidates, ranked suggestions, and lie hints as pure
//     queries over the history.
//
// The word lists and random source are injected at creation; every
// recomputation is a deterministic function of (history, lists). Suggestion
// ranking is memoized against a monotonically increasing history version so
// any mutation invalidates it wholesale.

package game

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"strings"
	"time"
)

// Session holds the state of a single inference session.
type Session struct {
	ID       string        // unique session identifier (random hex string)
	Mode     GameMode      // truthfulness rule, fixed for the session
	Style    PlayStyle     // play or notebook, fixed for the session
	Config   Config        // engine parameters
	History  []GuessRecord // scored rows in submission order
	Finished bool          // true once the session is over (won or lost)
	Won      bool          // true if finished with a win

	secret  string              // hidden word; empty in notebook style
	secrets []string            // candidate universe, shared and read-only
	allowed map[string]struct{} // legal guesses, shared and read-only
	rng     *mrand.Rand

	version uint64 // bumped on every history mutation
	cache   suggestionCache
}

// suggestionCache memoizes the last ranking. It is valid only while its
// version matches the session's history version.
type suggestionCache struct {
	valid   bool
	version uint64
	entries []Suggestion
}

// Params carries everything needed to construct a Session.
type Params struct {
	Mode    GameMode
	Style   PlayStyle
	Secret  string              // optional fixed secret (play style only)
	Secrets []string            // candidate universe
	Allowed map[string]struct{} // legal guesses (superset of Secrets)
	Config  Config              // zero value → DefaultConfig
	Rand    *mrand.Rand         // optional; defaults to a time-seeded source
}

// NewSession constructs a session. For play style the secret is either the
// supplied word (which must be an eligible secret) or drawn uniformly from
// the secrets list. Fibble play sessions immediately record one automatic
// opening guess.
func NewSession(p Params) (*Session, error) {
	cfg := p.Config
	if cfg.WordLength == 0 {
		cfg = DefaultConfig()
	}
	rng := p.Rand
	if rng == nil {
		rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		ID:      randomID(),
		Mode:    p.Mode,
		Style:   p.Style,
		Config:  cfg,
		History: []GuessRecord{},
		secrets: p.Secrets,
		allowed: p.Allowed,
		rng:     rng,
	}

	if p.Style == StylePlay {
		secret, err := s.pickSecret(p.Secret)
		if err != nil {
			return nil, err
		}
		s.secret = secret
		if p.Mode == ModeFibble {
			s.autoOpener()
		}
	}
	return s, nil
}

// pickSecret validates a supplied secret or draws one at random.
func (s *Session) pickSecret(supplied string) (string, error) {
	if supplied != "" {
		w := strings.ToUpper(strings.TrimSpace(supplied))
		for _, candidate := range s.secrets {
			if candidate == w {
				return w, nil
			}
		}
		return "", ErrUnknownSecret
	}
	return s.secrets[s.rng.Intn(len(s.secrets))], nil
}

// autoOpener records the fibble opening row: a random secret word other
// than the hidden one, scored and lied like any live guess.
func (s *Session) autoOpener() {
	opener := s.secret
	for opener == s.secret {
		opener = s.secrets[s.rng.Intn(len(s.secrets))]
	}
	_, _ = s.submit(opener, true)
}

// MaxAttempts returns the attempt budget for the session's mode.
func (s *Session) MaxAttempts() int {
	if s.Mode == ModeFibble {
		return s.Config.FibbleAttempts
	}
	return s.Config.WordleAttempts
}

// State reports a coarse string representation: "playing", "won" or "lost".
func (s *Session) State() string {
	if s.Finished {
		if s.Won {
			return "won"
		}
		return "lost"
	}
	return "playing"
}

// Submit validates and records a player guess, returning the scored row.
//
// Validation rules:
//   - Session must not be finished.
//   - Guess must be exactly Config.WordLength uppercase-able letters.
//   - Guess must be in the allowed list.
//
// On any validation failure the history is left unmodified.
func (s *Session) Submit(word string) (GuessRecord, error) {
	return s.submit(word, false)
}

func (s *Session) submit(word string, auto bool) (GuessRecord, error) {
	if s.Finished {
		return GuessRecord{}, ErrSessionFinished
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	if len(word) != s.Config.WordLength || !isUpperAlpha(word) {
		return GuessRecord{}, ErrInvalidGuess
	}
	if _, ok := s.allowed[word]; !ok {
		return GuessRecord{}, ErrNotInWordList
	}

	var states []TileState
	if s.Style == StyleNotebook {
		// No secret exists; tiles start absent and are adjusted by hand.
		states = make([]TileState, len(word))
		for i := range states {
			states[i] = StateAbsent
		}
	} else {
		states = Score(s.secret, word)
		if s.Mode == ModeFibble {
			applyLie(states, s.rng)
		}
	}

	rec := GuessRecord{Word: word, Tiles: tilesFor(word, states), Auto: auto}
	s.History = append(s.History, rec)
	s.version++

	// Winning is a property of the guessed word, not the reported tiles:
	// in fibble the lie can land on a fully correct row.
	if s.Style == StylePlay && word == s.secret {
		s.Finished, s.Won = true, true
	} else if len(s.History) >= s.MaxAttempts() {
		s.Finished = true
	}
	return rec, nil
}

// CycleTile advances one tile of a notebook row through
// absent → present → correct → absent.
func (s *Session) CycleTile(row, col int) error {
	if s.Style != StyleNotebook {
		return ErrNotebookOnly
	}
	if row < 0 || row >= len(s.History) {
		return ErrTileOutOfRange
	}
	if col < 0 || col >= len(s.History[row].Tiles) {
		return ErrTileOutOfRange
	}
	tile := &s.History[row].Tiles[col]
	tile.State = tile.State.Next()
	s.version++
	return nil
}

// Candidates returns the secrets consistent with the full history under the
// session's mode. Recomputed on every call; never incrementally maintained.
func (s *Session) Candidates() []string {
	return PossibleSecrets(s.secrets, s.History, s.Mode)
}

// CandidateCount returns the size of the current candidate set.
func (s *Session) CandidateCount() int {
	return len(s.Candidates())
}

// Suggestions returns the ranked guess recommendations for the current
// history. Results are cached against the history version; empty-history
// rankings additionally go through the shared first-guess disk cache since
// they are identical for every fresh session.
func (s *Session) Suggestions() []Suggestion {
	if s.cache.valid && s.cache.version == s.version {
		return s.cache.entries
	}

	var entries []Suggestion
	if len(s.History) == 0 {
		entries = s.firstGuessSuggestions()
	} else {
		entries = RankGuesses(s.secrets, s.Candidates(), s.Config.SuggestionLimit)
	}

	s.cache = suggestionCache{valid: true, version: s.version, entries: entries}
	return entries
}

// LieHints returns per-row per-tile lie certainty flags. Only meaningful in
// fibble mode; nil otherwise, and nil while history or candidates are empty.
func (s *Session) LieHints() [][]LieHint {
	if s.Mode != ModeFibble {
		return nil
	}
	return LieHints(s.Candidates(), s.History)
}

// Reset discards the history and restarts the session in place. For play
// style a new secret is validated or drawn, and fibble sessions record a
// fresh opener. The suggestion cache is invalidated by the version bump.
func (s *Session) Reset(secret string) error {
	if s.Style == StylePlay {
		w, err := s.pickSecret(secret)
		if err != nil {
			return err
		}
		s.secret = w
	}
	s.History = []GuessRecord{}
	s.Finished, s.Won = false, false
	s.version++
	if s.Style == StylePlay && s.Mode == ModeFibble {
		s.autoOpener()
	}
	return nil
}

// Secret exposes the hidden word; empty for notebook sessions.
func (s *Session) Secret() string { return s.secret }

// isUpperAlpha checks that a string consists only of uppercase A–Z.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
