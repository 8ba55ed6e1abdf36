// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user can play once per day (enforced by DB + in-memory session).
// The hidden word is selected deterministically from date + salt, and play
// runs through a regular wordle-mode session so all engine rules apply.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fibble-labs/fibble-server/internal/daily"
	"github.com/fibble-labs/fibble-server/internal/game"
	"github.com/fibble-labs/fibble-server/internal/words"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession pairs an engine session with daily bookkeeping.
type dailySession struct {
	Session     *game.Session
	UserID      string
	Date        string
	SecretIndex int
	Start       time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// dateKeyNow returns today's date key, deterministic secret index, and secret.
func (d *dailyServer) dateKeyNow() (date string, idx int, secret string) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	secrets := words.Secrets()
	if len(secrets) == 0 {
		return date, 0, ""
	}
	idx = daily.SecretIndex(now, d.salt, len(secrets))
	return date, idx, secrets[idx]
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) (string, bool) {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID, true
	}
	return d.srv.ensureAnonID(w, r), true
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	SessionID string `json:"sessionId"`
	Date      string `json:"date"`
	Played    bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return SessionID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid, ok := d.userIDWithAnon(w, r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	date, idx, secret := d.dateKeyNow()
	if secret == "" {
		http.Error(w, "no words loaded", http.StatusInternalServerError)
		return
	}

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{SessionID: "", Date: date, Played: true})
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + date
	d.mu.Lock()
	if ds, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyNewRes{SessionID: ds.Session.ID, Date: date, Played: false})
		return
	}
	sess, err := game.NewSession(game.Params{
		Mode:    game.ModeWordle,
		Style:   game.StylePlay,
		Secret:  secret,
		Secrets: words.Secrets(),
		Allowed: words.Allowed(),
	})
	if err != nil {
		d.mu.Unlock()
		http.Error(w, "session failed", http.StatusInternalServerError)
		return
	}
	d.sessions[key] = &dailySession{
		Session:     sess,
		UserID:      uid,
		Date:        date,
		SecretIndex: idx,
		Start:       time.Now(),
	}
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyNewRes{SessionID: sess.ID, Date: date, Played: false})
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	SessionID string `json:"sessionId"`
	Word      string `json:"word"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Record  game.GuessRecord `json:"record"`
	State   string           `json:"state"` // playing | won | lost | locked
	Guesses int              `json:"guesses"`
}

// handleGuess validates and applies a guess for today's daily session.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid, ok := d.userIDWithAnon(w, r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	date, _, _ := d.dateKeyNow()

	// Find session.
	key := uid + "|" + date
	d.mu.Lock()
	ds, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || ds.Session.ID != p.SessionID {
		http.Error(w, "no session", http.StatusConflict)
		return
	}
	if ds.Session.Finished {
		_ = json.NewEncoder(w).Encode(dailyGuessRes{State: "locked", Guesses: len(ds.Session.History)})
		return
	}

	d.mu.Lock()
	rec, err := ds.Session.Submit(p.Word)
	d.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Persist on win.
	if ds.Session.Won {
		elapsed := int(time.Since(ds.Start).Milliseconds())
		_ = d.store.InsertResult(r.Context(), daily.Result{
			UserID:      uid,
			Date:        date,
			SecretIndex: ds.SecretIndex,
			Guesses:     len(ds.Session.History),
			ElapsedMs:   elapsed,
		})
	}
	_ = json.NewEncoder(w).Encode(dailyGuessRes{
		Record:  rec,
		State:   ds.Session.State(),
		Guesses: len(ds.Session.History),
	})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _, _ = d.dateKeyNow()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
