// internal/httpserver/server.go
//
// HTTP wiring for the Fibble inference backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Session endpoints (optional auth): create, guess, tile cycling, and the
//     pure queries (suggestions, candidates, lie hints).
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me,
//     /games/mine.
//   - Database persistence for game rows and user stats.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests.
//   - The engine itself lives in internal/game; handlers translate between
//     JSON payloads and Session operations and never reimplement rules.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/fibble-labs/fibble-server/internal/game"
	"github.com/fibble-labs/fibble-server/internal/store"
	"github.com/fibble-labs/fibble-server/internal/words"
)

// Server bundles router, in-memory session store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"fibble-go","endpoints":["/health","POST /session/new","POST /session/guess","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		sc, ac := words.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"secrets": sc, "allowed": ac})
	})

	// Session endpoints — OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/session/new", s.handleNewSession)
	s.r.With(s.withOptionalAuth()).Post("/session/guess", s.handleGuess)
	s.r.With(s.withOptionalAuth()).Post("/session/tile", s.handleCycleTile)
	s.r.With(s.withOptionalAuth()).Post("/session/reset", s.handleReset)
	s.r.Get("/session/{id}/suggestions", s.handleSuggestions)
	s.r.Get("/session/{id}/candidates", s.handleCandidates)
	s.r.Get("/session/{id}/hints", s.handleHints)

	// Daily puzzle — OPTIONAL AUTH (guests can play; results persisted on win)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ SESSIONS -----------------------------------

// newSessionReq/Res payloads for POST /session/new.
type newSessionReq struct {
	Mode   string `json:"mode"`   // "wordle" | "fibble"
	Style  string `json:"style"`  // "play" | "notebook"
	Secret string `json:"secret"` // optional fixed secret (testing, daily)
}
type newSessionRes struct {
	SessionID   string             `json:"sessionId"`
	Mode        game.GameMode      `json:"mode"`
	Style       game.PlayStyle     `json:"style"`
	MaxAttempts int                `json:"maxAttempts"`
	History     []game.GuessRecord `json:"history"` // fibble opener, if any
}

// handleNewSession creates a session and persists a DB "owner" row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	mode, style, err := parseModeStyle(req.Mode, req.Style)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	sess, err := game.NewSession(game.Params{
		Mode:    mode,
		Style:   style,
		Secret:  req.Secret,
		Secrets: words.Secrets(),
		Allowed: words.Allowed(),
	})
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	s.insertGameRow(w, r, sess)

	_ = json.NewEncoder(w).Encode(newSessionRes{
		SessionID:   sess.ID,
		Mode:        sess.Mode,
		Style:       sess.Style,
		MaxAttempts: sess.MaxAttempts(),
		History:     sess.History,
	})
}

// parseModeStyle validates the mode/style strings from a request.
func parseModeStyle(mode, style string) (game.GameMode, game.PlayStyle, error) {
	m := game.GameMode(strings.ToLower(mode))
	if m == "" {
		m = game.ModeWordle
	}
	if m != game.ModeWordle && m != game.ModeFibble {
		return "", "", errors.New("unknown mode")
	}
	st := game.PlayStyle(strings.ToLower(style))
	if st == "" {
		st = game.StylePlay
	}
	if st != game.StylePlay && st != game.StyleNotebook {
		return "", "", errors.New("unknown style")
	}
	return m, st, nil
}

// insertGameRow persists the owner row for a new session (best effort).
// The secret itself is never stored.
func (s *Server) insertGameRow(w http.ResponseWriter, r *http.Request, sess *game.Session) {
	now := time.Now().UTC().Format(time.RFC3339)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		_, err := s.db.Exec(`INSERT INTO games (id, user_id, mode, style, started_at, status, guesses)
		                     VALUES (?,?,?,?,?,?,0)`, sess.ID, me.ID, string(sess.Mode), string(sess.Style), now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("sessionId", sess.ID).Msg("insert user game row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		_, err := s.db.Exec(`INSERT INTO games (id, anonymous_id, mode, style, started_at, status, guesses)
		                     VALUES (?,?,?,?,?,?,0)`, sess.ID, anon, string(sess.Mode), string(sess.Style), now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("sessionId", sess.ID).Msg("insert anon game row")
		}
	}
}

// guessReq/Res payloads for POST /session/guess.
type guessReq struct {
	SessionID string `json:"sessionId"`
	Word      string `json:"word"`
}
type guessRes struct {
	Record     game.GuessRecord `json:"record"`
	State      string           `json:"state"` // "playing" | "won" | "lost"
	Candidates int              `json:"candidates"`
}

// handleGuess applies a guess to a session, persists progress,
// and (if finished) updates user stats in a best-effort transaction.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	rec, err := sess.Submit(req.Word)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, guessStatus(err))
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	s.persistProgress(w, r, sess)

	_ = json.NewEncoder(w).Encode(guessRes{
		Record:     rec,
		State:      sess.State(),
		Candidates: sess.CandidateCount(),
	})
}

// guessStatus maps engine errors to HTTP status codes.
func guessStatus(err error) int {
	if errors.Is(err, game.ErrSessionFinished) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// persistProgress updates the game row counters and, when the session
// finishes, the status and owner stats. Best effort, non-fatal on failure.
func (s *Server) persistProgress(w http.ResponseWriter, r *http.Request, sess *game.Session) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause := `anonymous_id=?`
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = any(me.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin progress tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+ownerClause, sess.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}

	state := sess.State()
	if state == "won" || state == "lost" {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			state, time.Now().UTC().Format(time.RFC3339), sess.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := s.bumpStats(tx, me.ID, state == "won"); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = tx.Commit()
}

// tileReq is the payload for POST /session/tile (notebook style only).
type tileReq struct {
	SessionID string `json:"sessionId"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

// handleCycleTile advances one notebook tile through its three states.
func (s *Server) handleCycleTile(w http.ResponseWriter, r *http.Request) {
	var req tileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err := sess.CycleTile(req.Row, req.Col); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	_ = s.store.Save(r.Context(), sess)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"record":     sess.History[req.Row],
		"candidates": sess.CandidateCount(),
	})
}

// resetReq is the payload for POST /session/reset.
type resetReq struct {
	SessionID string `json:"sessionId"`
	Secret    string `json:"secret"` // optional replacement secret
}

// handleReset restarts a session in place, discarding its history.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err := sess.Reset(req.Secret); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	_ = s.store.Save(r.Context(), sess)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"sessionId": sess.ID,
		"history":   sess.History,
		"state":     sess.State(),
	})
}

// sessionFromURL loads the session named by the {id} URL parameter.
func (s *Server) sessionFromURL(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// handleSuggestions returns the ranked guess list for a session.
// An empty candidate set yields an empty list, not an error.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"suggestions": sess.Suggestions(),
		"candidates":  sess.CandidateCount(),
	})
}

// handleCandidates returns the current candidate-set size.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int{"count": sess.CandidateCount()})
}

// handleHints returns per-row per-tile lie flags for fibble sessions.
// Null for wordle sessions and while history or candidates are empty.
func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromURL(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"hints": sess.LieHints()})
}
