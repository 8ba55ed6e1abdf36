package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibble-labs/fibble-server/internal/store"
	"github.com/fibble-labs/fibble-server/internal/words"
)

// newTestServer spins up the full router against an in-memory database with
// the real schema and the embedded word lists.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	require.NoError(t, words.Init())

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every pooled connection would otherwise get its own empty memory DB.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../sql/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	srv := New(store.NewMemoryStore(), db)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

// postJSON sends a JSON body and decodes the JSON response into out (if non-nil).
func postJSON(t *testing.T, c *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := c.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		_ = json.NewDecoder(res.Body).Decode(out)
	}
	return res
}

func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	res, err := c.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		_ = json.NewDecoder(res.Body).Decode(out)
	}
	return res
}

func TestHealthAndRoot(t *testing.T) {
	ts, c := newTestServer(t)

	res := getJSON(t, c, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")

	var root map[string]any
	res = getJSON(t, c, ts.URL+"/", &root)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "fibble-go", root["service"])

	var counts map[string]int
	getJSON(t, c, ts.URL+"/debug/words", &counts)
	assert.Greater(t, counts["secrets"], 0)
	assert.GreaterOrEqual(t, counts["allowed"], counts["secrets"])
}

func TestWordleSessionFlow(t *testing.T) {
	ts, c := newTestServer(t)

	var created newSessionRes
	res := postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "wordle", "style": "play", "secret": "CRANE"}, &created)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, 6, created.MaxAttempts)
	assert.Empty(t, created.History)

	var guessed guessRes
	res = postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": created.SessionID, "word": "trace"}, &guessed)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "playing", guessed.State)
	assert.Equal(t, "TRACE", guessed.Record.Word)
	assert.Greater(t, guessed.Candidates, 0)

	res = postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": created.SessionID, "word": "CRANE"}, &guessed)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "won", guessed.State)

	// Finished session: further guesses conflict.
	res = postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": created.SessionID, "word": "SLATE"}, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestGuessValidationErrors(t *testing.T) {
	ts, c := newTestServer(t)

	var created newSessionRes
	postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "wordle", "style": "play", "secret": "CRANE"}, &created)

	res := postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": created.SessionID, "word": "ZZZZZ"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": "nope", "word": "CRANE"}, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestNewSessionRejectsUnknowns(t *testing.T) {
	ts, c := newTestServer(t)

	res := postJSON(t, c, ts.URL+"/session/new", map[string]string{"mode": "bogus"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "wordle", "style": "play", "secret": "ZZZZZ"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestFibbleSessionOpener(t *testing.T) {
	ts, c := newTestServer(t)

	var created newSessionRes
	res := postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "fibble", "style": "play"}, &created)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 9, created.MaxAttempts)
	// Fibble play sessions arrive with the automatic opening row.
	require.Len(t, created.History, 1)
	assert.True(t, created.History[0].Auto)

	var hints map[string]json.RawMessage
	res = getJSON(t, c, ts.URL+"/session/"+created.SessionID+"/hints", &hints)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, hints, "hints")
}

func TestSuggestionsEndpoint(t *testing.T) {
	ts, c := newTestServer(t)

	var created newSessionRes
	postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "wordle", "style": "notebook"}, &created)

	var out struct {
		Suggestions []struct {
			Word        string  `json:"word"`
			EntropyBits float64 `json:"entropyBits"`
			IsCandidate bool    `json:"isCandidate"`
		} `json:"suggestions"`
		Candidates int `json:"candidates"`
	}
	res := getJSON(t, c, ts.URL+"/session/"+created.SessionID+"/suggestions", &out)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, out.Suggestions)
	assert.LessOrEqual(t, len(out.Suggestions), 10)
	for i := 1; i < len(out.Suggestions); i++ {
		assert.GreaterOrEqual(t, out.Suggestions[i-1].EntropyBits, out.Suggestions[i].EntropyBits)
	}

	var count map[string]int
	getJSON(t, c, ts.URL+"/session/"+created.SessionID+"/candidates", &count)
	assert.Equal(t, out.Candidates, count["count"])
}

func TestNotebookTileCycle(t *testing.T) {
	ts, c := newTestServer(t)

	var created newSessionRes
	postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "fibble", "style": "notebook"}, &created)

	postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": created.SessionID, "word": "TRACE"}, nil)

	var out struct {
		Record struct {
			Tiles []struct {
				Letter string `json:"letter"`
				State  string `json:"state"`
			} `json:"tiles"`
		} `json:"record"`
	}
	res := postJSON(t, c, ts.URL+"/session/tile",
		map[string]any{"sessionId": created.SessionID, "row": 0, "col": 1}, &out)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "present", out.Record.Tiles[1].State)

	res = postJSON(t, c, ts.URL+"/session/tile",
		map[string]any{"sessionId": created.SessionID, "row": 5, "col": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Tile edits are a notebook-only affordance.
	var play newSessionRes
	postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "wordle", "style": "play", "secret": "CRANE"}, &play)
	res = postJSON(t, c, ts.URL+"/session/tile",
		map[string]any{"sessionId": play.SessionID, "row": 0, "col": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSessionReset(t *testing.T) {
	ts, c := newTestServer(t)

	var created newSessionRes
	postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "wordle", "style": "play", "secret": "CRANE"}, &created)
	postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": created.SessionID, "word": "SLATE"}, nil)

	var out struct {
		History []json.RawMessage `json:"history"`
		State   string            `json:"state"`
	}
	res := postJSON(t, c, ts.URL+"/session/reset",
		map[string]string{"sessionId": created.SessionID, "secret": "GRATE"}, &out)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, out.History)
	assert.Equal(t, "playing", out.State)
}

func TestAuthSignupAndStats(t *testing.T) {
	ts, c := newTestServer(t)

	// Unauthenticated access is rejected.
	res := getJSON(t, c, ts.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	var signed map[string]any
	res = postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player_one", "password": "longenough"}, &signed)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "player_one", signed["username"])

	// Cookie from signup authenticates follow-up requests.
	var me authUser
	res = getJSON(t, c, ts.URL+"/auth/me", &me)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "player_one", me.Username)

	var stats map[string]any
	res = getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 0, stats["gamesPlayed"])

	// Duplicate username conflicts.
	res = postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player_one", "password": "longenough"}, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Logout invalidates the cookie.
	postJSON(t, c, ts.URL+"/auth/logout", map[string]string{}, nil)
	res = getJSON(t, c, ts.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	ts, c := newTestServer(t)

	postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player_two", "password": "longenough"}, nil)
	postJSON(t, c, ts.URL+"/auth/logout", map[string]string{}, nil)

	res := postJSON(t, c, ts.URL+"/auth/login",
		map[string]string{"username": "player_two", "password": "wrongwrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = postJSON(t, c, ts.URL+"/auth/login",
		map[string]string{"username": "player_two", "password": "longenough"}, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	ts, c := newTestServer(t)

	res := postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "ab", "password": "longenough"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, c, ts.URL+"/auth/signup",
		map[string]string{"username": "player", "password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDailyFlow(t *testing.T) {
	ts, c := newTestServer(t)

	var first dailyNewRes
	res := postJSON(t, c, ts.URL+"/daily/new", map[string]string{}, &first)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.False(t, first.Played)
	require.NotEmpty(t, first.SessionID)

	// Same client, same day: the in-memory session is reused.
	var second dailyNewRes
	postJSON(t, c, ts.URL+"/daily/new", map[string]string{}, &second)
	assert.Equal(t, first.SessionID, second.SessionID)

	var guess dailyGuessRes
	res = postJSON(t, c, ts.URL+"/daily/guess",
		map[string]string{"sessionId": first.SessionID, "word": "CRANE"}, &guess)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, []string{"playing", "won"}, guess.State)
	assert.Equal(t, 1, guess.Guesses)

	var lb lbRes
	res = getJSON(t, c, ts.URL+"/daily/leaderboard", &lb)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, first.Date, lb.Date)
}

func TestDailyGuessWithoutSession(t *testing.T) {
	ts, c := newTestServer(t)
	res := postJSON(t, c, ts.URL+"/daily/guess",
		map[string]string{"sessionId": "nope", "word": "CRANE"}, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}
