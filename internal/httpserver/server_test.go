package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/memorylane/apps/go-server/internal/achievement"
	"github.com/robalobadob/memorylane/apps/go-server/internal/attempts"
	"github.com/robalobadob/memorylane/apps/go-server/internal/config"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/pairs"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/pipes"
	"github.com/robalobadob/memorylane/apps/go-server/internal/session"
	"github.com/robalobadob/memorylane/apps/go-server/internal/store"
)

var testConfig = config.Config{
	JWTSecret:       "test-secret",
	JWTExpires:      time.Hour,
	ClientOrigin:    "http://localhost:5173",
	DailySalt:       "test-salt",
	GridMaxMistakes: 3,
}

type harness struct {
	t     *testing.T
	srv   *Server
	store store.Store
	http  *httptest.Server
}

func newHarness(t *testing.T) *harness {
	st := store.NewMemoryStore()
	srv := New(st, testConfig)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &harness{t: t, srv: srv, store: st, http: ts}
}

// post sends a JSON body and decodes the reply into out when it is non-nil.
func (h *harness) post(path, token string, body, out any) int {
	h.t.Helper()
	b, err := json.Marshal(body)
	require.NoError(h.t, err)
	req, err := http.NewRequest(http.MethodPost, h.http.URL+path, bytes.NewReader(b))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.http.Client().Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// player creates a player and returns an authenticated client for it.
func (h *harness) player(name string) (string, *attempts.Client) {
	h.t.Helper()
	var p playerRes
	require.Equal(h.t, http.StatusCreated, h.post("/players", "", createPlayerReq{Name: name, PIN: "1234"}, &p))
	var tok tokenRes
	require.Equal(h.t, http.StatusOK, h.post("/auth/token", "", tokenReq{PlayerID: p.ID, PIN: "1234"}, &tok))
	require.NotEmpty(h.t, tok.Token)
	return p.ID, attempts.NewClient(attempts.Config{BaseURL: h.http.URL, Token: tok.Token})
}

func httpCode(t *testing.T, err error) (int, string) {
	t.Helper()
	var he *attempts.HTTPError
	require.True(t, errors.As(err, &he), "want HTTPError, got %v", err)
	return he.StatusCode, he.Code()
}

func ids(list []achievement.Achievement) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.http.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAuth(t *testing.T) {
	h := newHarness(t)

	var e attempts.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, h.post("/players", "", createPlayerReq{Name: "Nan", PIN: "12ab"}, &e))
	assert.Equal(t, http.StatusUnauthorized, h.post("/puzzles", "", attempts.CreatePuzzleRequest{GameType: game.TypePipes}, &e))
	assert.Equal(t, "unauthorized", e.Error)

	id, _ := h.player("Nan")
	assert.Equal(t, http.StatusUnauthorized, h.post("/auth/token", "", tokenReq{PlayerID: id, PIN: "9999"}, &e))
	assert.Equal(t, "invalid_credentials", e.Error)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  id,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, h.post("/puzzles", forged, attempts.CreatePuzzleRequest{GameType: game.TypePipes}, &e))
	assert.Equal(t, "invalid_token", e.Error)
}

func TestPipesAttemptLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, c := h.player("Grandad")

	p, err := c.CreatePuzzle(ctx, game.TypePipes, map[string]any{"rows": 3, "cols": 4})
	require.NoError(t, err)
	b, err := pipes.Decode(p.Layout)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Rows)
	assert.Equal(t, 4, b.Cols)

	id, err := c.StartAttempt(ctx, p.ID, game.TypePipes)
	require.NoError(t, err)

	score := 950
	require.NoError(t, c.FinishAttempt(ctx, id, attempts.Result{Success: true, Moves: 4, DurationMs: 2000, Score: &score}))

	got, err := c.CheckAchievements(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first-pipes", "pipes-900"}, ids(got))

	got, err = c.CheckAchievements(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got, "each achievement unlocks once")

	err = c.FinishAttempt(ctx, id, attempts.Result{Success: true, Moves: 4})
	status, code := httpCode(t, err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_finished", code)

	a, err := h.store.GetAttempt(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, a.Score)
	assert.Equal(t, 950, *a.Score)
}

func TestStartAttempt_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, c := h.player("Nan")

	_, err := c.StartAttempt(ctx, "", game.Type("chess"))
	status, code := httpCode(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unknown_game_type", code)

	_, err = c.StartAttempt(ctx, "missing", game.TypeGrid)
	status, code = httpCode(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "puzzle_not_found", code)

	p, err := c.CreatePuzzle(ctx, game.TypePairs, map[string]any{"pairs": 2})
	require.NoError(t, err)
	_, err = c.StartAttempt(ctx, p.ID, game.TypeGrid)
	_, code = httpCode(t, err)
	assert.Equal(t, "game_type_mismatch", code)

	id, err := c.StartAttempt(ctx, "", game.TypeGrid)
	require.NoError(t, err, "locally generated boards have no puzzle id")
	assert.NotEmpty(t, id)
}

func TestAchievementsRequireFinishedOwnAttempt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, nan := h.player("Nan")
	_, kid := h.player("Kid")

	id, err := nan.StartAttempt(ctx, "", game.TypePipes)
	require.NoError(t, err)

	_, err = nan.CheckAchievements(ctx, id)
	status, code := httpCode(t, err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "not_finished", code)

	err = kid.FinishAttempt(ctx, id, attempts.Result{Success: true})
	status, _ = httpCode(t, err)
	assert.Equal(t, http.StatusNotFound, status, "someone else's attempt")
}

func TestFailedGridKeepsNoScore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, c := h.player("Nan")

	id, err := c.StartAttempt(ctx, "", game.TypeGrid)
	require.NoError(t, err)
	bogus := 500
	require.NoError(t, c.FinishAttempt(ctx, id, attempts.Result{Success: false, Moves: 3, DurationMs: 60000, Score: &bogus}))

	got, err := c.CheckAchievements(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)

	a, err := h.store.GetAttempt(ctx, id)
	require.NoError(t, err)
	assert.False(t, a.Success)
	assert.Nil(t, a.Score)
}

func TestPerfectPairs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, c := h.player("Nan")

	p, err := c.CreatePuzzle(ctx, game.TypePairs, map[string]any{"pairs": 2})
	require.NoError(t, err)
	b, err := pairs.Decode(p.Layout)
	require.NoError(t, err)
	require.Len(t, b.Cards, 4)

	id, err := c.StartAttempt(ctx, p.ID, game.TypePairs)
	require.NoError(t, err)
	require.NoError(t, c.FinishAttempt(ctx, id, attempts.Result{Success: true, Moves: 2, DurationMs: 3000}))

	got, err := c.CheckAchievements(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first-pairs", "perfect-pairs"}, ids(got))
}

func TestCreatePuzzle_BadParams(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, c := h.player("Nan")

	for _, params := range []map[string]any{
		{"pairs": 99},
		{"pairs": 2.5},
		{"pairs": "six"},
	} {
		_, err := c.CreatePuzzle(ctx, game.TypePairs, params)
		status, code := httpCode(t, err)
		assert.Equal(t, http.StatusBadRequest, status, "%v", params)
		assert.Equal(t, "bad_params", code)
	}
}

func TestDailyPuzzleIsShared(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, nan := h.player("Nan")
	_, kid := h.player("Kid")

	a, err := nan.CreatePuzzle(ctx, game.TypePipes, map[string]any{"daily": true, "rows": 3})
	require.NoError(t, err)
	b, err := kid.CreatePuzzle(ctx, game.TypePipes, map[string]any{"daily": true})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.JSONEq(t, string(a.Layout), string(b.Layout))

	board, err := pipes.Decode(a.Layout)
	require.NoError(t, err)
	assert.Equal(t, pipes.DefaultRows, board.Rows, "daily boards ignore size params")

	req, err := http.NewRequest(http.MethodGet, h.http.URL+"/daily", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+nan.Token())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res dailyRes
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Len(t, res.Puzzles, 3)
	assert.Equal(t, a.ID, res.Puzzles[game.TypePipes])
}

func TestHistory(t *testing.T) {
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	yesterday := day.Add(-24 * time.Hour)
	finished := []store.Attempt{
		{GameType: game.TypePipes, Success: true, FinishedAt: &yesterday},
		{GameType: game.TypePipes, Success: true, FinishedAt: &day},
		{GameType: game.TypeGrid, Success: false, FinishedAt: &day},
		{GameType: game.TypePairs, Success: true, FinishedAt: &day},
	}
	h := history(finished, "2026-03-01")
	assert.Equal(t, 3, h.Solves)
	assert.Equal(t, 2, h.SolvesToday)
	assert.Equal(t, 2, h.SolvesByType[game.TypePipes])
	assert.Zero(t, h.SolvesByType[game.TypeGrid])
}

func TestSessionAgainstService(t *testing.T) {
	h := newHarness(t)
	_, c := h.player("Nan")

	nop := zerolog.Nop()
	s := session.NewPipes(pipes.Rules{Rows: 3, Cols: 3}, session.Options{API: c, Logger: &nop})
	defer s.Close()
	s.Reset(context.Background())

	snap := s.Snapshot()
	require.NotEmpty(t, snap.PuzzleID, "board came from the service")
	_, err := h.store.GetPuzzle(context.Background(), snap.PuzzleID)
	require.NoError(t, err)

	tile := -1
	for i, tl := range snap.Board.Tiles {
		if tl.Kind != pipes.Empty {
			tile = i
			break
		}
	}
	require.GreaterOrEqual(t, tile, 0)
	require.True(t, s.Apply(pipes.Move{Tile: tile, Action: pipes.ActionRotate, Direction: pipes.Clockwise}))

	require.Eventually(t, func() bool { return s.Snapshot().AttemptID != "" }, 2*time.Second, 10*time.Millisecond)
	a, err := h.store.GetAttempt(context.Background(), s.Snapshot().AttemptID)
	require.NoError(t, err)
	assert.Equal(t, snap.PuzzleID, a.PuzzleID)
	assert.Equal(t, game.TypePipes, a.GameType)
}
