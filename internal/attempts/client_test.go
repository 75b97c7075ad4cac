package attempts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Token: "tok"})
}

func TestCreatePuzzle(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/puzzles", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreatePuzzleRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, game.TypePipes, req.GameType)
		assert.EqualValues(t, 4, req.Params["rows"])

		_, _ = w.Write([]byte(`{"puzzleId":"p1","initialLayout":{"rows":4}}`))
	})

	p, err := c.CreatePuzzle(context.Background(), game.TypePipes, map[string]any{"rows": 4})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.JSONEq(t, `{"rows":4}`, string(p.Layout))
}

func TestCreatePuzzle_Malformed(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"puzzleId":""}`))
	})
	_, err := c.CreatePuzzle(context.Background(), game.TypePairs, nil)
	assert.ErrorIs(t, err, ErrMalformed)

	c = newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	_, err = c.CreatePuzzle(context.Background(), game.TypePairs, nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStartAttempt(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attempts", r.URL.Path)
		var req StartAttemptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.PuzzleID)
		assert.Equal(t, game.TypeGrid, req.GameType)
		_, _ = w.Write([]byte(`{"attemptId":"a1"}`))
	})
	id, err := c.StartAttempt(context.Background(), "p1", game.TypeGrid)
	require.NoError(t, err)
	assert.Equal(t, "a1", id)
}

func TestFinishAttempt(t *testing.T) {
	score := 870
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attempts/a1/finish", r.URL.Path)
		var res Result
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&res))
		assert.True(t, res.Success)
		assert.Equal(t, 12, res.Moves)
		assert.EqualValues(t, 25000, res.DurationMs)
		if assert.NotNil(t, res.Score) {
			assert.Equal(t, 870, *res.Score)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	err := c.FinishAttempt(context.Background(), "a1", Result{Success: true, Moves: 12, DurationMs: 25000, Score: &score})
	require.NoError(t, err)
}

func TestFinishAttempt_OmitsScore(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, has := raw["score"]
		assert.False(t, has)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	require.NoError(t, c.FinishAttempt(context.Background(), "a1", Result{Moves: 3}))
}

func TestCheckAchievements(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attempts/a1/achievements", r.URL.Path)
		_, _ = w.Write([]byte(`{"achievements":[{"id":"x","title":"X","points":5},{"id":"y","title":"Y","points":1}]}`))
	})
	got, err := c.CheckAchievements(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].ID)
	assert.Equal(t, 5, got[0].Points)
}

func TestHTTPError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"already_finished"}`))
	})
	err := c.FinishAttempt(context.Background(), "a1", Result{})
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
	assert.Equal(t, "already_finished", httpErr.Code())
}

func TestContextCancelled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"attemptId":"a1"}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.StartAttempt(ctx, "p1", game.TypePairs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetToken(t *testing.T) {
	c := NewClient(Config{Token: "old"})
	c.SetToken("new")
	assert.Equal(t, "new", c.Token())
}
