// apps/go-server/internal/httpserver/routes_daily.go
//
// Daily boards: one shared board per UTC day and game type, so every family
// member plays the same puzzle.
//   - GET /daily → {date, puzzles: {pairs: id, pipes: id, grid: id}}
//   - POST /puzzles with {daily: true} returns the same board.
//
// Boards are generated on first request from HMAC(DAILY_SALT, date/type) and
// persisted; later requests read them back.

package httpserver

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/memorylane/apps/go-server/internal/daily"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
	"github.com/robalobadob/memorylane/apps/go-server/internal/store"
)

// dailyBoards serializes generation of the day's boards.
type dailyBoards struct {
	srv  *Server
	salt string
	mu   sync.Mutex
}

type dailyRes struct {
	Date    string               `json:"date"`
	Puzzles map[game.Type]string `json:"puzzles"`
}

// mountDaily registers the /daily route on a gated router.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", func(w http.ResponseWriter, r *http.Request) {
		res := dailyRes{Date: daily.DateKey(s.now()), Puzzles: map[game.Type]string{}}
		for _, t := range []game.Type{game.TypePairs, game.TypePipes, game.TypeGrid} {
			p, err := s.daily.puzzle(r.Context(), t)
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Str("gameType", string(t)).Msg("daily puzzle")
				writeError(w, http.StatusInternalServerError, "generate_failed")
				return
			}
			res.Puzzles[t] = p.ID
		}
		writeJSON(w, http.StatusOK, res)
	})
}

// puzzle returns today's board for t, generating and storing it on first use.
func (d *dailyBoards) puzzle(ctx context.Context, t game.Type) (store.Puzzle, error) {
	now := d.srv.now()
	date := daily.DateKey(now)

	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.srv.store.DailyPuzzle(ctx, date, t)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return p, err
	}

	rng := rand.New(rand.NewSource(daily.Seed(now, d.salt, t)))
	raw, err := d.srv.generate(rng, t, nil)
	if err != nil {
		return store.Puzzle{}, err
	}
	p = store.Puzzle{ID: d.srv.newID(), GameType: t, Layout: raw, Daily: date, CreatedAt: now}
	if err := d.srv.store.SavePuzzle(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// another instance won the race
			return d.srv.store.DailyPuzzle(ctx, date, t)
		}
		return store.Puzzle{}, err
	}
	return p, nil
}
