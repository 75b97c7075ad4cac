// apps/go-server/internal/httpserver/puzzles.go
//
// POST /puzzles: server-side board generation.
//
//	pairs  {pairs: 2..24}                 default 12
//	pipes  {rows: 2..10, cols: 2..10}     default 5x5
//	grid   {difficulty, maxMistakes}      default easy, GRID_MAX_MISTAKES
//	any    {daily: true}                  today's shared board, size params ignored

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/memorylane/apps/go-server/internal/attempts"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/grid"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/pairs"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/pipes"
	"github.com/robalobadob/memorylane/apps/go-server/internal/store"
)

var errBadParams = errors.New("bad_params")

func (s *Server) handleCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var req attempts.CreatePuzzleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	t, err := game.ParseType(string(req.GameType))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_game_type")
		return
	}

	if daily, _ := req.Params["daily"].(bool); daily {
		p, err := s.daily.puzzle(r.Context(), t)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("gameType", string(t)).Msg("daily puzzle")
			writeError(w, http.StatusInternalServerError, "generate_failed")
			return
		}
		writeJSON(w, http.StatusOK, attempts.Puzzle{ID: p.ID, Layout: p.Layout})
		return
	}

	raw, err := s.generate(rand.New(rand.NewSource(s.now().UnixNano())), t, req.Params)
	if errors.Is(err, errBadParams) {
		writeError(w, http.StatusBadRequest, "bad_params")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameType", string(t)).Msg("generate puzzle")
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}

	p := store.Puzzle{ID: s.newID(), GameType: t, Layout: raw, CreatedAt: s.now()}
	if err := s.store.SavePuzzle(r.Context(), p); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save puzzle")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusCreated, attempts.Puzzle{ID: p.ID, Layout: p.Layout})
}

// generate builds a fresh initial layout for t.
func (s *Server) generate(rng *rand.Rand, t game.Type, params map[string]any) (json.RawMessage, error) {
	switch t {
	case game.TypePairs:
		n, err := intParam(params, "pairs", pairs.DefaultPairs, pairs.MinPairs, pairs.MaxPairs)
		if err != nil {
			return nil, err
		}
		b, err := pairs.Generate(rng, n)
		if err != nil {
			return nil, err
		}
		return json.Marshal(b)

	case game.TypePipes:
		rows, err := intParam(params, "rows", pipes.DefaultRows, pipes.MinSize, pipes.MaxSize)
		if err != nil {
			return nil, err
		}
		cols, err := intParam(params, "cols", pipes.DefaultCols, pipes.MinSize, pipes.MaxSize)
		if err != nil {
			return nil, err
		}
		b, err := pipes.Generate(rng, rows, cols)
		if err != nil {
			return nil, err
		}
		return json.Marshal(b)

	case game.TypeGrid:
		mm, err := intParam(params, "maxMistakes", s.cfg.GridMaxMistakes, 1, 20)
		if err != nil {
			return nil, err
		}
		d, _ := params["difficulty"].(string)
		b, err := grid.Generate(rng, grid.ParseDifficulty(d), mm)
		if err != nil {
			return nil, err
		}
		return json.Marshal(grid.Encode(b))
	}
	return nil, fmt.Errorf("%w: game type %q", errBadParams, t)
}

// intParam reads a whole JSON number in [lo, hi], or def when absent.
func intParam(params map[string]any, key string, def, lo, hi int) (int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < float64(lo) || f > float64(hi) {
		return 0, fmt.Errorf("%w: %s must be a whole number in [%d,%d]", errBadParams, key, lo, hi)
	}
	return int(f), nil
}
