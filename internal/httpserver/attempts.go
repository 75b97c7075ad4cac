// apps/go-server/internal/httpserver/attempts.go
//
// Attempt lifecycle for the authenticated player.
//   - POST /attempts                    open an attempt for a puzzle (or a local board)
//   - POST /attempts/{id}/finish        record the result exactly once
//   - POST /attempts/{id}/achievements  evaluate the catalog, return new unlocks

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/memorylane/apps/go-server/internal/achievement"
	"github.com/robalobadob/memorylane/apps/go-server/internal/attempts"
	"github.com/robalobadob/memorylane/apps/go-server/internal/daily"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/pairs"
	"github.com/robalobadob/memorylane/apps/go-server/internal/store"
)

// maxPipesScore is the score of an instant zero-move solve.
const maxPipesScore = 1000

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	me := currentPlayer(r)
	var req attempts.StartAttemptRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	t, err := game.ParseType(string(req.GameType))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_game_type")
		return
	}
	if req.PuzzleID != "" {
		p, err := s.store.GetPuzzle(r.Context(), req.PuzzleID)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "puzzle_not_found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if p.GameType != t {
			writeError(w, http.StatusBadRequest, "game_type_mismatch")
			return
		}
	}

	a := store.Attempt{ID: s.newID(), PlayerID: me.ID, PuzzleID: req.PuzzleID, GameType: t, StartedAt: s.now()}
	if err := s.store.CreateAttempt(r.Context(), a); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create attempt")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusCreated, attempts.StartAttemptResponse{AttemptID: a.ID})
}

// ownAttempt loads the {id} attempt if it belongs to the caller. It writes the
// error response and returns false otherwise.
func (s *Server) ownAttempt(w http.ResponseWriter, r *http.Request) (store.Attempt, bool) {
	a, err := s.store.GetAttempt(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && a.PlayerID != currentPlayer(r).ID) {
		writeError(w, http.StatusNotFound, "not_found")
		return store.Attempt{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return store.Attempt{}, false
	}
	return a, true
}

func (s *Server) handleFinishAttempt(w http.ResponseWriter, r *http.Request) {
	a, ok := s.ownAttempt(w, r)
	if !ok {
		return
	}
	var req attempts.Result
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Moves < 0 || req.DurationMs < 0 {
		writeError(w, http.StatusBadRequest, "bad_result")
		return
	}

	// Only a successful pipes game carries a score.
	score := req.Score
	if a.GameType != game.TypePipes || !req.Success {
		score = nil
	} else if score != nil && (*score < 0 || *score > maxPipesScore) {
		writeError(w, http.StatusBadRequest, "bad_score")
		return
	}

	_, err := s.store.FinishAttempt(r.Context(), a.ID, store.Result{
		Success:    req.Success,
		Moves:      req.Moves,
		DurationMs: req.DurationMs,
		Score:      score,
		At:         s.now(),
	})
	if errors.Is(err, store.ErrAlreadyFinished) {
		writeError(w, http.StatusConflict, "already_finished")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("attemptId", a.ID).Msg("finish attempt")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, attempts.Ack{OK: true})
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	a, ok := s.ownAttempt(w, r)
	if !ok {
		return
	}
	if a.FinishedAt == nil {
		writeError(w, http.StatusConflict, "not_finished")
		return
	}
	ctx := r.Context()
	l := hlog.FromRequest(r).With().Str("attemptId", a.ID).Logger()

	finished, err := s.store.Finished(ctx, a.PlayerID)
	if err != nil {
		l.Error().Err(err).Msg("load history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	already, err := s.store.Unlocked(ctx, a.PlayerID)
	if err != nil {
		l.Error().Err(err).Msg("load unlocks")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	facts := achievement.Facts{
		GameType:   a.GameType,
		Success:    a.Success,
		Moves:      a.Moves,
		DurationMs: a.DurationMs,
		Score:      a.Score,
		Size:       s.boardSize(r, a),
	}
	unlocked := achievement.Evaluate(facts, history(finished, daily.DateKey(*a.FinishedAt)), already)

	ids := make([]string, len(unlocked))
	for i, u := range unlocked {
		ids[i] = u.ID
	}
	if err := s.store.Unlock(ctx, a.PlayerID, a.ID, ids, s.now()); err != nil {
		l.Error().Err(err).Msg("record unlocks")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if len(unlocked) > 0 {
		l.Info().Strs("achievements", ids).Msg("unlocked")
	}
	if unlocked == nil {
		unlocked = []achievement.Achievement{}
	}
	writeJSON(w, http.StatusOK, attempts.AchievementsResponse{Achievements: unlocked})
}

// history summarises successful attempts; today is the date key of the
// attempt being evaluated.
func history(finished []store.Attempt, today string) achievement.History {
	h := achievement.History{SolvesByType: map[game.Type]int{}}
	for _, f := range finished {
		if !f.Success {
			continue
		}
		h.Solves++
		h.SolvesByType[f.GameType]++
		if daily.DateKey(*f.FinishedAt) == today {
			h.SolvesToday++
		}
	}
	return h
}

// boardSize is the number of pairs on a stored pairs board, 0 when unknown.
func (s *Server) boardSize(r *http.Request, a store.Attempt) int {
	if a.GameType != game.TypePairs || a.PuzzleID == "" {
		return 0
	}
	p, err := s.store.GetPuzzle(r.Context(), a.PuzzleID)
	if err != nil {
		return 0
	}
	var b pairs.Board
	if json.Unmarshal(p.Layout, &b) != nil {
		return 0
	}
	return len(b.Cards) / 2
}
