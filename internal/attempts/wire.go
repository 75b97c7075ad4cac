// apps/go-server/internal/attempts/wire.go
//
// JSON payloads shared by the attempt client and the attempt service.
//
//	POST /puzzles                   CreatePuzzleRequest  → Puzzle
//	POST /attempts                  StartAttemptRequest  → StartAttemptResponse
//	POST /attempts/{id}/finish      Result               → Ack
//	POST /attempts/{id}/achievements                     → AchievementsResponse

package attempts

import (
	"encoding/json"

	"github.com/robalobadob/memorylane/apps/go-server/internal/achievement"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

type CreatePuzzleRequest struct {
	GameType game.Type      `json:"gameType"`
	Params   map[string]any `json:"params,omitempty"`
}

// Puzzle is a server-generated board.
type Puzzle struct {
	ID     string          `json:"puzzleId"`
	Layout json.RawMessage `json:"initialLayout"`
}

type StartAttemptRequest struct {
	PuzzleID string    `json:"puzzleId,omitempty"`
	GameType game.Type `json:"gameType"`
}

type StartAttemptResponse struct {
	AttemptID string `json:"attemptId"`
}

// Result is the outcome reported when an attempt finishes. Score is only set
// by games that define one.
type Result struct {
	Success    bool  `json:"success"`
	Moves      int   `json:"moves"`
	DurationMs int64 `json:"durationMs"`
	Score      *int  `json:"score,omitempty"`
}

type Ack struct {
	OK bool `json:"ok"`
}

type AchievementsResponse struct {
	Achievements []achievement.Achievement `json:"achievements"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
