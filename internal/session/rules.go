package session

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/robalobadob/memorylane/apps/go-server/internal/achievement"
	"github.com/robalobadob/memorylane/apps/go-server/internal/attempts"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

// Rules is everything a session needs to know about one game type. B is the
// immutable board snapshot and M the player's move.
type Rules[B, M any] interface {
	Type() game.Type
	// Params are sent with createPuzzle.
	Params() map[string]any
	Decode(raw json.RawMessage) (B, error)
	// Generate builds a local board of the same shape Params describes.
	Generate(rng *rand.Rand) (B, error)
	Apply(b B, m M) (game.Step[B], bool)
	Outcome(b B) game.Outcome
	// Clone copies b so callers cannot reach session storage.
	Clone(b B) B
	Score(elapsedSeconds, moves int) (int, bool)
}

// Settler is implemented by games whose moves resolve after a delay.
type Settler[B any] interface {
	Pending(b B) (time.Duration, bool)
	Settle(b B) B
}

// API is the remote attempt service. *attempts.Client implements it.
type API interface {
	CreatePuzzle(ctx context.Context, t game.Type, params map[string]any) (attempts.Puzzle, error)
	StartAttempt(ctx context.Context, puzzleID string, t game.Type) (string, error)
	FinishAttempt(ctx context.Context, attemptID string, r attempts.Result) error
	CheckAchievements(ctx context.Context, attemptID string) ([]achievement.Achievement, error)
}

var _ API = (*attempts.Client)(nil)
