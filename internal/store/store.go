// apps/go-server/internal/store/store.go
//
// Persistence for the attempt service.
//   - Player:  a family member who can sign in with a PIN.
//   - Puzzle:  a generated board; daily boards are keyed by (date, gameType).
//   - Attempt: one play-through of a puzzle, finished at most once.
//   - Unlocks: achievements a player already holds.
//
// Two implementations: memory (this package, memory.go) and SQLite (sqlite.go).

package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

var (
	ErrNotFound        = errors.New("store: not found")
	ErrConflict        = errors.New("store: already exists")
	ErrAlreadyFinished = errors.New("store: attempt already finished")
)

type Player struct {
	ID        string
	Name      string
	PinHash   string
	CreatedAt time.Time
}

type Puzzle struct {
	ID        string
	GameType  game.Type
	Layout    json.RawMessage
	Daily     string // date key for daily boards, empty otherwise
	CreatedAt time.Time
}

type Attempt struct {
	ID         string
	PlayerID   string
	PuzzleID   string // empty for locally generated boards
	GameType   game.Type
	StartedAt  time.Time
	FinishedAt *time.Time
	Success    bool
	Moves      int
	DurationMs int64
	Score      *int
}

// Result is what finishing an attempt records.
type Result struct {
	Success    bool
	Moves      int
	DurationMs int64
	Score      *int
	At         time.Time
}

// Store is safe for concurrent use.
type Store interface {
	CreatePlayer(ctx context.Context, p Player) error
	GetPlayer(ctx context.Context, id string) (Player, error)

	// SavePuzzle returns ErrConflict if a daily board already exists for the
	// same date and game type.
	SavePuzzle(ctx context.Context, p Puzzle) error
	GetPuzzle(ctx context.Context, id string) (Puzzle, error)
	DailyPuzzle(ctx context.Context, date string, t game.Type) (Puzzle, error)

	CreateAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// FinishAttempt returns ErrAlreadyFinished on a second call.
	FinishAttempt(ctx context.Context, id string, r Result) (Attempt, error)
	// Finished lists a player's finished attempts, oldest first.
	Finished(ctx context.Context, playerID string) ([]Attempt, error)

	Unlocked(ctx context.Context, playerID string) (map[string]bool, error)
	// Unlock records achievements; ids already held are ignored.
	Unlock(ctx context.Context, playerID, attemptID string, ids []string, at time.Time) error

	Close() error
}
