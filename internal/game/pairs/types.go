// apps/go-server/internal/game/pairs/types.go
//
// Board model for the pairs (tile matching) game.
//   - Card:  one tile with a picture symbol and a face state.
//   - Board: ordered cards; every symbol appears on exactly two cards.

package pairs

import "time"

// State is the face state of a card. A card moves hidden → visible → matched
// and never leaves matched.
type State string

const (
	Hidden  State = "hidden"
	Visible State = "visible"
	Matched State = "matched"
)

// Card is a single tile.
type Card struct {
	ID     int    `json:"id"`
	Symbol string `json:"symbol"`
	State  State  `json:"state"`
}

// Board is an immutable snapshot; engine functions return modified copies.
type Board struct {
	Cards []Card `json:"cards"`
}

const (
	// MatchDelay is how long a matched pair stays face up before settling.
	MatchDelay = 500 * time.Millisecond
	// MismatchDelay is how long a mismatched pair stays face up before hiding.
	MismatchDelay = 1000 * time.Millisecond

	DefaultPairs = 12
	MinPairs     = 2
	MaxPairs     = 24
)
