// apps/go-server/internal/game/pairs/engine.go
//
// Rules for the pairs game.
// Responsibilities:
//   - Build shuffled boards (two cards per symbol).
//   - Validate and apply flips.
//   - Resolve a face-up pair after the visual settle delay.
//   - Detect completion.
//
// All functions are pure: the input board is never modified.
package pairs

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
	"github.com/robalobadob/memorylane/apps/go-server/internal/symbols"
)

// New lays out two cards per symbol in shuffled order.
func New(rng *rand.Rand, syms []string) Board {
	cards := make([]Card, 0, 2*len(syms))
	for _, s := range syms {
		cards = append(cards, Card{Symbol: s, State: Hidden}, Card{Symbol: s, State: Hidden})
	}
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	for i := range cards {
		cards[i].ID = i
	}
	return Board{Cards: cards}
}

// Generate picks n symbols from the loaded symbol set and lays them out.
func Generate(rng *rand.Rand, n int) (Board, error) {
	if n < MinPairs || n > MaxPairs {
		return Board{}, fmt.Errorf("pairs: %d pairs out of range [%d,%d]", n, MinPairs, MaxPairs)
	}
	syms, err := symbols.Pick(rng, n)
	if err != nil {
		return Board{}, err
	}
	return New(rng, syms), nil
}

// Flip reveals card id.
//
// Rejected (ok=false) when:
//   - id is out of range;
//   - the card is already visible or matched;
//   - two cards are already face up awaiting resolution.
//
// Revealing the second card of a pair counts as one move.
func Flip(b Board, id int) (game.Step[Board], bool) {
	if id < 0 || id >= len(b.Cards) || b.Cards[id].State != Hidden {
		return game.Step[Board]{Board: b}, false
	}
	up := faceUp(b)
	if len(up) >= 2 {
		return game.Step[Board]{Board: b}, false
	}
	next := b.Clone()
	next.Cards[id].State = Visible
	return game.Step[Board]{Board: next, Counted: len(up) == 1}, true
}

// Pending reports whether a face-up pair is waiting to settle and how long
// the player should see it first.
func Pending(b Board) (time.Duration, bool) {
	up := faceUp(b)
	if len(up) != 2 {
		return 0, false
	}
	if b.Cards[up[0]].Symbol == b.Cards[up[1]].Symbol {
		return MatchDelay, true
	}
	return MismatchDelay, true
}

// Settle resolves a face-up pair: matching symbols become matched, others go
// back to hidden. Boards without a face-up pair are returned unchanged.
func Settle(b Board) Board {
	up := faceUp(b)
	if len(up) != 2 {
		return b
	}
	to := Hidden
	if b.Cards[up[0]].Symbol == b.Cards[up[1]].Symbol {
		to = Matched
	}
	next := b.Clone()
	next.Cards[up[0]].State = to
	next.Cards[up[1]].State = to
	return next
}

// Outcome is Solved once every card is matched. Pairs has no failure state.
func Outcome(b Board) game.Outcome {
	if len(b.Cards) == 0 {
		return game.Playing
	}
	for _, c := range b.Cards {
		if c.State != Matched {
			return game.Playing
		}
	}
	return game.Solved
}

// MatchedCount returns how many cards are matched.
func MatchedCount(b Board) int {
	n := 0
	for _, c := range b.Cards {
		if c.State == Matched {
			n++
		}
	}
	return n
}

// Validate checks the structural invariants of a board: ids equal positions,
// states are known, and every symbol appears exactly twice.
func Validate(b Board) error {
	if len(b.Cards) == 0 || len(b.Cards)%2 != 0 {
		return fmt.Errorf("pairs: %d cards, need a positive even count", len(b.Cards))
	}
	count := make(map[string]int, len(b.Cards)/2)
	for i, c := range b.Cards {
		if c.ID != i {
			return fmt.Errorf("pairs: card %d has id %d", i, c.ID)
		}
		switch c.State {
		case Hidden, Visible, Matched:
		default:
			return fmt.Errorf("pairs: card %d has state %q", i, c.State)
		}
		if c.Symbol == "" {
			return fmt.Errorf("pairs: card %d has no symbol", i)
		}
		count[c.Symbol]++
	}
	for s, n := range count {
		if n != 2 {
			return fmt.Errorf("pairs: symbol %q appears %d times", s, n)
		}
	}
	return nil
}

// Decode parses a server layout. A fresh layout must be fully hidden.
func Decode(raw json.RawMessage) (Board, error) {
	var b Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return Board{}, fmt.Errorf("pairs: decode layout: %w", err)
	}
	for i := range b.Cards {
		if b.Cards[i].State == "" {
			b.Cards[i].State = Hidden
		}
		if b.Cards[i].State != Hidden {
			return Board{}, fmt.Errorf("pairs: layout card %d is %s", i, b.Cards[i].State)
		}
	}
	if err := Validate(b); err != nil {
		return Board{}, err
	}
	return b, nil
}

func faceUp(b Board) []int {
	var up []int
	for i, c := range b.Cards {
		if c.State == Visible {
			up = append(up, i)
		}
	}
	return up
}

// Clone returns a copy that shares no storage with b.
func (b Board) Clone() Board {
	b.Cards = slices.Clone(b.Cards)
	return b
}
