package pairs

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

// Rules adapts the pairs engine to the session engine.
type Rules struct {
	Pairs int // board size in pairs; DefaultPairs when zero
}

func (r Rules) size() int {
	if r.Pairs == 0 {
		return DefaultPairs
	}
	return r.Pairs
}

func (Rules) Type() game.Type { return game.TypePairs }

func (r Rules) Params() map[string]any { return map[string]any{"pairs": r.size()} }

func (Rules) Decode(raw json.RawMessage) (Board, error) { return Decode(raw) }

func (r Rules) Generate(rng *rand.Rand) (Board, error) { return Generate(rng, r.size()) }

func (Rules) Apply(b Board, id int) (game.Step[Board], bool) { return Flip(b, id) }

func (Rules) Outcome(b Board) game.Outcome { return Outcome(b) }

func (Rules) Clone(b Board) Board { return b.Clone() }

// Score is undefined for pairs; only moves and time are reported.
func (Rules) Score(int, int) (int, bool) { return 0, false }

func (Rules) Pending(b Board) (time.Duration, bool) { return Pending(b) }

func (Rules) Settle(b Board) Board { return Settle(b) }
