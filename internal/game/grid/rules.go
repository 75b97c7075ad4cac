package grid

import (
	"encoding/json"
	"math/rand"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

// Rules adapts the grid engine to the session engine.
type Rules struct {
	Difficulty  Difficulty
	MaxMistakes int // DefaultMaxMistakes when zero
}

func (Rules) Type() game.Type { return game.TypeGrid }

func (r Rules) Params() map[string]any {
	p := map[string]any{"difficulty": r.Difficulty.String()}
	if r.MaxMistakes > 0 {
		p["maxMistakes"] = r.MaxMistakes
	}
	return p
}

func (Rules) Decode(raw json.RawMessage) (Board, error) { return Decode(raw) }

func (r Rules) Generate(rng *rand.Rand) (Board, error) {
	return Generate(rng, r.Difficulty, r.MaxMistakes)
}

func (Rules) Apply(b Board, m Move) (game.Step[Board], bool) { return Input(b, m) }

func (Rules) Outcome(b Board) game.Outcome { return Outcome(b) }

func (Rules) Clone(b Board) Board { return b.Clone() }

// Score is undefined for the grid; moves, time and mistakes are reported.
func (Rules) Score(int, int) (int, bool) { return 0, false }
