package pipes

import (
	"encoding/json"
	"math/rand"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

// Rules adapts the pipes engine to the session engine.
type Rules struct {
	Rows, Cols int // DefaultRows x DefaultCols when zero
}

func (r Rules) size() (int, int) {
	rows, cols := r.Rows, r.Cols
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}
	return rows, cols
}

func (Rules) Type() game.Type { return game.TypePipes }

func (r Rules) Params() map[string]any {
	rows, cols := r.size()
	return map[string]any{"rows": rows, "cols": cols}
}

func (Rules) Decode(raw json.RawMessage) (Board, error) { return Decode(raw) }

func (r Rules) Generate(rng *rand.Rand) (Board, error) {
	rows, cols := r.size()
	return Generate(rng, rows, cols)
}

func (Rules) Apply(b Board, m Move) (game.Step[Board], bool) { return Apply(b, m) }

func (Rules) Outcome(b Board) game.Outcome { return Outcome(b) }

func (Rules) Clone(b Board) Board { return b.Clone() }

func (Rules) Score(elapsedSeconds, moves int) (int, bool) {
	return game.PipesScore(elapsedSeconds, moves), true
}
