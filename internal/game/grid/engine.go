// apps/go-server/internal/game/grid/engine.go
//
// Rules for the constraint grid.
// Responsibilities:
//   - Validate and apply player input (givens are read-only).
//   - Recompute conflict flags against row/column/box uniqueness.
//   - Count each newly introduced conflict as one mistake.
//   - Detect success (full, no conflicts) and failure (mistake limit).
package grid

import "github.com/robalobadob/memorylane/apps/go-server/internal/game"

// Input writes a value into a cell.
//
// Rejected (ok=false) when the coordinates or value are out of range, the
// cell is read-only, the value is already there, or the board is terminal.
// Every accepted input counts as a move.
func Input(b Board, m Move) (game.Step[Board], bool) {
	if m.Row < 0 || m.Row >= Size || m.Col < 0 || m.Col >= Size || m.Value > Size {
		return game.Step[Board]{Board: b}, false
	}
	cell := b.Cells[m.Row][m.Col]
	if cell.ReadOnly || cell.Value == m.Value || Outcome(b).Terminal() {
		return game.Step[Board]{Board: b}, false
	}
	next := b
	next.Cells[m.Row][m.Col].Value = m.Value
	next.markErrors()
	if next.Cells[m.Row][m.Col].Error {
		next.Mistakes++
	}
	return game.Step[Board]{Board: next, Counted: true}, true
}

// Outcome is Failed once the mistake limit is reached, Solved once every
// cell is filled without conflicts, otherwise Playing.
func Outcome(b Board) game.Outcome {
	if b.MaxMistakes > 0 && b.Mistakes >= b.MaxMistakes {
		return game.Failed
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.Cells[r][c].Value == 0 || b.Cells[r][c].Error {
				return game.Playing
			}
		}
	}
	return game.Solved
}

// Filled counts non-empty cells.
func Filled(b Board) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.Cells[r][c].Value != 0 {
				n++
			}
		}
	}
	return n
}

// markErrors flags every player cell that shares its value with a peer.
// Givens are never flagged.
func (b *Board) markErrors() {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			cell := &b.Cells[r][c]
			cell.Error = !cell.ReadOnly && cell.Value != 0 && b.conflicts(r, c)
		}
	}
}

// conflicts reports whether (r, c) repeats a value in its row, column or box.
func (b *Board) conflicts(r, c int) bool {
	v := b.Cells[r][c].Value
	for i := 0; i < Size; i++ {
		if i != c && b.Cells[r][i].Value == v {
			return true
		}
		if i != r && b.Cells[i][c].Value == v {
			return true
		}
	}
	br, bc := (r/3)*3, (c/3)*3
	for dr := 0; dr < 3; dr++ {
		for dc := 0; dc < 3; dc++ {
			rr, cc := br+dr, bc+dc
			if (rr != r || cc != c) && b.Cells[rr][cc].Value == v {
				return true
			}
		}
	}
	return false
}
