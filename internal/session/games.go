package session

import (
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/grid"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/pairs"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game/pipes"
)

type (
	Pairs = Session[pairs.Board, int]
	Pipes = Session[pipes.Board, pipes.Move]
	Grid  = Session[grid.Board, grid.Move]
)

func NewPairs(r pairs.Rules, opts Options) *Pairs { return New[pairs.Board, int](r, opts) }

func NewPipes(r pipes.Rules, opts Options) *Pipes { return New[pipes.Board, pipes.Move](r, opts) }

func NewGrid(r grid.Rules, opts Options) *Grid { return New[grid.Board, grid.Move](r, opts) }
