package achievement

import "github.com/robalobadob/memorylane/apps/go-server/internal/game"

// Facts describe one finished attempt as the attempt service sees it.
type Facts struct {
	GameType   game.Type
	Success    bool
	Moves      int
	DurationMs int64
	Score      *int
	Size       int // pairs on the board for the pairs game, 0 when unknown
}

// History summarises a player's successful attempts, including the one being
// evaluated.
type History struct {
	Solves       int
	SolvesByType map[game.Type]int
	SolvesToday  int
}

// Rule is a catalog entry.
type Rule struct {
	Achievement
	Met func(f Facts, h History) bool
}

// Catalog is the server-defined achievement set.
var Catalog = []Rule{
	{
		Achievement: Achievement{ID: "first-pairs", Title: "Sharp Memory", Description: "Finish your first pairs game", Icon: "cards", Points: 10},
		Met:         firstOf(game.TypePairs),
	},
	{
		Achievement: Achievement{ID: "first-pipes", Title: "Plumber", Description: "Connect your first pipes board", Icon: "pipe", Points: 10},
		Met:         firstOf(game.TypePipes),
	},
	{
		Achievement: Achievement{ID: "first-grid", Title: "Number Cruncher", Description: "Complete your first number grid", Icon: "grid", Points: 10},
		Met:         firstOf(game.TypeGrid),
	},
	{
		Achievement: Achievement{ID: "perfect-pairs", Title: "Photographic", Description: "Finish a pairs game without a single miss", Icon: "camera", Points: 50},
		Met: func(f Facts, _ History) bool {
			return f.Success && f.GameType == game.TypePairs && f.Size > 0 && f.Moves == f.Size
		},
	},
	{
		Achievement: Achievement{ID: "pipes-900", Title: "Master Plumber", Description: "Score 900 or more on a pipes board", Icon: "trophy", Points: 30},
		Met: func(f Facts, _ History) bool {
			return f.Success && f.GameType == game.TypePipes && f.Score != nil && *f.Score >= 900
		},
	},
	{
		Achievement: Achievement{ID: "grid-quick", Title: "Quick Thinker", Description: "Complete a number grid in under ten minutes", Icon: "clock", Points: 30},
		Met: func(f Facts, _ History) bool {
			return f.Success && f.GameType == game.TypeGrid && f.DurationMs > 0 && f.DurationMs < 10*60*1000
		},
	},
	{
		Achievement: Achievement{ID: "ten-solves", Title: "Regular", Description: "Finish ten games", Icon: "star", Points: 25},
		Met:         func(f Facts, h History) bool { return f.Success && h.Solves >= 10 },
	},
	{
		Achievement: Achievement{ID: "three-today", Title: "On a Roll", Description: "Finish three games in one day", Icon: "sun", Points: 15},
		Met:         func(f Facts, h History) bool { return f.Success && h.SolvesToday >= 3 },
	},
}

func firstOf(t game.Type) func(Facts, History) bool {
	return func(f Facts, h History) bool {
		return f.Success && f.GameType == t && h.SolvesByType[t] >= 1
	}
}

// Evaluate returns catalog achievements met by f and h that are not in
// already, in catalog order.
func Evaluate(f Facts, h History, already map[string]bool) []Achievement {
	var out []Achievement
	for _, r := range Catalog {
		if already[r.ID] || !r.Met(f, h) {
			continue
		}
		out = append(out, r.Achievement)
	}
	return out
}
