package achievement

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

func TestQueue_FIFO(t *testing.T) {
	var q Queue
	_, ok := q.Active()
	assert.False(t, ok)

	q.Push(Achievement{ID: "a"}, Achievement{ID: "b"})
	q.Push(Achievement{ID: "c"})
	require.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		head, ok := q.Active()
		require.True(t, ok)
		assert.Equal(t, want, head.ID)

		again, _ := q.Active()
		assert.Equal(t, want, again.ID, "peek does not advance")

		acked, ok := q.Ack()
		require.True(t, ok)
		assert.Equal(t, want, acked.ID)
	}
	_, ok = q.Ack()
	assert.False(t, ok)
}

func TestQueue_PushEmpty(t *testing.T) {
	var q Queue
	q.Push()
	assert.Zero(t, q.Len())
	_, ok := q.Ack()
	assert.False(t, ok)
}

func TestQueue_ConcurrentPush(t *testing.T) {
	var q Queue
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push(Achievement{ID: "a"}, Achievement{ID: "b"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 40, q.Len())
}

func TestEvaluate(t *testing.T) {
	score := 950
	f := Facts{GameType: game.TypePipes, Success: true, Moves: 5, DurationMs: 10_000, Score: &score}
	h := History{Solves: 1, SolvesByType: map[game.Type]int{game.TypePipes: 1}, SolvesToday: 1}

	got := Evaluate(f, h, nil)
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"first-pipes", "pipes-900"}, ids)

	got = Evaluate(f, h, map[string]bool{"first-pipes": true})
	require.Len(t, got, 1)
	assert.Equal(t, "pipes-900", got[0].ID)
}

func TestEvaluate_FailureUnlocksNothing(t *testing.T) {
	f := Facts{GameType: game.TypeGrid, Success: false, Moves: 3, DurationMs: 1000}
	h := History{Solves: 12, SolvesByType: map[game.Type]int{game.TypeGrid: 4}, SolvesToday: 5}
	assert.Empty(t, Evaluate(f, h, nil))
}

func TestEvaluate_PerfectPairs(t *testing.T) {
	f := Facts{GameType: game.TypePairs, Success: true, Moves: 12, Size: 12}
	h := History{Solves: 3, SolvesByType: map[game.Type]int{game.TypePairs: 3}}
	got := Evaluate(f, h, map[string]bool{"first-pairs": true})
	require.Len(t, got, 1)
	assert.Equal(t, "perfect-pairs", got[0].ID)

	f.Size = 0
	assert.Empty(t, Evaluate(f, h, map[string]bool{"first-pairs": true}), "unknown board size")
}
