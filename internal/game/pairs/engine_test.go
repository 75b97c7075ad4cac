package pairs

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

func board(symbols ...string) Board {
	cards := make([]Card, len(symbols))
	for i, s := range symbols {
		cards[i] = Card{ID: i, Symbol: s, State: Hidden}
	}
	return Board{Cards: cards}
}

func TestGenerate_Invariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		b, err := Generate(rand.New(rand.NewSource(seed)), DefaultPairs)
		require.NoError(t, err)
		require.Len(t, b.Cards, 2*DefaultPairs)
		require.NoError(t, Validate(b))
		assert.Equal(t, game.Playing, Outcome(b))
	}
}

func TestGenerate_OutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Generate(rng, 1)
	assert.Error(t, err)
	_, err = Generate(rng, MaxPairs+1)
	assert.Error(t, err)
}

func TestFlip_Mismatch(t *testing.T) {
	b := board("cat", "dog", "cat", "dog")

	s1, ok := Flip(b, 0)
	require.True(t, ok)
	assert.False(t, s1.Counted, "first card of a pair is not a move")
	assert.Equal(t, Hidden, b.Cards[0].State, "input board must not change")

	s2, ok := Flip(s1.Board, 1)
	require.True(t, ok)
	assert.True(t, s2.Counted)

	d, pending := Pending(s2.Board)
	require.True(t, pending)
	assert.Equal(t, MismatchDelay, d)

	_, ok = Flip(s2.Board, 2)
	assert.False(t, ok, "third flip while a pair is face up")

	settled := Settle(s2.Board)
	assert.Equal(t, Hidden, settled.Cards[0].State)
	assert.Equal(t, Hidden, settled.Cards[1].State)
	_, pending = Pending(settled)
	assert.False(t, pending)
}

func TestFlip_MatchAndComplete(t *testing.T) {
	b := board("cat", "dog", "cat", "dog")
	steps := [][2]int{{0, 2}, {1, 3}}
	for _, p := range steps {
		s, ok := Flip(b, p[0])
		require.True(t, ok)
		s, ok = Flip(s.Board, p[1])
		require.True(t, ok)
		d, pending := Pending(s.Board)
		require.True(t, pending)
		assert.Equal(t, MatchDelay, d)
		b = Settle(s.Board)
	}
	assert.Equal(t, game.Solved, Outcome(b))
	assert.Equal(t, game.Solved, Outcome(b), "idempotent")

	_, ok := Flip(b, 0)
	assert.False(t, ok, "matched cards cannot be flipped")
}

func TestFlip_Rejects(t *testing.T) {
	b := board("cat", "cat")
	_, ok := Flip(b, -1)
	assert.False(t, ok)
	_, ok = Flip(b, 2)
	assert.False(t, ok)

	s, _ := Flip(b, 0)
	_, ok = Flip(s.Board, 0)
	assert.False(t, ok, "already visible")
}

// Matched cards always come in pairs, whatever legal sequence is played.
func TestProperty_MatchedCountEven(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b, err := Generate(rng, 8)
		require.NoError(t, err)
		for i := 0; i < 200; i++ {
			if _, pending := Pending(b); pending && rng.Intn(2) == 0 {
				b = Settle(b)
			} else if s, ok := Flip(b, rng.Intn(len(b.Cards))); ok {
				b = s.Board
			}
			require.Zero(t, MatchedCount(b)%2, "seed=%d step=%d", seed, i)
			require.NoError(t, Validate(b))
		}
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Validate(Board{}))
	assert.Error(t, Validate(board("cat", "dog")))
	assert.Error(t, Validate(board("cat", "cat", "cat", "cat")))

	b := board("cat", "cat")
	b.Cards[1].ID = 7
	assert.Error(t, Validate(b))
}

func TestDecode(t *testing.T) {
	raw, err := json.Marshal(board("cat", "dog", "dog", "cat"))
	require.NoError(t, err)
	b, err := Decode(raw)
	require.NoError(t, err)
	assert.Len(t, b.Cards, 4)

	_, err = Decode(json.RawMessage(`{"cards":[{"id":0,"symbol":"cat","state":"matched"},{"id":1,"symbol":"cat"}]}`))
	assert.Error(t, err)
	_, err = Decode(json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestClone_SharesNoCards(t *testing.T) {
	b := board("cat", "cat")
	c := b.Clone()
	c.Cards[0].State = Matched
	assert.Equal(t, Hidden, b.Cards[0].State)
	assert.Nil(t, Board{}.Clone().Cards)
}
