// apps/go-server/internal/store/memory.go
//
// In-memory implementation of Store.
// Used when DB_PATH is empty and in tests.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Values are copied in and out, so callers never share slices with the map.

package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

type memory struct {
	mu       sync.RWMutex
	players  map[string]Player
	puzzles  map[string]Puzzle
	daily    map[string]string // date|type -> puzzle id
	attempts map[string]Attempt
	unlocked map[string]map[string]bool // player -> achievement ids
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		players:  make(map[string]Player),
		puzzles:  make(map[string]Puzzle),
		daily:    make(map[string]string),
		attempts: make(map[string]Attempt),
		unlocked: make(map[string]map[string]bool),
	}
}

func dailyKey(date string, t game.Type) string { return date + "|" + string(t) }

func (m *memory) CreatePlayer(_ context.Context, p Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID]; ok {
		return ErrConflict
	}
	m.players[p.ID] = p
	return nil
}

func (m *memory) GetPlayer(_ context.Context, id string) (Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.players[id]; ok {
		return p, nil
	}
	return Player{}, ErrNotFound
}

func (m *memory) SavePuzzle(_ context.Context, p Puzzle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.puzzles[p.ID]; ok {
		return ErrConflict
	}
	if p.Daily != "" {
		k := dailyKey(p.Daily, p.GameType)
		if _, ok := m.daily[k]; ok {
			return ErrConflict
		}
		m.daily[k] = p.ID
	}
	p.Layout = bytes.Clone(p.Layout)
	m.puzzles[p.ID] = p
	return nil
}

func (m *memory) GetPuzzle(_ context.Context, id string) (Puzzle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puzzleLocked(id)
}

func (m *memory) DailyPuzzle(_ context.Context, date string, t game.Type) (Puzzle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.daily[dailyKey(date, t)]
	if !ok {
		return Puzzle{}, ErrNotFound
	}
	return m.puzzleLocked(id)
}

func (m *memory) puzzleLocked(id string) (Puzzle, error) {
	p, ok := m.puzzles[id]
	if !ok {
		return Puzzle{}, ErrNotFound
	}
	p.Layout = bytes.Clone(p.Layout)
	return p, nil
}

func (m *memory) CreateAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[a.ID]; ok {
		return ErrConflict
	}
	m.attempts[a.ID] = a
	return nil
}

func (m *memory) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.attempts[id]; ok {
		return a, nil
	}
	return Attempt{}, ErrNotFound
}

func (m *memory) FinishAttempt(_ context.Context, id string, r Result) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	if a.FinishedAt != nil {
		return a, ErrAlreadyFinished
	}
	at := r.At
	a.FinishedAt = &at
	a.Success = r.Success
	a.Moves = r.Moves
	a.DurationMs = r.DurationMs
	if r.Score != nil {
		sc := *r.Score
		a.Score = &sc
	}
	m.attempts[id] = a
	return a, nil
}

func (m *memory) Finished(_ context.Context, playerID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.PlayerID == playerID && a.FinishedAt != nil {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FinishedAt.Equal(*out[j].FinishedAt) {
			return out[i].FinishedAt.Before(*out[j].FinishedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memory) Unlocked(_ context.Context, playerID string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]bool, len(m.unlocked[playerID]))
	for id := range m.unlocked[playerID] {
		out[id] = true
	}
	return out, nil
}

func (m *memory) Unlock(_ context.Context, playerID, _ string, ids []string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.unlocked[playerID]
	if set == nil {
		set = make(map[string]bool)
		m.unlocked[playerID] = set
	}
	for _, id := range ids {
		set[id] = true
	}
	return nil
}

func (m *memory) Close() error { return nil }
