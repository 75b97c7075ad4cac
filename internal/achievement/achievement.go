// apps/go-server/internal/achievement/achievement.go
//
// Achievements and the presentation queue.
//   - Achievement: server-defined, read-only reward.
//   - Queue:       FIFO of unlocked achievements; exactly one is active at a
//                  time and the presentation layer acknowledges it to advance.
//
// Batches arrive unordered from the server; the queue presents them in the
// order they were pushed.

package achievement

import "sync"

// Achievement is an unlockable reward.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Points      int    `json:"points"`
}

// Queue is safe for concurrent use; results are pushed from background
// finalize work while the UI reads and acknowledges.
type Queue struct {
	mu    sync.Mutex
	items []Achievement
}

// Push appends a batch behind anything already queued.
func (q *Queue) Push(batch ...Achievement) {
	if len(batch) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, batch...)
}

// Active returns the head without removing it.
func (q *Queue) Active() (Achievement, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Achievement{}, false
	}
	return q.items[0], true
}

// Ack removes the head once its notification was shown or timed out.
func (q *Queue) Ack() (Achievement, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Achievement{}, false
	}
	head := q.items[0]
	q.items[0] = Achievement{}
	q.items = q.items[1:]
	return head, true
}

// Len reports how many achievements are waiting, including the active one.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
