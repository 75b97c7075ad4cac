// Package session drives one mini-game from a fresh board to a recorded
// result.
//
// A Session owns the board, the move counter, the elapsed-time ticker and any
// delayed-resolution timer. It talks to the attempt service lazily: nothing is
// recorded until the first accepted move, and finish/achievement calls run in
// the background once the board first reaches a terminal state. Every piece
// of background work is tagged with the game id it was started for and is
// ignored if the session has been reset since.
package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorylane/apps/go-server/internal/achievement"
	"github.com/robalobadob/memorylane/apps/go-server/internal/attempts"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

const (
	DefaultLoadTimeout    = 5 * time.Second
	DefaultAttemptWait    = 10 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Options configure a Session. The zero value is a local-only session on the
// real clock.
type Options struct {
	// API is the attempt service. Nil plays fully offline.
	API API

	Clock  Clock
	Logger *zerolog.Logger

	// LoadTimeout bounds createPuzzle before the local board is used.
	LoadTimeout time.Duration
	// AttemptWait bounds how long finalize waits for startAttempt.
	AttemptWait time.Duration
	// RequestTimeout bounds each remote call made in the background.
	RequestTimeout time.Duration

	// OnChange is called after every state change, outside the session lock
	// and possibly from a background goroutine.
	OnChange func()

	// Seed seeds local board generation. Defaults to the wall clock.
	Seed func() int64
	// NewID mints game ids. Defaults to uuid.NewString.
	NewID func() string
}

// Phase is the attempt lifecycle of the current game.
type Phase int

const (
	NotStarted Phase = iota
	InProgress
	Finalizing
	Finalized
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Finalizing:
		return "finalizing"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

// Snapshot is what the presentation layer renders.
type Snapshot[B any] struct {
	GameID    string
	PuzzleID  string
	AttemptID string
	Phase     Phase

	Board                 B
	MoveCount             int
	ElapsedSeconds        int
	IsComplete            bool
	CompletedSuccessfully bool
	IsLoading             bool
	Quit                  bool
	Score                 *int

	AchievementsUnlocked []achievement.Achievement
	ActiveAchievement    *achievement.Achievement

	// QueuedAchievements counts notifications still to show, the active one included.
	QueuedAchievements int
}

// attempt is the background startAttempt call. id and err are written once
// before done is closed.
type attempt struct {
	done chan struct{}
	id   string
	err  error
}

func (a *attempt) resolved() (string, bool) {
	select {
	case <-a.done:
		return a.id, a.err == nil
	default:
		return "", false
	}
}

// Session is one mini-game screen. It is safe for concurrent use.
type Session[B, M any] struct {
	rules   Rules[B, M]
	settler Settler[B]
	opts    Options
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	queue achievement.Queue

	mu        sync.Mutex
	gameID    string
	puzzleID  string
	board     B
	hasBoard  bool
	loading   bool
	quit      bool
	phase     Phase
	outcome   game.Outcome
	moves     int
	startedAt time.Time
	elapsed   int
	score     *int
	unlocked  []achievement.Achievement
	attempt   *attempt
	guard     Guard
	ticker    *ticker
	settle    Timer
}

// New returns a session without a board; call Reset to load the first one.
func New[B, M any](rules Rules[B, M], opts Options) *Session[B, M] {
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = &log.Logger
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}
	if opts.AttemptWait <= 0 {
		opts.AttemptWait = DefaultAttemptWait
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session[B, M]{
		rules:  rules,
		opts:   opts,
		log:    opts.Logger.With().Str("gameType", string(rules.Type())).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
	if st, ok := rules.(Settler[B]); ok {
		s.settler = st
	}
	return s
}

// Reset starts a new game and returns its id. Any signal or result still in
// flight for the previous game is ignored from here on. Reset blocks until
// the board is loaded, falling back to a local board if the service cannot
// provide one; Snapshot reports IsLoading meanwhile.
func (s *Session[B, M]) Reset(ctx context.Context) string {
	s.mu.Lock()
	s.stopTimersLocked()
	gameID := s.opts.NewID()
	s.gameID = gameID
	s.guard.Reset()
	var zero B
	s.board = zero
	s.puzzleID = ""
	s.hasBoard = false
	s.loading = true
	s.quit = false
	s.phase = NotStarted
	s.outcome = game.Playing
	s.moves = 0
	s.startedAt = time.Time{}
	s.elapsed = 0
	s.score = nil
	s.unlocked = nil
	s.attempt = nil
	s.mu.Unlock()
	s.notify()

	board, puzzleID, err := s.load(ctx)

	s.mu.Lock()
	if s.gameID != gameID {
		// Superseded by a newer Reset while loading.
		s.mu.Unlock()
		return gameID
	}
	s.loading = false
	if err == nil {
		s.board = board
		s.puzzleID = puzzleID
		s.hasBoard = true
		s.outcome = s.rules.Outcome(board)
	}
	s.mu.Unlock()
	s.notify()
	return gameID
}

func (s *Session[B, M]) load(ctx context.Context) (B, string, error) {
	if s.opts.API != nil {
		lctx, cancel := context.WithTimeout(ctx, s.opts.LoadTimeout)
		p, err := s.opts.API.CreatePuzzle(lctx, s.rules.Type(), s.rules.Params())
		cancel()
		if err == nil {
			var b B
			if b, err = s.rules.Decode(p.Layout); err == nil {
				return b, p.ID, nil
			}
		}
		s.log.Warn().Err(err).Msg("create puzzle failed; using a local board")
	}

	b, err := s.rules.Generate(rand.New(rand.NewSource(s.opts.Seed())))
	if err != nil {
		s.log.Error().Err(err).Msg("generate local board")
		return b, "", err
	}
	return b, "", nil
}

// Apply plays one move. It reports whether the move was accepted; rejected
// moves change nothing.
func (s *Session[B, M]) Apply(m M) bool {
	s.mu.Lock()
	if !s.hasBoard || s.loading || s.quit || s.phase >= Finalizing {
		s.mu.Unlock()
		return false
	}
	step, ok := s.rules.Apply(s.board, m)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.board = step.Board
	if step.Counted {
		s.moves++
	}
	if s.phase == NotStarted {
		s.beginLocked()
	}
	s.scheduleSettleLocked()
	s.detectLocked(s.gameID)
	s.mu.Unlock()
	s.notify()
	return true
}

// beginLocked starts the clock and opens the remote attempt in the
// background.
func (s *Session[B, M]) beginLocked() {
	gameID := s.gameID
	s.phase = InProgress
	s.startedAt = s.opts.Clock.Now()
	s.ticker = startTicker(s.opts.Clock, time.Second, func() { s.onTick(gameID) })

	if s.opts.API == nil {
		return
	}
	a := &attempt{done: make(chan struct{})}
	s.attempt = a
	puzzleID, t := s.puzzleID, s.rules.Type()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, s.opts.RequestTimeout)
		id, err := s.opts.API.StartAttempt(ctx, puzzleID, t)
		cancel()
		a.id, a.err = id, err
		close(a.done)

		if err != nil {
			s.log.Warn().Err(err).Str("gameId", gameID).Msg("start attempt failed; playing local-only")
			return
		}
		s.log.Debug().Str("gameId", gameID).Str("attemptId", id).Msg("attempt started")
		s.notify()
	}()
}

func (s *Session[B, M]) onTick(gameID string) {
	s.mu.Lock()
	live := s.gameID == gameID && s.phase == InProgress
	s.mu.Unlock()
	if live {
		s.notify()
	}
}

func (s *Session[B, M]) scheduleSettleLocked() {
	if s.settler == nil || s.settle != nil {
		return
	}
	d, ok := s.settler.Pending(s.board)
	if !ok {
		return
	}
	gameID := s.gameID
	s.settle = s.opts.Clock.AfterFunc(d, func() { s.onSettle(gameID) })
}

func (s *Session[B, M]) onSettle(gameID string) {
	s.mu.Lock()
	if s.gameID != gameID || s.quit {
		s.mu.Unlock()
		return
	}
	s.settle = nil
	s.board = s.settler.Settle(s.board)
	s.detectLocked(gameID)
	s.mu.Unlock()
	s.notify()
}

// detectLocked evaluates the board and finalizes on the first terminal
// outcome raised for the current game.
func (s *Session[B, M]) detectLocked(signalled string) {
	s.outcome = s.rules.Outcome(s.board)
	if !s.outcome.Terminal() {
		return
	}
	if !s.guard.TryFinalize(s.gameID, signalled) {
		return
	}

	now := s.opts.Clock.Now()
	duration := now.Sub(s.startedAt)
	s.elapsed = int(duration / time.Second)
	s.phase = Finalizing
	s.stopTimersLocked()

	res := attempts.Result{
		Success:    s.outcome == game.Solved,
		Moves:      s.moves,
		DurationMs: duration.Milliseconds(),
	}
	if res.Success {
		if sc, ok := s.rules.Score(s.elapsed, s.moves); ok {
			s.score = &sc
			res.Score = &sc
		}
	}

	s.log.Info().
		Str("gameId", s.gameID).
		Stringer("outcome", s.outcome).
		Int("moves", s.moves).
		Int("elapsedSeconds", s.elapsed).
		Msg("game over")

	gameID, a := s.gameID, s.attempt
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		list := s.finalize(gameID, a, res)
		s.complete(gameID, list)
	}()
}

// finalize records the result remotely and returns newly unlocked
// achievements. Failures are logged and yield nothing.
func (s *Session[B, M]) finalize(gameID string, a *attempt, res attempts.Result) []achievement.Achievement {
	l := s.log.With().Str("gameId", gameID).Logger()
	if a == nil {
		l.Debug().Msg("local-only game; result not recorded")
		return nil
	}

	wait := time.NewTimer(s.opts.AttemptWait)
	defer wait.Stop()
	select {
	case <-a.done:
	case <-wait.C:
		l.Warn().Dur("waited", s.opts.AttemptWait).Msg("attempt id never arrived; result not recorded")
		return nil
	case <-s.ctx.Done():
		return nil
	}
	if a.err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.opts.RequestTimeout)
	err := s.opts.API.FinishAttempt(ctx, a.id, res)
	cancel()
	if err != nil {
		l.Warn().Err(err).Str("attemptId", a.id).Msg("finish attempt failed")
		return nil
	}

	ctx, cancel = context.WithTimeout(s.ctx, s.opts.RequestTimeout)
	list, err := s.opts.API.CheckAchievements(ctx, a.id)
	cancel()
	if err != nil {
		l.Warn().Err(err).Str("attemptId", a.id).Msg("check achievements failed")
		return nil
	}
	return list
}

func (s *Session[B, M]) complete(gameID string, list []achievement.Achievement) {
	s.mu.Lock()
	if s.gameID != gameID {
		s.mu.Unlock()
		if len(list) > 0 {
			s.log.Debug().Str("gameId", gameID).Int("achievements", len(list)).Msg("dropping results for a stale game")
		}
		return
	}
	s.phase = Finalized
	s.unlocked = append(s.unlocked, list...)
	s.queue.Push(list...)
	s.mu.Unlock()
	s.notify()
}

// Quit abandons the current game. Timers stop and pending results are
// dropped; an open remote attempt is left as is.
func (s *Session[B, M]) Quit() {
	s.mu.Lock()
	s.elapsed = s.elapsedLocked()
	s.stopTimersLocked()
	s.quit = true
	s.gameID = ""
	s.mu.Unlock()
	s.notify()
}

// AckAchievement dismisses the active achievement and returns it.
func (s *Session[B, M]) AckAchievement() (achievement.Achievement, bool) {
	a, ok := s.queue.Ack()
	if ok {
		s.notify()
	}
	return a, ok
}

// Snapshot returns the current state.
func (s *Session[B, M]) Snapshot() Snapshot[B] {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot[B]{
		GameID:                s.gameID,
		PuzzleID:              s.puzzleID,
		Phase:                 s.phase,
		Board:                 s.rules.Clone(s.board),
		MoveCount:             s.moves,
		ElapsedSeconds:        s.elapsedLocked(),
		IsComplete:            s.outcome.Terminal(),
		CompletedSuccessfully: s.outcome == game.Solved,
		IsLoading:             s.loading,
		Quit:                  s.quit,
		AchievementsUnlocked:  append([]achievement.Achievement(nil), s.unlocked...),
		QueuedAchievements:    s.queue.Len(),
	}
	if s.score != nil {
		sc := *s.score
		snap.Score = &sc
	}
	if s.attempt != nil {
		snap.AttemptID, _ = s.attempt.resolved()
	}
	if a, ok := s.queue.Active(); ok {
		snap.ActiveAchievement = &a
	}
	return snap
}

func (s *Session[B, M]) elapsedLocked() int {
	switch {
	case s.startedAt.IsZero():
		return 0
	case s.quit || s.phase >= Finalizing:
		return s.elapsed
	}
	return int(s.opts.Clock.Now().Sub(s.startedAt) / time.Second)
}

// Close stops timers, cancels background calls and waits for them to return.
func (s *Session[B, M]) Close() {
	s.Quit()
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until background work started so far has returned.
func (s *Session[B, M]) Wait() { s.wg.Wait() }

func (s *Session[B, M]) stopTimersLocked() {
	s.ticker.Stop()
	s.ticker = nil
	if s.settle != nil {
		s.settle.Stop()
		s.settle = nil
	}
}

func (s *Session[B, M]) notify() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}
