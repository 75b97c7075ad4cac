// apps/go-server/internal/store/sqlite.go
//
// SQLite implementation of Store.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Mapping rows to store types; timestamps are fixed-width RFC3339 UTC text.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

//go:embed sql/*.sql
var migrations embed.FS

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at path and applies
// pending migrations.
func OpenSQLite(path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// migrate applies sql/*.sql in lexical order, skipping files already
// recorded in _migrations. Each file runs in its own transaction.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

func isUnique(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullString(s string) sql.NullString { return sql.NullString{String: s, Valid: s != ""} }

// ------------------------------- players -----------------------------------

func (s *sqliteStore) CreatePlayer(ctx context.Context, p Player) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, pin_hash, created_at) VALUES (?,?,?,?)`,
		p.ID, p.Name, p.PinHash, formatTime(p.CreatedAt))
	if isUnique(err) {
		return ErrConflict
	}
	return err
}

func (s *sqliteStore) GetPlayer(ctx context.Context, id string) (Player, error) {
	var p Player
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, pin_hash, created_at FROM players WHERE id=?`, id,
	).Scan(&p.ID, &p.Name, &p.PinHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, ErrNotFound
	}
	if err != nil {
		return Player{}, err
	}
	p.CreatedAt = parseTime(created)
	return p, nil
}

// ------------------------------- puzzles -----------------------------------

func (s *sqliteStore) SavePuzzle(ctx context.Context, p Puzzle) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO puzzles (id, game_type, layout, daily_date, created_at) VALUES (?,?,?,?,?)`,
		p.ID, string(p.GameType), string(p.Layout), nullString(p.Daily), formatTime(p.CreatedAt))
	if isUnique(err) {
		return ErrConflict
	}
	return err
}

func (s *sqliteStore) GetPuzzle(ctx context.Context, id string) (Puzzle, error) {
	return s.scanPuzzle(s.db.QueryRowContext(ctx,
		`SELECT id, game_type, layout, COALESCE(daily_date,''), created_at FROM puzzles WHERE id=?`, id))
}

func (s *sqliteStore) DailyPuzzle(ctx context.Context, date string, t game.Type) (Puzzle, error) {
	return s.scanPuzzle(s.db.QueryRowContext(ctx,
		`SELECT id, game_type, layout, COALESCE(daily_date,''), created_at
		 FROM puzzles WHERE daily_date=? AND game_type=?`, date, string(t)))
}

func (s *sqliteStore) scanPuzzle(row *sql.Row) (Puzzle, error) {
	var p Puzzle
	var gt, layout, created string
	err := row.Scan(&p.ID, &gt, &layout, &p.Daily, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Puzzle{}, ErrNotFound
	}
	if err != nil {
		return Puzzle{}, err
	}
	p.GameType = game.Type(gt)
	p.Layout = []byte(layout)
	p.CreatedAt = parseTime(created)
	return p, nil
}

// ------------------------------- attempts ----------------------------------

const attemptColumns = `id, player_id, COALESCE(puzzle_id,''), game_type, started_at,
	COALESCE(finished_at,''), success, moves, duration_ms, score`

func (s *sqliteStore) CreateAttempt(ctx context.Context, a Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id, player_id, puzzle_id, game_type, started_at) VALUES (?,?,?,?,?)`,
		a.ID, a.PlayerID, nullString(a.PuzzleID), string(a.GameType), formatTime(a.StartedAt))
	if isUnique(err) {
		return ErrConflict
	}
	return err
}

func (s *sqliteStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+attemptColumns+` FROM attempts WHERE id=?`, id)
	if err != nil {
		return Attempt{}, err
	}
	list, err := scanAttempts(rows)
	if err != nil {
		return Attempt{}, err
	}
	if len(list) == 0 {
		return Attempt{}, ErrNotFound
	}
	return list[0], nil
}

func (s *sqliteStore) FinishAttempt(ctx context.Context, id string, r Result) (Attempt, error) {
	var score sql.NullInt64
	if r.Score != nil {
		score = sql.NullInt64{Int64: int64(*r.Score), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE attempts SET finished_at=?, success=?, moves=?, duration_ms=?, score=?
		 WHERE id=? AND finished_at IS NULL`,
		formatTime(r.At), r.Success, r.Moves, r.DurationMs, score, id)
	if err != nil {
		return Attempt{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Attempt{}, err
	}

	a, err := s.GetAttempt(ctx, id)
	if err != nil {
		return Attempt{}, err
	}
	if n == 0 {
		return a, ErrAlreadyFinished
	}
	return a, nil
}

func (s *sqliteStore) Finished(ctx context.Context, playerID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE player_id=? AND finished_at IS NOT NULL
		 ORDER BY finished_at ASC, id ASC`, playerID)
	if err != nil {
		return nil, err
	}
	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		var a Attempt
		var gt, started, finished string
		var score sql.NullInt64
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.PuzzleID, &gt, &started,
			&finished, &a.Success, &a.Moves, &a.DurationMs, &score); err != nil {
			return nil, err
		}
		a.GameType = game.Type(gt)
		a.StartedAt = parseTime(started)
		if finished != "" {
			t := parseTime(finished)
			a.FinishedAt = &t
		}
		if score.Valid {
			sc := int(score.Int64)
			a.Score = &sc
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ------------------------------- unlocks -----------------------------------

func (s *sqliteStore) Unlocked(ctx context.Context, playerID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement_id FROM unlocks WHERE player_id=?`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (s *sqliteStore) Unlock(ctx context.Context, playerID, attemptID string, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO unlocks (player_id, achievement_id, attempt_id, unlocked_at) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, playerID, id, nullString(attemptID), formatTime(at)); err != nil {
			return fmt.Errorf("unlock %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
