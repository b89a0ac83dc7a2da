// Package history is an append-only local ledger of completed games,
// the local counterpart to "pushes a terminal snapshot to post a score
// record" (spec §6) for use when no opaque HTTP schedule provider is
// configured. It is capped and evicted FIFO, the same way the
// teacher's tracking.Store bounds its order-context ledger.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/uwhrefbox/refbox/internal/telemetry"
)

const (
	maxStoreBytes int64   = 64 << 20 // 64 MiB — a referee console's ledger, not a trading firm's order log
	evictPct      float64 = 0.10
	vacuumEvery           = 10
)

// Store persists one row per completed game in a FIFO SQLite database
// capped at maxStoreBytes.
type Store struct {
	db           *sql.DB
	mu           sync.Mutex
	cachedSize   int64
	rowCount     int64
	evictCounter int
}

// Record is one completed game's final score.
type Record struct {
	GameNumber uint32
	BlackScore uint8
	WhiteScore uint8
	EndedAt    time.Time
}

const schema = `CREATE TABLE IF NOT EXISTS completed_games (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	game_number INTEGER NOT NULL,
	black_score INTEGER NOT NULL,
	white_score INTEGER NOT NULL,
	ended_at    TEXT    NOT NULL
)`

// Open opens (creating if absent) the ledger at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	var avMode int
	if err := db.QueryRow(`PRAGMA auto_vacuum`).Scan(&avMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("read auto_vacuum: %w", err)
	}
	if avMode != 2 {
		if _, err := db.Exec(`PRAGMA auto_vacuum = INCREMENTAL`); err != nil {
			db.Close()
			return nil, fmt.Errorf("set auto_vacuum: %w", err)
		}
		if _, err := db.Exec(`VACUUM`); err != nil {
			telemetry.Warnf("history store: VACUUM to enable auto_vacuum failed: %v", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	s := &Store{db: db}
	s.refreshSize()
	db.QueryRow(`SELECT COUNT(*) FROM completed_games`).Scan(&s.rowCount)
	telemetry.Plainf("history store: opened %s  size=%d  rows=%d", path, s.cachedSize, s.rowCount)
	return s, nil
}

// Append records a completed game's final score.
func (s *Store) Append(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO completed_games (game_number, black_score, white_score, ended_at) VALUES (?,?,?,?)`,
		r.GameNumber, r.BlackScore, r.WhiteScore, r.EndedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append completed game: %w", err)
	}

	s.rowCount++
	s.refreshSize()
	if s.cachedSize > maxStoreBytes {
		s.evict()
	}
	return nil
}

// Recent returns the most recently completed games, newest first, limited
// to n rows.
func (s *Store) Recent(n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT game_number, black_score, white_score, ended_at FROM completed_games ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent completed games: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ended string
		if err := rows.Scan(&r.GameNumber, &r.BlackScore, &r.WhiteScore, &ended); err != nil {
			return nil, fmt.Errorf("scan completed game row: %w", err)
		}
		r.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		out = append(out, r)
	}
	return out, rows.Err()
}

// refreshSize re-reads the database file size. Must be called with s.mu held.
func (s *Store) refreshSize() {
	var size int64
	row := s.db.QueryRow(`SELECT COALESCE(page_count * page_size, 0) FROM pragma_page_count(), pragma_page_size()`)
	if err := row.Scan(&size); err == nil {
		s.cachedSize = size
	}
}

// evict deletes the oldest evictPct of rows. Must be called with s.mu held.
func (s *Store) evict() {
	toDelete := int64(float64(s.rowCount) * evictPct)
	if toDelete < 1 {
		toDelete = 1
	}

	res, err := s.db.Exec(
		`DELETE FROM completed_games WHERE id IN (
			SELECT id FROM completed_games ORDER BY id ASC LIMIT ?
		)`, toDelete,
	)
	if err != nil {
		telemetry.Warnf("history store evict: %v", err)
		return
	}

	deleted, _ := res.RowsAffected()
	s.rowCount -= deleted
	s.evictCounter++
	telemetry.Infof("history store: evicted %d rows (target %d)", deleted, toDelete)

	if s.evictCounter%vacuumEvery == 0 {
		s.db.Exec(`PRAGMA incremental_vacuum`)
	}
	s.refreshSize()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
