// Package store persists detector states to SQLite so the daemon can
// restore its world across restarts.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/world"
)

// Store holds detector states in a SQLite database, one row per position.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS detectors (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		z INTEGER NOT NULL,
		state_index INTEGER NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (x, y, z)
	);`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert writes a detector's state, replacing any existing row.
func (s *Store) Upsert(pos world.BlockPos, props logic.Properties) error {
	_, err := s.db.Exec(
		`INSERT INTO detectors (x, y, z, state_index, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(x, y, z) DO UPDATE SET
		   state_index = excluded.state_index,
		   updated_at = excluded.updated_at;`,
		pos.X, pos.Y, pos.Z, props.Index(), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a detector's row. Deleting an absent row is not an error.
func (s *Store) Delete(pos world.BlockPos) error {
	_, err := s.db.Exec(`DELETE FROM detectors WHERE x = ? AND y = ? AND z = ?;`,
		pos.X, pos.Y, pos.Z)
	return err
}

// LoadAll returns every persisted detector. Rows with an out-of-range
// state index are skipped with a warning rather than failing the load.
func (s *Store) LoadAll() (map[world.BlockPos]logic.Properties, error) {
	rows, err := s.db.Query(`SELECT x, y, z, state_index FROM detectors;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[world.BlockPos]logic.Properties)
	for rows.Next() {
		var pos world.BlockPos
		var idx int
		if err := rows.Scan(&pos.X, &pos.Y, &pos.Z, &idx); err != nil {
			return nil, err
		}
		props, ok := logic.FromIndex(idx)
		if !ok {
			s.log.Warn().Stringer("pos", pos).Int("state_index", idx).
				Msg("skipping row with invalid state index")
			continue
		}
		out[pos] = props
	}
	return out, rows.Err()
}

// OnChange persists a committed state change. Store implements world.Sink
// so it can be registered directly on the world. Persistence failures are
// logged, not propagated; the in-memory world stays authoritative.
func (s *Store) OnChange(c world.Change) {
	if err := s.Upsert(c.Pos, c.Props); err != nil {
		s.log.Warn().Err(err).Str("pos", c.Pos.String()).Msg("persist detector state")
	}
}
