package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mrz1836/crewgen/internal/domain"
)

// Compile-time check that SQLite implements Store.
var _ Store = (*SQLite)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS teams (
	id TEXT PRIMARY KEY,
	mission_name TEXT NOT NULL,
	data TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_teams_created ON teams(created_at);
`

// SQLite stores teams in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
// The path ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to migrate sqlite store: %w", err)
	}
	return nil
}

// SaveTeam implements Store. An existing record with the same id is replaced.
func (s *SQLite) SaveTeam(ctx context.Context, team *domain.TeamConfiguration) error {
	data, err := encodeTeam(team)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO teams (id, mission_name, data, created_at) VALUES (?, ?, ?, ?)`,
		team.ID, team.Mission.Name, string(data), team.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save team %s: %w", team.ID, err)
	}
	return nil
}

// GetTeam implements Store.
func (s *SQLite) GetTeam(ctx context.Context, id string) (*domain.TeamConfiguration, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM teams WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team %s: %w", id, err)
	}
	return decodeTeam(id, []byte(data))
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
