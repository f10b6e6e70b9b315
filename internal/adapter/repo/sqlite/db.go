// Package sqliterepo stores player progress in a local SQLite file, for
// development and single-machine play.
package sqliterepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS player_progress (
	user_id TEXT PRIMARY KEY,
	currency INTEGER NOT NULL DEFAULT 100,
	level INTEGER NOT NULL DEFAULT 1,
	experience INTEGER NOT NULL DEFAULT 0,
	game_state TEXT NOT NULL DEFAULT '{}',
	updated_at TIMESTAMP NOT NULL
);
`

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer avoids SQLITE_BUSY between the save goroutines.
	conn.SetMaxOpenConns(1)
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return conn, nil
}
