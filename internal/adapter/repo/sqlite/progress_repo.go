package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"shopeelife/internal/app/ports"
)

const emptyGameState = "{}"

type progressRow struct {
	UserID     string    `db:"user_id"`
	Currency   int       `db:"currency"`
	Level      int       `db:"level"`
	Experience int       `db:"experience"`
	GameState  string    `db:"game_state"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type ProgressRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewProgressRepo(db *sqlx.DB) ProgressRepo {
	return ProgressRepo{db: db, now: time.Now}
}

func (r ProgressRepo) Load(ctx context.Context, userID string) (ports.Progress, error) {
	var row progressRow
	err := r.db.GetContext(ctx, &row,
		`SELECT user_id, currency, level, experience, game_state, updated_at FROM player_progress WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.Progress{}, ports.ErrNotFound
		}
		return ports.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	p := ports.Progress{
		UserID:     row.UserID,
		Currency:   row.Currency,
		Level:      row.Level,
		Experience: row.Experience,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.GameState != "" && row.GameState != emptyGameState {
		p.GameState = json.RawMessage(row.GameState)
	}
	return p, nil
}

// Save upserts the row, touching only the columns set in update when the
// row already exists.
func (r ProgressRepo) Save(ctx context.Context, userID string, update ports.ProgressUpdate) error {
	p := update.ApplyTo(ports.DefaultProgress(userID))
	row := progressRow{
		UserID:     userID,
		Currency:   p.Currency,
		Level:      p.Level,
		Experience: p.Experience,
		GameState:  emptyGameState,
		UpdatedAt:  r.now().UTC(),
	}
	if len(p.GameState) > 0 {
		row.GameState = string(p.GameState)
	}

	set := []string{"updated_at = excluded.updated_at"}
	if update.Currency != nil {
		set = append(set, "currency = excluded.currency")
	}
	if update.Level != nil {
		set = append(set, "level = excluded.level")
	}
	if update.Experience != nil {
		set = append(set, "experience = excluded.experience")
	}
	if update.GameState != nil {
		set = append(set, "game_state = excluded.game_state")
	}

	query := `INSERT INTO player_progress (user_id, currency, level, experience, game_state, updated_at)
VALUES (:user_id, :currency, :level, :experience, :game_state, :updated_at)
ON CONFLICT(user_id) DO UPDATE SET ` + strings.Join(set, ", ")
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
