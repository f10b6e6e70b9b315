package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shopeelife/internal/adapter/repo/gorm/model"
	"shopeelife/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const emptyGameState = "{}"

type ProgressRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressRepo(db *gorm.DB) ProgressRepo {
	return ProgressRepo{db: db, now: time.Now}
}

func (r ProgressRepo) Load(ctx context.Context, userID string) (ports.Progress, error) {
	var m model.PlayerProgress
	if err := getDBFromCtx(ctx, r.db.WithContext(ctx)).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Progress{}, ports.ErrNotFound
		}
		return ports.Progress{}, err
	}
	p := ports.Progress{
		UserID:     m.UserID,
		Currency:   int(m.Currency),
		Level:      int(m.Level),
		Experience: int(m.Experience),
		UpdatedAt:  m.UpdatedAt,
	}
	if m.GameState != "" && m.GameState != emptyGameState {
		p.GameState = json.RawMessage(m.GameState)
	}
	return p, nil
}

// Save upserts the row. On conflict only the fields set in update are
// written, so a partial update never resets the other columns.
func (r ProgressRepo) Save(ctx context.Context, userID string, update ports.ProgressUpdate) error {
	p := update.ApplyTo(ports.DefaultProgress(userID))
	m := model.PlayerProgress{
		UserID:     userID,
		Currency:   int32(p.Currency),
		Level:      int32(p.Level),
		Experience: int32(p.Experience),
		GameState:  emptyGameState,
		UpdatedAt:  r.now().UTC(),
	}
	if len(p.GameState) > 0 {
		m.GameState = string(p.GameState)
	}

	columns := []string{"updated_at"}
	if update.Currency != nil {
		columns = append(columns, "currency")
	}
	if update.Level != nil {
		columns = append(columns, "level")
	}
	if update.Experience != nil {
		columns = append(columns, "experience")
	}
	if update.GameState != nil {
		columns = append(columns, "game_state")
	}

	return getDBFromCtx(ctx, r.db.WithContext(ctx)).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&m).Error
}
