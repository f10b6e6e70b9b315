package ports

import (
	"context"
	"encoding/json"
	"time"
)

const (
	DefaultCurrency   = 100
	DefaultLevel      = 1
	DefaultExperience = 0
)

// Progress is the persisted record of one player.
type Progress struct {
	UserID     string
	Currency   int
	Level      int
	Experience int
	GameState  json.RawMessage
	UpdatedAt  time.Time
}

// ProgressUpdate is a partial update; nil fields are left unchanged.
type ProgressUpdate struct {
	Currency   *int
	Level      *int
	Experience *int
	GameState  json.RawMessage
}

func (u ProgressUpdate) ApplyTo(p Progress) Progress {
	if u.Currency != nil {
		p.Currency = *u.Currency
	}
	if u.Level != nil {
		p.Level = *u.Level
	}
	if u.Experience != nil {
		p.Experience = *u.Experience
	}
	if u.GameState != nil {
		p.GameState = append(json.RawMessage(nil), u.GameState...)
	}
	return p
}

func DefaultProgress(userID string) Progress {
	return Progress{
		UserID:     userID,
		Currency:   DefaultCurrency,
		Level:      DefaultLevel,
		Experience: DefaultExperience,
	}
}

// ProgressStore loads and upserts player progress. Load returns ErrNotFound
// when the player has no row yet.
type ProgressStore interface {
	Load(ctx context.Context, userID string) (Progress, error)
	Save(ctx context.Context, userID string, update ProgressUpdate) error
}
