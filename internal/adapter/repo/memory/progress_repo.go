package memory

import (
	"context"
	"encoding/json"
	"time"

	"shopeelife/internal/app/ports"
)

type ProgressRepo struct {
	store *Store
	now   func() time.Time
}

func NewProgressRepo(store *Store) ProgressRepo {
	return ProgressRepo{store: store, now: time.Now}
}

func (r ProgressRepo) Load(ctx context.Context, userID string) (ports.Progress, error) {
	var (
		p  ports.Progress
		ok bool
	)
	r.store.read(ctx, func() {
		p, ok = r.store.progress[userID]
	})
	if !ok {
		return ports.Progress{}, ports.ErrNotFound
	}
	p.GameState = append(json.RawMessage(nil), p.GameState...)
	return p, nil
}

func (r ProgressRepo) Save(ctx context.Context, userID string, update ports.ProgressUpdate) error {
	r.store.write(ctx, func() {
		current, ok := r.store.progress[userID]
		if !ok {
			current = ports.DefaultProgress(userID)
		}
		current = update.ApplyTo(current)
		current.UpdatedAt = r.now().UTC()
		r.store.progress[userID] = current
	})
	return nil
}
