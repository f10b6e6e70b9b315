package game

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// start drives the session's clock and activity tickers until stop. A zero
// tick interval leaves that ticker off.
func (s *Service) start(e *entry) {
	if s.cfg.ClockTick <= 0 && s.cfg.ActivityTick <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	go s.run(ctx, e)
}

func (s *Service) run(ctx context.Context, e *entry) {
	defer close(e.done)

	clock := newTicker(s.cfg.ClockTick)
	defer clock.stop()
	activity := newTicker(s.cfg.ActivityTick)
	defer activity.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-clock.c:
			s.safeTick(e, "clock", e.sess.TickClock)
		case <-activity.c:
			s.safeTick(e, "activity", e.sess.TickActivity)
		}
	}
}

// safeTick keeps a faulty tick from killing the loop; the running activity
// is abandoned so the session returns to idle.
func (s *Service) safeTick(e *entry, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tick panicked",
				zap.String("user_id", e.userID),
				zap.String("tick", name),
				zap.Any("panic", r),
			)
			func() {
				defer func() { _ = recover() }()
				e.sess.Abandon()
			}()
		}
	}()
	fn()
}

type ticker struct {
	t *time.Ticker
	c <-chan time.Time
}

func newTicker(d time.Duration) ticker {
	if d <= 0 {
		return ticker{}
	}
	t := time.NewTicker(d)
	return ticker{t: t, c: t.C}
}

func (t ticker) stop() {
	if t.t != nil {
		t.t.Stop()
	}
}
