package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"shopeelife/internal/app/ports"
	"shopeelife/internal/app/session"
	"shopeelife/internal/domain/office"
)

type Config struct {
	Session      session.Config
	ClockTick    time.Duration
	ActivityTick time.Duration
	SaveDebounce time.Duration
	SaveTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Session:      session.DefaultConfig(),
		ClockTick:    time.Second,
		ActivityTick: 100 * time.Millisecond,
		SaveDebounce: 2 * time.Second,
		SaveTimeout:  5 * time.Second,
	}
}

// Service owns the live sessions of this process, one per user.
type Service struct {
	cfg     Config
	store   ports.ProgressStore
	metrics ports.CommandMetrics
	logger  *zap.Logger
	Now     func() time.Time
	Tx      ports.TxManager

	mu       sync.Mutex
	sessions map[string]*entry
	loading  map[string]chan struct{}
}

type entry struct {
	userID  string
	sess    *session.Session
	saver   *Debouncer
	canSave bool
	cancel  context.CancelFunc
	done    chan struct{}

	saveMu sync.Mutex

	warnMu  sync.Mutex
	warning string
}

func (e *entry) setWarning(w string) {
	e.warnMu.Lock()
	e.warning = w
	e.warnMu.Unlock()
}

func (e *entry) currentWarning() string {
	e.warnMu.Lock()
	defer e.warnMu.Unlock()
	return e.warning
}

func NewService(store ports.ProgressStore, metrics ports.CommandMetrics, logger *zap.Logger, cfg Config) *Service {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.SaveDebounce <= 0 {
		cfg.SaveDebounce = def.SaveDebounce
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = def.SaveTimeout
	}
	return &Service{
		cfg:      cfg,
		store:    store,
		metrics:  metrics,
		logger:   logger.Named("game"),
		Now:      time.Now,
		Tx:       ports.NoTx{},
		sessions: map[string]*entry{},
		loading:  map[string]chan struct{}{},
	}
}

// Open starts the caller's session, loading saved progress, and returns its
// state. Opening an already running session just returns its state.
func (s *Service) Open(ctx context.Context) (session.View, error) {
	e, err := s.entryFor(ctx)
	if err != nil {
		return session.View{}, err
	}
	return s.view(e), nil
}

func (s *Service) State(ctx context.Context) (session.View, error) {
	return s.Open(ctx)
}

// Close stops the caller's session and flushes any unsaved progress.
func (s *Service) Close(ctx context.Context) error {
	userID, ok := ports.CurrentUserID(ctx)
	if !ok {
		return ports.ErrNotAuthenticated
	}
	s.mu.Lock()
	e, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.stop(e)
}

// Shutdown closes every session, flushing each one.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.sessions))
	for id, e := range s.sessions {
		entries = append(entries, e)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := s.stop(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) StartActivity(ctx context.Context, activityID string) Result {
	return s.exec(ctx, "start_activity", func(sess *session.Session) (string, error) {
		return sess.StartActivity(activityID)
	})
}

func (s *Service) CancelActivity(ctx context.Context) Result {
	return s.exec(ctx, "cancel_activity", func(sess *session.Session) (string, error) {
		return sess.CancelActivity()
	})
}

func (s *Service) NavigateTo(ctx context.Context, locationID string) Result {
	return s.exec(ctx, "navigate", func(sess *session.Session) (string, error) {
		return sess.NavigateTo(locationID)
	})
}

func (s *Service) Choose(ctx context.Context, eventID string, choiceIndex int) Result {
	return s.exec(ctx, "choose", func(sess *session.Session) (string, error) {
		return sess.Choose(eventID, choiceIndex)
	})
}

func (s *Service) ClaimQuest(ctx context.Context, questID string) Result {
	return s.exec(ctx, "claim_quest", func(sess *session.Session) (string, error) {
		return sess.ClaimQuest(questID)
	})
}

func (s *Service) BuyItem(ctx context.Context, itemID string) Result {
	return s.exec(ctx, "buy_item", func(sess *session.Session) (string, error) {
		return sess.BuyItem(itemID)
	})
}

func (s *Service) EquipItem(ctx context.Context, itemID string) Result {
	return s.exec(ctx, "equip_item", func(sess *session.Session) (string, error) {
		return sess.EquipItem(itemID)
	})
}

func (s *Service) SendChatMessage(ctx context.Context, text string) Result {
	return s.exec(ctx, "chat", func(sess *session.Session) (string, error) {
		return sess.SendChatMessage(text)
	})
}

func (s *Service) Dismiss(ctx context.Context, modal string) Result {
	return s.exec(ctx, "dismiss", func(sess *session.Session) (string, error) {
		return sess.Dismiss(modal)
	})
}

func (s *Service) exec(ctx context.Context, command string, fn func(*session.Session) (string, error)) (res Result) {
	e, err := s.entryFor(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNotAuthenticated) {
			return Result{Message: MsgLogin, Code: CodeNotAuthenticated}
		}
		s.metrics.RecordFailure(command)
		s.logger.Error("open session failed", zap.String("command", command), zap.Error(err))
		return Result{Message: MsgInternal, Code: CodeInternal}
	}

	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordFailure(command)
			s.logger.Error("command panicked",
				zap.String("user_id", e.userID),
				zap.String("command", command),
				zap.Any("panic", r),
			)
			res = Result{Message: MsgInternal, Code: CodeInternal}
		}
	}()

	msg, err := fn(e.sess)
	switch {
	case err == nil:
		s.metrics.RecordSuccess(command)
		return Result{Success: true, Message: msg, Code: CodeOK}
	case errors.Is(err, office.ErrRejected):
		s.metrics.RecordRejected(command, string(office.ReasonOf(err)))
		return Result{Message: err.Error(), Code: CodeRejected}
	default:
		s.metrics.RecordFailure(command)
		s.logger.Error("command failed",
			zap.String("user_id", e.userID),
			zap.String("command", command),
			zap.Error(err),
		)
		return Result{Message: MsgInternal, Code: CodeInternal}
	}
}

func (s *Service) view(e *entry) session.View {
	v := e.sess.State()
	v.Warning = e.currentWarning()
	return v
}

func (s *Service) entryFor(ctx context.Context) (*entry, error) {
	userID, ok := ports.CurrentUserID(ctx)
	if !ok {
		return nil, ports.ErrNotAuthenticated
	}

	for {
		s.mu.Lock()
		if e, ok := s.sessions[userID]; ok {
			s.mu.Unlock()
			return e, nil
		}
		wait, loading := s.loading[userID]
		if !loading {
			break
		}
		s.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	done := make(chan struct{})
	s.loading[userID] = done
	s.mu.Unlock()

	e := s.open(ctx, userID)

	s.mu.Lock()
	delete(s.loading, userID)
	s.sessions[userID] = e
	s.mu.Unlock()
	close(done)
	return e, nil
}

// open loads userID's progress and starts its tick loop. The registry lock
// is not held, so a slow store only delays this user.
func (s *Service) open(ctx context.Context, userID string) *entry {
	saved, warning, canSave := s.load(ctx, userID)
	e := &entry{userID: userID, canSave: canSave, warning: warning}
	e.saver = NewDebouncer(s.cfg.SaveDebounce, func() { s.save(e) })
	e.sess = session.New(userID, saved, session.Options{
		Config:   s.cfg.Session,
		Now:      s.Now,
		Logger:   s.logger.Named("session"),
		OnChange: e.saver.Trigger,
	})
	s.start(e)
	s.logger.Info("session opened", zap.String("user_id", userID), zap.Bool("can_save", canSave))
	return e
}

// load never fails: a broken store yields a playable session that does not
// overwrite whatever is stored. A missing row is created in the same
// transaction as the lookup.
func (s *Service) load(ctx context.Context, userID string) (session.Saved, string, bool) {
	var (
		p       ports.Progress
		created bool
	)
	err := s.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.store.Load(ctx, userID)
		if !errors.Is(err, ports.ErrNotFound) {
			return err
		}
		created = true
		upd, err := toUpdate(session.DefaultSaved())
		if err != nil {
			return err
		}
		return s.store.Save(ctx, userID, upd)
	})
	switch {
	case err != nil && created:
		s.metrics.RecordSaveFailure()
		s.logger.Warn("create progress failed", zap.String("user_id", userID), zap.Error(err))
		return session.DefaultSaved(), SaveWarning, true
	case err != nil:
		s.logger.Error("load progress failed", zap.String("user_id", userID), zap.Error(err))
		return session.DefaultSaved(), SaveWarning, false
	case created:
		return session.DefaultSaved(), "", true
	}

	saved, err := fromProgress(p)
	if err != nil && !errors.Is(err, session.ErrEmptyState) {
		s.logger.Warn("discarding unreadable game state", zap.String("user_id", userID), zap.Error(err))
	}
	return saved, "", true
}

func (s *Service) save(e *entry) {
	if !e.canSave {
		return
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	saved, dirty := e.sess.Checkpoint()
	if !dirty {
		return
	}
	if err := s.write(e.userID, saved); err != nil {
		e.sess.Requeue()
		e.setWarning(SaveWarning)
		s.metrics.RecordSaveFailure()
		s.logger.Warn("save progress failed", zap.String("user_id", e.userID), zap.Error(err))
		return
	}
	e.setWarning("")
}

func (s *Service) write(userID string, saved session.Saved) error {
	upd, err := toUpdate(saved)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
	defer cancel()
	return s.store.Save(ctx, userID, upd)
}

func (s *Service) stop(e *entry) error {
	if e.cancel != nil {
		e.cancel()
		<-e.done
	}
	e.saver.Stop()
	if !e.canSave {
		return nil
	}

	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	saved, dirty := e.sess.Checkpoint()
	if !dirty {
		return nil
	}
	if err := s.write(e.userID, saved); err != nil {
		s.metrics.RecordSaveFailure()
		s.logger.Error("flush progress failed", zap.String("user_id", e.userID), zap.Error(err))
		return fmt.Errorf("flush progress for %s: %w", e.userID, err)
	}
	s.logger.Info("session closed", zap.String("user_id", e.userID))
	return nil
}
