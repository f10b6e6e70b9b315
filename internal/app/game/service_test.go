package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shopeelife/internal/adapter/repo/memory"
	"shopeelife/internal/app/ports"
	"shopeelife/internal/app/session"
	"shopeelife/internal/domain/world"
)

type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

type recordingMetrics struct {
	mu           sync.Mutex
	success      map[string]int
	rejected     map[string]int
	failures     map[string]int
	saveFailures int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{success: map[string]int{}, rejected: map[string]int{}, failures: map[string]int{}}
}

func (m *recordingMetrics) RecordSuccess(command string) {
	m.mu.Lock()
	m.success[command]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordRejected(command, reason string) {
	m.mu.Lock()
	m.rejected[command+":"+reason]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordFailure(command string) {
	m.mu.Lock()
	m.failures[command]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordSaveFailure() {
	m.mu.Lock()
	m.saveFailures++
	m.mu.Unlock()
}

// flakyStore wraps a progress store with switchable failures.
type flakyStore struct {
	inner    ports.ProgressStore
	mu       sync.Mutex
	loadErr  error
	saveErr  error
	saveCall int
}

func (f *flakyStore) Load(ctx context.Context, userID string) (ports.Progress, error) {
	f.mu.Lock()
	err := f.loadErr
	f.mu.Unlock()
	if err != nil {
		return ports.Progress{}, err
	}
	return f.inner.Load(ctx, userID)
}

func (f *flakyStore) Save(ctx context.Context, userID string, u ports.ProgressUpdate) error {
	f.mu.Lock()
	f.saveCall++
	err := f.saveErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.inner.Save(ctx, userID, u)
}

func (f *flakyStore) saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCall
}

// blockingStore holds Load for one user until release is closed.
type blockingStore struct {
	ports.ProgressStore
	userID  string
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	loads int
}

func (b *blockingStore) Load(ctx context.Context, userID string) (ports.Progress, error) {
	if userID == b.userID {
		b.mu.Lock()
		b.loads++
		first := b.loads == 1
		b.mu.Unlock()
		if first {
			close(b.entered)
		}
		<-b.release
	}
	return b.ProgressStore.Load(ctx, userID)
}

func (b *blockingStore) loadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loads
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Session.EventChance = 0
	cfg.Session.ThoughtChance = 0
	cfg.ClockTick = 0
	cfg.ActivityTick = 0
	cfg.SaveDebounce = time.Hour
	return cfg
}

func newTestService(t *testing.T, store ports.ProgressStore, cfg Config) (*Service, *fakeNow, *recordingMetrics) {
	t.Helper()
	fn := &fakeNow{t: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	m := newRecordingMetrics()
	svc := NewService(store, m, nil, cfg)
	svc.Now = fn.Now
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc, fn, m
}

func seedAt(t *testing.T, repo memory.ProgressRepo, userID string, minute int) {
	t.Helper()
	saved := session.DefaultSaved()
	saved.State.TotalMinutes = minute
	upd, err := toUpdate(saved)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), userID, upd))
}

func asUser(id string) context.Context {
	return ports.WithUserID(context.Background(), id)
}

func TestAnonymousCallerIsAskedToLogIn(t *testing.T) {
	svc, _, _ := newTestService(t, memory.NewProgressRepo(memory.NewStore()), testConfig())

	_, err := svc.Open(context.Background())
	require.True(t, errors.Is(err, ports.ErrNotAuthenticated))

	res := svc.StartActivity(context.Background(), "reply-emails")
	require.False(t, res.Success)
	require.Equal(t, CodeNotAuthenticated, res.Code)
	require.Equal(t, MsgLogin, res.Message)
	require.Zero(t, svc.ActiveSessions())
}

func TestOpenCreatesDefaultProgress(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewProgressRepo(store)
	svc, _, _ := newTestService(t, repo, testConfig())
	svc.Tx = memory.NewTxManager(store)

	v, err := svc.Open(asUser("new-player"))
	require.NoError(t, err)
	require.Equal(t, 100, v.Ledger.Currency)
	require.Equal(t, 1, v.Ledger.Level)
	require.Empty(t, v.Warning)

	p, err := repo.Load(context.Background(), "new-player")
	require.NoError(t, err)
	require.Equal(t, ports.DefaultCurrency, p.Currency)
	require.NotEmpty(t, p.GameState)
}

func TestCommandOutcomesAndCloseFlush(t *testing.T) {
	repo := memory.NewProgressRepo(memory.NewStore())
	seedAt(t, repo, "u1", world.At(10, 0))
	svc, now, m := newTestService(t, repo, testConfig())
	ctx := asUser("u1")

	res := svc.StartActivity(ctx, "reply-emails")
	require.True(t, res.Success, res.Message)
	require.Equal(t, CodeOK, res.Code)

	res = svc.NavigateTo(ctx, "atlantis")
	require.False(t, res.Success)
	require.Equal(t, CodeRejected, res.Code)

	now.Advance(5 * time.Second)
	svc.sessions["u1"].sess.TickActivity()

	require.NoError(t, svc.Close(ctx))
	require.Zero(t, svc.ActiveSessions())

	p, err := repo.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 105, p.Currency)
	require.Equal(t, 10, p.Experience)

	saved, err := fromProgress(p)
	require.NoError(t, err)
	require.Equal(t, 95, saved.Ledger.Energy)
	require.Equal(t, 50, saved.State.TaskProgress["reply-emails"])

	require.Equal(t, 1, m.success["start_activity"])
	require.Len(t, m.rejected, 1)
}

func TestRejectedOutsideWorkingHours(t *testing.T) {
	repo := memory.NewProgressRepo(memory.NewStore())
	seedAt(t, repo, "u1", world.At(20, 0))
	svc, _, m := newTestService(t, repo, testConfig())

	res := svc.StartActivity(asUser("u1"), "weekly-report")
	require.False(t, res.Success)
	require.Equal(t, CodeRejected, res.Code)
	require.NotEmpty(t, res.Message)
	require.Equal(t, 1, m.rejected["start_activity:not_working_hours"])
}

func TestDebouncedSaveAfterChange(t *testing.T) {
	repo := memory.NewProgressRepo(memory.NewStore())
	seedAt(t, repo, "u1", world.At(10, 0))
	cfg := testConfig()
	cfg.SaveDebounce = 10 * time.Millisecond
	svc, _, _ := newTestService(t, repo, cfg)

	res := svc.BuyItem(asUser("u1"), "coffee")
	require.True(t, res.Success, res.Message)

	require.Eventually(t, func() bool {
		p, err := repo.Load(context.Background(), "u1")
		return err == nil && p.Currency == 90
	}, time.Second, 5*time.Millisecond)
}

func TestLoadFailureGivesDegradedSession(t *testing.T) {
	store := &flakyStore{inner: memory.NewProgressRepo(memory.NewStore()), loadErr: errors.New("db down")}
	svc, _, _ := newTestService(t, store, testConfig())
	ctx := asUser("u1")

	v, err := svc.Open(ctx)
	require.NoError(t, err)
	require.Equal(t, SaveWarning, v.Warning)

	res := svc.SendChatMessage(ctx, "hello team")
	require.True(t, res.Success, res.Message)

	require.NoError(t, svc.Close(ctx))
	require.Zero(t, store.saves())
}

func TestCreateFailureWarnsButKeepsSaving(t *testing.T) {
	inner := memory.NewProgressRepo(memory.NewStore())
	store := &flakyStore{inner: inner, saveErr: errors.New("read only")}
	svc, _, m := newTestService(t, store, testConfig())
	ctx := asUser("u1")

	v, err := svc.Open(ctx)
	require.NoError(t, err)
	require.Equal(t, SaveWarning, v.Warning)
	require.Equal(t, 1, m.saveFailures)

	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()

	require.True(t, svc.SendChatMessage(ctx, "back online").Success)
	e := svc.sessions["u1"]
	svc.save(e)

	v, err = svc.State(ctx)
	require.NoError(t, err)
	require.Empty(t, v.Warning)

	_, err = inner.Load(context.Background(), "u1")
	require.NoError(t, err)
}

func TestFailedSaveStaysDirty(t *testing.T) {
	inner := memory.NewProgressRepo(memory.NewStore())
	seedAt(t, inner, "u1", world.At(10, 0))
	store := &flakyStore{inner: inner}
	svc, _, _ := newTestService(t, store, testConfig())
	ctx := asUser("u1")

	require.True(t, svc.BuyItem(ctx, "coffee").Success)

	store.mu.Lock()
	store.saveErr = errors.New("timeout")
	store.mu.Unlock()
	svc.save(svc.sessions["u1"])

	v, err := svc.State(ctx)
	require.NoError(t, err)
	require.Equal(t, SaveWarning, v.Warning)

	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()
	require.NoError(t, svc.Close(ctx))

	p, err := inner.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 90, p.Currency)
}

func TestCorruptStateKeepsLedgerColumns(t *testing.T) {
	store := memory.NewStore()
	store.SeedProgress(ports.Progress{
		UserID:     "u1",
		Currency:   420,
		Level:      4,
		Experience: 30,
		GameState:  json.RawMessage(`{broken`),
	})
	svc, _, _ := newTestService(t, memory.NewProgressRepo(store), testConfig())

	v, err := svc.Open(asUser("u1"))
	require.NoError(t, err)
	require.Equal(t, 420, v.Ledger.Currency)
	require.Equal(t, 4, v.Ledger.Level)
	require.Equal(t, 30, v.Ledger.Experience)
	require.Equal(t, 100, v.Ledger.Energy)
	require.Empty(t, v.Warning)
}

func TestPanickingTickReturnsSessionToIdle(t *testing.T) {
	repo := memory.NewProgressRepo(memory.NewStore())
	seedAt(t, repo, "u1", world.At(10, 0))
	svc, _, _ := newTestService(t, repo, testConfig())
	ctx := asUser("u1")

	require.True(t, svc.StartActivity(ctx, "reply-emails").Success)
	e := svc.sessions["u1"]

	require.NotPanics(t, func() {
		svc.safeTick(e, "activity", func() { panic("boom") })
	})

	v, err := svc.State(ctx)
	require.NoError(t, err)
	require.Nil(t, v.Activity)
	require.Equal(t, session.BlockNone, v.Blocker)
	require.Equal(t, 100, v.Ledger.Energy)
}

func TestTickLoopCompletesActivity(t *testing.T) {
	repo := memory.NewProgressRepo(memory.NewStore())
	seedAt(t, repo, "u1", world.At(10, 0))
	cfg := testConfig()
	cfg.ActivityTick = 5 * time.Millisecond
	svc, now, _ := newTestService(t, repo, cfg)
	ctx := asUser("u1")

	require.True(t, svc.StartActivity(ctx, "reply-emails").Success)
	now.Advance(10 * time.Second)

	require.Eventually(t, func() bool {
		v, err := svc.State(ctx)
		return err == nil && v.Activity == nil && v.Ledger.Experience == 10
	}, time.Second, 5*time.Millisecond)
}

func TestShutdownFlushesAllSessions(t *testing.T) {
	repo := memory.NewProgressRepo(memory.NewStore())
	seedAt(t, repo, "a", world.At(10, 0))
	seedAt(t, repo, "b", world.At(10, 0))
	svc, _, _ := newTestService(t, repo, testConfig())

	require.True(t, svc.BuyItem(asUser("a"), "coffee").Success)
	require.True(t, svc.BuyItem(asUser("b"), "energy-bar").Success)
	require.Equal(t, 2, svc.ActiveSessions())

	require.NoError(t, svc.Shutdown(context.Background()))
	require.Zero(t, svc.ActiveSessions())

	pa, err := repo.Load(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, 90, pa.Currency)
	pb, err := repo.Load(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, 92, pb.Currency)
}

func TestSlowLoadDoesNotBlockOtherPlayers(t *testing.T) {
	store := &blockingStore{
		ProgressStore: memory.NewProgressRepo(memory.NewStore()),
		userID:        "slow",
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	svc, _, _ := newTestService(t, store, testConfig())
	var releaseOnce sync.Once
	release := func() { releaseOnce.Do(func() { close(store.release) }) }
	t.Cleanup(release)

	_, err := svc.Open(asUser("fast"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Open(asUser("slow"))
		}()
	}
	<-store.entered

	chat := make(chan Result, 1)
	go func() { chat <- svc.SendChatMessage(asUser("fast"), "morning!") }()
	select {
	case res := <-chat:
		require.True(t, res.Success, res.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("command for an open session waited on another player's load")
	}

	release()
	wg.Wait()
	require.Equal(t, 1, store.loadCount())
	require.Equal(t, 2, svc.ActiveSessions())
}
