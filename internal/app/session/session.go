package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"shopeelife/internal/domain/event"
	"shopeelife/internal/domain/office"
	"shopeelife/internal/domain/quest"
	"shopeelife/internal/domain/world"
)

type Options struct {
	Config   Config
	Now      func() time.Time
	Logger   *zap.Logger
	OnChange func()
	Rand     *rand.Rand
}

// Session is one player's running game. Every exported method takes the
// session lock, so tick handlers and commands never interleave.
type Session struct {
	mu       sync.Mutex
	userID   string
	cfg      Config
	nowFn    func() time.Time
	logger   *zap.Logger
	onChange func()

	// at is the wall time of the operation holding the lock.
	at time.Time

	clock        *world.Clock
	ledger       office.Ledger
	runner       office.Runner
	inventory    office.Inventory
	equipped     string
	location     string
	taskProgress map[string]int
	quests       quest.Board
	questDay     int
	lunchDay     int
	weather      world.Weather
	chat         []ChatMessage

	lunchReminderShown bool
	lunchReminderOpen  bool
	dayTransitionOpen  bool
	dayTransitionUntil time.Time
	pendingEvent       *event.RandomEvent
	thought            *event.Thought
	notices            []Notice
	noticeSeq          int64

	seed       uint64
	rng        *rand.Rand
	weatherGen world.WeatherGenerator
	questGen   quest.Generator
	dirty      bool
}

type Notice struct {
	Seq  int64  `json:"seq"`
	Text string `json:"text"`
	At   string `json:"at"`
}

func New(userID string, saved Saved, opts Options) *Session {
	cfg := opts.Config
	if len(cfg.Catalog.Tasks) == 0 && len(cfg.Catalog.Actions) == 0 {
		cfg.Catalog = office.DefaultCatalog()
	}
	if cfg.ChatHistory <= 0 {
		cfg.ChatHistory = DefaultConfig().ChatHistory
	}
	if cfg.NoticeHistory <= 0 {
		cfg.NoticeHistory = DefaultConfig().NoticeHistory
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	st := saved.State
	s := &Session{
		userID:             userID,
		cfg:                cfg,
		nowFn:              nowFn,
		logger:             logger.With(zap.String("user_id", userID)),
		onChange:           opts.OnChange,
		clock:              world.NewClock(cfg.Clock, st.TotalMinutes),
		ledger:             saved.Ledger.Normalize(),
		inventory:          st.Inventory,
		equipped:           st.Equipped,
		location:           st.Location,
		taskProgress:       st.TaskProgress,
		quests:             st.Quests,
		questDay:           st.QuestDay,
		lunchDay:           st.LunchDay,
		lunchReminderShown: st.LunchReminderShown,
		weather:            st.Weather,
		chat:               st.Chat,
		seed:               world.SeedFromString(userID),
	}
	s.runner.MaxQueue = office.MaxQueuedActivities
	s.rng = opts.Rand
	if s.rng == nil {
		s.rng = world.Stream(s.seed, fmt.Sprintf("session:%d", nowFn().UnixNano()))
	}
	s.weatherGen = world.NewWeatherGenerator(int64(world.Derive(s.seed, "weather")))
	s.questGen = quest.NewGenerator(cfg.Catalog)

	if s.inventory == nil {
		s.inventory = office.Inventory{}
	}
	if s.taskProgress == nil {
		s.taskProgress = map[string]int{}
	}
	if _, ok := cfg.Catalog.Location(s.location); !ok {
		s.location = office.LocationDesk
	}
	day := s.clock.DayIndex()
	if s.weather == "" {
		s.weather = s.weatherGen.ForDay(day)
	}
	if len(s.quests) == 0 || s.questDay != day {
		s.regenerateQuests(day)
	}
	var run office.Run
	if st.Activity != nil {
		run = *st.Activity
	}
	s.runner.Restore(run, st.Queue)

	s.clock.OnDay(s.onDay)
	s.clock.OnHour(s.onHour)
	return s
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) lock() {
	s.mu.Lock()
	s.at = s.nowFn()
}

// TickClock advances the game clock by one minute and runs the schedulers.
func (s *Session) TickClock() {
	s.lock()
	defer s.mu.Unlock()

	s.clock.Tick()
	s.checkLunchReminder()
	if s.clock.TotalMinutes()%event.ThoughtEveryMinutes == 0 {
		s.maybeThought()
	}
	s.settle()
}

// TickActivity advances the running activity and starts the next queued one
// once it completes.
func (s *Session) TickActivity() {
	s.lock()
	defer s.mu.Unlock()

	if c, done := s.runner.Advance(s.at); done {
		s.complete(c)
	}
	if !s.runner.Busy() {
		s.startNextQueued()
	}
	s.settle()
}

// Abandon drops the running activity after an unexpected failure. Reserved
// costs are refunded and no completion deltas apply.
func (s *Session) Abandon() {
	s.lock()
	defer s.mu.Unlock()

	run, err := s.runner.Cancel()
	if err != nil {
		return
	}
	s.refund(run.Activity.Costs)
	s.logger.Warn("activity abandoned", zap.String("activity_id", run.Activity.ID))
	s.notify(fmt.Sprintf("%s was interrupted.", run.Activity.Title))
	s.markDirty()
}

func (s *Session) blocker() Blocker {
	switch {
	case s.pendingEvent != nil:
		return BlockRandomEvent
	case s.dayTransitionOpen:
		return BlockDayTransition
	case s.lunchReminderOpen:
		return BlockLunchReminder
	}
	if run, ok := s.runner.Current(); ok {
		switch run.Activity.Kind {
		case office.KindNavigation:
			return BlockNavigation
		case office.KindLunch:
			return BlockLunch
		default:
			return BlockActivity
		}
	}
	return BlockNone
}

// settle expires timed prompts and drops the transient thought as soon as
// anything blocks.
func (s *Session) settle() {
	if s.dayTransitionOpen && !s.at.Before(s.dayTransitionUntil) {
		s.dayTransitionOpen = false
	}
	if s.thought != nil && (s.thought.Expired(s.at) || s.blocker() != BlockNone) {
		s.thought = nil
	}
}

func (s *Session) onDay(day int) {
	s.dayTransitionOpen = true
	s.dayTransitionUntil = s.at.Add(s.cfg.DayTransition)
	s.lunchReminderShown = false
	s.lunchReminderOpen = false
	s.weather = s.weatherGen.ForDay(day)
	s.taskProgress = map[string]int{}
	s.regenerateQuests(day)
	s.notify(fmt.Sprintf("Day %d begins. Today's weather: %s.", day+1, s.weather))
	s.logger.Debug("day boundary", zap.Int("day_index", day), zap.String("weather", string(s.weather)))
	s.markDirty()
}

func (s *Session) onHour(int) {
	if !s.clock.IsWorkingHours() || s.blocker() != BlockNone {
		return
	}
	if s.rng.Float64() >= s.cfg.EventChance {
		return
	}
	ev, ok := s.cfg.Events.Roll(s.rng)
	if !ok {
		return
	}
	s.pendingEvent = &ev
	s.markDirty()
}

func (s *Session) maybeThought() {
	if s.thought != nil || s.blocker() != BlockNone {
		return
	}
	if s.rng.Float64() >= s.cfg.ThoughtChance {
		return
	}
	th := event.PickThought(s.rng, s.at)
	s.thought = &th
}

func (s *Session) checkLunchReminder() {
	if s.lunchReminderShown || s.lunchDay == s.clock.DayIndex() || !s.clock.IsLunchWindow() {
		return
	}
	if s.blocker() != BlockNone {
		return
	}
	s.lunchReminderShown = true
	s.lunchReminderOpen = true
	s.markDirty()
}

func (s *Session) regenerateQuests(day int) {
	rng := world.Stream(s.seed, fmt.Sprintf("quests:day:%d", day))
	gen := s.questGen
	gen.Wearing = s.equipped
	s.quests = gen.Generate(rng)
	s.questDay = day
}

func (s *Session) facts() office.Facts {
	return office.Facts{
		Ledger:       s.ledger,
		Inventory:    s.inventory,
		Location:     s.location,
		WorkingHours: s.clock.IsWorkingHours(),
		LunchWindow:  s.clock.IsLunchWindow(),
		GoldenHour:   s.clock.IsGoldenHour(),
	}
}

// admit applies the rules that depend on session state rather than on the
// ledger or the clock.
func (s *Session) admit(a office.Activity) error {
	switch a.Kind {
	case office.KindTask:
		if s.taskCompleted(a.Target) {
			return office.Reject(office.ReasonAlreadyDone, "%s is already finished for today.", a.Title)
		}
	case office.KindLunch:
		if s.lunchDay == s.clock.DayIndex() {
			return office.Reject(office.ReasonAlreadyDone, "You already had lunch today.")
		}
	}
	return nil
}

func (s *Session) taskCompleted(id string) bool {
	t, ok := s.cfg.Catalog.Task(id)
	if !ok {
		return false
	}
	target := t.TargetProgress
	if target <= 0 {
		target = office.TaskTargetProgress
	}
	return s.taskProgress[id] >= target
}

// begin starts a, or queues it behind the running activity.
func (s *Session) begin(a office.Activity) (string, error) {
	if err := s.admit(a); err != nil {
		return "", err
	}
	if s.runner.Busy() {
		if a.Queueable {
			if err := office.Check(a, s.facts()); err != nil {
				return "", err
			}
		}
		pos, err := s.runner.Enqueue(a)
		if err != nil {
			return "", err
		}
		s.markDirty()
		return fmt.Sprintf("%s queued (#%d).", a.Title, pos), nil
	}
	if _, err := s.runner.Start(a, s.facts(), s.at); err != nil {
		return "", err
	}
	s.reserve(a.Costs)
	s.markDirty()
	return fmt.Sprintf("Started: %s.", a.Title), nil
}

func (s *Session) startNextQueued() {
	if s.blocker().IsModal() {
		return
	}
	for {
		next, ok := s.runner.Dequeue()
		if !ok {
			return
		}
		msg, err := s.begin(next)
		if err == nil {
			s.notify(msg)
			return
		}
		s.logger.Info("queued activity dropped",
			zap.String("activity_id", next.ID),
			zap.String("reason", string(office.ReasonOf(err))))
		s.notify(fmt.Sprintf("Skipped %s: %s", next.Title, err.Error()))
		s.markDirty()
	}
}

func (s *Session) reserve(c office.Costs) {
	if err := s.ledger.ApplyDelta(c.Deltas()); err != nil {
		s.logger.Error("reserve costs after passing gates", zap.Error(err))
	}
	for item, qty := range c.Items {
		s.inventory.Consume(item, qty)
	}
}

func (s *Session) refund(c office.Costs) {
	if err := s.ledger.ApplyDelta(c.Deltas().Negate()); err != nil {
		s.logger.Error("refund costs", zap.Error(err))
	}
	for item, qty := range c.Items {
		s.inventory.Add(item, qty)
	}
}

func (s *Session) complete(c office.Completion) {
	res, err := s.ledger.Apply(c.Deltas)
	if err != nil {
		s.logger.Warn("completion deltas rejected", zap.String("activity_id", c.Activity.ID), zap.Error(err))
	}
	a := c.Activity
	text := fmt.Sprintf("Finished: %s.", a.Title)
	switch a.Kind {
	case office.KindTask:
		if t, ok := s.cfg.Catalog.Task(a.Target); ok {
			target := t.TargetProgress
			if target <= 0 {
				target = office.TaskTargetProgress
			}
			p := s.taskProgress[t.ID] + t.ProgressPerRun
			if p > target {
				p = target
			}
			s.taskProgress[t.ID] = p
			if p >= target {
				text = fmt.Sprintf("%s is complete!", t.Title)
			}
		}
		s.observe(quest.Signal{Type: quest.TypeTask, TargetID: a.Target})
	case office.KindNavigation:
		s.location = a.Target
		text = fmt.Sprintf("You arrived at the %s.", s.locationName(a.Target))
		s.observe(quest.Signal{Type: quest.TypeNavigate, TargetID: a.Target})
	case office.KindLunch:
		s.lunchDay = s.clock.DayIndex()
		s.lunchReminderOpen = false
		s.observe(quest.Signal{Type: quest.TypeLunch, TargetID: a.ID})
	}
	if c.Golden {
		text += " Golden hour bonus: double XP!"
	}
	s.notify(text)
	s.afterLedgerChange(res)
	s.markDirty()
}

func (s *Session) locationName(id string) string {
	if l, ok := s.cfg.Catalog.Location(id); ok {
		return l.Name
	}
	return id
}

func (s *Session) observe(sig quest.Signal) {
	for _, q := range s.quests.Observe(sig) {
		s.notify(fmt.Sprintf("Quest complete: %s. Claim your reward!", q.Title))
	}
}

func (s *Session) afterLedgerChange(res office.LevelUpResult) {
	if res.LeveledUp() {
		s.notify(fmt.Sprintf("Level up! You're now level %d (+%d coins).", res.Level, res.BonusCoins))
	}
	for _, q := range s.quests.ObserveLedger(s.ledger) {
		s.notify(fmt.Sprintf("Quest complete: %s. Claim your reward!", q.Title))
	}
}

func (s *Session) notify(text string) {
	s.noticeSeq++
	s.notices = append(s.notices, Notice{Seq: s.noticeSeq, Text: text, At: s.clock.String()})
	if over := len(s.notices) - s.cfg.NoticeHistory; over > 0 {
		s.notices = append([]Notice(nil), s.notices[over:]...)
	}
}

func (s *Session) markDirty() {
	s.dirty = true
	if s.onChange != nil {
		s.onChange()
	}
}

// Checkpoint returns the persistable state and clears the dirty flag.
func (s *Session) Checkpoint() (Saved, bool) {
	s.lock()
	defer s.mu.Unlock()
	dirty := s.dirty
	s.dirty = false
	return s.export(), dirty
}

// Requeue marks the session dirty again after a failed save, without
// scheduling a new one.
func (s *Session) Requeue() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

func (s *Session) Export() Saved {
	s.lock()
	defer s.mu.Unlock()
	return s.export()
}

func (s *Session) export() Saved {
	st := State{
		SchemaVersion:      SchemaVersion,
		TotalMinutes:       s.clock.TotalMinutes(),
		Energy:             s.ledger.Energy,
		Productivity:       s.ledger.Productivity,
		Burnout:            s.ledger.Burnout,
		Location:           s.location,
		Inventory:          s.inventory.Clone(),
		Equipped:           s.equipped,
		TaskProgress:       make(map[string]int, len(s.taskProgress)),
		Quests:             append(quest.Board(nil), s.quests...),
		QuestDay:           s.questDay,
		LunchDay:           s.lunchDay,
		LunchReminderShown: s.lunchReminderShown,
		Weather:            s.weather,
		Chat:               append([]ChatMessage(nil), s.chat...),
		Queue:              s.runner.Queue(),
	}
	for k, v := range s.taskProgress {
		st.TaskProgress[k] = v
	}
	if run, ok := s.runner.Current(); ok {
		st.Activity = &run
	}
	return Saved{Ledger: s.ledger, State: st}
}
