package session

import (
	"shopeelife/internal/domain/event"
	"shopeelife/internal/domain/office"
	"shopeelife/internal/domain/quest"
	"shopeelife/internal/domain/world"
)

type View struct {
	UserID      string             `json:"user_id"`
	Clock       world.Snapshot     `json:"clock"`
	Weather     world.Weather      `json:"weather"`
	Ledger      office.Ledger      `json:"ledger"`
	NextLevelAt int                `json:"next_level_at"`
	Location    string             `json:"location"`
	Inventory   office.Inventory   `json:"inventory"`
	Equipped    string             `json:"equipped,omitempty"`
	Activity    *ActivityView      `json:"activity,omitempty"`
	Queue       []string           `json:"queue"`
	Tasks       []TaskView         `json:"tasks"`
	Quests      quest.Board        `json:"quests"`
	LunchTaken  bool               `json:"lunch_taken"`
	Blocker     Blocker            `json:"blocker"`
	Event       *event.RandomEvent `json:"event,omitempty"`
	Thought     *event.Thought     `json:"thought,omitempty"`
	Chat        []ChatMessage      `json:"chat"`
	Notices     []Notice           `json:"notices"`
	Warning     string             `json:"warning,omitempty"`
}

type ActivityView struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Kind        office.ActivityKind `json:"kind"`
	Progress    float64             `json:"progress"`
	RemainingMS int64               `json:"remaining_ms"`
}

type TaskView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
	Target    int    `json:"target"`
	Completed bool   `json:"completed"`
}

func (s *Session) State() View {
	s.lock()
	defer s.mu.Unlock()
	s.settle()

	v := View{
		UserID:      s.userID,
		Clock:       s.clock.Snapshot(),
		Weather:     s.weather,
		Ledger:      s.ledger,
		NextLevelAt: office.DefaultLevelTable.StepToNext(s.ledger.Level),
		Location:    s.location,
		Inventory:   s.inventory.Clone(),
		Equipped:    s.equipped,
		Quests:      append(quest.Board(nil), s.quests...),
		LunchTaken:  s.lunchDay == s.clock.DayIndex(),
		Blocker:     s.blocker(),
		Chat:        append([]ChatMessage(nil), s.chat...),
		Notices:     append([]Notice(nil), s.notices...),
	}
	if run, ok := s.runner.Current(); ok {
		v.Activity = &ActivityView{
			ID:          run.Activity.ID,
			Title:       run.Activity.Title,
			Kind:        run.Activity.Kind,
			Progress:    run.Progress,
			RemainingMS: run.Remaining(s.at).Milliseconds(),
		}
	}
	for _, a := range s.runner.Queue() {
		v.Queue = append(v.Queue, a.ID)
	}
	for _, t := range s.cfg.Catalog.Tasks {
		target := t.TargetProgress
		if target <= 0 {
			target = office.TaskTargetProgress
		}
		v.Tasks = append(v.Tasks, TaskView{
			ID:        t.ID,
			Title:     t.Title,
			Progress:  s.taskProgress[t.ID],
			Target:    target,
			Completed: s.taskProgress[t.ID] >= target,
		})
	}
	if s.pendingEvent != nil {
		ev := *s.pendingEvent
		v.Event = &ev
	}
	if s.thought != nil {
		th := *s.thought
		v.Thought = &th
	}
	return v
}
