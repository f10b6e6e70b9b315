package session

// Blocker says what currently occupies the player. It is derived in one
// place (Session.blocker) and consumed by the schedulers and the commands.
type Blocker string

const (
	BlockNone          Blocker = "none"
	BlockRandomEvent   Blocker = "random_event"
	BlockDayTransition Blocker = "day_transition"
	BlockLunchReminder Blocker = "lunch_reminder"
	BlockNavigation    Blocker = "navigation"
	BlockLunch         Blocker = "lunch"
	BlockActivity      Blocker = "activity"
)

// IsModal reports whether the blocker is an on-screen prompt that must be
// answered or dismissed before starting anything new.
func (b Blocker) IsModal() bool {
	switch b {
	case BlockRandomEvent, BlockDayTransition, BlockLunchReminder:
		return true
	default:
		return false
	}
}

func (b Blocker) Dismissible() bool {
	return b == BlockDayTransition || b == BlockLunchReminder
}
