package quest

import (
	"errors"

	"shopeelife/internal/domain/office"
)

var (
	ErrNotFound       = errors.New("quest not found")
	ErrNotCompleted   = errors.New("quest not completed")
	ErrAlreadyClaimed = errors.New("quest already claimed")
)

type Type string

const (
	TypeTask     Type = "task"
	TypeNavigate Type = "navigate"
	TypeLunch    Type = "lunch"
	TypeShop     Type = "shop"
	TypeStat     Type = "stat"
	TypeSeaTalk  Type = "seatalk"
	TypeWardrobe Type = "wardrobe"
)

type Comparator string

const (
	AtLeast Comparator = ">="
	AtMost  Comparator = "<="
)

// Criteria narrows which signals count toward a quest. An empty TargetID
// matches any target of the quest's type.
type Criteria struct {
	TargetID   string      `json:"target_id,omitempty"`
	Stat       office.Stat `json:"stat,omitempty"`
	Comparator Comparator  `json:"comparator,omitempty"`
	Threshold  int         `json:"threshold,omitempty"`
}

type Quest struct {
	ID              string   `json:"id"`
	Type            Type     `json:"type"`
	Title           string   `json:"title"`
	TargetValue     int      `json:"target_value"`
	CurrentProgress int      `json:"current_progress"`
	IsCompleted     bool     `json:"is_completed"`
	IsClaimed       bool     `json:"is_claimed"`
	RewardExp       int      `json:"reward_exp"`
	RewardCoins     int      `json:"reward_coins"`
	Criteria        Criteria `json:"criteria"`
	Filler          bool     `json:"filler,omitempty"`
}

// Signal reports something the player did that quests may count.
type Signal struct {
	Type     Type
	TargetID string
	Amount   int
}

// Observe counts sig toward q and reports whether q became completed.
func (q *Quest) Observe(sig Signal) bool {
	if q.IsCompleted || q.Type == TypeStat || sig.Type != q.Type {
		return false
	}
	if q.Criteria.TargetID != "" && q.Criteria.TargetID != sig.TargetID {
		return false
	}
	amount := sig.Amount
	if amount <= 0 {
		amount = 1
	}
	q.CurrentProgress += amount
	return q.settle()
}

// ObserveLedger evaluates stat-threshold quests against the current ledger.
func (q *Quest) ObserveLedger(l office.Ledger) bool {
	if q.IsCompleted || q.Type != TypeStat {
		return false
	}
	v := l.Value(q.Criteria.Stat)
	met := false
	switch q.Criteria.Comparator {
	case AtMost:
		met = v <= q.Criteria.Threshold
	default:
		met = v >= q.Criteria.Threshold
	}
	if !met {
		return false
	}
	q.CurrentProgress = q.TargetValue
	return q.settle()
}

func (q *Quest) settle() bool {
	target := q.TargetValue
	if target <= 0 {
		target = 1
	}
	if q.CurrentProgress < target {
		return false
	}
	q.CurrentProgress = target
	q.IsCompleted = true
	return true
}

// Claim marks a completed quest as claimed. Rewards are applied by the
// caller exactly once, when Claim succeeds.
func (q *Quest) Claim() error {
	if !q.IsCompleted {
		return ErrNotCompleted
	}
	if q.IsClaimed {
		return ErrAlreadyClaimed
	}
	q.IsClaimed = true
	return nil
}

func (q Quest) Rewards() office.Deltas {
	return office.Deltas{office.StatExperience: q.RewardExp, office.StatCurrency: q.RewardCoins}
}

// Board is the day's quest list.
type Board []Quest

func (b Board) Find(id string) (*Quest, error) {
	for i := range b {
		if b[i].ID == id {
			return &b[i], nil
		}
	}
	return nil, ErrNotFound
}

// Observe forwards sig to every quest and returns the ones it completed.
func (b Board) Observe(sig Signal) []Quest {
	var done []Quest
	for i := range b {
		if b[i].Observe(sig) {
			done = append(done, b[i])
		}
	}
	return done
}

func (b Board) ObserveLedger(l office.Ledger) []Quest {
	var done []Quest
	for i := range b {
		if b[i].ObserveLedger(l) {
			done = append(done, b[i])
		}
	}
	return done
}
