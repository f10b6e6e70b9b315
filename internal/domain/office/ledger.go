package office

import (
	"sort"

	"github.com/dustin/go-humanize"
)

type Stat string

const (
	StatEnergy       Stat = "energy"
	StatProductivity Stat = "productivity"
	StatBurnout      Stat = "burnout"
	StatExperience   Stat = "experience"
	StatCurrency     Stat = "currency"
)

type Deltas map[Stat]int

func (d Deltas) Merge(other Deltas) Deltas {
	out := make(Deltas, len(d)+len(other))
	for k, v := range d {
		out[k] += v
	}
	for k, v := range other {
		out[k] += v
	}
	return out
}

func (d Deltas) Negate() Deltas {
	out := make(Deltas, len(d))
	for k, v := range d {
		out[k] = -v
	}
	return out
}

// Ledger holds the player's numeric stats. Energy, Productivity and Burnout
// stay within [StatMin, StatMax]; Currency never goes negative; Experience is
// counted within the current Level.
type Ledger struct {
	Energy       int `json:"energy"`
	Productivity int `json:"productivity"`
	Burnout      int `json:"burnout"`
	Experience   int `json:"experience"`
	Currency     int `json:"currency"`
	Level        int `json:"level"`
}

func DefaultLedger() Ledger {
	return Ledger{
		Energy:       DefaultEnergy,
		Productivity: DefaultProductivity,
		Burnout:      DefaultBurnout,
		Experience:   DefaultExperience,
		Currency:     DefaultCurrency,
		Level:        DefaultLevel,
	}
}

// ApplyDelta adds bounded stat and currency deltas. A currency spend larger
// than the balance rejects the whole update and leaves the ledger untouched.
// Experience is ignored here; use ApplyExperience.
func (l *Ledger) ApplyDelta(d Deltas) error {
	if c := d[StatCurrency]; c < 0 && l.Currency+c < 0 {
		return Reject(ReasonInsufficientFunds, "Not enough ShopeeCoins: need %s, you have %s.",
			humanize.Comma(int64(-c)), humanize.Comma(int64(l.Currency)))
	}
	for _, stat := range sortedStats(d) {
		v := d[stat]
		switch stat {
		case StatEnergy:
			l.Energy = clampStat(l.Energy + v)
		case StatProductivity:
			l.Productivity = clampStat(l.Productivity + v)
		case StatBurnout:
			l.Burnout = clampStat(l.Burnout + v)
		case StatCurrency:
			l.Currency += v
		}
	}
	return nil
}

// ApplyExperience adds experience and resolves any level-ups, crediting the
// level-up bonus coins to the ledger.
func (l *Ledger) ApplyExperience(amount int) LevelUpResult {
	if amount <= 0 {
		return LevelUpResult{Level: l.Level, Experience: l.Experience}
	}
	res := DefaultLevelTable.Resolve(l.Level, l.Experience+amount)
	l.Level = res.Level
	l.Experience = res.Experience
	l.Currency += res.BonusCoins
	return res
}

// Apply is the single mutation funnel used by the session: bounded deltas
// first, then experience. Nothing is applied when the deltas are rejected.
func (l *Ledger) Apply(d Deltas) (LevelUpResult, error) {
	if err := l.ApplyDelta(d); err != nil {
		return LevelUpResult{Level: l.Level, Experience: l.Experience}, err
	}
	return l.ApplyExperience(d[StatExperience]), nil
}

func (l Ledger) Value(s Stat) int {
	switch s {
	case StatEnergy:
		return l.Energy
	case StatProductivity:
		return l.Productivity
	case StatBurnout:
		return l.Burnout
	case StatExperience:
		return l.Experience
	case StatCurrency:
		return l.Currency
	default:
		return 0
	}
}

// Normalize repairs values read from storage so the ledger invariants hold.
func (l Ledger) Normalize() Ledger {
	l.Energy = clampStat(l.Energy)
	l.Productivity = clampStat(l.Productivity)
	l.Burnout = clampStat(l.Burnout)
	if l.Currency < 0 {
		l.Currency = 0
	}
	if l.Level < 1 {
		l.Level = DefaultLevel
	}
	if l.Experience < 0 {
		l.Experience = 0
	}
	return l
}

func clampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

func sortedStats(d Deltas) []Stat {
	out := make([]Stat, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type Inventory map[string]int

func (inv Inventory) Add(item string, qty int) {
	if qty <= 0 {
		return
	}
	inv[item] += qty
}

func (inv Inventory) Has(item string, qty int) bool {
	return inv[item] >= qty
}

// Consume removes qty of item and drops the key when it reaches zero.
func (inv Inventory) Consume(item string, qty int) bool {
	if qty <= 0 {
		return true
	}
	if inv[item] < qty {
		return false
	}
	inv[item] -= qty
	if inv[item] == 0 {
		delete(inv, item)
	}
	return true
}

func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}
