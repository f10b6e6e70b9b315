package office

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type ActivityKind string

const (
	KindTask           ActivityKind = "task"
	KindLocationAction ActivityKind = "location_action"
	KindNavigation     ActivityKind = "navigation"
	KindLunch          ActivityKind = "lunch"
	KindPortal         ActivityKind = "portal"
)

type Gate string

const (
	GateNone         Gate = ""
	GateWorkingHours Gate = "working_hours"
	GateLunchWindow  Gate = "lunch_window"
)

// Costs are deducted when an activity starts and refunded when it is
// cancelled.
type Costs struct {
	Currency int            `json:"currency,omitempty"`
	Energy   int            `json:"energy,omitempty"`
	Items    map[string]int `json:"items,omitempty"`
}

func (c Costs) Deltas() Deltas {
	d := Deltas{}
	if c.Currency != 0 {
		d[StatCurrency] = -c.Currency
	}
	if c.Energy != 0 {
		d[StatEnergy] = -c.Energy
	}
	return d
}

func (c Costs) IsZero() bool {
	return c.Currency == 0 && c.Energy == 0 && len(c.Items) == 0
}

type Activity struct {
	ID              string        `json:"id"`
	Kind            ActivityKind  `json:"kind"`
	Title           string        `json:"title"`
	Duration        time.Duration `json:"duration"`
	Deltas          Deltas        `json:"deltas,omitempty"`
	Costs           Costs         `json:"costs"`
	Gate            Gate          `json:"gate,omitempty"`
	Location        string        `json:"location,omitempty"`
	Target          string        `json:"target,omitempty"`
	Queueable       bool          `json:"queueable,omitempty"`
	GoldenHourBonus bool          `json:"golden_hour_bonus,omitempty"`
}

// EffectiveDeltas returns the completion deltas, doubling experience for
// golden-hour runs of activities that carry the bonus.
func (a Activity) EffectiveDeltas(golden bool) Deltas {
	out := make(Deltas, len(a.Deltas))
	for k, v := range a.Deltas {
		out[k] = v
	}
	if golden && a.GoldenHourBonus {
		out[StatExperience] *= GoldenHourExpMultiplier
	}
	return out
}

// Facts is the snapshot of session state an activity is gated against.
type Facts struct {
	Ledger       Ledger
	Inventory    Inventory
	Location     string
	WorkingHours bool
	LunchWindow  bool
	GoldenHour   bool
}

// Check runs every gate except single-flight. It never mutates anything.
func Check(a Activity, f Facts) error {
	switch a.Gate {
	case GateWorkingHours:
		if !f.WorkingHours {
			return Reject(ReasonNotWorkingHours, "The office is closed. %s can only be done during working hours.", a.Title)
		}
	case GateLunchWindow:
		if !f.LunchWindow {
			return Reject(ReasonNotLunchTime, "It's not lunch time yet. The cafeteria only serves during the lunch window.")
		}
	}
	if a.Location != "" && a.Location != f.Location {
		return Reject(ReasonWrongLocation, "You need to be at the %s for that.", displayName(a.Location))
	}
	if a.Costs.Energy > 0 && f.Ledger.Energy < a.Costs.Energy {
		return Reject(ReasonInsufficientEnergy, "Not enough energy: %s needs %d, you have %d.", a.Title, a.Costs.Energy, f.Ledger.Energy)
	}
	if a.Costs.Currency > 0 && f.Ledger.Currency < a.Costs.Currency {
		return Reject(ReasonInsufficientFunds, "Not enough ShopeeCoins: %s costs %s, you have %s.",
			a.Title, humanize.Comma(int64(a.Costs.Currency)), humanize.Comma(int64(f.Ledger.Currency)))
	}
	for item, qty := range a.Costs.Items {
		if f.Inventory[item] < qty {
			return Reject(ReasonMissingItem, "You have no %s left. Pick some up at the shop.", displayName(item))
		}
	}
	return nil
}

func displayName(id string) string {
	return strings.ReplaceAll(id, "-", " ")
}
