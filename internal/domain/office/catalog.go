package office

import (
	"fmt"
	"time"

	"shopeelife/internal/domain/world"
)

const (
	LocationDesk        = "desk"
	LocationPantry      = "pantry"
	LocationMeetingRoom = "meeting-room"
	LocationRooftop     = "rooftop"
	LocationGym         = "gym"
	LocationCafeteria   = "cafeteria"
)

type Task struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Duration         time.Duration `json:"duration"`
	EnergyCost       int           `json:"energy_cost"`
	RewardExp        int           `json:"reward_exp"`
	RewardCoins      int           `json:"reward_coins"`
	ProgressPerRun   int           `json:"progress_per_run"`
	TargetProgress   int           `json:"target_progress"`
	ProductivityGain int           `json:"productivity_gain"`
	BurnoutGain      int           `json:"burnout_gain"`
}

func (t Task) Activity() Activity {
	return Activity{
		ID:       t.ID,
		Kind:     KindTask,
		Title:    t.Title,
		Duration: t.Duration,
		Deltas: Deltas{
			StatExperience:   t.RewardExp,
			StatCurrency:     t.RewardCoins,
			StatProductivity: t.ProductivityGain,
			StatBurnout:      t.BurnoutGain,
		},
		Costs:     Costs{Energy: t.EnergyCost},
		Gate:      GateWorkingHours,
		Target:    t.ID,
		Queueable: true,
	}
}

type Location struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Floor int    `json:"floor"`
}

type ItemKind string

const (
	ItemConsumable ItemKind = "consumable"
	ItemWardrobe   ItemKind = "wardrobe"
)

type ShopItem struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Kind  ItemKind `json:"kind"`
	Price int      `json:"price"`
}

// Catalog is the static content every session draws from.
type Catalog struct {
	Tasks     []Task     `json:"tasks"`
	Locations []Location `json:"locations"`
	Actions   []Activity `json:"actions"`
	Items     []ShopItem `json:"items"`
}

func (c Catalog) Task(id string) (Task, bool) {
	for _, t := range c.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func (c Catalog) Location(id string) (Location, bool) {
	for _, l := range c.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

func (c Catalog) Item(id string) (ShopItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}

// Activity resolves a startable activity: work tasks first, then location
// actions, lunch options and portal services.
func (c Catalog) Activity(id string) (Activity, bool) {
	if t, ok := c.Task(id); ok {
		return t.Activity(), true
	}
	for _, a := range c.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

func (c Catalog) ActionsOfKind(kind ActivityKind) []Activity {
	var out []Activity
	for _, a := range c.Actions {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func (c Catalog) ItemsOfKind(kind ItemKind) []ShopItem {
	var out []ShopItem
	for _, it := range c.Items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// Navigation builds the walk from one location to another. Duration grows
// with the floor distance; wet weather makes rooftop trips more stressful.
func (c Catalog) Navigation(from, to string, weather world.Weather) (Activity, error) {
	dst, ok := c.Location(to)
	if !ok {
		return Activity{}, Reject(ReasonUnknown, "Unknown location %q.", to)
	}
	if from == to {
		return Activity{}, Reject(ReasonAlreadyDone, "You're already at the %s.", dst.Name)
	}
	src, ok := c.Location(from)
	if !ok {
		src = Location{ID: from}
	}
	floors := dst.Floor - src.Floor
	if floors < 0 {
		floors = -floors
	}
	a := Activity{
		ID:       "navigate:" + dst.ID,
		Kind:     KindNavigation,
		Title:    fmt.Sprintf("Walking to the %s", dst.Name),
		Duration: NavigationBaseDuration + time.Duration(floors)*NavigationPerFloor,
		Costs:    Costs{Energy: NavigationEnergyCost},
		Target:   dst.ID,
	}
	if dst.ID == LocationRooftop && weather.IsWet() {
		a.Deltas = Deltas{StatBurnout: WetRooftopBurnout}
	}
	return a, nil
}

func DefaultCatalog() Catalog {
	return Catalog{
		Tasks: []Task{
			{ID: "reply-emails", Title: "Reply to emails", Duration: 5 * time.Second, EnergyCost: 5, RewardExp: 10, RewardCoins: 5, ProgressPerRun: 50, TargetProgress: TaskTargetProgress, ProductivityGain: 3, BurnoutGain: 1},
			{ID: "weekly-report", Title: "Write the weekly report", Duration: 8 * time.Second, EnergyCost: 10, RewardExp: 20, RewardCoins: 10, ProgressPerRun: 25, TargetProgress: TaskTargetProgress, ProductivityGain: 5, BurnoutGain: 2},
			{ID: "bug-triage", Title: "Triage seller bug reports", Duration: 10 * time.Second, EnergyCost: 12, RewardExp: 25, RewardCoins: 15, ProgressPerRun: 25, TargetProgress: TaskTargetProgress, ProductivityGain: 6, BurnoutGain: 3},
			{ID: "campaign-deck", Title: "Build the 11.11 campaign deck", Duration: 12 * time.Second, EnergyCost: 15, RewardExp: 35, RewardCoins: 20, ProgressPerRun: 20, TargetProgress: TaskTargetProgress, ProductivityGain: 8, BurnoutGain: 4},
		},
		Locations: []Location{
			{ID: LocationDesk, Name: "desk", Floor: 10},
			{ID: LocationPantry, Name: "pantry", Floor: 10},
			{ID: LocationMeetingRoom, Name: "meeting room", Floor: 11},
			{ID: LocationGym, Name: "gym", Floor: 3},
			{ID: LocationCafeteria, Name: "cafeteria", Floor: 2},
			{ID: LocationRooftop, Name: "rooftop", Floor: 15},
		},
		Actions: []Activity{
			{ID: "drink-coffee", Kind: KindLocationAction, Title: "Drink a coffee", Duration: 3 * time.Second, Location: LocationPantry,
				Costs: Costs{Items: map[string]int{"coffee": 1}}, Deltas: Deltas{StatEnergy: 20, StatBurnout: 1}},
			{ID: "eat-energy-bar", Kind: KindLocationAction, Title: "Eat an energy bar", Duration: 2 * time.Second, Location: LocationPantry,
				Costs: Costs{Items: map[string]int{"energy-bar": 1}}, Deltas: Deltas{StatEnergy: 12}},
			{ID: "snack-break", Kind: KindLocationAction, Title: "Grab a snack", Duration: 3 * time.Second, Location: LocationPantry,
				Costs: Costs{Currency: 5}, Deltas: Deltas{StatEnergy: 8, StatBurnout: -3}},
			{ID: "stand-up-meeting", Kind: KindLocationAction, Title: "Join the stand-up", Duration: 6 * time.Second, Location: LocationMeetingRoom, Gate: GateWorkingHours,
				Costs: Costs{Energy: 5}, Deltas: Deltas{StatProductivity: 6, StatBurnout: 2, StatExperience: 15}},
			{ID: "rooftop-breather", Kind: KindLocationAction, Title: "Take a breather on the rooftop", Duration: 5 * time.Second, Location: LocationRooftop, GoldenHourBonus: true,
				Deltas: Deltas{StatBurnout: -10, StatEnergy: 5, StatExperience: 10}},
			{ID: "quick-workout", Kind: KindLocationAction, Title: "Quick workout", Duration: 8 * time.Second, Location: LocationGym, GoldenHourBonus: true,
				Costs: Costs{Energy: 15}, Deltas: Deltas{StatBurnout: -15, StatProductivity: 2, StatExperience: 10}},

			{ID: "nasi-lemak", Kind: KindLunch, Title: "Nasi lemak", Duration: 6 * time.Second, Location: LocationCafeteria, Gate: GateLunchWindow,
				Costs: Costs{Currency: 15}, Deltas: Deltas{StatEnergy: 30, StatBurnout: -5}},
			{ID: "chicken-rice", Kind: KindLunch, Title: "Chicken rice", Duration: 6 * time.Second, Location: LocationCafeteria, Gate: GateLunchWindow,
				Costs: Costs{Currency: 12}, Deltas: Deltas{StatEnergy: 25, StatBurnout: -4}},
			{ID: "salad-bowl", Kind: KindLunch, Title: "Salad bowl", Duration: 5 * time.Second, Location: LocationCafeteria, Gate: GateLunchWindow,
				Costs: Costs{Currency: 20}, Deltas: Deltas{StatEnergy: 20, StatBurnout: -8, StatProductivity: 2}},

			{ID: "submit-timesheet", Kind: KindPortal, Title: "Submit timesheet", Duration: 4 * time.Second, Gate: GateWorkingHours,
				Deltas: Deltas{StatExperience: 10, StatCurrency: 5, StatProductivity: 2}},
			{ID: "claim-wellness", Kind: KindPortal, Title: "Claim wellness benefit", Duration: 4 * time.Second,
				Deltas: Deltas{StatExperience: 5, StatBurnout: -5}},
		},
		Items: []ShopItem{
			{ID: "coffee", Name: "Coffee", Kind: ItemConsumable, Price: 10},
			{ID: "energy-bar", Name: "Energy bar", Kind: ItemConsumable, Price: 8},
			{ID: "orange-hoodie", Name: "Orange hoodie", Kind: ItemWardrobe, Price: 40},
			{ID: "smart-blazer", Name: "Smart blazer", Kind: ItemWardrobe, Price: 60},
			{ID: "lucky-socks", Name: "Lucky socks", Kind: ItemWardrobe, Price: 25},
		},
	}
}

func (c Catalog) TaskIDs() []string {
	out := make([]string, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		out = append(out, t.ID)
	}
	return out
}

func (c Catalog) LocationIDs() []string {
	out := make([]string, 0, len(c.Locations))
	for _, l := range c.Locations {
		out = append(out, l.ID)
	}
	return out
}

func (c Catalog) ActivityIDs(kind ActivityKind) []string {
	var out []string
	for _, a := range c.ActionsOfKind(kind) {
		out = append(out, a.ID)
	}
	return out
}

func (c Catalog) ItemIDs(kind ItemKind) []string {
	var out []string
	for _, it := range c.ItemsOfKind(kind) {
		out = append(out, it.ID)
	}
	return out
}
