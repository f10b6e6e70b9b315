package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"shopeelife/internal/domain/office"
	"shopeelife/internal/domain/quest"
	"shopeelife/internal/domain/world"
)

// SchemaVersion is the version written by Encode. Older blobs are upgraded
// step by step through stateMigrations.
const SchemaVersion = 2

var (
	ErrEmptyState        = errors.New("empty game state")
	ErrUnsupportedSchema = errors.New("unsupported game state schema")
)

// State is the game-state blob persisted next to the ledger columns.
type State struct {
	SchemaVersion      int               `json:"schema_version"`
	TotalMinutes       int               `json:"total_minutes"`
	Energy             int               `json:"energy"`
	Productivity       int               `json:"productivity"`
	Burnout            int               `json:"burnout"`
	Location           string            `json:"location"`
	Inventory          office.Inventory  `json:"inventory"`
	Equipped           string            `json:"equipped"`
	TaskProgress       map[string]int    `json:"task_progress"`
	Quests             quest.Board       `json:"quests"`
	QuestDay           int               `json:"quest_day"`
	LunchDay           int               `json:"lunch_day"`
	LunchReminderShown bool              `json:"lunch_reminder_shown"`
	Weather            world.Weather     `json:"weather"`
	Chat               []ChatMessage     `json:"chat"`
	Activity           *office.Run       `json:"activity,omitempty"`
	Queue              []office.Activity `json:"queue,omitempty"`
}

type ChatMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
	At   string `json:"at"`
}

// Saved is everything persisted for one player: the ledger (currency, level
// and experience live in their own columns) plus the state blob.
type Saved struct {
	Ledger office.Ledger
	State  State
}

func DefaultState() State {
	return State{
		SchemaVersion: SchemaVersion,
		TotalMinutes:  world.At(9, 0),
		Energy:        office.DefaultEnergy,
		Productivity:  office.DefaultProductivity,
		Burnout:       office.DefaultBurnout,
		Location:      office.LocationDesk,
		Inventory:     office.Inventory{},
		TaskProgress:  map[string]int{},
		LunchDay:      -1,
	}
}

func DefaultSaved() Saved {
	return Saved{Ledger: office.DefaultLedger(), State: DefaultState()}
}

// Encode produces the state blob. The bounded stats are taken from the ledger.
func (s Saved) Encode() (json.RawMessage, error) {
	st := s.State
	st.SchemaVersion = SchemaVersion
	st.Energy = s.Ledger.Energy
	st.Productivity = s.Ledger.Productivity
	st.Burnout = s.Ledger.Burnout
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	return b, nil
}

// Decode upgrades and parses a state blob. ledger carries the column values;
// its bounded stats are replaced by the ones stored in the blob.
func Decode(blob json.RawMessage, ledger office.Ledger) (Saved, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return Saved{}, ErrEmptyState
	}
	var doc map[string]any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Saved{}, fmt.Errorf("decode game state: %w", err)
	}
	version := 0
	if v, ok := doc["schema_version"].(float64); ok {
		version = int(v)
	}
	if version < 0 || version > SchemaVersion {
		return Saved{}, fmt.Errorf("%w: %d", ErrUnsupportedSchema, version)
	}
	for v := version; v < SchemaVersion; v++ {
		stateMigrations[v](doc)
	}
	doc["schema_version"] = SchemaVersion

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return Saved{}, fmt.Errorf("re-encode game state: %w", err)
	}
	st := DefaultState()
	if err := json.Unmarshal(upgraded, &st); err != nil {
		return Saved{}, fmt.Errorf("decode game state: %w", err)
	}
	ledger.Energy = st.Energy
	ledger.Productivity = st.Productivity
	ledger.Burnout = st.Burnout
	return Saved{Ledger: ledger.Normalize(), State: st}, nil
}

// stateMigrations[v] upgrades a version v document to v+1 in place.
var stateMigrations = []func(doc map[string]any){
	migrateV0toV1,
	migrateV1toV2,
}

// v0 is the unversioned camelCase layout.
func migrateV0toV1(doc map[string]any) {
	renames := map[string]string{
		"gameMinutes":        "total_minutes",
		"currentLocation":    "location",
		"taskProgress":       "task_progress",
		"dailyQuests":        "quests",
		"questDay":           "quest_day",
		"lastLunchDay":       "lunch_day",
		"lunchReminderShown": "lunch_reminder_shown",
	}
	for from, to := range renames {
		if v, ok := doc[from]; ok {
			if _, exists := doc[to]; !exists {
				doc[to] = v
			}
			delete(doc, from)
		}
	}
	if quests, ok := doc["quests"].([]any); ok {
		for _, raw := range quests {
			q, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			for from, to := range map[string]string{
				"targetValue":     "target_value",
				"currentProgress": "current_progress",
				"isCompleted":     "is_completed",
				"isClaimed":       "is_claimed",
				"rewardExp":       "reward_exp",
				"rewardCoins":     "reward_coins",
			} {
				if v, ok := q[from]; ok {
					q[to] = v
					delete(q, from)
				}
			}
		}
	}
	if _, ok := doc["lunch_day"]; !ok {
		doc["lunch_day"] = -1
	}
}

// v2 adds the equipped outfit, weather and chat history.
func migrateV1toV2(doc map[string]any) {
	if _, ok := doc["equipped"]; !ok {
		doc["equipped"] = ""
	}
	if _, ok := doc["weather"]; !ok {
		doc["weather"] = ""
	}
	if _, ok := doc["chat"]; !ok {
		doc["chat"] = []any{}
	}
}
