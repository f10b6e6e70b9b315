package event

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"shopeelife/internal/domain/office"
)

var (
	ErrNoPendingEvent = errors.New("no pending event")
	ErrEventMismatch  = errors.New("event mismatch")
	ErrInvalidChoice  = errors.New("invalid choice")
)

const (
	HourlyChance = 0.30

	ThoughtEveryMinutes = 5
	ThoughtChance       = 0.20
	ThoughtLifetime     = 3 * time.Second
)

type Choice struct {
	Label      string        `json:"label"`
	Effect     office.Deltas `json:"effect"`
	ResultText string        `json:"result_text"`
}

type Template struct {
	Key         string
	Title       string
	Description string
	Choices     []Choice
}

// RandomEvent is one rolled instance of a template, waiting for a choice.
type RandomEvent struct {
	ID          string   `json:"id"`
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Choices     []Choice `json:"choices"`
}

func (e RandomEvent) Choice(index int) (Choice, error) {
	if index < 0 || index >= len(e.Choices) {
		return Choice{}, ErrInvalidChoice
	}
	return e.Choices[index], nil
}

type Catalog []Template

func (c Catalog) Roll(rng *rand.Rand) (RandomEvent, bool) {
	if len(c) == 0 {
		return RandomEvent{}, false
	}
	tpl := c[rng.Intn(len(c))]
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		id = uuid.New()
	}
	choices := make([]Choice, len(tpl.Choices))
	copy(choices, tpl.Choices)
	return RandomEvent{
		ID:          id.String(),
		Key:         tpl.Key,
		Title:       tpl.Title,
		Description: tpl.Description,
		Choices:     choices,
	}, true
}

// Thought is a transient, non-blocking line shown over the office.
type Thought struct {
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t Thought) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func PickThought(rng *rand.Rand, now time.Time) Thought {
	return Thought{Text: Thoughts[rng.Intn(len(Thoughts))], ExpiresAt: now.Add(ThoughtLifetime)}
}

func PickReply(rng *rand.Rand) Reply {
	return Replies[rng.Intn(len(Replies))]
}
