package event

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func TestCatalogEntriesHaveChoices(t *testing.T) {
	for _, tpl := range DefaultCatalog {
		if len(tpl.Choices) < 2 {
			t.Fatalf("event %s needs at least two choices", tpl.Key)
		}
		for i, c := range tpl.Choices {
			if c.ResultText == "" || c.Label == "" {
				t.Fatalf("event %s choice %d missing text", tpl.Key, i)
			}
		}
	}
}

func TestRollCopiesChoices(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ev, ok := DefaultCatalog.Roll(rng)
	if !ok || ev.ID == "" {
		t.Fatalf("expected rolled event, got %+v", ev)
	}
	ev.Choices[0].ResultText = "changed"
	for _, tpl := range DefaultCatalog {
		if tpl.Key == ev.Key && tpl.Choices[0].ResultText == "changed" {
			t.Fatalf("roll must not alias catalog choices")
		}
	}
	if _, ok := Catalog(nil).Roll(rng); ok {
		t.Fatalf("empty catalog must not roll")
	}
}

func TestChoiceBounds(t *testing.T) {
	ev := RandomEvent{Choices: []Choice{{Label: "a"}}}
	if _, err := ev.Choice(1); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected invalid choice, got %v", err)
	}
	if _, err := ev.Choice(-1); !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected invalid choice, got %v", err)
	}
}

func TestThoughtExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	th := PickThought(rand.New(rand.NewSource(1)), now)
	if th.Expired(now.Add(ThoughtLifetime - time.Millisecond)) {
		t.Fatalf("thought expired too early")
	}
	if !th.Expired(now.Add(ThoughtLifetime)) {
		t.Fatalf("thought should expire after %s", ThoughtLifetime)
	}
}
