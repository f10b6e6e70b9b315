package quest

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"shopeelife/internal/domain/office"
)

const DailyQuestCount = 3

var typeOrder = []Type{TypeTask, TypeNavigate, TypeLunch, TypeShop, TypeStat, TypeSeaTalk, TypeWardrobe}

var DefaultWeights = map[Type]int{
	TypeTask:     30,
	TypeNavigate: 15,
	TypeLunch:    10,
	TypeShop:     15,
	TypeStat:     10,
	TypeSeaTalk:  10,
	TypeWardrobe: 10,
}

// Generator draws the daily quests. Each type appears at most once per day;
// when the chosen type has no eligible target a filler quest takes its slot,
// so Generate always returns Count quests.
type Generator struct {
	Catalog office.Catalog
	Weights map[Type]int
	Count   int
	// Wearing is the outfit already on; a wardrobe quest never targets it.
	Wearing string
}

func NewGenerator(cat office.Catalog) Generator {
	return Generator{Catalog: cat, Weights: DefaultWeights, Count: DailyQuestCount}
}

func (g Generator) Generate(rng *rand.Rand) Board {
	count := g.Count
	if count <= 0 {
		count = DailyQuestCount
	}
	remaining := make(map[Type]int, len(g.Weights))
	for k, v := range g.Weights {
		remaining[k] = v
	}
	out := make(Board, 0, count)
	for len(out) < count {
		var (
			q     Quest
			built bool
		)
		if t, ok := pickWeighted(rng, remaining); ok {
			delete(remaining, t)
			q, built = g.build(t, rng)
		}
		if !built {
			q = filler()
		}
		q.ID = newID(rng)
		out = append(out, q)
	}
	return out
}

func pickWeighted(rng *rand.Rand, weights map[Type]int) (Type, bool) {
	total := 0
	for _, t := range typeOrder {
		if w := weights[t]; w > 0 {
			total += w
		}
	}
	if total == 0 {
		return "", false
	}
	roll := rng.Intn(total)
	for _, t := range typeOrder {
		w := weights[t]
		if w <= 0 {
			continue
		}
		if roll < w {
			return t, true
		}
		roll -= w
	}
	return "", false
}

func (g Generator) build(t Type, rng *rand.Rand) (Quest, bool) {
	cat := g.Catalog
	switch t {
	case TypeTask:
		if len(cat.Tasks) == 0 {
			return Quest{}, false
		}
		task := cat.Tasks[rng.Intn(len(cat.Tasks))]
		n := 1 + rng.Intn(2)
		return Quest{
			Type: t, Title: fmt.Sprintf("%s (%dx)", task.Title, n), TargetValue: n,
			RewardExp: 20 * n, RewardCoins: 15, Criteria: Criteria{TargetID: task.ID},
		}, true
	case TypeNavigate:
		var candidates []office.Location
		for _, l := range cat.Locations {
			if l.ID != office.LocationDesk {
				candidates = append(candidates, l)
			}
		}
		if len(candidates) == 0 {
			return Quest{}, false
		}
		loc := candidates[rng.Intn(len(candidates))]
		return Quest{
			Type: t, Title: fmt.Sprintf("Visit the %s", loc.Name), TargetValue: 1,
			RewardExp: 10, RewardCoins: 5, Criteria: Criteria{TargetID: loc.ID},
		}, true
	case TypeLunch:
		lunches := cat.ActionsOfKind(office.KindLunch)
		if len(lunches) == 0 {
			return Quest{}, false
		}
		dish := lunches[rng.Intn(len(lunches))]
		return Quest{
			Type: t, Title: fmt.Sprintf("Have %s for lunch", dish.Title), TargetValue: 1,
			RewardExp: 15, RewardCoins: 10, Criteria: Criteria{TargetID: dish.ID},
		}, true
	case TypeShop:
		items := cat.ItemsOfKind(office.ItemConsumable)
		if len(items) == 0 {
			return Quest{}, false
		}
		it := items[rng.Intn(len(items))]
		return Quest{
			Type: t, Title: fmt.Sprintf("Buy a %s", it.Name), TargetValue: 1,
			RewardExp: 10, RewardCoins: 5, Criteria: Criteria{TargetID: it.ID},
		}, true
	case TypeStat:
		if rng.Intn(2) == 0 {
			threshold := 70 + 10*rng.Intn(3)
			return Quest{
				Type: t, Title: fmt.Sprintf("Push productivity to %d", threshold), TargetValue: 1,
				RewardExp: 25, RewardCoins: 10,
				Criteria: Criteria{Stat: office.StatProductivity, Comparator: AtLeast, Threshold: threshold},
			}, true
		}
		return Quest{
			Type: t, Title: "Keep burnout at 20 or below", TargetValue: 1,
			RewardExp: 20, RewardCoins: 10,
			Criteria: Criteria{Stat: office.StatBurnout, Comparator: AtMost, Threshold: 20},
		}, true
	case TypeSeaTalk:
		n := 2 + rng.Intn(3)
		return Quest{
			Type: t, Title: fmt.Sprintf("Send %d SeaTalk messages", n), TargetValue: n,
			RewardExp: 5 * n, RewardCoins: 5,
		}, true
	case TypeWardrobe:
		var items []office.ShopItem
		for _, it := range cat.ItemsOfKind(office.ItemWardrobe) {
			if it.ID != g.Wearing {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			return Quest{}, false
		}
		it := items[rng.Intn(len(items))]
		return Quest{
			Type: t, Title: fmt.Sprintf("Wear the %s to work", it.Name), TargetValue: 1,
			RewardExp: 15, RewardCoins: 0, Criteria: Criteria{TargetID: it.ID},
		}, true
	}
	return Quest{}, false
}

func filler() Quest {
	return Quest{
		Type:        TypeSeaTalk,
		Title:       "Say good morning on SeaTalk",
		TargetValue: 1,
		RewardExp:   5,
		RewardCoins: 5,
		Filler:      true,
	}
}

func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
