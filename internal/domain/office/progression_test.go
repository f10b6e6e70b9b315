package office

import "testing"

func TestRequiredXPForLevel(t *testing.T) {
	cases := map[int]int{
		0:  0,
		1:  0,
		2:  100,
		3:  250,
		4:  450,
		10: 2700,
		11: NoFurtherLevels,
	}
	for level, want := range cases {
		if got := RequiredXPForLevel(level); got != want {
			t.Fatalf("level %d: got=%d want=%d", level, got, want)
		}
	}
}

func TestLevelTableResolveCrossesSeveralLevels(t *testing.T) {
	table := LevelTable{100, 250, 450}
	res := table.Resolve(1, 450)
	if res.Level != 4 || res.Experience != 0 || res.LevelsGained != 3 || res.BonusCoins != 450 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLevelTableResolveStopsAtMaxLevel(t *testing.T) {
	table := LevelTable{100, 250}
	res := table.Resolve(1, 10_000)
	if res.Level != table.MaxLevel() {
		t.Fatalf("expected max level %d, got %d", table.MaxLevel(), res.Level)
	}
	if res.Experience != 10_000-250 {
		t.Fatalf("expected leftover experience kept, got %d", res.Experience)
	}
	again := table.Resolve(res.Level, res.Experience+500)
	if again.LeveledUp() {
		t.Fatalf("expected no level beyond max, got %+v", again)
	}
}

func TestLevelTableResolvePartialStep(t *testing.T) {
	res := DefaultLevelTable.Resolve(2, 149)
	if res.Level != 2 || res.Experience != 149 {
		t.Fatalf("expected no level-up one short of the step, got %+v", res)
	}
	res = DefaultLevelTable.Resolve(2, 150)
	if res.Level != 3 || res.Experience != 0 || res.BonusCoins != 150 {
		t.Fatalf("expected level 3 on exact step, got %+v", res)
	}
}
