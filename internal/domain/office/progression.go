package office

import "math"

// NoFurtherLevels is returned as the requirement for levels beyond the table.
const NoFurtherLevels = math.MaxInt

// LevelTable lists the cumulative experience needed to reach each level,
// starting at level 2. Level 1 always requires 0.
type LevelTable []int

var DefaultLevelTable = LevelTable{100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700}

func (t LevelTable) MaxLevel() int {
	return len(t) + 1
}

func (t LevelTable) RequiredXPForLevel(n int) int {
	if n <= 1 {
		return 0
	}
	if n > t.MaxLevel() {
		return NoFurtherLevels
	}
	return t[n-2]
}

// StepToNext is the experience needed within level to reach level+1.
func (t LevelTable) StepToNext(level int) int {
	if level < 1 {
		level = 1
	}
	next := t.RequiredXPForLevel(level + 1)
	if next == NoFurtherLevels {
		return NoFurtherLevels
	}
	return next - t.RequiredXPForLevel(level)
}

type LevelUpResult struct {
	Level        int `json:"level"`
	Experience   int `json:"experience"`
	LevelsGained int `json:"levels_gained"`
	BonusCoins   int `json:"bonus_coins"`
}

func (r LevelUpResult) LeveledUp() bool {
	return r.LevelsGained > 0
}

// Resolve consumes experience held within the current level until the next
// step can no longer be paid. Every level crossed awards
// LevelUpBonusPerLevel * newLevel coins.
func (t LevelTable) Resolve(level, experience int) LevelUpResult {
	if level < 1 {
		level = 1
	}
	res := LevelUpResult{Level: level, Experience: experience}
	for {
		step := t.StepToNext(res.Level)
		if step == NoFurtherLevels || res.Experience < step {
			return res
		}
		res.Experience -= step
		res.Level++
		res.LevelsGained++
		res.BonusCoins += LevelUpBonusPerLevel * res.Level
	}
}

func RequiredXPForLevel(n int) int {
	return DefaultLevelTable.RequiredXPForLevel(n)
}
