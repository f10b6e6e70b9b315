package office

import "time"

const (
	StatMin = 0
	StatMax = 100

	DefaultEnergy       = 100
	DefaultProductivity = 50
	DefaultBurnout      = 0
	DefaultCurrency     = 100
	DefaultLevel        = 1
	DefaultExperience   = 0

	LevelUpBonusPerLevel    = 50
	GoldenHourExpMultiplier = 2

	TaskTargetProgress = 100

	NavigationBaseDuration = 2 * time.Second
	NavigationPerFloor     = time.Second
	NavigationEnergyCost   = 2
	WetRooftopBurnout      = 1

	MaxQueuedActivities = 5

	MaxChatLength         = 280
	ChatBurnoutDelta      = -2
	ChatProductivityDelta = -1
)
