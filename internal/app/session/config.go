package session

import (
	"time"

	"shopeelife/internal/domain/event"
	"shopeelife/internal/domain/office"
	"shopeelife/internal/domain/world"
)

type Config struct {
	Clock         world.ClockConfig
	Catalog       office.Catalog
	Events        event.Catalog
	DayTransition time.Duration
	EventChance   float64
	ThoughtChance float64
	ChatHistory   int
	NoticeHistory int
}

func DefaultConfig() Config {
	return Config{
		Clock:         world.DefaultClockConfig(),
		Catalog:       office.DefaultCatalog(),
		Events:        event.DefaultCatalog,
		DayTransition: 5 * time.Second,
		EventChance:   event.HourlyChance,
		ThoughtChance: event.ThoughtChance,
		ChatHistory:   50,
		NoticeHistory: 20,
	}
}
