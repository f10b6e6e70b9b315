package world

import "fmt"

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// Band is a half-open [Start, End) interval of minutes within a day.
type Band struct {
	Start int
	End   int
}

func (b Band) Contains(minuteOfDay int) bool {
	if b.Start <= b.End {
		return minuteOfDay >= b.Start && minuteOfDay < b.End
	}
	// wraps midnight
	return minuteOfDay >= b.Start || minuteOfDay < b.End
}

func At(hour, minute int) int {
	return hour*MinutesPerHour + minute
}

type ClockConfig struct {
	WorkingHours Band
	LunchWindow  Band
	GoldenHours  []Band
}

func DefaultClockConfig() ClockConfig {
	return ClockConfig{
		WorkingHours: Band{Start: At(9, 30), End: At(18, 30)},
		LunchWindow:  Band{Start: At(12, 0), End: At(14, 0)},
		GoldenHours: []Band{
			{Start: At(6, 0), End: At(7, 0)},
			{Start: At(17, 30), End: At(18, 30)},
		},
	}
}

// Clock is the game's virtual clock. It only moves forward through Tick;
// Reset exists for administrative use and never fires hooks.
type Clock struct {
	cfg          ClockConfig
	totalMinutes int
	lastDay      int
	hourHooks    []func(hour int)
	dayHooks     []func(dayIndex int)
}

func NewClock(cfg ClockConfig, totalMinutes int) *Clock {
	if cfg.WorkingHours == (Band{}) {
		cfg.WorkingHours = DefaultClockConfig().WorkingHours
	}
	if cfg.LunchWindow == (Band{}) {
		cfg.LunchWindow = DefaultClockConfig().LunchWindow
	}
	if cfg.GoldenHours == nil {
		cfg.GoldenHours = DefaultClockConfig().GoldenHours
	}
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return &Clock{cfg: cfg, totalMinutes: totalMinutes, lastDay: totalMinutes / MinutesPerDay}
}

func (c *Clock) OnHour(fn func(hour int)) {
	c.hourHooks = append(c.hourHooks, fn)
}

func (c *Clock) OnDay(fn func(dayIndex int)) {
	c.dayHooks = append(c.dayHooks, fn)
}

// Tick advances the clock by one simulated minute. Day hooks run before
// hour hooks when both boundaries are crossed by the same tick.
func (c *Clock) Tick() {
	c.totalMinutes++
	if c.MinuteOfHour() != 0 {
		return
	}
	if c.HourOfDay() == 0 && c.DayIndex() > c.lastDay {
		c.lastDay = c.DayIndex()
		for _, fn := range c.dayHooks {
			fn(c.lastDay)
		}
	}
	for _, fn := range c.hourHooks {
		fn(c.HourOfDay())
	}
}

func (c *Clock) Reset(totalMinutes int) {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	c.totalMinutes = totalMinutes
	c.lastDay = totalMinutes / MinutesPerDay
}

func (c *Clock) TotalMinutes() int { return c.totalMinutes }
func (c *Clock) HourOfDay() int    { return (c.totalMinutes / MinutesPerHour) % 24 }
func (c *Clock) MinuteOfHour() int { return c.totalMinutes % MinutesPerHour }
func (c *Clock) MinuteOfDay() int  { return c.totalMinutes % MinutesPerDay }
func (c *Clock) DayIndex() int     { return c.totalMinutes / MinutesPerDay }

func (c *Clock) IsWorkingHours() bool {
	return c.cfg.WorkingHours.Contains(c.MinuteOfDay())
}

func (c *Clock) IsLunchWindow() bool {
	return c.cfg.LunchWindow.Contains(c.MinuteOfDay())
}

func (c *Clock) IsGoldenHour() bool {
	m := c.MinuteOfDay()
	for _, b := range c.cfg.GoldenHours {
		if b.Contains(m) {
			return true
		}
	}
	return false
}

// EntersLunchWindow reports whether the current minute is the first minute
// of the lunch window.
func (c *Clock) EntersLunchWindow() bool {
	return c.MinuteOfDay() == c.cfg.LunchWindow.Start
}

func (c *Clock) Snapshot() Snapshot {
	return Snapshot{
		TotalMinutes:   c.totalMinutes,
		DayIndex:       c.DayIndex(),
		HourOfDay:      c.HourOfDay(),
		MinuteOfHour:   c.MinuteOfHour(),
		Display:        c.String(),
		IsWorkingHours: c.IsWorkingHours(),
		IsLunchWindow:  c.IsLunchWindow(),
		IsGoldenHour:   c.IsGoldenHour(),
	}
}

func (c *Clock) String() string {
	return fmt.Sprintf("Day %d %02d:%02d", c.DayIndex()+1, c.HourOfDay(), c.MinuteOfHour())
}

type Snapshot struct {
	TotalMinutes   int    `json:"total_minutes"`
	DayIndex       int    `json:"day_index"`
	HourOfDay      int    `json:"hour_of_day"`
	MinuteOfHour   int    `json:"minute_of_hour"`
	Display        string `json:"display"`
	IsWorkingHours bool   `json:"is_working_hours"`
	IsLunchWindow  bool   `json:"is_lunch_window"`
	IsGoldenHour   bool   `json:"is_golden_hour"`
}
