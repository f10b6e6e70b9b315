package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherStormy Weather = "stormy"
)

func (w Weather) IsWet() bool {
	return w == WeatherRainy || w == WeatherStormy
}

// WeatherGenerator derives a deterministic weather sequence from a seed, so a
// reloaded session sees the same weather for a day it already played.
type WeatherGenerator struct {
	noise opensimplex.Noise
}

func NewWeatherGenerator(seed int64) WeatherGenerator {
	return WeatherGenerator{noise: opensimplex.NewNormalized(seed)}
}

func (g WeatherGenerator) ForDay(dayIndex int) Weather {
	v := g.noise.Eval2(float64(dayIndex)*0.37, 0.5)
	switch {
	case v < 0.42:
		return WeatherSunny
	case v < 0.66:
		return WeatherCloudy
	case v < 0.88:
		return WeatherRainy
	default:
		return WeatherStormy
	}
}
