package domain

import (
	"time"
)

// ColorSample is a single RGB reading from the colour sensor.
// The three channels are always captured together: one acquisition
// cycle produces one sample with one timestamp.
type ColorSample struct {
	ID        int64
	Red       int
	Green     int
	Blue      int
	Timestamp time.Time
}

// NewColorSample creates a new sample with validation.
func NewColorSample(red, green, blue int) (*ColorSample, error) {
	// Business rule: channel intensities cannot be negative
	if red < 0 || green < 0 || blue < 0 {
		return nil, ErrInvalidChannel
	}

	return &ColorSample{
		Red:       red,
		Green:     green,
		Blue:      blue,
		Timestamp: time.Now(),
	}, nil
}

// Dominant returns the name of the strongest channel, or "balanced"
// when no single channel stands out.
func (s *ColorSample) Dominant() string {
	switch {
	case s.Red > s.Green && s.Red > s.Blue:
		return "red"
	case s.Green > s.Red && s.Green > s.Blue:
		return "green"
	case s.Blue > s.Red && s.Blue > s.Green:
		return "blue"
	}
	return "balanced"
}

// Frequencies holds the raw per-channel output frequencies in hertz,
// as measured before calibration is applied.
type Frequencies struct {
	Red   float64
	Green float64
	Blue  float64
}
