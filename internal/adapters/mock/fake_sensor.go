package mock

import (
	"context"
	"math/rand"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// FakeSensor simulates a colour sensor for development
// This implements the ports.ColorSensor interface
type FakeSensor struct {
	base      int
	variation int
	cal       domain.Calibration
}

// NewFakeSensor creates a sensor that returns plausible values.
// base: average channel intensity (e.g. 128)
// variation: +/- range per channel (e.g. 40 means 88-168)
func NewFakeSensor(base, variation int) *FakeSensor {
	return &FakeSensor{
		base:      base,
		variation: variation,
		cal:       domain.DefaultCalibration(),
	}
}

// ReadSample returns a simulated reading
// Simulates realistic variance (ambient light shifts, sensor noise)
func (s *FakeSensor) ReadSample(ctx context.Context) (*domain.ColorSample, error) {
	return domain.NewColorSample(s.channel(), s.channel(), s.channel())
}

// ReadFrequencies returns frequencies consistent with the simulated
// intensities under the current calibration.
func (s *FakeSensor) ReadFrequencies(ctx context.Context) (domain.Frequencies, error) {
	hz := func(v int, black, white float64) float64 {
		return black + float64(v)/255*(white-black)
	}
	return domain.Frequencies{
		Red:   hz(s.channel(), s.cal.Black.Red, s.cal.White.Red),
		Green: hz(s.channel(), s.cal.Black.Green, s.cal.White.Green),
		Blue:  hz(s.channel(), s.cal.Black.Blue, s.cal.White.Blue),
	}, nil
}

// SetCalibration stores the calibration
func (s *FakeSensor) SetCalibration(cal domain.Calibration) {
	s.cal = cal
}

// Close is a no-op for the fake sensor
func (s *FakeSensor) Close() error {
	return nil
}

func (s *FakeSensor) channel() int {
	v := s.base
	if s.variation > 0 {
		v += rand.Intn(2*s.variation+1) - s.variation
	}
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return v
}
