package ports

import (
	"context"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// ColorSensor defines how to take one RGB reading
// This is a PORT - adapters (TCS3200 over GPIO, Mock) will implement it
type ColorSensor interface {
	// ReadSample takes one calibrated reading. It blocks for the
	// per-channel settle and measurement windows and fails with
	// domain.ErrSensorTimeout when a window yields no pulses.
	ReadSample(ctx context.Context) (*domain.ColorSample, error)

	// ReadFrequencies returns the raw per-channel frequencies in Hz,
	// before calibration is applied. Used by the calibrator.
	ReadFrequencies(ctx context.Context) (domain.Frequencies, error)

	// SetCalibration replaces the black/white levels used by ReadSample
	SetCalibration(cal domain.Calibration)

	// Close releases any resources
	Close() error
}

// SampleLogger appends samples to durable line-oriented storage (CSV)
type SampleLogger interface {
	// Log appends one row; the row is flushed before Log returns
	Log(ctx context.Context, sample *domain.ColorSample) error
}
