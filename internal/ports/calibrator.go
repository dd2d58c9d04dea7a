package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// Calibrator runs the black-then-white calibration flow: prompt for a
// black reference object, average a few raw frequency readings, repeat
// for white, then apply the resulting levels to the sensor.
type Calibrator struct {
	sensor  ColorSensor
	display Display

	// readings averaged per reference level
	samples int

	// how long the operator gets to place the reference object
	prompt time.Duration

	// pause between averaged readings
	pause time.Duration
}

// NewCalibrator creates a calibrator averaging `samples` readings per
// level, waiting `prompt` after each instruction.
func NewCalibrator(sensor ColorSensor, display Display, samples int, prompt, pause time.Duration) *Calibrator {
	if samples <= 0 {
		samples = 5
	}
	return &Calibrator{
		sensor:  sensor,
		display: display,
		samples: samples,
		prompt:  prompt,
		pause:   pause,
	}
}

// Run performs the full calibration and applies it to the sensor.
func (c *Calibrator) Run(ctx context.Context) (domain.Calibration, error) {
	black, err := c.measureLevel(ctx, "BLACK")
	if err != nil {
		return domain.Calibration{}, fmt.Errorf("black level: %w", err)
	}

	white, err := c.measureLevel(ctx, "WHITE")
	if err != nil {
		return domain.Calibration{}, fmt.Errorf("white level: %w", err)
	}

	cal := domain.Calibration{Black: black, White: white}
	if err := cal.Validate(); err != nil {
		return domain.Calibration{}, err
	}

	c.sensor.SetCalibration(cal)

	log.Info().
		Float64("black_red", black.Red).
		Float64("black_green", black.Green).
		Float64("black_blue", black.Blue).
		Float64("white_red", white.Red).
		Float64("white_green", white.Green).
		Float64("white_blue", white.Blue).
		Msg("calibration applied")

	c.display.Show("Calibration OK")
	c.wait(ctx, c.prompt)

	return cal, nil
}

// measureLevel prompts for a reference object and averages raw
// frequency readings for one level.
func (c *Calibrator) measureLevel(ctx context.Context, name string) (domain.Frequencies, error) {
	c.display.Show(name+" calibration", "Place "+name+" obj")
	if !c.wait(ctx, c.prompt) {
		return domain.Frequencies{}, ctx.Err()
	}

	c.display.Show(name + ": progress")

	var sum domain.Frequencies
	for i := 0; i < c.samples; i++ {
		f, err := c.sensor.ReadFrequencies(ctx)
		if err != nil {
			return domain.Frequencies{}, err
		}
		sum.Red += f.Red
		sum.Green += f.Green
		sum.Blue += f.Blue

		if !c.wait(ctx, c.pause) {
			return domain.Frequencies{}, ctx.Err()
		}
	}

	n := float64(c.samples)
	avg := domain.Frequencies{
		Red:   sum.Red / n,
		Green: sum.Green / n,
		Blue:  sum.Blue / n,
	}

	c.display.Show(name+" RGB (Hz)", fmt.Sprintf("%.0f %.0f %.0f", avg.Red, avg.Green, avg.Blue))
	c.wait(ctx, c.prompt)

	return avg, nil
}

// wait blocks for d; returns false when ctx was cancelled first.
func (c *Calibrator) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
