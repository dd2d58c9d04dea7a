// Package tcs3200 drives a TCS3200 colour sensor over GPIO.
//
// The sensor outputs a square wave on OUT whose frequency is
// proportional to the intensity of the colour selected by the S2/S3
// filter pins. S0/S1 scale the output frequency (off, 2%, 20%, 100%).
// A reading selects each colour filter in turn, waits for the filter
// to settle, then counts rising edges over a fixed measurement
// window.
package tcs3200

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// Defaults for the measurement timing. The window bounds the worst
// case read latency at 3*(settle+window) plus pin switching overhead.
const (
	DefaultWindow = 50 * time.Millisecond
	DefaultSettle = 5 * time.Millisecond
)

// Scale selects the S0/S1 output frequency scaling.
type Scale int

const (
	ScaleOff Scale = iota
	Scale2
	Scale20
	Scale100
)

// filter selects the S2/S3 photodiode filter.
type filter int

const (
	filterRed filter = iota
	filterGreen
	filterBlue
	filterClear
)

func (f filter) String() string {
	switch f {
	case filterRed:
		return "red"
	case filterGreen:
		return "green"
	case filterBlue:
		return "blue"
	}
	return "clear"
}

// Pins groups the GPIO lines wired to the sensor. Out, S2 and S3 are
// required; S0/S1 (frequency scaling), LED and OE (output enable,
// active low) are optional and may be nil.
type Pins struct {
	Out    gpio.PinIO
	S2, S3 gpio.PinOut
	S0, S1 gpio.PinOut
	LED    gpio.PinOut
	OE     gpio.PinOut
}

// Config carries the measurement tuning.
type Config struct {
	Window      time.Duration
	Settle      time.Duration
	Scale       Scale
	Calibration domain.Calibration
}

// Sensor owns the sensor's GPIO lines for its lifetime. It is not
// safe for concurrent use; the presenters are single-threaded.
type Sensor struct {
	pins   Pins
	window time.Duration
	settle time.Duration
	cal    domain.Calibration
}

// New prepares the sensor: filter pins driven, edge detection armed
// on OUT, device enabled, frequency scaling applied.
func New(pins Pins, cfg Config) (*Sensor, error) {
	if pins.Out == nil || pins.S2 == nil || pins.S3 == nil {
		return nil, fmt.Errorf("tcs3200: OUT, S2 and S3 pins are required")
	}

	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Settle < 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.Calibration == (domain.Calibration{}) {
		cfg.Calibration = domain.DefaultCalibration()
	}

	s := &Sensor{
		pins:   pins,
		window: cfg.Window,
		settle: cfg.Settle,
		cal:    cfg.Calibration,
	}

	if err := pins.Out.In(gpio.PullNoChange, gpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("arm OUT pin: %w", err)
	}

	// OE is active low
	if pins.OE != nil {
		if err := pins.OE.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("enable device: %w", err)
		}
	}

	if err := s.setScale(cfg.Scale); err != nil {
		return nil, err
	}
	if err := s.setFilter(filterClear); err != nil {
		return nil, err
	}

	return s, nil
}

// ReadSample takes one calibrated reading: raw frequencies for all
// three channels, scaled to 0..255 with one shared timestamp.
func (s *Sensor) ReadSample(ctx context.Context) (*domain.ColorSample, error) {
	f, err := s.ReadFrequencies(ctx)
	if err != nil {
		return nil, err
	}

	red, green, blue := s.cal.Scale(f)
	return domain.NewColorSample(red, green, blue)
}

// ReadFrequencies measures the raw output frequency for each colour
// channel in turn. The board LED is lit for the duration of the read.
func (s *Sensor) ReadFrequencies(ctx context.Context) (domain.Frequencies, error) {
	s.led(gpio.High)
	defer s.led(gpio.Low)

	// The clear filter parks the sensor between readings.
	defer s.setFilter(filterClear)

	var freqs domain.Frequencies
	for _, ch := range []struct {
		f   filter
		out *float64
	}{
		{filterRed, &freqs.Red},
		{filterGreen, &freqs.Green},
		{filterBlue, &freqs.Blue},
	} {
		hz, err := s.measure(ctx, ch.f)
		if err != nil {
			return domain.Frequencies{}, err
		}
		*ch.out = hz
	}

	return freqs, nil
}

// SetCalibration replaces the black/white levels.
func (s *Sensor) SetCalibration(cal domain.Calibration) {
	s.cal = cal
}

// Close parks the sensor: scaling off, clear filter, LED off, device
// disabled. Safe to call on all exit paths.
func (s *Sensor) Close() error {
	err := s.setScale(ScaleOff)
	if ferr := s.setFilter(filterClear); err == nil {
		err = ferr
	}
	s.led(gpio.Low)
	if s.pins.OE != nil {
		if oerr := s.pins.OE.Out(gpio.High); err == nil {
			err = oerr
		}
	}
	if herr := s.pins.Out.Halt(); err == nil {
		err = herr
	}
	return err
}

// measure selects a filter, waits for it to settle, then counts
// rising edges on OUT over the measurement window.
func (s *Sensor) measure(ctx context.Context, f filter) (float64, error) {
	if err := s.setFilter(f); err != nil {
		return 0, err
	}
	if err := s.sleep(ctx, s.settle); err != nil {
		return 0, err
	}

	deadline := time.Now().Add(s.window)
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if !s.pins.Out.WaitForEdge(remaining) {
			break
		}
		count++
	}

	if count == 0 {
		return 0, fmt.Errorf("%s filter: %w", f, domain.ErrSensorTimeout)
	}

	return float64(count) / s.window.Seconds(), nil
}

// setFilter drives S2/S3.
//
//	f      S2  S3
//	red    L   L
//	green  H   H
//	blue   L   H
//	clear  H   L
func (s *Sensor) setFilter(f filter) error {
	var s2, s3 gpio.Level
	switch f {
	case filterRed:
		s2, s3 = gpio.Low, gpio.Low
	case filterGreen:
		s2, s3 = gpio.High, gpio.High
	case filterBlue:
		s2, s3 = gpio.Low, gpio.High
	default:
		s2, s3 = gpio.High, gpio.Low
	}

	if err := s.pins.S2.Out(s2); err != nil {
		return fmt.Errorf("set S2: %w", err)
	}
	if err := s.pins.S3.Out(s3); err != nil {
		return fmt.Errorf("set S3: %w", err)
	}
	return nil
}

// setScale drives S0/S1.
//
//	scale  S0  S1
//	off    L   L
//	2%     L   H
//	20%    H   L
//	100%   H   H
func (s *Sensor) setScale(sc Scale) error {
	if s.pins.S0 == nil || s.pins.S1 == nil {
		return nil
	}

	var s0, s1 gpio.Level
	switch sc {
	case ScaleOff:
		s0, s1 = gpio.Low, gpio.Low
	case Scale2:
		s0, s1 = gpio.Low, gpio.High
	case Scale20:
		s0, s1 = gpio.High, gpio.Low
	default:
		s0, s1 = gpio.High, gpio.High
	}

	if err := s.pins.S0.Out(s0); err != nil {
		return fmt.Errorf("set S0: %w", err)
	}
	if err := s.pins.S1.Out(s1); err != nil {
		return fmt.Errorf("set S1: %w", err)
	}
	return nil
}

func (s *Sensor) led(l gpio.Level) {
	if s.pins.LED != nil {
		// Best effort; a dead LED must not fail a reading.
		_ = s.pins.LED.Out(l)
	}
}

func (s *Sensor) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
