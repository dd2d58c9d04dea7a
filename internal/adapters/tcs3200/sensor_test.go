package tcs3200

import (
	"context"
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/quentinrf/color-monitor/internal/domain"
)

func testSensor(t *testing.T, cfg Config) (*Sensor, *gpiotest.Pin, Pins) {
	t.Helper()

	out := &gpiotest.Pin{N: "OUT", EdgesChan: make(chan gpio.Level)}
	pins := Pins{
		Out: out,
		S2:  &gpiotest.Pin{N: "S2"},
		S3:  &gpiotest.Pin{N: "S3"},
		S0:  &gpiotest.Pin{N: "S0"},
		S1:  &gpiotest.Pin{N: "S1"},
		LED: &gpiotest.Pin{N: "LED"},
	}

	s, err := New(pins, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s, out, pins
}

// feedPulses sends edges into the OUT pin until the returned stop
// function is called.
func feedPulses(out *gpiotest.Pin) (stop func()) {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case out.EdgesChan <- gpio.High:
			}
		}
	}()
	return func() { close(done) }
}

func TestReadSample_CountsPulses(t *testing.T) {
	// A white level of 1 Hz means any observed pulse saturates the
	// channel, making the expected intensities deterministic.
	cal := domain.Calibration{White: domain.Frequencies{Red: 1, Green: 1, Blue: 1}}
	s, out, _ := testSensor(t, Config{Window: 20 * time.Millisecond, Settle: 0, Calibration: cal})

	stop := feedPulses(out)
	defer stop()

	sample, err := s.ReadSample(context.Background())
	if err != nil {
		t.Fatalf("ReadSample failed: %v", err)
	}

	if sample.Red != 255 || sample.Green != 255 || sample.Blue != 255 {
		t.Errorf("expected saturated channels, got (%d,%d,%d)", sample.Red, sample.Green, sample.Blue)
	}
	if sample.Timestamp.IsZero() {
		t.Error("expected capture timestamp to be set")
	}
}

func TestReadSample_TimeoutWithoutPulses(t *testing.T) {
	s, _, _ := testSensor(t, Config{Window: 10 * time.Millisecond, Settle: 0})

	_, err := s.ReadSample(context.Background())
	if !errors.Is(err, domain.ErrSensorTimeout) {
		t.Fatalf("expected ErrSensorTimeout, got %v", err)
	}
}

func TestReadFrequencies_AllChannelsMeasured(t *testing.T) {
	s, out, _ := testSensor(t, Config{Window: 20 * time.Millisecond, Settle: 0})

	stop := feedPulses(out)
	defer stop()

	freqs, err := s.ReadFrequencies(context.Background())
	if err != nil {
		t.Fatalf("ReadFrequencies failed: %v", err)
	}
	if freqs.Red <= 0 || freqs.Green <= 0 || freqs.Blue <= 0 {
		t.Errorf("expected positive frequencies on every channel, got %+v", freqs)
	}
}

func TestReadSample_Cancelled(t *testing.T) {
	s, _, _ := testSensor(t, Config{Window: time.Second, Settle: 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ReadSample(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSetFilter_Levels(t *testing.T) {
	s, _, pins := testSensor(t, Config{})

	tests := []struct {
		f      filter
		s2, s3 gpio.Level
	}{
		{filterRed, gpio.Low, gpio.Low},
		{filterGreen, gpio.High, gpio.High},
		{filterBlue, gpio.Low, gpio.High},
		{filterClear, gpio.High, gpio.Low},
	}

	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if err := s.setFilter(tt.f); err != nil {
				t.Fatalf("setFilter failed: %v", err)
			}
			if got := pins.S2.(*gpiotest.Pin).Read(); got != tt.s2 {
				t.Errorf("S2 = %v, want %v", got, tt.s2)
			}
			if got := pins.S3.(*gpiotest.Pin).Read(); got != tt.s3 {
				t.Errorf("S3 = %v, want %v", got, tt.s3)
			}
		})
	}
}

func TestSetScale_Levels(t *testing.T) {
	tests := []struct {
		name   string
		scale  Scale
		s0, s1 gpio.Level
	}{
		{"off", ScaleOff, gpio.Low, gpio.Low},
		{"2%", Scale2, gpio.Low, gpio.High},
		{"20%", Scale20, gpio.High, gpio.Low},
		{"100%", Scale100, gpio.High, gpio.High},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, pins := testSensor(t, Config{Scale: tt.scale})

			if got := pins.S0.(*gpiotest.Pin).Read(); got != tt.s0 {
				t.Errorf("S0 = %v, want %v", got, tt.s0)
			}
			if got := pins.S1.(*gpiotest.Pin).Read(); got != tt.s1 {
				t.Errorf("S1 = %v, want %v", got, tt.s1)
			}
		})
	}
}

func TestClose_ParksSensor(t *testing.T) {
	s, _, pins := testSensor(t, Config{Scale: Scale100})

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Scaling off, LED off
	if got := pins.S0.(*gpiotest.Pin).Read(); got != gpio.Low {
		t.Errorf("S0 = %v after Close, want Low", got)
	}
	if got := pins.S1.(*gpiotest.Pin).Read(); got != gpio.Low {
		t.Errorf("S1 = %v after Close, want Low", got)
	}
	if got := pins.LED.(*gpiotest.Pin).Read(); got != gpio.Low {
		t.Errorf("LED = %v after Close, want Low", got)
	}
}

func TestNew_RequiresCorePins(t *testing.T) {
	if _, err := New(Pins{}, Config{}); err == nil {
		t.Error("expected error for missing pins, got nil")
	}
}
