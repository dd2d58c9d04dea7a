package tcs3200

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Wiring names the sensor's GPIO lines by BCM pin name (e.g.
// "GPIO24"). Empty optional names leave the line unwired.
type Wiring struct {
	Out    string
	S2, S3 string
	S0, S1 string
	LED    string
	OE     string
}

// Open initialises the GPIO host, resolves the wired pins and
// prepares the sensor.
func Open(w Wiring, cfg Config) (*Sensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	out, err := pin(w.Out)
	if err != nil {
		return nil, err
	}
	s2, err := pin(w.S2)
	if err != nil {
		return nil, err
	}
	s3, err := pin(w.S3)
	if err != nil {
		return nil, err
	}

	pins := Pins{Out: out, S2: s2, S3: s3}
	if pins.S0, err = optionalPin(w.S0); err != nil {
		return nil, err
	}
	if pins.S1, err = optionalPin(w.S1); err != nil {
		return nil, err
	}
	if pins.LED, err = optionalPin(w.LED); err != nil {
		return nil, err
	}
	if pins.OE, err = optionalPin(w.OE); err != nil {
		return nil, err
	}

	return New(pins, cfg)
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fmt.Errorf("tcs3200: missing pin name")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("tcs3200: no such pin %q", name)
	}
	return p, nil
}

func optionalPin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	return pin(name)
}
