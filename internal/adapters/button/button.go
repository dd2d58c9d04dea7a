// Package button reads a push button wired between a GPIO pin and
// ground, using the pin's pull-up. A press pulls the line low; the
// watcher waits for falling edges and filters mechanical bounce.
package button

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgeTimeout bounds each edge wait so the watcher notices Close.
const edgeTimeout = 500 * time.Millisecond

// Button emits debounced press events from a GPIO input.
type Button struct {
	pin      gpio.PinIO
	debounce time.Duration
	events   chan time.Time
	done     chan struct{}
}

// New arms the pin (pull-up, falling edge) and starts the watcher.
func New(pin gpio.PinIO, debounce time.Duration) (*Button, error) {
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("arm button pin: %w", err)
	}

	b := &Button{
		pin:      pin,
		debounce: debounce,
		events:   make(chan time.Time, 1),
		done:     make(chan struct{}),
	}
	go b.watch()
	return b, nil
}

// Open initialises the GPIO host, resolves the pin by BCM name and
// starts the watcher.
func Open(name string, debounce time.Duration) (*Button, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such pin %q", name)
	}

	return New(pin, debounce)
}

// Presses returns the press event stream. The channel is closed when
// the button is closed.
func (b *Button) Presses() <-chan time.Time {
	return b.events
}

// Close stops the watcher and releases the pin.
func (b *Button) Close() error {
	close(b.done)
	return b.pin.Halt()
}

// watch turns raw falling edges into debounced press events. Edges
// within the debounce window of the last accepted press are bounce
// from the same physical press and are dropped.
func (b *Button) watch() {
	defer close(b.events)

	var last time.Time
	for {
		select {
		case <-b.done:
			return
		default:
		}

		if !b.pin.WaitForEdge(edgeTimeout) {
			continue
		}

		now := time.Now()
		if !last.IsZero() && now.Sub(last) < b.debounce {
			continue
		}
		last = now

		// Drop the press when the consumer is mid-cycle and the
		// buffer already holds an undelivered event.
		select {
		case b.events <- now:
		default:
		}
	}
}
