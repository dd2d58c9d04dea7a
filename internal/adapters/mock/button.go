package mock

import (
	"sync"
	"time"
)

// Button is a press source driven from test code or a dev timer.
type Button struct {
	ch   chan time.Time
	stop chan struct{}
	once sync.Once
}

// NewButton creates a button whose presses are injected with Press.
func NewButton() *Button {
	return &Button{
		ch:   make(chan time.Time, 8),
		stop: make(chan struct{}),
	}
}

// NewAutoButton creates a button that presses itself every interval.
// Useful for running the button presenter without hardware.
func NewAutoButton(interval time.Duration) *Button {
	b := NewButton()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case t := <-ticker.C:
				b.Press(t)
			}
		}
	}()
	return b
}

// Press injects a press event with the given timestamp.
// It is dropped when nobody is consuming fast enough. Press must not
// be called after Close.
func (b *Button) Press(t time.Time) {
	select {
	case <-b.stop:
		return
	default:
	}
	select {
	case b.ch <- t:
	default:
	}
}

// Presses returns the press event stream.
func (b *Button) Presses() <-chan time.Time {
	return b.ch
}

// Close stops the auto presser and closes the press channel.
func (b *Button) Close() error {
	b.once.Do(func() {
		close(b.stop)
		close(b.ch)
	})
	return nil
}
