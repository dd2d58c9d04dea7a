package ports

import "time"

// Button reports push-button press events.
// Adapters deliver the time of each detected press; consumers apply
// their own debounce window on the reported timestamps, so a bouncing
// mechanical switch yields at most one logical event.
type Button interface {
	// Presses returns the stream of press timestamps. The channel is
	// closed when the button is closed.
	Presses() <-chan time.Time

	// Close releases the input pin and closes the press channel
	Close() error
}
