package mock

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Display is a console stand-in for the character LCD. It records
// everything shown and optionally echoes it to a writer, so the
// button presenter can run on a machine without the hardware.
type Display struct {
	mu    sync.Mutex
	echo  io.Writer // may be nil
	shown [][]string
	last  []string
}

// NewDisplay creates a display echoing to w (pass nil to stay silent).
func NewDisplay(w io.Writer) *Display {
	return &Display{echo: w}
}

// Show records and optionally prints the lines.
func (d *Display) Show(lines ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cp := append([]string(nil), lines...)
	d.shown = append(d.shown, cp)
	d.last = cp

	if d.echo != nil {
		fmt.Fprintf(d.echo, "[lcd] %s\n", strings.Join(lines, " / "))
	}
	return nil
}

// Clear blanks the display.
func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = nil
	return nil
}

// Close is a no-op.
func (d *Display) Close() error {
	return nil
}

// Last returns the most recently shown lines.
func (d *Display) Last() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.last...)
}

// Shown returns every Show call in order.
func (d *Display) Shown() [][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]string, len(d.shown))
	copy(out, d.shown)
	return out
}
