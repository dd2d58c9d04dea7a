// Package hd44780 adapts a character LCD on the HD44780 controller,
// driven over GPIO in 4-bit mode, to the display port.
package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	lcd "periph.io/x/devices/v3/hd44780"
	"periph.io/x/host/v3"
)

// Wiring names the LCD's GPIO lines by BCM pin name. Backlight is
// optional.
type Wiring struct {
	RS, EN    string
	Data      [4]string // D4..D7
	Backlight string
	Cols      int
	Rows      int
}

// Display drives a fixed-size character LCD.
type Display struct {
	dev       *lcd.Dev
	backlight gpio.PinOut // may be nil
	cols      int
	rows      int
}

// Open initialises the GPIO host, resolves the wired pins and resets
// the LCD.
func Open(w Wiring) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	if w.Cols <= 0 {
		w.Cols = 16
	}
	if w.Rows <= 0 {
		w.Rows = 2
	}

	rs, err := pin(w.RS)
	if err != nil {
		return nil, err
	}
	en, err := pin(w.EN)
	if err != nil {
		return nil, err
	}

	data := make([]gpio.PinOut, len(w.Data))
	for i, name := range w.Data {
		p, err := pin(name)
		if err != nil {
			return nil, err
		}
		data[i] = p
	}

	dev, err := lcd.New(data, rs, en)
	if err != nil {
		return nil, fmt.Errorf("init lcd: %w", err)
	}

	d := &Display{dev: dev, cols: w.Cols, rows: w.Rows}

	if w.Backlight != "" {
		bl, err := pin(w.Backlight)
		if err != nil {
			return nil, err
		}
		if err := bl.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("enable backlight: %w", err)
		}
		d.backlight = bl
	}

	if err := dev.Reset(); err != nil {
		return nil, fmt.Errorf("clear lcd: %w", err)
	}

	return d, nil
}

// Show replaces the display contents. Extra lines are dropped, long
// lines truncated to the display width.
func (d *Display) Show(lines ...string) error {
	if err := d.dev.Reset(); err != nil {
		return fmt.Errorf("clear lcd: %w", err)
	}

	for i, line := range lines {
		if i >= d.rows {
			break
		}
		if err := d.dev.SetCursor(uint8(i), 0); err != nil {
			return fmt.Errorf("set cursor: %w", err)
		}
		if err := d.dev.Print(truncate(line, d.cols)); err != nil {
			return fmt.Errorf("write line: %w", err)
		}
	}
	return nil
}

// Clear blanks the display.
func (d *Display) Clear() error {
	return d.dev.Reset()
}

// Close blanks the display, releases the controller pins and switches
// the backlight off.
func (d *Display) Close() error {
	err := d.dev.Reset()
	if herr := d.dev.Halt(); err == nil {
		err = herr
	}
	if d.backlight != nil {
		if berr := d.backlight.Out(gpio.Low); err == nil {
			err = berr
		}
	}
	return err
}

// truncate cuts a line to the display width without splitting a
// multi-byte character.
func truncate(line string, cols int) string {
	if len(line) <= cols {
		return line
	}
	r := []rune(line)
	if len(r) <= cols {
		return line
	}
	return string(r[:cols])
}

func pin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, fmt.Errorf("hd44780: missing pin name")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("hd44780: no such pin %q", name)
	}
	return p, nil
}
