package domain

// Calibration maps raw channel frequencies to intensity values.
// The sensor outputs a square wave whose frequency grows with light
// intensity; the black and white levels anchor a linear scale:
//
//	intensity = 255 * (hz - black) / (white - black)
//
// clamped to [0, 255].
type Calibration struct {
	Black Frequencies
	White Frequencies
}

// DefaultCalibration returns the uncalibrated levels: 0 Hz black,
// 10 kHz white per channel. Good enough to produce plausible values
// before a proper black/white calibration run.
func DefaultCalibration() Calibration {
	return Calibration{
		White: Frequencies{Red: 10000, Green: 10000, Blue: 10000},
	}
}

// Validate checks that every channel has a usable span.
func (c Calibration) Validate() error {
	if c.White.Red <= c.Black.Red ||
		c.White.Green <= c.Black.Green ||
		c.White.Blue <= c.Black.Blue {
		return ErrInvalidCalibration
	}
	return nil
}

// Scale converts raw frequencies to 0..255 channel intensities.
func (c Calibration) Scale(f Frequencies) (red, green, blue int) {
	red = scaleChannel(f.Red, c.Black.Red, c.White.Red)
	green = scaleChannel(f.Green, c.Black.Green, c.White.Green)
	blue = scaleChannel(f.Blue, c.Black.Blue, c.White.Blue)
	return red, green, blue
}

func scaleChannel(hz, black, white float64) int {
	span := white - black
	if span <= 0 {
		return 0
	}

	v := 255 * (hz - black) / span
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}
