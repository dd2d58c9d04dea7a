package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// ButtonPresenter waits for a push-button press, performs one
// read-log-display cycle, holds the result on the display, then goes
// back to waiting. An optional second button triggers black/white
// calibration. The loop only stops when the context is cancelled.
//
// Press events arriving within the debounce window of the last
// accepted press are dropped, so a bouncing switch triggers at most
// one capture cycle.
type ButtonPresenter struct {
	sensor  ColorSensor
	csv     SampleLogger
	repo    domain.SampleRepository
	display Display
	capture Button

	calibrate  Button      // optional
	calibrator *Calibrator // optional

	debounce time.Duration
	hold     time.Duration
}

// ButtonOptions carries the optional collaborators and tuning knobs.
type ButtonOptions struct {
	Calibrate  Button
	Calibrator *Calibrator
	Debounce   time.Duration
	Hold       time.Duration
}

// NewButtonPresenter creates the button/LCD presenter.
func NewButtonPresenter(sensor ColorSensor, csv SampleLogger, repo domain.SampleRepository, display Display, capture Button, opts ButtonOptions) *ButtonPresenter {
	if opts.Debounce <= 0 {
		opts.Debounce = 250 * time.Millisecond
	}
	return &ButtonPresenter{
		sensor:     sensor,
		csv:        csv,
		repo:       repo,
		display:    display,
		capture:    capture,
		calibrate:  opts.Calibrate,
		calibrator: opts.Calibrator,
		debounce:   opts.Debounce,
		hold:       opts.Hold,
	}
}

// Run waits for presses until ctx is cancelled.
func (p *ButtonPresenter) Run(ctx context.Context) error {
	log.Info().
		Dur("debounce", p.debounce).
		Dur("hold", p.hold).
		Msg("starting button presenter")

	// A nil calibrate button leaves this channel nil, which blocks
	// forever in the select below.
	var calibratePresses <-chan time.Time
	if p.calibrate != nil {
		calibratePresses = p.calibrate.Presses()
	}

	p.showMenu(ctx)

	var lastAccepted time.Time
	for {
		select {
		case <-ctx.Done():
			return p.shutdown()

		case t, ok := <-p.capture.Presses():
			if !ok {
				return p.shutdown()
			}
			if !p.accept(&lastAccepted, t) {
				continue
			}
			p.captureOnce(ctx)
			p.showMenu(ctx)

		case t, ok := <-calibratePresses:
			if !ok {
				calibratePresses = nil
				continue
			}
			if !p.accept(&lastAccepted, t) {
				continue
			}
			p.calibrateOnce(ctx)
			p.showMenu(ctx)
		}
	}
}

// shutdown shows the farewell on every exit path, whether the context
// was cancelled or the capture button went away.
func (p *ButtonPresenter) shutdown() error {
	p.display.Show("Bye!")
	log.Info().Msg("stopping button presenter")
	return nil
}

// accept applies the debounce window to a press timestamp.
func (p *ButtonPresenter) accept(last *time.Time, t time.Time) bool {
	if !last.IsZero() && t.Sub(*last) < p.debounce {
		log.Debug().Time("press", t).Msg("press within debounce window, ignored")
		return false
	}
	*last = t
	return true
}

// captureOnce performs one capture cycle: sensor read, CSV append,
// repository save, display hold. A failed read shows an error line and
// returns to idle; a failed CSV write still displays the sample.
func (p *ButtonPresenter) captureOnce(ctx context.Context) {
	p.display.Show("READING...")

	sample, err := p.sensor.ReadSample(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read sensor")
		p.display.Show("Sensor error!")
		p.sleep(ctx, p.hold)
		return
	}

	line2 := fmt.Sprintf("%d %d %d", sample.Red, sample.Green, sample.Blue)

	if err := p.csv.Log(ctx, sample); err != nil {
		log.Error().Err(err).Msg("failed to append csv row")
		p.display.Show("File error!", line2)
		p.sleep(ctx, p.hold)
		return
	}

	if err := p.repo.SaveSample(ctx, sample); err != nil {
		log.Error().Err(err).Msg("failed to save sample")
	}

	log.Info().
		Int("red", sample.Red).
		Int("green", sample.Green).
		Int("blue", sample.Blue).
		Msg("captured colour sample")

	p.display.Show("Data stored", line2)
	p.sleep(ctx, p.hold)
}

// calibrateOnce runs the black/white calibration flow.
func (p *ButtonPresenter) calibrateOnce(ctx context.Context) {
	if p.calibrator == nil {
		return
	}
	if _, err := p.calibrator.Run(ctx); err != nil {
		log.Error().Err(err).Msg("calibration failed")
		p.display.Show("Calibration", "failed!")
		p.sleep(ctx, p.hold)
	}
}

// showMenu displays the idle prompt, with the most recent stored
// sample on the second line when one exists.
func (p *ButtonPresenter) showMenu(ctx context.Context) {
	line2 := "Press to start"
	if latest, err := p.repo.GetLatestSample(ctx); err == nil {
		line2 = fmt.Sprintf("Last %d %d %d", latest.Red, latest.Green, latest.Blue)
	}
	p.display.Show("TCS3200 ready...", line2)
}

// sleep blocks for d or until ctx is cancelled.
func (p *ButtonPresenter) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
