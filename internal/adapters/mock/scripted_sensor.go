package mock

import (
	"context"
	"sync"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// Step is one scripted sensor response: either an RGB triplet or an
// error to return in its place.
type Step struct {
	R, G, B int
	Err     error
}

// ScriptedSensor replays a fixed sequence of readings, in order.
// Once the script runs out every further read reports a sensor
// timeout and the Exhausted channel is closed, which lets tests
// synchronise on "all scripted readings consumed".
type ScriptedSensor struct {
	mu    sync.Mutex
	steps []Step
	next  int
	once  sync.Once
	cal   domain.Calibration

	Exhausted chan struct{}
}

// NewScriptedSensor creates a sensor replaying the given steps.
func NewScriptedSensor(steps ...Step) *ScriptedSensor {
	return &ScriptedSensor{
		steps:     steps,
		cal:       domain.DefaultCalibration(),
		Exhausted: make(chan struct{}),
	}
}

// ReadSample returns the next scripted reading with a fresh timestamp.
func (s *ScriptedSensor) ReadSample(ctx context.Context) (*domain.ColorSample, error) {
	step, ok := s.advance()
	if !ok {
		return nil, domain.ErrSensorTimeout
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return domain.NewColorSample(step.R, step.G, step.B)
}

// ReadFrequencies maps the next scripted reading back to frequencies
// under the current calibration.
func (s *ScriptedSensor) ReadFrequencies(ctx context.Context) (domain.Frequencies, error) {
	step, ok := s.advance()
	if !ok {
		return domain.Frequencies{}, domain.ErrSensorTimeout
	}
	if step.Err != nil {
		return domain.Frequencies{}, step.Err
	}
	hz := func(v int, black, white float64) float64 {
		return black + float64(v)/255*(white-black)
	}
	return domain.Frequencies{
		Red:   hz(step.R, s.cal.Black.Red, s.cal.White.Red),
		Green: hz(step.G, s.cal.Black.Green, s.cal.White.Green),
		Blue:  hz(step.B, s.cal.Black.Blue, s.cal.White.Blue),
	}, nil
}

// SetCalibration stores the calibration
func (s *ScriptedSensor) SetCalibration(cal domain.Calibration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cal = cal
}

// Calibration returns the last applied calibration.
func (s *ScriptedSensor) Calibration() domain.Calibration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cal
}

// Close is a no-op for the scripted sensor
func (s *ScriptedSensor) Close() error {
	return nil
}

func (s *ScriptedSensor) advance() (Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.steps) {
		s.once.Do(func() { close(s.Exhausted) })
		return Step{}, false
	}
	step := s.steps[s.next]
	s.next++
	return step, true
}
