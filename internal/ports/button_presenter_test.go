package ports

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quentinrf/color-monitor/internal/adapters/csvlog"
	"github.com/quentinrf/color-monitor/internal/adapters/memory"
	"github.com/quentinrf/color-monitor/internal/adapters/mock"
	"github.com/quentinrf/color-monitor/internal/domain"
)

type buttonFixture struct {
	presenter *ButtonPresenter
	sensor    *mock.ScriptedSensor
	display   *mock.Display
	btn       *mock.Button
	csvPath   string
	cancel    context.CancelFunc
	done      chan struct{}
}

func startButtonPresenter(t *testing.T, debounce time.Duration, steps ...mock.Step) *buttonFixture {
	t.Helper()

	f := &buttonFixture{
		sensor:  mock.NewScriptedSensor(steps...),
		display: mock.NewDisplay(nil),
		btn:     mock.NewButton(),
		csvPath: filepath.Join(t.TempDir(), "out.csv"),
		done:    make(chan struct{}),
	}

	f.presenter = NewButtonPresenter(
		f.sensor, csvlog.New(f.csvPath), memory.NewSampleRepository(),
		f.display, f.btn,
		ButtonOptions{Debounce: debounce, Hold: 0},
	)

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() {
		defer close(f.done)
		if err := f.presenter.Run(ctx); err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-f.done:
		case <-time.After(5 * time.Second):
			t.Error("timed out waiting for Run to return")
		}
	})

	return f
}

// rowCount returns the number of data rows, 0 when the file does not
// exist yet.
func (f *buttonFixture) rowCount(t *testing.T) int {
	t.Helper()
	data, err := os.ReadFile(f.csvPath)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read csv file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return len(lines) - 1
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (f *buttonFixture) shownLine(line string) bool {
	for _, lines := range f.display.Shown() {
		if len(lines) > 0 && lines[0] == line {
			return true
		}
	}
	return false
}

func TestButtonPresenter_CaptureCycle(t *testing.T) {
	f := startButtonPresenter(t, 50*time.Millisecond, mock.Step{R: 10, G: 20, B: 30})

	// Idle prompt comes up before any press
	waitFor(t, "ready menu", func() bool { return f.shownLine("TCS3200 ready...") })

	f.btn.Press(time.Now())

	waitFor(t, "csv row", func() bool { return f.rowCount(t) == 1 })
	waitFor(t, "stored message", func() bool { return f.shownLine("Data stored") })

	// Back to idle with the captured sample on the second line
	waitFor(t, "updated menu", func() bool {
		for _, lines := range f.display.Shown() {
			if len(lines) == 2 && lines[0] == "TCS3200 ready..." && lines[1] == "Last 10 20 30" {
				return true
			}
		}
		return false
	})
}

func TestButtonPresenter_DebounceSinglePress(t *testing.T) {
	f := startButtonPresenter(t, 200*time.Millisecond,
		mock.Step{R: 1, G: 2, B: 3},
		mock.Step{R: 4, G: 5, B: 6},
	)

	// Three transitions within 50ms: one mechanical press bouncing
	base := time.Now()
	f.btn.Press(base)
	f.btn.Press(base.Add(25 * time.Millisecond))
	f.btn.Press(base.Add(50 * time.Millisecond))

	waitFor(t, "first capture", func() bool { return f.rowCount(t) == 1 })

	// Give the presenter time to (wrongly) process the bounces
	time.Sleep(100 * time.Millisecond)
	if got := f.rowCount(t); got != 1 {
		t.Fatalf("expected exactly 1 capture for a bouncing press, got %d", got)
	}

	// A later distinct press is accepted
	f.btn.Press(base.Add(400 * time.Millisecond))
	waitFor(t, "second capture", func() bool { return f.rowCount(t) == 2 })
}

func TestButtonPresenter_SensorTimeoutReturnsToIdle(t *testing.T) {
	f := startButtonPresenter(t, 50*time.Millisecond,
		mock.Step{Err: domain.ErrSensorTimeout},
		mock.Step{R: 7, G: 8, B: 9},
	)

	f.btn.Press(time.Now())
	waitFor(t, "error message", func() bool { return f.shownLine("Sensor error!") })

	if got := f.rowCount(t); got != 0 {
		t.Fatalf("expected no csv row after sensor timeout, got %d", got)
	}

	// Presenter is back in idle and accepts the next press
	f.btn.Press(time.Now().Add(time.Second))
	waitFor(t, "capture after recovery", func() bool { return f.rowCount(t) == 1 })
}

func TestButtonPresenter_FarewellOnButtonClose(t *testing.T) {
	f := startButtonPresenter(t, 50*time.Millisecond)

	waitFor(t, "ready menu", func() bool { return f.shownLine("TCS3200 ready...") })

	// The capture button going away ends the loop like a cancel does.
	f.btn.Close()

	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the button closed")
	}
	if !f.shownLine("Bye!") {
		t.Error("expected farewell on the display after button close")
	}
}

func TestButtonPresenter_FarewellOnCancel(t *testing.T) {
	f := startButtonPresenter(t, 50*time.Millisecond)

	waitFor(t, "ready menu", func() bool { return f.shownLine("TCS3200 ready...") })

	f.cancel()

	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !f.shownLine("Bye!") {
		t.Error("expected farewell on the display after cancel")
	}
}

func TestButtonPresenter_CalibrateButton(t *testing.T) {
	// Under the default calibration intensity 51 maps to 2000 Hz and
	// 204 to 8000 Hz, so the applied levels are distinguishable from
	// the defaults.
	sensor := mock.NewScriptedSensor(
		mock.Step{R: 51, G: 51, B: 51}, mock.Step{R: 51, G: 51, B: 51}, mock.Step{R: 51, G: 51, B: 51},
		mock.Step{R: 204, G: 204, B: 204}, mock.Step{R: 204, G: 204, B: 204}, mock.Step{R: 204, G: 204, B: 204},
	)
	display := mock.NewDisplay(nil)
	capture := mock.NewButton()
	calibrate := mock.NewButton()

	p := NewButtonPresenter(
		sensor, csvlog.New(filepath.Join(t.TempDir(), "out.csv")), memory.NewSampleRepository(),
		display, capture,
		ButtonOptions{
			Calibrate:  calibrate,
			Calibrator: NewCalibrator(sensor, display, 3, 0, 0),
			Debounce:   50 * time.Millisecond,
			Hold:       0,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	calibrate.Press(time.Now())

	waitFor(t, "calibration applied", func() bool {
		cal := sensor.Calibration()
		return cal.Black.Red == 2000 && cal.White.Red == 8000
	})
	waitFor(t, "calibration ok message", func() bool {
		for _, lines := range display.Shown() {
			if len(lines) > 0 && lines[0] == "Calibration OK" {
				return true
			}
		}
		return false
	})
}
