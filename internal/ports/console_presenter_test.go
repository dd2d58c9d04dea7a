package ports

import (
	"bytes"
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

// runUntilExhausted drives the presenter until the scripted sensor
// runs out of readings, then cancels and waits for Run to return.
func runUntilExhausted(t *testing.T, p *ConsolePresenter, sensor *mock.ScriptedSensor) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	}()

	select {
	case <-sensor.Exhausted:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for scripted sensor to be exhausted")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func csvRows(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read csv file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] != "timestamp,red,green,blue" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	return lines[1:]
}

func TestConsolePresenter_TwoIterations(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out.csv")
	sensor := mock.NewScriptedSensor(
		mock.Step{R: 10, G: 20, B: 30},
		mock.Step{R: 15, G: 25, B: 35},
	)
	repo := memory.NewSampleRepository()
	var out bytes.Buffer

	p := NewConsolePresenter(sensor, csvlog.New(csvPath), repo, &out, time.Millisecond, time.Hour)
	runUntilExhausted(t, p, sensor)

	rows := csvRows(t, csvPath)
	if len(rows) != 2 {
		t.Fatalf("expected 2 csv rows, got %d", len(rows))
	}
	if !strings.HasSuffix(rows[0], ",10,20,30") {
		t.Errorf("row 0: got %q, want suffix ,10,20,30", rows[0])
	}
	if !strings.HasSuffix(rows[1], ",15,25,35") {
		t.Errorf("row 1: got %q, want suffix ,15,25,35", rows[1])
	}

	printed := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(printed) != 2 {
		t.Fatalf("expected 2 printed lines, got %d: %q", len(printed), out.String())
	}
	if !strings.Contains(printed[0], "R=10") || !strings.Contains(printed[1], "R=15") {
		t.Errorf("printed lines out of order: %q", printed)
	}

	// Both samples landed in the repository
	now := time.Now()
	saved, err := repo.GetSamplesInRange(context.Background(), now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetSamplesInRange failed: %v", err)
	}
	if len(saved) != 2 {
		t.Errorf("expected 2 saved samples, got %d", len(saved))
	}
}

func TestConsolePresenter_TimeoutSkipsIteration(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out.csv")
	sensor := mock.NewScriptedSensor(
		mock.Step{R: 1, G: 2, B: 3},
		mock.Step{Err: domain.ErrSensorTimeout},
		mock.Step{R: 4, G: 5, B: 6},
	)
	var out bytes.Buffer

	p := NewConsolePresenter(sensor, csvlog.New(csvPath), memory.NewSampleRepository(), &out, time.Millisecond, time.Hour)
	runUntilExhausted(t, p, sensor)

	// The timed-out iteration contributes no row and no printed line;
	// the loop carries on to the next reading.
	rows := csvRows(t, csvPath)
	if len(rows) != 2 {
		t.Fatalf("expected 2 csv rows, got %d", len(rows))
	}
	if !strings.HasSuffix(rows[0], ",1,2,3") || !strings.HasSuffix(rows[1], ",4,5,6") {
		t.Errorf("unexpected rows: %q", rows)
	}

	printed := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(printed) != 2 {
		t.Errorf("expected 2 printed lines, got %d", len(printed))
	}
}

func TestConsolePresenter_CsvFailureStillPrints(t *testing.T) {
	// Point the logger at an unwritable path
	csvPath := filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")
	sensor := mock.NewScriptedSensor(mock.Step{R: 7, G: 8, B: 9})
	var out bytes.Buffer

	p := NewConsolePresenter(sensor, csvlog.New(csvPath), memory.NewSampleRepository(), &out, time.Millisecond, time.Hour)
	runUntilExhausted(t, p, sensor)

	if !strings.Contains(out.String(), "R=7") {
		t.Errorf("expected sample to be printed despite csv failure, got %q", out.String())
	}
}
