// Package csvlog appends colour samples to a CSV file.
package csvlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/quentinrf/color-monitor/internal/domain"
)

var header = []string{"timestamp", "red", "green", "blue"}

// Logger appends one row per sample to a CSV file, creating the file
// with a header row when it does not exist. The file is opened and
// closed on every call so a row is durable before Log returns. The
// file is append-only and owned exclusively by this logger.
type Logger struct {
	path string
}

// New creates a logger for the given file path. The file itself is
// only touched on the first Log call.
func New(path string) *Logger {
	return &Logger{path: path}
}

// Path returns the output file path.
func (l *Logger) Path() string {
	return l.path
}

// Log appends one row (timestamp, red, green, blue) and flushes it.
func (l *Logger) Log(_ context.Context, sample *domain.ColorSample) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close()
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	row := []string{
		sample.Timestamp.Format(time.RFC3339),
		strconv.Itoa(sample.Red),
		strconv.Itoa(sample.Green),
		strconv.Itoa(sample.Blue),
	}
	if err := w.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("append csv row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv row: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}
