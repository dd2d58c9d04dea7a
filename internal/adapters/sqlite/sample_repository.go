package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quentinrf/color-monitor/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// SampleRepository implements domain.SampleRepository with SQLite
type SampleRepository struct {
	db *sql.DB
}

// NewSampleRepository creates a SQLite-backed repository
func NewSampleRepository(dbPath string) (*SampleRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table if not exists
	schema := `
	CREATE TABLE IF NOT EXISTS color_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		red INTEGER NOT NULL,
		green INTEGER NOT NULL,
		blue INTEGER NOT NULL,
		timestamp DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON color_samples(timestamp);
	`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SampleRepository{db: db}, nil
}

// SaveSample stores a sample in SQLite
func (r *SampleRepository) SaveSample(ctx context.Context, sample *domain.ColorSample) error {
	query := `INSERT INTO color_samples (red, green, blue, timestamp) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		sample.Red, sample.Green, sample.Blue, sample.Timestamp.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}

	sample.ID = id
	return nil
}

// GetSample retrieves a sample by ID
func (r *SampleRepository) GetSample(ctx context.Context, id int64) (*domain.ColorSample, error) {
	query := `SELECT id, red, green, blue, timestamp FROM color_samples WHERE id = ?`

	return r.scanSample(r.db.QueryRowContext(ctx, query, id))
}

// GetSamplesInRange returns all samples within [start, end)
func (r *SampleRepository) GetSamplesInRange(ctx context.Context, start, end time.Time) ([]*domain.ColorSample, error) {
	query := `
		SELECT id, red, green, blue, timestamp
		FROM color_samples
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC
	`

	rows, err := r.db.QueryContext(ctx, query, start.Format(timeLayout), end.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []*domain.ColorSample
	for rows.Next() {
		var sample domain.ColorSample

		if err := rows.Scan(&sample.ID, &sample.Red, &sample.Green, &sample.Blue, &sample.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}

		samples = append(samples, &sample)
	}

	return samples, rows.Err()
}

// GetLatestSample returns the most recent sample
func (r *SampleRepository) GetLatestSample(ctx context.Context) (*domain.ColorSample, error) {
	query := `
		SELECT id, red, green, blue, timestamp
		FROM color_samples
		ORDER BY timestamp DESC
		LIMIT 1
	`

	return r.scanSample(r.db.QueryRowContext(ctx, query))
}

// DeleteOldSamples removes samples older than specified duration
func (r *SampleRepository) DeleteOldSamples(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	query := `DELETE FROM color_samples WHERE timestamp < ?`

	_, err := r.db.ExecContext(ctx, query, cutoff.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to delete old samples: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *SampleRepository) Close() error {
	return r.db.Close()
}

// scanSample reads one row. The timestamp column is DATETIME, so the
// driver hands back a time.Time; it is scanned directly rather than
// through a string.
func (r *SampleRepository) scanSample(row *sql.Row) (*domain.ColorSample, error) {
	var sample domain.ColorSample

	err := row.Scan(&sample.ID, &sample.Red, &sample.Green, &sample.Blue, &sample.Timestamp)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSampleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sample: %w", err)
	}

	return &sample, nil
}
