package domain

import (
	"context"
	"time"
)

// SampleRepository defines operations for storing/retrieving samples
// This is a PORT - adapters (SQLite, Memory) will implement it
type SampleRepository interface {
	// SaveSample persists a sample
	SaveSample(ctx context.Context, sample *ColorSample) error

	// GetSample retrieves a specific sample by ID
	GetSample(ctx context.Context, id int64) (*ColorSample, error)

	// GetSamplesInRange retrieves all samples within time range.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetSamplesInRange(ctx context.Context, start, end time.Time) ([]*ColorSample, error)

	// GetLatestSample retrieves the most recent sample
	GetLatestSample(ctx context.Context) (*ColorSample, error)

	// DeleteOldSamples removes samples older than specified duration
	DeleteOldSamples(ctx context.Context, olderThan time.Duration) error
}
