package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// SampleRepository implements domain.SampleRepository with in-memory storage
// This is the default backend - nothing touches disk except the CSV file
type SampleRepository struct {
	mu      sync.RWMutex
	samples map[int64]*domain.ColorSample
	nextID  int64
}

// NewSampleRepository creates an empty in-memory repository
func NewSampleRepository() *SampleRepository {
	return &SampleRepository{
		samples: make(map[int64]*domain.ColorSample),
		nextID:  1,
	}
}

// SaveSample stores a sample in memory
func (r *SampleRepository) SaveSample(ctx context.Context, sample *domain.ColorSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Assign ID if not set
	if sample.ID == 0 {
		sample.ID = r.nextID
		r.nextID++
	}

	r.samples[sample.ID] = sample
	return nil
}

// GetSample retrieves a sample by ID
func (r *SampleRepository) GetSample(ctx context.Context, id int64) (*domain.ColorSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sample, exists := r.samples[id]
	if !exists {
		return nil, domain.ErrSampleNotFound
	}

	return sample, nil
}

// GetSamplesInRange returns all samples within [start, end)
func (r *SampleRepository) GetSamplesInRange(ctx context.Context, start, end time.Time) ([]*domain.ColorSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.ColorSample
	for _, sample := range r.samples {
		if !sample.Timestamp.Before(start) && sample.Timestamp.Before(end) {
			results = append(results, sample)
		}
	}

	// Sort by timestamp
	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	return results, nil
}

// GetLatestSample returns the most recent sample
func (r *SampleRepository) GetLatestSample(ctx context.Context) (*domain.ColorSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.samples) == 0 {
		return nil, domain.ErrSampleNotFound
	}

	var latest *domain.ColorSample
	for _, sample := range r.samples {
		if latest == nil || sample.Timestamp.After(latest.Timestamp) {
			latest = sample
		}
	}

	return latest, nil
}

// DeleteOldSamples removes samples older than specified duration
func (r *SampleRepository) DeleteOldSamples(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	for id, sample := range r.samples {
		if sample.Timestamp.Before(cutoff) {
			delete(r.samples, id)
		}
	}

	return nil
}
