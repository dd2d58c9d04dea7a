package ports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/color-monitor/internal/domain"
)

// ConsolePresenter runs the continuous read-log-print loop: one sample
// per interval, appended to CSV, saved to the repository, printed to
// the console. A failed read skips the iteration; the loop only stops
// when the context is cancelled.
type ConsolePresenter struct {
	sensor    ColorSensor
	csv       SampleLogger
	repo      domain.SampleRepository
	out       io.Writer
	interval  time.Duration
	retention time.Duration
}

// NewConsolePresenter creates the stdout presenter. out is where the
// human-readable lines go (normally os.Stdout).
func NewConsolePresenter(sensor ColorSensor, csv SampleLogger, repo domain.SampleRepository, out io.Writer, interval, retention time.Duration) *ConsolePresenter {
	return &ConsolePresenter{
		sensor:    sensor,
		csv:       csv,
		repo:      repo,
		out:       out,
		interval:  interval,
		retention: retention,
	}
}

// Run reads until ctx is cancelled. Each iteration is fully
// synchronous; there is no overlap between read, log and print.
func (p *ConsolePresenter) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", p.interval).
		Msg("starting console presenter")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	summaryTicker := time.NewTicker(15 * time.Minute)
	defer summaryTicker.Stop()

	cleanupTicker := time.NewTicker(24 * time.Hour)
	defer cleanupTicker.Stop()

	// Read immediately on start
	p.readOnce(ctx)

	for {
		select {
		case <-ticker.C:
			p.readOnce(ctx)

		case <-summaryTicker.C:
			p.logSummary(ctx)

		case <-cleanupTicker.C:
			if err := p.repo.DeleteOldSamples(ctx, p.retention); err != nil {
				log.Error().Err(err).Msg("failed to delete old samples")
			} else {
				log.Info().Dur("retention", p.retention).Msg("pruned old samples")
			}

		case <-ctx.Done():
			log.Info().Msg("stopping console presenter")
			return nil
		}
	}
}

// readOnce performs one acquisition cycle: sensor read, CSV append,
// repository save, console print. Errors are reported and the cycle
// moves on; a CSV failure still prints the sample.
func (p *ConsolePresenter) readOnce(ctx context.Context) {
	sample, err := p.sensor.ReadSample(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read sensor")
		return
	}

	if err := p.csv.Log(ctx, sample); err != nil {
		log.Error().Err(err).Msg("failed to append csv row")
	}

	if err := p.repo.SaveSample(ctx, sample); err != nil {
		log.Error().Err(err).Msg("failed to save sample")
	}

	fmt.Fprintf(p.out, "%s  R=%-3d G=%-3d B=%-3d  %s\n",
		sample.Timestamp.Format(time.RFC3339),
		sample.Red, sample.Green, sample.Blue,
		sample.Dominant())

	log.Debug().
		Int("red", sample.Red).
		Int("green", sample.Green).
		Int("blue", sample.Blue).
		Msg("recorded colour sample")
}

// logSummary reports min/avg/max per channel over the last hour.
func (p *ConsolePresenter) logSummary(ctx context.Context) {
	now := time.Now()
	samples, err := p.repo.GetSamplesInRange(ctx, now.Add(-time.Hour), now)
	if err != nil {
		log.Error().Err(err).Msg("failed to query samples for summary")
		return
	}
	if len(samples) == 0 {
		return
	}

	var sumR, sumG, sumB int
	for _, s := range samples {
		sumR += s.Red
		sumG += s.Green
		sumB += s.Blue
	}
	n := len(samples)

	log.Info().
		Int("samples", n).
		Int("avg_red", sumR/n).
		Int("avg_green", sumG/n).
		Int("avg_blue", sumB/n).
		Msg("last hour summary")
}
