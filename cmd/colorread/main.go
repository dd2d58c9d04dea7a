// Command colorread reads RGB samples from the colour sensor in a
// continuous loop, appends each sample to a CSV file and prints it to
// stdout, until interrupted.
//
// Usage: colorread [output.csv]
//
// The optional argument overrides the CSV_PATH environment variable.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/color-monitor/internal/adapters/csvlog"
	"github.com/quentinrf/color-monitor/internal/adapters/memory"
	"github.com/quentinrf/color-monitor/internal/adapters/mock"
	"github.com/quentinrf/color-monitor/internal/adapters/sqlite"
	"github.com/quentinrf/color-monitor/internal/adapters/tcs3200"
	"github.com/quentinrf/color-monitor/internal/config"
	"github.com/quentinrf/color-monitor/internal/domain"
	"github.com/quentinrf/color-monitor/internal/ports"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("starting colour reader")

	cfg := config.Load()

	flag.Parse()
	if flag.NArg() > 0 {
		cfg.CSVPath = flag.Arg(0)
	}

	// Initialize repository
	var repo domain.SampleRepository
	switch cfg.RepoType {
	case "sqlite":
		r, err := sqlite.NewSampleRepository(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("failed to open SQLite database")
		}
		defer r.Close()
		repo = r
		log.Info().Str("db_path", cfg.DBPath).Msg("initialized SQLite repository")
	default:
		repo = memory.NewSampleRepository()
		log.Info().Msg("initialized in-memory repository")
	}

	// Initialize sensor
	sensor := openSensor(cfg)
	defer sensor.Close()

	csv := csvlog.New(cfg.CSVPath)
	log.Info().Str("csv_path", cfg.CSVPath).Msg("appending readings")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presenter := ports.NewConsolePresenter(sensor, csv, repo, os.Stdout, cfg.ReadInterval, cfg.Retention)
	if err := presenter.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("presenter failed")
	}

	log.Info().Msg("stopped")
}

// openSensor builds the configured sensor. A hardware initialisation
// failure is fatal: without a sensor there is nothing to do.
func openSensor(cfg config.Config) ports.ColorSensor {
	switch cfg.SensorType {
	case "gpio":
		s, err := tcs3200.Open(tcs3200.Wiring{
			Out: config.BCM(cfg.PinOut),
			S2:  config.BCM(cfg.PinS2),
			S3:  config.BCM(cfg.PinS3),
			S0:  config.BCM(cfg.PinS0),
			S1:  config.BCM(cfg.PinS1),
			LED: config.BCM(cfg.PinLED),
			OE:  config.BCM(cfg.PinOE),
		}, tcs3200.Config{Scale: freqScale(cfg.FreqScale)})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open TCS3200 sensor")
		}
		log.Info().Int("out", cfg.PinOut).Msg("initialized TCS3200 sensor")
		return s
	default:
		log.Info().Msg("initialized mock sensor")
		return mock.NewFakeSensor(128, 40)
	}
}

func freqScale(percent int) tcs3200.Scale {
	switch percent {
	case 0:
		return tcs3200.ScaleOff
	case 2:
		return tcs3200.Scale2
	case 100:
		return tcs3200.Scale100
	default:
		return tcs3200.Scale20
	}
}
