// Command colorbutton waits for a push-button press, takes one RGB
// reading, appends it to the CSV file and shows the result on a
// character LCD. A second button runs black/white calibration.
//
// Without hardware (the defaults) it uses the mock sensor, a console
// display and a button that presses itself every few seconds.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/color-monitor/internal/adapters/button"
	"github.com/quentinrf/color-monitor/internal/adapters/csvlog"
	"github.com/quentinrf/color-monitor/internal/adapters/hd44780"
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

	log.Info().Msg("starting button capture")

	cfg := config.Load()

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

	// Initialize display
	display := openDisplay(cfg)
	defer display.Close()

	// Initialize buttons
	capture := openCaptureButton(cfg)
	defer capture.Close()

	opts := ports.ButtonOptions{
		Debounce: cfg.Debounce,
		Hold:     cfg.DisplayHold,
	}

	// Calibration needs a real second button; the auto presser would
	// trigger it at random.
	if cfg.ButtonType == "gpio" {
		calibrate, err := button.Open(config.BCM(cfg.PinCalibrate), cfg.Debounce)
		if err != nil {
			log.Fatal().Err(err).Int("pin", cfg.PinCalibrate).Msg("failed to open calibrate button")
		}
		defer calibrate.Close()
		opts.Calibrate = calibrate
		opts.Calibrator = ports.NewCalibrator(sensor, display, 5, 5*time.Second, time.Second)
		log.Info().Int("pin", cfg.PinCalibrate).Msg("calibration button armed")
	}

	csv := csvlog.New(cfg.CSVPath)
	log.Info().Str("csv_path", cfg.CSVPath).Msg("appending readings")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presenter := ports.NewButtonPresenter(sensor, csv, repo, display, capture, opts)
	if err := presenter.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("presenter failed")
	}

	log.Info().Msg("stopped")
}

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

func openDisplay(cfg config.Config) ports.Display {
	switch cfg.DisplayType {
	case "lcd":
		d, err := hd44780.Open(hd44780.Wiring{
			RS: config.BCM(cfg.PinLCDRS),
			EN: config.BCM(cfg.PinLCDEN),
			Data: [4]string{
				config.BCM(cfg.PinLCDD4),
				config.BCM(cfg.PinLCDD5),
				config.BCM(cfg.PinLCDD6),
				config.BCM(cfg.PinLCDD7),
			},
			Backlight: config.BCM(cfg.PinLCDBacklight),
			Cols:      cfg.LCDCols,
			Rows:      cfg.LCDRows,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open LCD")
		}
		log.Info().Msg("initialized HD44780 display")
		return d
	default:
		log.Info().Msg("initialized console display")
		return mock.NewDisplay(os.Stdout)
	}
}

func openCaptureButton(cfg config.Config) ports.Button {
	switch cfg.ButtonType {
	case "gpio":
		b, err := button.Open(config.BCM(cfg.PinCapture), cfg.Debounce)
		if err != nil {
			log.Fatal().Err(err).Int("pin", cfg.PinCapture).Msg("failed to open capture button")
		}
		log.Info().Int("pin", cfg.PinCapture).Msg("capture button armed")
		return b
	default:
		log.Info().Msg("initialized auto-press button")
		return mock.NewAutoButton(10 * time.Second)
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
