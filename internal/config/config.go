// Package config reads application configuration from the
// environment, with an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration for both entry points.
// Pin numbers use BCM numbering; the defaults match the reference
// wiring of the capture rig.
type Config struct {
	CSVPath  string // output CSV file
	RepoType string // "memory" | "sqlite"
	DBPath   string // SQLite file path (used when RepoType=sqlite)

	SensorType  string // "mock" | "gpio"
	DisplayType string // "console" | "lcd"
	ButtonType  string // "auto" | "gpio"

	ReadInterval time.Duration // delay between console readings
	Debounce     time.Duration // button debounce window
	DisplayHold  time.Duration // how long a result stays on the LCD
	Retention    time.Duration // repository retention period

	FreqScale int // sensor output scaling: 0, 2, 20 or 100 (%)

	// Sensor pins
	PinOut, PinS0, PinS1, PinS2, PinS3 int
	PinLED, PinOE                      int

	// Buttons
	PinCapture, PinCalibrate int

	// LCD pins (4-bit mode)
	PinLCDRS, PinLCDEN                     int
	PinLCDD4, PinLCDD5, PinLCDD6, PinLCDD7 int
	PinLCDBacklight                        int
	LCDCols, LCDRows                       int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		CSVPath:  getEnv("CSV_PATH", "readings.csv"),
		RepoType: getEnv("REPO_TYPE", "memory"),
		DBPath:   getEnv("DB_PATH", "./colors.db"),

		SensorType:  getEnv("SENSOR_TYPE", "mock"),
		DisplayType: getEnv("DISPLAY_TYPE", "console"),
		ButtonType:  getEnv("BUTTON_TYPE", "auto"),

		ReadInterval: getEnvAsDuration("READ_INTERVAL", time.Second),
		Debounce:     getEnvAsDuration("DEBOUNCE", 250*time.Millisecond),
		DisplayHold:  getEnvAsDuration("DISPLAY_HOLD", 3*time.Second),
		Retention:    getEnvAsDuration("RETENTION", 30*24*time.Hour),

		FreqScale: getEnvAsInt("FREQ_SCALE", 20),

		PinOut: getEnvAsInt("PIN_OUT", 24),
		PinS0:  getEnvAsInt("PIN_S0", 4),
		PinS1:  getEnvAsInt("PIN_S1", 17),
		PinS2:  getEnvAsInt("PIN_S2", 22),
		PinS3:  getEnvAsInt("PIN_S3", 23),
		PinLED: getEnvAsInt("PIN_LED", 25),
		PinOE:  getEnvAsInt("PIN_OE", 18),

		PinCapture:   getEnvAsInt("PIN_BUTTON_CAPTURE", 7),
		PinCalibrate: getEnvAsInt("PIN_BUTTON_CALIBRATE", 1),

		PinLCDRS:        getEnvAsInt("PIN_LCD_RS", 5),
		PinLCDEN:        getEnvAsInt("PIN_LCD_EN", 6),
		PinLCDD4:        getEnvAsInt("PIN_LCD_D4", 26),
		PinLCDD5:        getEnvAsInt("PIN_LCD_D5", 16),
		PinLCDD6:        getEnvAsInt("PIN_LCD_D6", 12),
		PinLCDD7:        getEnvAsInt("PIN_LCD_D7", 13),
		PinLCDBacklight: getEnvAsInt("PIN_LCD_BACKLIGHT", 19),
		LCDCols:         getEnvAsInt("LCD_COLS", 16),
		LCDRows:         getEnvAsInt("LCD_ROWS", 2),
	}
}

// BCM formats a BCM pin number as the name the GPIO registry expects.
func BCM(n int) string {
	return fmt.Sprintf("GPIO%d", n)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
