package domain

import "errors"

var (
	// ErrInvalidChannel indicates a channel intensity is invalid
	ErrInvalidChannel = errors.New("channel value cannot be negative")

	// ErrSampleNotFound indicates the requested sample doesn't exist
	ErrSampleNotFound = errors.New("sample not found")

	// ErrSensorTimeout indicates no pulses were observed within the
	// measurement window - the sensor is disconnected or misconfigured
	ErrSensorTimeout = errors.New("no sensor pulses within measurement window")

	// ErrInvalidCalibration indicates the white level does not exceed
	// the black level on every channel
	ErrInvalidCalibration = errors.New("calibration white level must exceed black level")
)
