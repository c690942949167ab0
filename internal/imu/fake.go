package imu

import "errors"

// FakeSource is a test double that returns scripted axis readings.
type FakeSource struct {
	// Readings contains scripted (x, y, z) values in g. Each call to
	// Read() consumes the next reading.
	Readings []Reading

	// index tracks current position in Readings
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Reading is a single scripted accelerometer value.
type Reading struct {
	X, Y, Z float64
}

// Still returns a reading of one g straight down the z axis, i.e. a quiet
// wrist.
func Still() Reading {
	return Reading{Z: 1.0}
}

// NewFakeSource creates a FakeSource with the given readings.
func NewFakeSource(readings []Reading) *FakeSource {
	return &FakeSource{Readings: readings}
}

// Read returns the next scripted reading.
// If readings are exhausted, returns the last reading repeatedly.
func (f *FakeSource) Read() (float64, float64, float64, error) {
	if f.ReadError != nil {
		return 0, 0, 0, f.ReadError
	}

	if len(f.Readings) == 0 {
		return 0, 0, 0, errors.New("no readings configured")
	}

	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}

	return r.X, r.Y, r.Z, nil
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the source to the beginning of the script.
func (f *FakeSource) Reset() {
	f.index = 0
	f.Closed = false
}
