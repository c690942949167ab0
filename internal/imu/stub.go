//go:build !linux

package imu

import "errors"

// RealSource is not available on non-Linux platforms.
type RealSource struct{}

// NewRealSource returns an error on non-Linux platforms.
func NewRealSource(dir string) (*RealSource, error) {
	return nil, errors.New("imu: not supported on this platform (requires Linux IIO)")
}

// Read is not implemented on non-Linux platforms.
func (s *RealSource) Read() (float64, float64, float64, error) {
	return 0, 0, 0, errors.New("imu: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *RealSource) Close() error {
	return nil
}
