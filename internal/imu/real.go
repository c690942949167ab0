//go:build linux

package imu

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RealSource reads an accelerometer through the Linux industrial I/O sysfs
// interface. Raw axis values are multiplied by the device scale (m/s²) and
// converted to g.
type RealSource struct {
	dir   string
	scale float64

	x, y, z *os.File
}

// NewRealSource opens the IIO accelerometer at dir (e.g. DefaultDevice).
// Failure here means no sets can be timed; the caller reports it at startup
// and does not retry.
func NewRealSource(dir string) (*RealSource, error) {
	scale, err := readFloat(filepath.Join(dir, "in_accel_scale"))
	if err != nil {
		return nil, fmt.Errorf("read accel scale: %w", err)
	}

	s := &RealSource{dir: dir, scale: scale}
	for _, axis := range []struct {
		name string
		dst  **os.File
	}{
		{"in_accel_x_raw", &s.x},
		{"in_accel_y_raw", &s.y},
		{"in_accel_z_raw", &s.z},
	} {
		f, err := os.Open(filepath.Join(dir, axis.name))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open %s: %w", axis.name, err)
		}
		*axis.dst = f
	}

	return s, nil
}

// Read returns one reading on all three axes in g.
func (s *RealSource) Read() (float64, float64, float64, error) {
	x, err := s.readAxis(s.x)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read x axis: %w", err)
	}
	y, err := s.readAxis(s.y)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read y axis: %w", err)
	}
	z, err := s.readAxis(s.z)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read z axis: %w", err)
	}
	return x, y, z, nil
}

// readAxis re-reads a sysfs attribute from the start; the kernel refreshes
// the value on each read.
func (s *RealSource) readAxis(f *os.File) (float64, error) {
	var buf [32]byte
	n, err := f.ReadAt(buf[:], 0)
	if err != nil && n == 0 {
		return 0, err
	}
	raw, err := strconv.ParseFloat(strings.TrimSpace(string(buf[:n])), 64)
	if err != nil {
		return 0, err
	}
	return raw * s.scale / gravity, nil
}

// Close releases the sysfs file handles.
func (s *RealSource) Close() error {
	var firstErr error
	for _, f := range []*os.File{s.x, s.y, s.z} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func readFloat(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
}
