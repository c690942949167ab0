// Package imu provides 3-axis accelerometer sampling with hardware
// abstraction. The real implementation reads a Linux IIO accelerometer
// through sysfs. The fake implementation allows testing without hardware.
package imu

// Source reads acceleration samples.
type Source interface {
	// Read returns one acceleration reading on the x, y, z axes in units
	// of standard gravity (g). It must not block on I/O longer than a
	// fraction of the sampling interval.
	Read() (x, y, z float64, err error)

	// Close releases sensor resources.
	Close() error
}

// DefaultDevice is the IIO device directory used when none is configured.
const DefaultDevice = "/sys/bus/iio/devices/iio:device0"

// gravity converts IIO m/s² readings to g.
const gravity = 9.80665
