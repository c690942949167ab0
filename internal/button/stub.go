//go:build !linux

package button

import "errors"

// RealInput is not available on non-Linux platforms.
type RealInput struct{}

// NewRealInput returns an error on non-Linux platforms.
func NewRealInput(pinToggle, pinPause, pinEnd int) (*RealInput, error) {
	return nil, errors.New("button: not supported on this platform (requires Linux)")
}

// Presses is not implemented on non-Linux platforms.
func (in *RealInput) Presses() <-chan Press {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (in *RealInput) Close() error {
	return nil
}
