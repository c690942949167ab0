package button

import "time"

// FakeInput is a test double that lets tests inject presses.
type FakeInput struct {
	presses chan Press

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeInput creates a FakeInput with a buffered press channel.
func NewFakeInput() *FakeInput {
	return &FakeInput{presses: make(chan Press, 8)}
}

// Press injects one actuation.
func (f *FakeInput) Press(kind Kind, at time.Time) {
	f.presses <- Press{Time: at, Kind: kind}
}

// Presses returns the press channel.
func (f *FakeInput) Presses() <-chan Press {
	return f.presses
}

// Close marks the input as closed.
func (f *FakeInput) Close() error {
	f.Closed = true
	return nil
}
