//go:build linux

package button

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealInput delivers presses from GPIO lines using edge events.
type RealInput struct {
	chip    *gpiocdev.Chip
	lines   []*gpiocdev.Line
	presses chan Press
}

// NewRealInput requests the three button lines as debounced falling-edge
// inputs with pull-ups (buttons short to ground).
func NewRealInput(pinToggle, pinPause, pinEnd int) (*RealInput, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	in := &RealInput{
		chip:    chip,
		presses: make(chan Press, 8),
	}

	pins := []struct {
		pin  int
		kind Kind
	}{
		{pinToggle, KindToggle},
		{pinPause, KindPause},
		{pinEnd, KindEnd},
	}
	for _, p := range pins {
		kind := p.kind
		line, err := chip.RequestLine(p.pin,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithFallingEdge,
			gpiocdev.WithDebounce(Debounce),
			gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
				select {
				case in.presses <- Press{Time: time.Now(), Kind: kind}:
				default:
					// Consumer behind; drop rather than block the
					// event goroutine.
				}
			}))
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", kind, p.pin, err)
		}
		in.lines = append(in.lines, line)
	}

	return in, nil
}

// Presses returns the press channel.
func (in *RealInput) Presses() <-chan Press {
	return in.presses
}

// Close releases the GPIO lines and chip.
func (in *RealInput) Close() error {
	var errs []error
	for _, line := range in.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if in.chip != nil {
		if err := in.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
