//go:build linux

package skylight

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// DefaultPins are the BCM line numbers for the four light-level bits,
// least significant first.
var DefaultPins = [4]int{5, 6, 13, 19}

// GPIOReader reads a 4-bit sky-light level from hardware using the Linux
// GPIO character device. An external light-sensor board drives the four
// lines as a binary level in [0,15].
type GPIOReader struct {
	chip  *gpiocdev.Chip
	lines [4]*gpiocdev.Line
}

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

// NewGPIOReader requests the four level lines on the named chip, least
// significant bit first.
func NewGPIOReader(chip string, pins [4]int) (*GPIOReader, error) {
	if chip == "" {
		chip = DefaultChip
	}
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &GPIOReader{chip: c}
	for i, pin := range pins {
		// Pull-down matches Pi boot defaults, so a disconnected sensor
		// board reads as darkness rather than floating noise.
		line, err := c.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request light bit %d (pin %d): %w", i, pin, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

// Level assembles the current level from the four bit lines.
func (r *GPIOReader) Level() (int, error) {
	level := 0
	for i, line := range r.lines {
		v, err := line.Value()
		if err != nil {
			return 0, fmt.Errorf("read light bit %d: %w", i, err)
		}
		if v != 0 {
			level |= 1 << i
		}
	}
	return level, nil
}

// Close releases GPIO resources, restoring lines to input with pull-down
// (Pi boot defaults) before closing.
func (r *GPIOReader) Close() error {
	var errs []error

	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure light bit %d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close light bit %d: %w", i, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
