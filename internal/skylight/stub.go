//go:build !linux

package skylight

import "errors"

// DefaultPins are the BCM line numbers for the four light-level bits,
// least significant first.
var DefaultPins = [4]int{5, 6, 13, 19}

// GPIOReader is not available on non-Linux platforms.
type GPIOReader struct{}

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

// NewGPIOReader returns an error on non-Linux platforms.
func NewGPIOReader(chip string, pins [4]int) (*GPIOReader, error) {
	return nil, errors.New("skylight: gpio not supported on this platform (requires Linux)")
}

// Level is not implemented on non-Linux platforms.
func (r *GPIOReader) Level() (int, error) {
	return 0, errors.New("skylight: gpio not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *GPIOReader) Close() error {
	return nil
}
