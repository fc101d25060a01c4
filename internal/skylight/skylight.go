// Package skylight provides ambient sky-light sources with hardware
// abstraction. The real implementation samples four GPIO lines as a 4-bit
// light level via the Linux GPIO character device; the fake implementation
// allows testing without hardware.
package skylight

// MaxLevel is the brightest sky-light value a source can report.
const MaxLevel = 15

// Source reports the current ambient sky-light level.
type Source interface {
	// Level returns the current sky light in [0,15].
	Level() (int, error)

	// Close releases any resources held by the source.
	Close() error
}

// Constant is a Source pinned to a fixed level. Used for simulated worlds
// with unobstructed sky exposure.
type Constant int

// Full is a Constant source at maximum sky exposure.
const Full = Constant(MaxLevel)

// Level returns the fixed level.
func (c Constant) Level() (int, error) { return int(c), nil }

// Close is a no-op.
func (c Constant) Close() error { return nil }
