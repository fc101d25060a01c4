package skylight

import "errors"

// Fake is a test double that returns scripted sky-light levels.
type Fake struct {
	// Samples contains scripted levels to return. Each call to Level
	// consumes the next sample; the last sample repeats once exhausted.
	Samples []int

	// index tracks the current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Level()
	ReadError error
}

// NewFake creates a Fake with the given samples.
func NewFake(samples []int) *Fake {
	return &Fake{Samples: samples}
}

// Level returns the next scripted sample.
func (f *Fake) Level() (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the source as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the source to the beginning of samples.
func (f *Fake) Reset() {
	f.index = 0
	f.Closed = false
}
