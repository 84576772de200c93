package adc

import (
	"errors"
	"sync"
)

// FakeConverter returns scripted conversions for tests.
type FakeConverter struct {
	mu sync.Mutex

	// Values are returned in order; the last one repeats.
	Values []uint8
	index  int

	// Err, if set, is returned instead of a value.
	Err error

	// Calls counts Convert calls.
	Calls  int
	Closed bool
}

// NewFakeConverter creates a FakeConverter with the given values.
func NewFakeConverter(values ...uint8) *FakeConverter {
	return &FakeConverter{Values: values}
}

// Convert returns the next scripted value.
func (f *FakeConverter) Convert() (uint8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return 0, f.Err
	}
	if len(f.Values) == 0 {
		return 0, errors.New("no values configured")
	}
	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}

// SetErr changes the injected error.
func (f *FakeConverter) SetErr(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

// Close marks the converter closed.
func (f *FakeConverter) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
