package gpio

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
)

// FakeButtons is a test double that returns scripted button states.
type FakeButtons struct {
	// Samples contains scripted (inc, dec) values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single button reading (already in logical form).
type Sample struct {
	Inc bool // true = pressed
	Dec bool // true = pressed
}

// NewFakeButtons creates a FakeButtons with the given samples.
func NewFakeButtons(samples []Sample) *FakeButtons {
	return &FakeButtons{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeButtons) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample.Inc, sample.Dec, nil
}

// Close marks the buttons as closed.
func (f *FakeButtons) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds to the beginning of samples.
func (f *FakeButtons) Reset() {
	f.index = 0
	f.Closed = false
}

// Op is one recorded output write.
type Op struct {
	Kind  string // "digits", "segments", "leds", "alarm"
	Value uint8
}

func (o Op) String() string {
	return fmt.Sprintf("%s=0x%02X", o.Kind, o.Value)
}

// FakeOutputs records every output write in order. It is safe for
// concurrent use because the display and the main loop write from
// different goroutines.
type FakeOutputs struct {
	mu sync.Mutex

	Ops []Op

	Digits   uint8
	Segments uint8
	LEDs     uint8
	Alarm    bool

	// MaxActiveDigits is the largest number of digits ever enabled at once.
	MaxActiveDigits int

	// DigitsError, if set, is returned by SetDigits.
	DigitsError error
	// SegmentsError, if set, is returned by SetSegments.
	SegmentsError error

	Closed bool
}

// NewFakeOutputs creates an empty recorder.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// SetDigits records the digit mask.
func (f *FakeOutputs) SetDigits(mask uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DigitsError != nil {
		return f.DigitsError
	}
	f.Digits = mask & (1<<NumDigits - 1)
	if n := bits.OnesCount8(f.Digits); n > f.MaxActiveDigits {
		f.MaxActiveDigits = n
	}
	f.Ops = append(f.Ops, Op{Kind: "digits", Value: f.Digits})
	return nil
}

// SetSegments records the segment pattern.
func (f *FakeOutputs) SetSegments(pattern uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SegmentsError != nil {
		return f.SegmentsError
	}
	f.Segments = pattern
	f.Ops = append(f.Ops, Op{Kind: "segments", Value: pattern})
	return nil
}

// SetLEDs records the indicator bits.
func (f *FakeOutputs) SetLEDs(bits uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LEDs = bits & 0x03
	f.Ops = append(f.Ops, Op{Kind: "leds", Value: f.LEDs})
	return nil
}

// SetAlarm records the alarm state.
func (f *FakeOutputs) SetAlarm(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Alarm = on
	var v uint8
	if on {
		v = 1
	}
	f.Ops = append(f.Ops, Op{Kind: "alarm", Value: v})
	return nil
}

// Close marks the outputs closed and blanks them.
func (f *FakeOutputs) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Digits = 0
	f.Alarm = false
	f.Closed = true
	return nil
}

// Snapshot returns a copy of the recorded operations.
func (f *FakeOutputs) Snapshot() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Op, len(f.Ops))
	copy(out, f.Ops)
	return out
}

// AlarmState returns the last alarm value written.
func (f *FakeOutputs) AlarmState() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Alarm
}

// Reset clears recorded operations and injected errors.
func (f *FakeOutputs) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ops = nil
	f.Digits, f.Segments, f.LEDs = 0, 0, 0
	f.Alarm = false
	f.MaxActiveDigits = 0
	f.DigitsError = nil
	f.SegmentsError = nil
	f.Closed = false
}
