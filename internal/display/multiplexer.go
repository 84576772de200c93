package display

import (
	"fmt"

	"github.com/fitodd-23707/adc-display/internal/logic"
)

// Phase selects which digit is lit during one refresh period.
type Phase uint8

const (
	PhaseCounter Phase = iota // digit 0: raw counter bits
	PhaseLow                  // digit 1: low nibble of the reading
	PhaseHigh                 // digit 2: high nibble of the reading

	numPhases = 3
)

// Bus is the set of outputs the multiplexer drives.
type Bus interface {
	// SetDigits drives the digit-enable lines; bit i enables digit i, 0 blanks all.
	SetDigits(mask uint8) error
	// SetSegments drives the shared segment bus.
	SetSegments(pattern uint8) error
	// SetLEDs drives the two auxiliary indicator lines from the low 2 bits.
	SetLEDs(bits uint8) error
}

// Frame is what one refresh period puts on the bus.
type Frame struct {
	Phase    Phase
	Digit    int
	Segments uint8
	// LEDs is only meaningful on PhaseCounter.
	LEDs uint8
}

// Multiplexer is the refresh state machine. It reads the shared counter and
// reading but never writes them. The phase is private and must only be
// advanced from one goroutine.
type Multiplexer struct {
	counter *logic.Counter
	reading *logic.Reading
	phase   Phase
}

// NewMultiplexer creates a multiplexer starting at PhaseCounter.
func NewMultiplexer(counter *logic.Counter, reading *logic.Reading) *Multiplexer {
	return &Multiplexer{counter: counter, reading: reading}
}

// Phase returns the phase the next call to Next will render.
func (m *Multiplexer) Phase() Phase {
	return m.phase
}

// Next computes the frame for the current phase and advances to the next one.
func (m *Multiplexer) Next() Frame {
	f := Frame{Phase: m.phase, Digit: int(m.phase)}
	switch m.phase {
	case PhaseCounter:
		// Raw bits, not hex-encoded; the LED pair mirrors bits 0-1.
		c := m.counter.Load()
		f.Segments = c
		f.LEDs = c & 0x03
	case PhaseLow:
		f.Segments = Encode(m.reading.Load() & 0x0F)
	case PhaseHigh:
		f.Segments = Encode((m.reading.Load() >> 4) & 0x0F)
	}
	m.phase = (m.phase + 1) % numPhases
	return f
}

// Refresh performs one refresh period: blank every digit, drive the segment
// pattern, then enable exactly one digit. The phase advances even when the
// bus fails, so a broken line only darkens its own digit.
func (m *Multiplexer) Refresh(bus Bus) (Frame, error) {
	f := m.Next()

	// Blank first: enabling the new digit while the old pattern is still on
	// the bus would flash it on the wrong digit.
	if err := bus.SetDigits(0); err != nil {
		return f, fmt.Errorf("blank digits: %w", err)
	}
	if err := bus.SetSegments(f.Segments); err != nil {
		return f, fmt.Errorf("set segments: %w", err)
	}
	if f.Phase == PhaseCounter {
		if err := bus.SetLEDs(f.LEDs); err != nil {
			return f, fmt.Errorf("set leds: %w", err)
		}
	}
	if err := bus.SetDigits(1 << uint(f.Digit)); err != nil {
		return f, fmt.Errorf("enable digit %d: %w", f.Digit, err)
	}
	return f, nil
}
