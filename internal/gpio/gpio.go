// Package gpio provides the controller's digital I/O with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// Buttons reads the two momentary push-buttons.
type Buttons interface {
	// Read returns the logical pressed state of the increment and decrement
	// buttons. The lines are active-low: a raw 0 means pressed.
	Read() (inc bool, dec bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Outputs drives the display bank, the indicator LEDs and the alarm line.
type Outputs interface {
	// SetDigits drives the three digit-enable lines; bit i enables digit i.
	SetDigits(mask uint8) error
	// SetSegments drives the eight shared segment lines; bit i drives segment line i.
	SetSegments(pattern uint8) error
	// SetLEDs drives the two indicator lines from bits 0 and 1.
	SetLEDs(bits uint8) error
	// SetAlarm drives the alarm line (active-high).
	SetAlarm(on bool) error

	// Close blanks the outputs and releases GPIO resources.
	Close() error
}

// Pins holds line offsets on the GPIO chip (BCM numbering on a Raspberry Pi).
type Pins struct {
	Segments [8]int
	Digits   [3]int
	LEDs     [2]int
	Alarm    int
	Inc      int
	Dec      int
}

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

// DefaultPins is the reference wiring.
var DefaultPins = Pins{
	Segments: [8]int{2, 3, 4, 17, 27, 22, 10, 9},
	Digits:   [3]int{5, 6, 13},
	LEDs:     [2]int{19, 26},
	Alarm:    21,
	Inc:      20,
	Dec:      16,
}

// NumDigits is the number of digit-enable lines.
const NumDigits = 3

// fillBits sets vals[i] to bit i of v.
func fillBits(vals []int, v uint8) {
	for i := range vals {
		vals[i] = int(v>>uint(i)) & 1
	}
}
