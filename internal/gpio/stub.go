//go:build !linux

package gpio

import "errors"

// RealBoard is not available on non-Linux platforms.
type RealBoard struct{}

// NewRealBoard returns an error on non-Linux platforms.
func NewRealBoard(chipName string, pins Pins) (*RealBoard, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

func (b *RealBoard) Read() (bool, bool, error) {
	return false, false, errors.New("gpio: not supported")
}

func (b *RealBoard) SetDigits(mask uint8) error { return errors.New("gpio: not supported") }
func (b *RealBoard) SetSegments(pattern uint8) error { return errors.New("gpio: not supported") }
func (b *RealBoard) SetLEDs(bits uint8) error { return errors.New("gpio: not supported") }
func (b *RealBoard) SetAlarm(on bool) error { return errors.New("gpio: not supported") }

// Close is a no-op on non-Linux platforms.
func (b *RealBoard) Close() error {
	return nil
}
