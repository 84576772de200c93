//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// RealBoard drives the controller's lines through the Linux GPIO character device.
// It implements both Buttons and Outputs. The display lines (digits, segments,
// LEDs) are written only by the refresh goroutine and the button and alarm
// lines only by the main loop, so each line group keeps its own value buffer.
type RealBoard struct {
	chip     *gpiocdev.Chip
	segments *gpiocdev.Lines
	digits   *gpiocdev.Lines
	leds     *gpiocdev.Lines
	alarm    *gpiocdev.Line
	buttons  *gpiocdev.Lines

	segVals []int
	digVals []int
	ledVals []int
	btnVals []int
}

// NewRealBoard requests every configured line on the named chip.
// Outputs start low: all digits dark, alarm off.
func NewRealBoard(chipName string, pins Pins) (*RealBoard, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	b := &RealBoard{
		chip:    chip,
		segVals: make([]int, len(pins.Segments)),
		digVals: make([]int, len(pins.Digits)),
		ledVals: make([]int, len(pins.LEDs)),
		btnVals: make([]int, 2),
	}

	// Digits first so nothing is lit while the segment bus comes up.
	if b.digits, err = chip.RequestLines(pins.Digits[:], gpiocdev.AsOutput(b.digVals...)); err != nil {
		return nil, b.fail(fmt.Errorf("request digit pins %v: %w", pins.Digits, err))
	}
	if b.segments, err = chip.RequestLines(pins.Segments[:], gpiocdev.AsOutput(b.segVals...)); err != nil {
		return nil, b.fail(fmt.Errorf("request segment pins %v: %w", pins.Segments, err))
	}
	if b.leds, err = chip.RequestLines(pins.LEDs[:], gpiocdev.AsOutput(b.ledVals...)); err != nil {
		return nil, b.fail(fmt.Errorf("request led pins %v: %w", pins.LEDs, err))
	}
	if b.alarm, err = chip.RequestLine(pins.Alarm, gpiocdev.AsOutput(0)); err != nil {
		return nil, b.fail(fmt.Errorf("request alarm pin %d: %w", pins.Alarm, err))
	}
	// Buttons pull the line low when pressed; AsActiveLow makes 1 mean pressed.
	if b.buttons, err = chip.RequestLines([]int{pins.Inc, pins.Dec},
		gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow); err != nil {
		return nil, b.fail(fmt.Errorf("request button pins %d,%d: %w", pins.Inc, pins.Dec, err))
	}
	return b, nil
}

func (b *RealBoard) fail(err error) error {
	return multierr.Append(err, b.Close())
}

// Read returns the logical pressed state of both buttons.
func (b *RealBoard) Read() (bool, bool, error) {
	if err := b.buttons.Values(b.btnVals); err != nil {
		return false, false, fmt.Errorf("read buttons: %w", err)
	}
	return b.btnVals[0] == 1, b.btnVals[1] == 1, nil
}

// SetDigits drives the digit-enable lines from mask.
func (b *RealBoard) SetDigits(mask uint8) error {
	fillBits(b.digVals, mask)
	if err := b.digits.SetValues(b.digVals); err != nil {
		return fmt.Errorf("set digits: %w", err)
	}
	return nil
}

// SetSegments drives the segment bus from pattern.
func (b *RealBoard) SetSegments(pattern uint8) error {
	fillBits(b.segVals, pattern)
	if err := b.segments.SetValues(b.segVals); err != nil {
		return fmt.Errorf("set segments: %w", err)
	}
	return nil
}

// SetLEDs drives the indicator pair from the low two bits.
func (b *RealBoard) SetLEDs(bits uint8) error {
	fillBits(b.ledVals, bits)
	if err := b.leds.SetValues(b.ledVals); err != nil {
		return fmt.Errorf("set leds: %w", err)
	}
	return nil
}

// SetAlarm drives the alarm line.
func (b *RealBoard) SetAlarm(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := b.alarm.SetValue(v); err != nil {
		return fmt.Errorf("set alarm: %w", err)
	}
	return nil
}

// Close blanks the display, clears the alarm and releases every line.
// Outputs are reconfigured as inputs so nothing stays driven after exit.
func (b *RealBoard) Close() error {
	var err error
	if b.digits != nil {
		err = multierr.Append(err, b.SetDigits(0))
	}
	if b.alarm != nil {
		err = multierr.Append(err, b.SetAlarm(false))
	}

	for _, l := range []*gpiocdev.Lines{b.digits, b.segments, b.leds} {
		if l == nil {
			continue
		}
		if rerr := l.Reconfigure(gpiocdev.AsInput); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("reconfigure lines %v: %w", l.Offsets(), rerr))
		}
		err = multierr.Append(err, l.Close())
	}
	if b.alarm != nil {
		if rerr := b.alarm.Reconfigure(gpiocdev.AsInput); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("reconfigure alarm pin: %w", rerr))
		}
		err = multierr.Append(err, b.alarm.Close())
	}
	if b.buttons != nil {
		err = multierr.Append(err, b.buttons.Close())
	}
	if b.chip != nil {
		err = multierr.Append(err, b.chip.Close())
	}
	return err
}
