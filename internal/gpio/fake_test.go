package gpio

import (
	"errors"
	"testing"
)

func TestFakeButtonsRead(t *testing.T) {
	samples := []Sample{
		{Inc: true, Dec: false},
		{Inc: false, Dec: true},
	}
	f := NewFakeButtons(samples)

	inc, dec, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc != true || dec != false {
		t.Errorf("sample 0: expected (true, false), got (%v, %v)", inc, dec)
	}

	inc, dec, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc != false || dec != true {
		t.Errorf("sample 1: expected (false, true), got (%v, %v)", inc, dec)
	}

	// Exhausted: last sample repeats
	inc, dec, _ = f.Read()
	if inc != false || dec != true {
		t.Errorf("repeat: expected (false, true), got (%v, %v)", inc, dec)
	}
}

func TestFakeButtonsNoSamples(t *testing.T) {
	f := NewFakeButtons(nil)
	if _, _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeButtonsError(t *testing.T) {
	f := NewFakeButtons([]Sample{{Inc: true}})
	f.ReadError = errors.New("simulated error")

	_, _, err := f.Read()
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("expected simulated error, got %v", err)
	}
}

func TestFakeButtonsResetAndClose(t *testing.T) {
	f := NewFakeButtons([]Sample{{Inc: true}, {Dec: true}})
	f.Read()
	f.Close()
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	inc, _, _ := f.Read()
	if !inc {
		t.Error("after reset: expected first sample again")
	}
}

func TestFakeOutputsRecordsOrder(t *testing.T) {
	f := NewFakeOutputs()
	f.SetDigits(0)
	f.SetSegments(0x3F)
	f.SetLEDs(0xFF)
	f.SetDigits(1)
	f.SetAlarm(true)

	want := []string{"digits=0x00", "segments=0x3F", "leds=0x03", "digits=0x01", "alarm=0x01"}
	ops := f.Snapshot()
	if len(ops) != len(want) {
		t.Fatalf("expected %d ops, got %d", len(want), len(ops))
	}
	for i, w := range want {
		if ops[i].String() != w {
			t.Errorf("op %d: expected %s, got %s", i, w, ops[i])
		}
	}
	if !f.AlarmState() {
		t.Error("expected alarm on")
	}
}

func TestFakeOutputsTracksMaxActiveDigits(t *testing.T) {
	f := NewFakeOutputs()
	f.SetDigits(1)
	f.SetDigits(2)
	if f.MaxActiveDigits != 1 {
		t.Errorf("expected max 1 active digit, got %d", f.MaxActiveDigits)
	}
	f.SetDigits(3)
	if f.MaxActiveDigits != 2 {
		t.Errorf("expected max 2 active digits, got %d", f.MaxActiveDigits)
	}
}

func TestFakeOutputsInjectedErrors(t *testing.T) {
	f := NewFakeOutputs()
	f.DigitsError = errors.New("line fault")
	if err := f.SetDigits(1); err == nil {
		t.Error("expected injected digits error")
	}
	f.Reset()
	if err := f.SetDigits(1); err != nil {
		t.Errorf("Reset should clear injected error, got %v", err)
	}
}

func TestFillBits(t *testing.T) {
	vals := make([]int, 8)
	fillBits(vals, 0x6D)
	want := []int{1, 0, 1, 1, 0, 1, 1, 0}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("bit %d: expected %d, got %d", i, want[i], vals[i])
		}
	}
}
