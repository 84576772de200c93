package display

import "testing"

func TestEncodeTable(t *testing.T) {
	want := [16]uint8{
		0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07,
		0x7F, 0x6F, 0x77, 0x7C, 0x39, 0x5E, 0x79, 0x71,
	}
	for n := 0; n < 16; n++ {
		if got := Encode(uint8(n)); got != want[n] {
			t.Errorf("Encode(%X) = 0x%02X, want 0x%02X", n, got, want[n])
		}
	}
}

func TestEncodeMasksHighNibble(t *testing.T) {
	for n := 0; n < 256; n++ {
		if got, want := Encode(uint8(n)), Segments[n&0x0F]; got != want {
			t.Fatalf("Encode(0x%02X) = 0x%02X, want 0x%02X", n, got, want)
		}
		if Encode(uint8(n))&0x80 != 0 {
			t.Fatalf("Encode(0x%02X) sets the unused top bit", n)
		}
	}
}
