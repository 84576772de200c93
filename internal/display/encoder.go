// Package display drives the 3-digit multiplexed 7-segment bank.
//
// A single segment bus is shared by all digits; the Multiplexer lights one
// digit per refresh period and cycles through them fast enough that all three
// appear continuously lit.
package display

// Segments maps a hex digit to its common-cathode segment pattern
// (bit 0 = a ... bit 6 = g, bit 7 unused).
var Segments = [16]uint8{
	0x3F, // 0
	0x06, // 1
	0x5B, // 2
	0x4F, // 3
	0x66, // 4
	0x6D, // 5
	0x7D, // 6
	0x07, // 7
	0x7F, // 8
	0x6F, // 9
	0x77, // A
	0x7C, // b
	0x39, // C
	0x5E, // d
	0x79, // E
	0x71, // F
}

// Encode returns the segment pattern for the low nibble of n.
func Encode(n uint8) uint8 {
	return Segments[n&0x0F]
}
