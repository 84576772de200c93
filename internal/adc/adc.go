// Package adc provides the free-running analog sampler and its converters.
package adc

// Converter performs one analog-to-digital conversion.
type Converter interface {
	// Convert blocks until a conversion completes and returns its top 8 bits.
	Convert() (uint8, error)

	// Close releases the converter.
	Close() error
}

// To8Bit keeps the top 8 bits of a conversion with the given resolution.
func To8Bit(v uint16, bits uint) uint8 {
	if bits <= 8 {
		return uint8(v << (8 - bits))
	}
	return uint8(v >> (bits - 8))
}
