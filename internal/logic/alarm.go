package logic

// AlarmActive reports whether the alarm output should be driven.
// Equality keeps the alarm off.
func AlarmActive(reading, counter uint8) bool {
	return reading > counter
}
