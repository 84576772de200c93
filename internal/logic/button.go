package logic

import "time"

// Button debounces one momentary push-button.
//
// A press is confirmed once the line has stayed active for the settle delay.
// After confirming, the button stays disarmed until the line is seen released,
// so holding it never repeats.
type Button struct {
	settle       time.Duration
	armed        bool
	pending      bool
	pendingSince time.Time
}

// NewButton creates a debouncer with the given settle delay.
func NewButton(settle time.Duration) *Button {
	return &Button{settle: settle, armed: true}
}

// Process takes the current line state and returns true exactly once per
// confirmed press.
func (b *Button) Process(pressed bool, now time.Time) bool {
	if !pressed {
		// Released (or bounced open): re-arm and drop any pending press.
		b.armed = true
		b.pending = false
		return false
	}

	if !b.armed {
		return false
	}

	if !b.pending {
		b.pending = true
		b.pendingSince = now
		return false
	}

	if now.Sub(b.pendingSince) >= b.settle {
		b.pending = false
		b.armed = false
		return true
	}
	return false
}

// Held reports whether a confirmed press has not been released yet.
func (b *Button) Held() bool {
	return !b.armed
}
