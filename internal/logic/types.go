// Package logic contains the pure control logic of the display controller:
// shared value cells, button debouncing, counter control and the alarm comparator.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// EventType represents a change worth publishing.
type EventType string

const (
	EventAlarmOn  EventType = "ALARM_ON"
	EventAlarmOff EventType = "ALARM_OFF"
	EventCounter  EventType = "COUNTER"
)

// Event represents a state change to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Counter   uint8
	Reading   uint8
	Alarm     bool
}

// Input represents a single poll of both buttons.
type Input struct {
	Inc  bool // true = pressed (already inverted from the active-low line)
	Dec  bool
	Time time.Time
}

// Output is what the main loop drives after an iteration.
type Output struct {
	Alarm bool
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Increments int
	Decrements int
	AlarmOn    int
	AlarmOff   int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
