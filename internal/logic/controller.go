package logic

import "time"

// Controller is the body of the main control loop: it debounces both buttons,
// adjusts the counter and re-evaluates the alarm on every call.
type Controller struct {
	counter *Counter
	reading *Reading
	inc     *Button
	dec     *Button

	alarm         bool
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewController creates a controller that owns writes to counter and reads reading.
// The startTime is used for calculating uptime in heartbeat events.
func NewController(counter *Counter, reading *Reading, settle time.Duration, startTime time.Time) *Controller {
	return &Controller{
		counter:       counter,
		reading:       reading,
		inc:           NewButton(settle),
		dec:           NewButton(settle),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process runs one loop iteration and returns the outputs to drive and any
// events that should be published.
func (c *Controller) Process(input Input) (Output, []Event) {
	var events []Event
	// One load per iteration so every event and the comparison see the same sample.
	reading := c.reading.Load()

	// Increment is applied before decrement when both confirm together.
	if c.inc.Process(input.Inc, input.Time) {
		c.counter.Increment()
		c.eventCounts.Increments++
		events = append(events, c.event(EventCounter, input.Time, reading))
	}
	if c.dec.Process(input.Dec, input.Time) {
		c.counter.Decrement()
		c.eventCounts.Decrements++
		events = append(events, c.event(EventCounter, input.Time, reading))
	}

	alarm := AlarmActive(reading, c.counter.Load())
	for i := range events {
		events[i].Alarm = alarm
	}
	if alarm != c.alarm {
		c.alarm = alarm
		if alarm {
			c.eventCounts.AlarmOn++
			events = append(events, c.event(EventAlarmOn, input.Time, reading))
		} else {
			c.eventCounts.AlarmOff++
			events = append(events, c.event(EventAlarmOff, input.Time, reading))
		}
	}

	return Output{Alarm: alarm}, events
}

func (c *Controller) event(t EventType, now time.Time, reading uint8) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		Counter:   c.counter.Load(),
		Reading:   reading,
		Alarm:     c.alarm,
	}
}

// Alarm returns the alarm state computed by the last Process call.
func (c *Controller) Alarm() bool {
	return c.alarm
}

// EventCountsSnapshot returns a copy of the event counters.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}
	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.eventCounts,
	}
}
