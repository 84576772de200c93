// Package status provides a thread-safe status tracker for the adc-display daemon.
// It is read by HTTP handlers and by the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/fitodd-23707/adc-display/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	RefreshUs   int64
	SettleMs    int64
	PollMs      int64
	HeartbeatMs int64
	ADCChannel  int
	Broker      string
	HTTPAddr    string
}

// Stats are the running totals of the two background loops.
type Stats struct {
	Samples       uint64
	SampleErrors  uint64
	Refreshes     uint64
	RefreshErrors uint64
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Counter       uint8
	Reading       uint8
	Alarm         bool
	Counts        logic.EventCounts
	Stats         Stats
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the controller values and event counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(counter, reading uint8, alarm bool, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Counter = counter
	t.snap.Reading = reading
	t.snap.Alarm = alarm
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetStats sets the sampler and refresher totals.
func (t *Tracker) SetStats(s Stats) {
	t.mu.Lock()
	t.snap.Stats = s
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
