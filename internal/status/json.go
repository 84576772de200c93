package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Counter       uint8        `json:"counter"`
	Reading       uint8        `json:"reading"`
	ReadingHex    string       `json:"reading_hex"`
	Alarm         bool         `json:"alarm"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Stats         StatsJSON    `json:"stats"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Increments int `json:"increments"`
	Decrements int `json:"decrements"`
	AlarmOn    int `json:"alarm_on"`
	AlarmOff   int `json:"alarm_off"`
}

// StatsJSON is the JSON representation of loop totals.
type StatsJSON struct {
	Samples       uint64 `json:"samples"`
	SampleErrors  uint64 `json:"sample_errors"`
	Refreshes     uint64 `json:"refreshes"`
	RefreshErrors uint64 `json:"refresh_errors"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	RefreshUs   int64  `json:"refresh_us"`
	SettleMs    int64  `json:"settle_ms"`
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	ADCChannel  int    `json:"adc_channel"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Counter:       snap.Counter,
		Reading:       snap.Reading,
		ReadingHex:    fmt.Sprintf("%02X", snap.Reading),
		Alarm:         snap.Alarm,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Increments: snap.Counts.Increments,
			Decrements: snap.Counts.Decrements,
			AlarmOn:    snap.Counts.AlarmOn,
			AlarmOff:   snap.Counts.AlarmOff,
		},
		Stats: StatsJSON{
			Samples:       snap.Stats.Samples,
			SampleErrors:  snap.Stats.SampleErrors,
			Refreshes:     snap.Stats.Refreshes,
			RefreshErrors: snap.Stats.RefreshErrors,
		},
		Config: ConfigJSON{
			RefreshUs:   snap.Config.RefreshUs,
			SettleMs:    snap.Config.SettleMs,
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			ADCChannel:  snap.Config.ADCChannel,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
