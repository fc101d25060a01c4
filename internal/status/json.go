package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string           `json:"event,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Detectors     []DetectorJSON   `json:"detectors"`
	World         WorldJSON        `json:"world"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	InstanceID    string           `json:"instance_id"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Counts        CountsJSON       `json:"write_counts"`
	Config        ConfigJSON       `json:"config"`
}

// DetectorJSON is the JSON representation of one detector.
type DetectorJSON struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Z        int  `json:"z"`
	Inverted bool `json:"inverted"`
	Power    int  `json:"power"`
}

// WorldJSON reports the simulation clock and weather.
type WorldJSON struct {
	DayTime int64   `json:"day_time"`
	Rain    float64 `json:"rain"`
	Thunder float64 `json:"thunder"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of write counts.
type CountsJSON struct {
	PowerWrites int `json:"power_writes"`
	ModeFlips   int `json:"mode_flips"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickRateHz     int    `json:"tick_rate_hz"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Broker         string `json:"broker"`
	HTTPAddr       string `json:"http_addr"`
	DBPath         string `json:"db_path,omitempty"`
	SkylightSource string `json:"skylight_source"`
	Weather        bool   `json:"weather"`
}

func buildInner(snap Snapshot) StatusInner {
	detectors := make([]DetectorJSON, 0, len(snap.Detectors))
	for _, d := range snap.Detectors {
		detectors = append(detectors, DetectorJSON{
			X:        d.Pos.X,
			Y:        d.Pos.Y,
			Z:        d.Pos.Z,
			Inverted: d.Inverted,
			Power:    int(d.Power),
		})
	}

	return StatusInner{
		Detectors: detectors,
		World: WorldJSON{
			DayTime: snap.DayTime,
			Rain:    snap.Rain,
			Thunder: snap.Thunder,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		InstanceID:    snap.InstanceID,
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			PowerWrites: snap.Counts.PowerWrites,
			ModeFlips:   snap.Counts.ModeFlips,
		},
		Config: ConfigJSON{
			TickRateHz:     snap.Config.TickRateHz,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
			DBPath:         snap.Config.DBPath,
			SkylightSource: snap.Config.SkylightSource,
			Weather:        snap.Config.Weather,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
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
