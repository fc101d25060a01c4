// Package mqtt publishes detector state changes and daemon lifecycle events
// to an MQTT broker, with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/world"
)

// Topic is the MQTT topic for detector state-change events.
const Topic = "redstone/daylight/events"

// TopicState is the prefix for per-detector retained state messages.
const TopicState = "redstone/daylight/state"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "redstone/daylight/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a detector state change to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event Event) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event is one committed detector state change.
type Event struct {
	Timestamp time.Time
	Pos       world.BlockPos
	Power     logic.PowerLevel
	Inverted  bool
	Notify    world.NotifyStrength
}

// SystemEvent represents a daemon lifecycle event (startup, shutdown,
// heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// StateTopic returns the retained state topic for one detector position.
func StateTopic(pos world.BlockPos) string {
	return fmt.Sprintf("%s/%d.%d.%d", TopicState, pos.X, pos.Y, pos.Z)
}

// Payload is the MQTT message payload structure for detector events.
type Payload struct {
	Detector DetectorPayload `json:"detector"`
}

// DetectorPayload contains the detector event details.
type DetectorPayload struct {
	Timestamp string          `json:"timestamp"`
	Position  PositionPayload `json:"position"`
	Power     int             `json:"power"`
	Inverted  bool            `json:"inverted"`
	Notify    string          `json:"notify"`
}

// PositionPayload is the detector's block position.
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// FormatPayload creates the JSON payload for a detector event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Detector: DetectorPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Position:  PositionPayload{X: event.Pos.X, Y: event.Pos.Y, Z: event.Pos.Z},
			Power:     int(event.Power),
			Inverted:  event.Inverted,
			Notify:    event.Notify.String(),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for lifecycle events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
