// Package protocol defines the WebSocket message types exchanged with a
// companion device that streams camera frames, and with dashboard clients
// receiving guidance updates. Every message is a tagged envelope: the type
// field discriminates the payload, so receivers never sniff payload shapes.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Companion → Host messages
	TypeFrame MessageType = "frame" // Camera frame
	TypeError MessageType = "error" // Companion-side failure

	// Host → Companion / dashboard messages
	TypeReady      MessageType = "ready"      // Host accepting frames
	TypeGuidance   MessageType = "guidance"   // Navigation context update
	TypeDetections MessageType = "detections" // Raw detections, for diagnostics

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct.
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message.
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// FrameData contains a camera frame from the companion device.
type FrameData struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Format  string `json:"format"` // "jpeg"
	Data    string `json:"data"`   // base64 encoded
	FrameID uint64 `json:"frame_id,omitempty"`
}

// ErrorData reports a companion-side failure; the host responds by
// carrying on with an empty detection set, never by crashing.
type ErrorData struct {
	Reason string `json:"reason"`
}

// GuidanceData mirrors one navigation context for remote display.
type GuidanceData struct {
	Guidance    string `json:"guidance"`
	SafeToMove  bool   `json:"safe_to_move"`
	Warning     string `json:"warning,omitempty"`
	ObjectCount int    `json:"object_count"`
}

// DetectionData is one raw detection, exposed for diagnostic display.
type DetectionData struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Direction  string  `json:"direction"`
	Distance   float64 `json:"distance"`
	Priority   string  `json:"priority"`
}

// PingData contains ping information.
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response.
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
