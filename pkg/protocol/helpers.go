package protocol

import (
	"encoding/base64"
	"fmt"
	"time"
)

// NewFrameMessage creates a frame message with base64-encoded JPEG data.
func NewFrameMessage(width, height int, jpegData []byte, frameID uint64) (*Message, error) {
	return NewMessage(TypeFrame, FrameData{
		Width:   width,
		Height:  height,
		Format:  "jpeg",
		Data:    base64.StdEncoding.EncodeToString(jpegData),
		FrameID: frameID,
	})
}

// NewErrorMessage creates an error message.
func NewErrorMessage(reason string) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Reason: reason})
}

// NewReadyMessage creates a ready handshake message.
func NewReadyMessage() (*Message, error) {
	return NewMessage(TypeReady, nil)
}

// NewGuidanceMessage creates a guidance update message.
func NewGuidanceMessage(guidance string, safeToMove bool, warning string, objectCount int) (*Message, error) {
	return NewMessage(TypeGuidance, GuidanceData{
		Guidance:    guidance,
		SafeToMove:  safeToMove,
		Warning:     warning,
		ObjectCount: objectCount,
	})
}

// NewDetectionsMessage creates a diagnostic detections message.
func NewDetectionsMessage(detections []DetectionData) (*Message, error) {
	return NewMessage(TypeDetections, detections)
}

// NewPingMessage creates a ping message.
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NewPongMessage creates a pong response for a ping.
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// GetFrameData extracts frame data from a frame message.
func (m *Message) GetFrameData() (*FrameData, error) {
	if m.Type != TypeFrame {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypeFrame)
	}
	var data FrameData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetErrorData extracts error data from an error message.
func (m *Message) GetErrorData() (*ErrorData, error) {
	if m.Type != TypeError {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypeError)
	}
	var data ErrorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetGuidanceData extracts guidance data from a guidance message.
func (m *Message) GetGuidanceData() (*GuidanceData, error) {
	if m.Type != TypeGuidance {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypeGuidance)
	}
	var data GuidanceData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a ping message.
func (m *Message) GetPingData() (*PingData, error) {
	if m.Type != TypePing {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypePing)
	}
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a pong message.
func (m *Message) GetPongData() (*PongData, error) {
	if m.Type != TypePong {
		return nil, fmt.Errorf("message type is %s, not %s", m.Type, TypePong)
	}
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DecodeFrameData decodes the base64 frame payload.
func (f *FrameData) DecodeFrameData() ([]byte, error) {
	return base64.StdEncoding.DecodeString(f.Data)
}
