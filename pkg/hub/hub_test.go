package hub

import (
	"testing"
)

func TestNewHub(t *testing.T) {
	h := New("status")
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", h.ClientCount())
	}
	if h.IsRunning() {
		t.Error("IsRunning() = true before Run()")
	}
}

func TestBroadcastJSON(t *testing.T) {
	h := New("status")

	if err := h.BroadcastJSON(map[string]string{"guidance": "ok"}); err != nil {
		t.Errorf("BroadcastJSON() error = %v", err)
	}

	// Unmarshalable values must surface the error, not panic.
	if err := h.BroadcastJSON(make(chan int)); err == nil {
		t.Error("BroadcastJSON(chan) should fail")
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := New("camera")

	// No Run loop draining: fill the channel past capacity. The overflow
	// message must be dropped without blocking.
	for i := 0; i < 300; i++ {
		h.BroadcastBinary([]byte{0x01})
	}
}

func TestMessageConstructors(t *testing.T) {
	j := NewJSONMessage([]byte(`{}`))
	if j.Type != JSONMessage {
		t.Errorf("Type = %v, want JSONMessage", j.Type)
	}

	b := NewBinaryMessage([]byte{0xFF})
	if b.Type != BinaryMessage {
		t.Errorf("Type = %v, want BinaryMessage", b.Type)
	}
}
