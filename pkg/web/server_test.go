package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wayfinder-ai/go-wayfinder/pkg/guidance"
)

func TestHandleStatus(t *testing.T) {
	s := NewServer("0")
	s.UpdateState(func(st *NavState) {
		st.Guidance = "chair directly ahead. Proceed with caution."
		st.SafeToMove = true
		st.ObjectCount = 1
		st.SpeechState = "idle"
	})

	req := httptest.NewRequest("GET", "/api/status", nil)
	resp, err := s.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var state NavState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Guidance != "chair directly ahead. Proceed with caution." {
		t.Errorf("Guidance = %q", state.Guidance)
	}
	if !state.SafeToMove {
		t.Error("SafeToMove = false, want true")
	}
}

func TestHandleObjectsEmpty(t *testing.T) {
	s := NewServer("0")

	req := httptest.NewRequest("GET", "/api/objects", nil)
	resp, err := s.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestSetScenePublishesObjects(t *testing.T) {
	s := NewServer("0")

	nav := guidance.NavigationContext{
		Objects: []guidance.DetectedObject{
			{
				Label:      "car",
				Confidence: 0.9,
				Type:       guidance.TypeVehicle,
				Priority:   guidance.PriorityCritical,
				Direction:  guidance.Center,
				Distance:   0.2,
			},
		},
		Guidance:   "STOP! car detected directly ahead. Wait for it to pass.",
		SafeToMove: false,
		Warning:    "Vehicle nearby! Do not move until it passes.",
		Timestamp:  time.Now(),
	}
	s.SetScene(nav)

	req := httptest.NewRequest("GET", "/api/objects", nil)
	resp, err := s.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	defer resp.Body.Close()

	var objects []ObjectView
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(objects))
	}
	if objects[0].Label != "car" {
		t.Errorf("Label = %q, want car", objects[0].Label)
	}
	if objects[0].Priority != "critical" {
		t.Errorf("Priority = %q, want critical", objects[0].Priority)
	}

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.state.SafeToMove {
		t.Error("SafeToMove = true, want false after unsafe scene")
	}
	if s.state.ObjectCount != 1 {
		t.Errorf("ObjectCount = %d, want 1", s.state.ObjectCount)
	}
}

func TestAddLogCapsBuffer(t *testing.T) {
	s := NewServer("0")

	for i := 0; i < maxLogEntries+10; i++ {
		s.AddLog("info", "entry")
	}

	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	if len(s.logs) != maxLogEntries {
		t.Errorf("logs = %d, want %d", len(s.logs), maxLogEntries)
	}
}

func TestHandleGetLogs(t *testing.T) {
	s := NewServer("0")
	s.AddLog("speech", "spoke guidance")

	req := httptest.NewRequest("GET", "/api/logs", nil)
	resp, err := s.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	defer resp.Body.Close()

	var logs []LogEntry
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	if logs[0].Type != "speech" {
		t.Errorf("Type = %q, want speech", logs[0].Type)
	}
}
