// Package remote provides a frame source fed by a companion device (for
// example a phone app) that publishes camera frames over a WebSocket.
// It implements camera.Source so the pipeline cannot tell it apart from a
// local webcam.
package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wayfinder-ai/go-wayfinder/internal/log"
	"github.com/wayfinder-ai/go-wayfinder/pkg/camera"
	"github.com/wayfinder-ai/go-wayfinder/pkg/guidance"
	"github.com/wayfinder-ai/go-wayfinder/pkg/protocol"
)

const (
	defaultDialTimeout = 10 * time.Second
	defaultReadLimit   = 4 * 1024 * 1024 // companion frames can be large
	writeWait          = 10 * time.Second
)

// Config holds the companion connection settings.
type Config struct {
	// URL is the websocket endpoint of the companion feed.
	URL string
	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration
}

// DefaultConfig returns connection defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:         url,
		DialTimeout: defaultDialTimeout,
	}
}

// Source receives frames from a companion device. Frames arriving faster
// than the consumer takes them are dropped, never queued, so a slow
// inference loop cannot build up latency.
type Source struct {
	conn *websocket.Conn

	frames chan camera.Frame

	// writeMu serializes writes; pongs from the read loop and guidance
	// from the app share the connection.
	writeMu sync.Mutex

	mu      sync.Mutex
	closed  bool
	lastErr error

	done chan struct{}
}

// Dial connects to the companion feed and starts receiving frames.
func Dial(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote: URL required")
	}
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = defaultDialTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", cfg.URL, err)
	}
	conn.SetReadLimit(defaultReadLimit)

	s := &Source{
		conn:   conn,
		frames: make(chan camera.Frame, 1),
		done:   make(chan struct{}),
	}

	// Handshake: tell the companion we are ready for frames.
	ready, err := protocol.NewReadyMessage()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := s.sendMessage(ready); err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: handshake: %w", err)
	}

	go s.readLoop()

	log.Info("companion feed connected", "url", cfg.URL)
	return s, nil
}

// readLoop receives and dispatches companion messages until the
// connection dies or the source is closed.
func (s *Source) readLoop() {
	defer close(s.done)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if !s.closed {
				s.lastErr = err
			}
			s.mu.Unlock()
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Warn("companion sent unparseable message", "error", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeFrame:
			s.handleFrame(msg)

		case protocol.TypePing:
			s.handlePing(msg)

		case protocol.TypeError:
			if ed, err := msg.GetErrorData(); err == nil {
				log.Warn("companion reported error", "reason", ed.Reason)
			}

		default:
			log.Debug("ignoring companion message", "type", msg.Type)
		}
	}
}

func (s *Source) handleFrame(msg *protocol.Message) {
	fd, err := msg.GetFrameData()
	if err != nil {
		log.Warn("bad frame message", "error", err)
		return
	}
	jpeg, err := fd.DecodeFrameData()
	if err != nil {
		log.Warn("bad frame payload", "error", err)
		return
	}

	frame := camera.Frame{
		JPEG:      jpeg,
		Width:     fd.Width,
		Timestamp: time.Now(),
	}

	// Drop the frame if the consumer has not taken the previous one.
	select {
	case s.frames <- frame:
	default:
		log.Debug("dropping companion frame, consumer busy", "frame_id", fd.FrameID)
	}
}

func (s *Source) handlePing(msg *protocol.Message) {
	pd, err := msg.GetPingData()
	if err != nil {
		return
	}
	pong, err := protocol.NewPongMessage(pd.ID, pd.Timestamp, time.Now().UnixMilli())
	if err != nil {
		return
	}
	if err := s.sendMessage(pong); err != nil {
		log.Debug("pong write failed", "error", err)
	}
}

// sendMessage writes one protocol message to the companion.
func (s *Source) sendMessage(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// SendGuidance pushes the current navigation verdict back to the
// companion so it can display or vibrate on it.
func (s *Source) SendGuidance(nav guidance.NavigationContext) error {
	msg, err := protocol.NewGuidanceMessage(nav.Guidance, nav.SafeToMove, nav.Warning, len(nav.Objects))
	if err != nil {
		return err
	}
	return s.sendMessage(msg)
}

// SendDetections pushes per-object diagnostics to the companion.
func (s *Source) SendDetections(objects []guidance.DetectedObject) error {
	detections := make([]protocol.DetectionData, 0, len(objects))
	for _, obj := range objects {
		detections = append(detections, protocol.DetectionData{
			Label:      obj.Label,
			Confidence: obj.Confidence,
			Direction:  obj.Direction.String(),
			Distance:   obj.Distance,
			Priority:   obj.Priority.String(),
		})
	}
	msg, err := protocol.NewDetectionsMessage(detections)
	if err != nil {
		return err
	}
	return s.sendMessage(msg)
}

// NextFrame returns the next companion frame, blocking until one arrives,
// the context is done, or the connection closes.
func (s *Source) NextFrame(ctx context.Context) (camera.Frame, error) {
	select {
	case frame := <-s.frames:
		return frame, nil
	case <-ctx.Done():
		return camera.Frame{}, ctx.Err()
	case <-s.done:
		s.mu.Lock()
		err := s.lastErr
		s.mu.Unlock()
		if err == nil {
			err = fmt.Errorf("remote: connection closed")
		}
		return camera.Frame{}, err
	}
}

// Close shuts down the connection. Safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.conn.Close()
	<-s.done
	return err
}

// Verify Source implements camera.Source at compile time.
var _ camera.Source = (*Source)(nil)
