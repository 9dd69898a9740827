// Package web provides the real-time status dashboard.
//
// The dashboard shows the current guidance phrase, the safety verdict, the
// detected objects and a live camera preview. State flows in from the main
// loop; browsers subscribe over websockets.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/wayfinder-ai/go-wayfinder/internal/log"
	"github.com/wayfinder-ai/go-wayfinder/pkg/guidance"
	"github.com/wayfinder-ai/go-wayfinder/pkg/hub"
)

// NavState is the dashboard's view of the navigation loop.
type NavState struct {
	Guidance      string `json:"guidance"`
	SafeToMove    bool   `json:"safe_to_move"`
	Warning       string `json:"warning,omitempty"`
	ObjectCount   int    `json:"object_count"`
	SpeechState   string `json:"speech_state"`
	SourceKind    string `json:"source_kind"` // "webcam" or "remote"
	DetectorReady bool   `json:"detector_ready"`

	FramesCaptured uint64 `json:"frames_captured"`
	FramesDropped  uint64 `json:"frames_dropped"`
	Inferences     uint64 `json:"inferences"`
}

// ObjectView is one detected object as shown on the dashboard.
type ObjectView struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Type       string  `json:"type"`
	Priority   string  `json:"priority"`
	Direction  string  `json:"direction"`
	Distance   float64 `json:"distance"`
}

// LogEntry represents a log line for the dashboard.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, speech, detection, error
	Message string `json:"message"`
}

const maxLogEntries = 500

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	port string

	// State
	state   NavState
	stateMu sync.RWMutex

	// Last scene's objects
	objects   []ObjectView
	objectsMu sync.RWMutex

	// Log buffer
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast
	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub
}

// NewServer creates a dashboard server listening on the given port.
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		logs:      make([]LogEntry, 0, maxLogEntries),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Wayfinder Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/objects", s.handleObjects)
	api.Get("/logs", s.handleGetLogs)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))

	s.app = app
	return s
}

// Start starts the web server. It blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.logHub.Run()
	go s.cameraHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// UpdateState mutates the dashboard state and broadcasts it.
func (s *Server) UpdateState(update func(*NavState)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// SetScene publishes a navigation context to the dashboard.
func (s *Server) SetScene(nav guidance.NavigationContext) {
	views := make([]ObjectView, 0, len(nav.Objects))
	for _, obj := range nav.Objects {
		views = append(views, ObjectView{
			Label:      obj.Label,
			Confidence: obj.Confidence,
			Type:       obj.Type.String(),
			Priority:   obj.Priority.String(),
			Direction:  obj.Direction.String(),
			Distance:   obj.Distance,
		})
	}

	s.objectsMu.Lock()
	s.objects = views
	s.objectsMu.Unlock()

	s.UpdateState(func(st *NavState) {
		st.Guidance = nav.Guidance
		st.SafeToMove = nav.SafeToMove
		st.Warning = nav.Warning
		st.ObjectCount = len(nav.Objects)
	})
}

// AddLog adds a log entry and broadcasts it.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// SendCameraFrame sends a camera frame to all preview clients.
func (s *Server) SendCameraFrame(jpegData []byte) {
	s.cameraHub.BroadcastBinary(jpegData)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
