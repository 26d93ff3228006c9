package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jinxian630/Assigment-MiniProject/logger"
	"github.com/jinxian630/Assigment-MiniProject/types"
)

// Message type tags used on the wire.
const (
	wsTypeLog        = "log"
	wsTypeHeartbeat  = "heartbeat"
	wsTypeConnection = "connection"
)

// LogServer streams request activity to browser clients over websocket.
// New clients receive the buffered recent activity before live frames.
type LogServer struct {
	hub           *Hub
	port          int
	server        *http.Server
	logBuffer     []types.ActivityLog
	bufferMutex   sync.RWMutex
	maxBufferSize int
	startTime     time.Time
	stopChan      chan struct{}
	wg            sync.WaitGroup
	log           *logger.Logger
}

// NewLogServer creates a websocket activity-log server on the given port.
func NewLogServer(port int) *LogServer {
	log := logger.New()
	log.SetComponent("websocket")
	return &LogServer{
		hub:           NewHub(),
		port:          port,
		logBuffer:     make([]types.ActivityLog, 0, 100),
		maxBufferSize: 100,
		startTime:     time.Now(),
		stopChan:      make(chan struct{}),
		log:           log,
	}
}

// Start starts the hub, the heartbeat and the HTTP listener.
func (s *LogServer) Start() error {
	go s.hub.Run()

	s.wg.Add(1)
	go s.startHeartbeat()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealthCheck)
	mux.HandleFunc("/stats", s.handleStats)

	s.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", s.port),
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.log.Infof("activity stream listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("activity stream server error: %v", err)
		}
	}()

	return nil
}

// Stop shuts the server down and waits for its goroutines.
func (s *LogServer) Stop() error {
	s.broadcastConnectionStatus(false)
	close(s.stopChan)

	if s.server != nil {
		if err := s.server.Close(); err != nil {
			s.log.Errorf("error closing activity stream: %v", err)
		}
	}

	s.hub.Stop()
	s.wg.Wait()
	s.log.Info("activity stream stopped")
	return nil
}

// handleWebSocket upgrades the connection and attaches it to the hub.
func (s *LogServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Development setup: the browser frontend runs on another port.
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	clientID := fmt.Sprintf("client-%d", time.Now().UnixNano())
	client := NewClient(s.hub, conn)
	client.hub.register <- client

	s.sendConnectionConfirmation(client, clientID)
	s.sendBufferedLogsToClient(client)

	go client.writePump()
	go client.readPump()
}

// BroadcastActivity sends an activity entry to all connected clients and
// records it in the replay buffer.
func (s *LogServer) BroadcastActivity(entry *types.ActivityLog) {
	if s == nil || entry == nil {
		return
	}
	s.addToBuffer(*entry)

	wsMsg := types.NewWebSocketMessage(wsTypeLog, entry)
	if data, err := wsMsg.ToJSON(); err == nil {
		s.hub.Broadcast(data)
	} else {
		s.log.Errorf("failed to marshal activity entry: %v", err)
	}
}

// BroadcastError is a convenience wrapper for error-level activity.
func (s *LogServer) BroadcastError(content string) {
	entry := types.NewActivityLog("error", content)
	entry.Level = "error"
	s.BroadcastActivity(entry)
}

func (s *LogServer) addToBuffer(entry types.ActivityLog) {
	s.bufferMutex.Lock()
	defer s.bufferMutex.Unlock()

	s.logBuffer = append(s.logBuffer, entry)
	if len(s.logBuffer) > s.maxBufferSize {
		s.logBuffer = s.logBuffer[len(s.logBuffer)-s.maxBufferSize:]
	}
}

func (s *LogServer) sendBufferedLogsToClient(client *Client) {
	s.bufferMutex.RLock()
	entries := make([]types.ActivityLog, len(s.logBuffer))
	copy(entries, s.logBuffer)
	s.bufferMutex.RUnlock()

	for _, entry := range entries {
		wsMsg := types.NewWebSocketMessage(wsTypeLog, entry)
		if data, err := wsMsg.ToJSON(); err == nil {
			select {
			case client.send <- data:
			default:
				// Client's send channel is full, skip.
			}
		}
	}
}

func (s *LogServer) sendConnectionConfirmation(client *Client, clientID string) {
	confirmation := map[string]interface{}{
		"connected": true,
		"clientId":  clientID,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	wsMsg := types.NewWebSocketMessage(wsTypeConnection, confirmation)
	if data, err := wsMsg.ToJSON(); err == nil {
		select {
		case client.send <- data:
		default:
		}
	}
}

func (s *LogServer) startHeartbeat() {
	defer s.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			heartbeat := map[string]interface{}{
				"timestamp": time.Now().Format(time.RFC3339),
				"uptime":    time.Since(s.startTime).Seconds(),
				"clients":   s.hub.ClientCount(),
			}
			wsMsg := types.NewWebSocketMessage(wsTypeHeartbeat, heartbeat)
			if data, err := wsMsg.ToJSON(); err == nil {
				s.hub.Broadcast(data)
			}
		}
	}
}

func (s *LogServer) broadcastConnectionStatus(connected bool) {
	status := map[string]interface{}{
		"connected": connected,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	wsMsg := types.NewWebSocketMessage(wsTypeConnection, status)
	if data, err := wsMsg.ToJSON(); err == nil {
		s.hub.Broadcast(data)
	}
}

func (s *LogServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"ok":true,"clients":%d}`, s.hub.ClientCount())
}

func (s *LogServer) handleStats(w http.ResponseWriter, r *http.Request) {
	s.bufferMutex.RLock()
	bufferSize := len(s.logBuffer)
	s.bufferMutex.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"uptime":%.1f,"clients":%d,"buffer_size":%d,"max_buffer":%d,"port":%d}`,
		time.Since(s.startTime).Seconds(), s.hub.ClientCount(), bufferSize, s.maxBufferSize, s.port)
}
