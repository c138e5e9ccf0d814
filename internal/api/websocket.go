package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/file-analyzer/backend/internal/models"
	"github.com/file-analyzer/backend/internal/submission"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket message types
const (
	// Client -> Server messages
	MsgTypePing = "ping"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeView      = "view"
	MsgTypePong      = "pong"
)

// pingInterval keeps idle connections alive through proxies
const pingInterval = 30 * time.Second

// WSMessage is the envelope for every frame
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// StreamHandlerImpl pushes a surface's views over a WebSocket
type StreamHandlerImpl struct {
	surfaces *submission.Manager
	upgrader websocket.Upgrader
	maxRead  int64
}

// NewStreamHandler creates a new view stream handler. maxMessageKB bounds
// inbound frames.
func NewStreamHandler(surfaces *submission.Manager, maxMessageKB int) StreamHandler {
	if maxMessageKB <= 0 {
		maxMessageKB = 64
	}
	return &StreamHandlerImpl{
		surfaces: surfaces,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		maxRead: int64(maxMessageKB) * 1024,
	}
}

// HandleSurfaceStream upgrades to a WebSocket and sends one "view" message per
// state transition until either side goes away
func (h *StreamHandlerImpl) HandleSurfaceStream(c echo.Context) error {
	id := c.Param("id")
	s, ok := h.surfaces.Get(id)
	if !ok {
		return NewNotFoundError("surface", id)
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	ws.SetReadLimit(h.maxRead)

	fmt.Printf("[WebSocket %s] Client connected\n", id[:8])

	views, unsubscribe := s.Controller.Subscribe()
	defer unsubscribe()

	// Reader: answers pings and notices disconnects.
	inbound := make(chan WSMessage, 4)
	closed := make(chan struct{})
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(closed)
		for {
			var msg WSMessage
			if err := ws.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					fmt.Printf("[WebSocket %s] Connection error: %v\n", id[:8], err)
				}
				return
			}
			select {
			case inbound <- msg:
			case <-done:
				return
			}
		}
	}()

	if err := send(ws, WSMessage{Type: MsgTypeConnected, ID: id}); err != nil {
		return nil
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case view, ok := <-views:
			if !ok {
				return nil
			}
			if err := sendView(ws, id, view); err != nil {
				return nil
			}
		case msg := <-inbound:
			if msg.Type == MsgTypePing {
				if err := send(ws, WSMessage{Type: MsgTypePong, ID: id}); err != nil {
					return nil
				}
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return nil
			}
		case <-closed:
			fmt.Printf("[WebSocket %s] Client disconnected\n", id[:8])
			return nil
		}
	}
}

func sendView(ws *websocket.Conn, id string, view models.View) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return send(ws, WSMessage{Type: MsgTypeView, ID: id, Payload: payload})
}

func send(ws *websocket.Conn, msg WSMessage) error {
	msg.Timestamp = time.Now().UnixMilli()
	return ws.WriteJSON(msg)
}
