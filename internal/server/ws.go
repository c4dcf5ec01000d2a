package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/signite/internal/app"
	"github.com/ayusman/signite/internal/detector"
)

// maxMessageSize bounds one client message; two hands of landmarks fit well
// within it.
const maxMessageSize = 64 << 10

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Client message types on /api/recognize.
const (
	msgFrame = "frame"
	msgReset = "reset"
	msgAck   = "ack"
)

type wireHand struct {
	Points     []detector.Point3D `json:"points"`
	Handedness string             `json:"handedness,omitempty"`
	Score      float64            `json:"score,omitempty"`
}

type clientMessage struct {
	Type      string     `json:"type"`
	Timestamp int64      `json:"timestamp"`
	Hands     []wireHand `json:"hands"`
}

type errorMessage struct {
	Error string `json:"error"`
}

// decodeHands converts wire hands, rejecting any without exactly 21 points.
func decodeHands(in []wireHand) ([]detector.HandLandmarks, error) {
	hands := make([]detector.HandLandmarks, len(in))
	for i, h := range in {
		if len(h.Points) != detector.NumLandmarks {
			return nil, fmt.Errorf("hand %d has %d points, want %d", i, len(h.Points), detector.NumLandmarks)
		}
		copy(hands[i].Points[:], h.Points)
		hands[i].Handedness = h.Handedness
		hands[i].Score = h.Score
	}
	return hands, nil
}

// RecognizeHandler runs one recognition session per WebSocket connection.
// Clients send landmark frames and receive the engine result for each.
type RecognizeHandler struct {
	app *app.App
}

// NewRecognizeHandler creates a RecognizeHandler over a.
func NewRecognizeHandler(a *app.App) *RecognizeHandler {
	return &RecognizeHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	session := h.app.NewSession()
	log.Printf("Recognition session %s opened", session.ID())
	defer log.Printf("Recognition session %s closed", session.ID())

	// The greeting carries the session id and the current target.
	if err := conn.WriteJSON(session.Status()); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if err := conn.WriteJSON(errorMessage{Error: "invalid JSON"}); err != nil {
				return
			}
			continue
		}

		switch msg.Type {
		case msgFrame:
			hands, err := decodeHands(msg.Hands)
			if err != nil {
				if err := conn.WriteJSON(errorMessage{Error: err.Error()}); err != nil {
					return
				}
				continue
			}
			ts := msg.Timestamp
			if ts <= 0 {
				ts = time.Now().UnixMilli()
			}
			if err := conn.WriteJSON(session.ProcessFrame(hands, ts)); err != nil {
				return
			}
		case msgReset:
			session.Reset()
		case msgAck:
			session.Acknowledge()
		default:
			if err := conn.WriteJSON(errorMessage{Error: "unknown message type: " + msg.Type}); err != nil {
				return
			}
		}
	}
}

// EventsHandler broadcasts lesson progress events to every connected client.
type EventsHandler struct {
	clients map[*websocket.Conn]chan app.Event
	mu      sync.RWMutex
}

// NewEventsHandler creates an EventsHandler subscribed to a.
func NewEventsHandler(a *app.App) *EventsHandler {
	h := &EventsHandler{clients: make(map[*websocket.Conn]chan app.Event)}
	a.OnEvent(h.broadcast)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events := make(chan app.Event, 16)
	h.mu.Lock()
	h.clients[conn] = events
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

// broadcast queues ev for every client. Clients that fall behind lose events
// rather than stall the caller.
func (h *EventsHandler) broadcast(ev app.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
