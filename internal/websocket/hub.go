package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub pushes session-revocation notices to a user's connected devices so
// they can drop their credentials without waiting for the next 401.
type Hub struct {
	clients    map[int64]map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	log.Printf("Client for user %d registered", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if userClients, ok := h.clients[client.UserID]; ok {
		if _, ok := userClients[client]; ok {
			delete(userClients, client)
			close(client.send)
			if len(userClients) == 0 {
				delete(h.clients, client.UserID)
			}
			log.Printf("Client for user %d unregistered", client.UserID)
		}
	}
}

type revocationNotice struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
}

// NotifySessionRevoked tells every connected device of the user that one
// session was terminated.
func (h *Hub) NotifySessionRevoked(userID int64, sessionID uuid.UUID) {
	h.publish(userID, revocationNotice{Type: "session_revoked", SessionID: sessionID.String()})
}

// NotifyAllSessionsRevoked tells every connected device of the user that a
// log-out-everywhere happened.
func (h *Hub) NotifyAllSessionsRevoked(userID int64) {
	h.publish(userID, revocationNotice{Type: "all_sessions_revoked"})
}

func (h *Hub) publish(userID int64, notice revocationNotice) {
	data, err := json.Marshal(notice)
	if err != nil {
		log.Printf("ERROR: Failed to marshal revocation notice: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if userClients, ok := h.clients[userID]; ok {
		for client := range userClients {
			select {
			case client.send <- data:
			default:
				log.Printf("WARN: Client for user %d send buffer is full. Dropping message.", userID)
			}
		}
	}
}
