package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"decor-marketplace-server/models"
)

// Client is one live connection. A user may hold several, one per open tab.
type Client struct {
	Hub   *Hub
	Email string
	Role  string
	Conn  *websocket.Conn
	Send  chan []byte
}

// Hub tracks live connections by account email
type Hub struct {
	clients map[string]map[*Client]bool

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	done chan struct{}
	mu   sync.RWMutex
}

// Message is the envelope pushed to browsers
type Message struct {
	Type      string      `json:"type"`
	Event     string      `json:"event,omitempty"`
	BookingID uint        `json:"bookingId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

const MessageBookingEvent = "booking_event"

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register and unregister requests until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.Email] == nil {
				h.clients[client.Email] = make(map[*Client]bool)
			}
			h.clients[client.Email][client] = true
			h.mu.Unlock()
			log.Printf("🔌 Client registered: %s (%s)", client.Email, client.Role)

		case client := <-h.Unregister:
			h.remove(client)
			log.Printf("🔌 Client unregistered: %s", client.Email)

		case <-h.done:
			h.mu.Lock()
			for email, conns := range h.clients {
				for c := range conns {
					close(c.Send)
				}
				delete(h.clients, email)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.Email]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(h.clients, client.Email)
	}
}

// SendToUser delivers to every connection of the user and reports how many got it
func (h *Hub) SendToUser(email string, message *Message) int {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := h.clients[models.NormalizeEmail(email)]
	delivered := 0
	for client := range conns {
		select {
		case client.Send <- data:
			delivered++
		default:
			log.Printf("⚠️ Send buffer full for %s, dropping %s", email, message.Type)
		}
	}
	return delivered
}

// ConnectedUsers returns the emails with at least one live connection
func (h *Hub) ConnectedUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]string, 0, len(h.clients))
	for email := range h.clients {
		users = append(users, email)
	}
	return users
}

func (h *Hub) IsUserConnected(email string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[models.NormalizeEmail(email)]) > 0
}
