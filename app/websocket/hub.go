// Package websocket broadcasts store events to connected dashboard clients.
package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event names pushed to clients.
const (
	EventSupplierUpdate     = "supplier-update"
	EventUpdate             = "update"
	EventOrderAdded         = "order-added"
	EventOrderStatusUpdated = "order-status-updated"
	EventSaleAdded          = "saleAdded"
	EventHeartbeat          = "heartbeat"
)

// Message is the envelope every broadcast travels in.
type Message struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// inboundMessage is what clients may send back; a "newSale" is relayed to
// every client as "saleAdded".
type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client is one connected websocket peer.
type Client struct {
	ID          string
	Connection  *websocket.Conn
	Send        chan []byte
	Hub         *Hub
	ConnectedAt time.Time
	RemoteAddr  string
}

// Hub fans events out to every connected client.
type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	upgrader   websocket.Upgrader
	mu         sync.RWMutex
}

// NewHub creates a hub; call Run in a goroutine before serving connections.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run handles the main hub loop.
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second) // Heartbeat every 30 seconds
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("Client registered: %s (%s)", client.ID, client.RemoteAddr)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				h.mu.Unlock()

				// Close channel safely
				go func(c *Client) {
					defer func() {
						if r := recover(); r != nil {
							// Channel already closed, ignore
						}
					}()
					close(c.Send)
				}(client)

				log.Printf("Client unregistered: %s", client.ID)
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Client buffer is full, disconnect
					delete(h.clients, id)
					go func(c *Client) {
						defer func() {
							if r := recover(); r != nil {
								// Channel already closed, ignore
							}
						}()
						close(c.Send)
					}(client)
				}
			}
			h.mu.Unlock()

		case <-ticker.C:
			h.Emit(EventHeartbeat, map[string]string{"ping": "pong"})
		}
	}
}

// Emit broadcasts an event to every connected client.
func (h *Hub) Emit(event string, payload interface{}) {
	data, err := json.Marshal(Message{
		Event:     event,
		Data:      payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event, err)
		return
	}

	h.broadcast <- data
}

// HandleWS upgrades the connection and starts the client pumps.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Hub:         h,
		ConnectedAt: time.Now(),
		RemoteAddr:  r.RemoteAddr,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// HandleHealth reports hub status and connected-client count.
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": h.ClientCount(),
		"time":    time.Now(),
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// DisconnectClient closes a specific client's connection.
func (h *Hub) DisconnectClient(clientID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.clients[clientID]
	if !exists {
		return fmt.Errorf("client not found: %s", clientID)
	}

	client.Connection.Close()
	delete(h.clients, clientID)

	return nil
}

// readPump handles reading messages from the client.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Connection.Close()
	}()

	c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Connection.SetPongHandler(func(string) error {
		c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := c.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var message inboundMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			log.Printf("Error parsing message: %v", err)
			continue
		}

		c.handleMessage(&message)
	}
}

// writePump handles writing messages to the client.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Connection.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage handles inbound client messages.
func (c *Client) handleMessage(message *inboundMessage) {
	switch message.Event {
	case "newSale":
		// Point-of-sale clients announce a sale; relay it to everyone.
		c.Hub.Emit(EventSaleAdded, message.Data)

	case EventHeartbeat:
		data, _ := json.Marshal(Message{
			Event:     EventHeartbeat,
			Data:      map[string]string{"status": "alive"},
			Timestamp: time.Now(),
		})
		select {
		case c.Send <- data:
		default:
		}

	default:
		log.Printf("Unknown event from client %s: %s", c.ID, message.Event)
	}
}
