package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mrk-foods/cardsysbackend/models"
	"github.com/mrk-foods/cardsysbackend/repository"
)

// Event is the push frame delivered to dashboard clients: the full ordered
// employee list after every store change.
type Event struct {
	Type      string            `json:"type"`
	Employees []models.Employee `json:"employees"`
	Timestamp int64             `json:"timestamp"`
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans the store's watch subscription out to websocket clients. It
// owns exactly one subscription and cancels it on Close.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	store      repository.EmployeeStore
	sub        *repository.Subscription
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub(store repository.EmployeeStore) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		store:      store,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	h.sub = h.store.Watch()
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case employees, ok := <-h.sub.C:
			if !ok {
				return
			}
			h.broadcast(employees)
		case <-h.done:
			h.sub.Cancel()
			return
		}
	}
}

// Close cancels the store subscription and stops the run loop.
func (h *Hub) Close() {
	close(h.done)
}

func (h *Hub) broadcast(employees []models.Employee) {
	if employees == nil {
		employees = []models.Employee{}
	}
	encoded, err := json.Marshal(Event{
		Type:      "employees",
		Employees: employees,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		log.Printf("realtime: failed to marshal event: %v", err)
		return
	}

	h.mu.Lock()
	for client := range h.clients {
		select {
		case client.send <- encoded:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and registers a client
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade error: %v", err)
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 16)}
	h.register <- client

	// writer
	go func() {
		for msg := range client.send {
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		client.conn.Close()
	}()

	// reader (just consume pings/close)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister <- client
}
